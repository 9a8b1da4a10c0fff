// Package client is the storefront SDK: a websocket-fed replica of the
// server's order and product state, a local cart, and checkout against
// the REST surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// Options configures a storefront client.
type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:3000".
	BaseURL string

	// HTTPClient overrides the default checkout transport.
	HTTPClient *http.Client

	// Dialer overrides the default websocket dialer.
	Dialer *websocket.Dialer

	// ReconnectMin and ReconnectMax bound the backoff between connection
	// attempts.
	ReconnectMin time.Duration
	ReconnectMax time.Duration
}

// Client maintains the live replica and performs checkouts.
type Client struct {
	state   *State
	baseURL *url.URL
	httpc   *http.Client
	dialer  *websocket.Dialer

	reconnectMin time.Duration
	reconnectMax time.Duration
}

// New builds a client; Run must be started for the replica to sync.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", base.Scheme)
	}

	c := &Client{
		state:        NewState(),
		baseURL:      base,
		httpc:        opts.HTTPClient,
		dialer:       opts.Dialer,
		reconnectMin: opts.ReconnectMin,
		reconnectMax: opts.ReconnectMax,
	}
	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if c.dialer == nil {
		c.dialer = websocket.DefaultDialer
	}
	if c.reconnectMin <= 0 {
		c.reconnectMin = time.Second
	}
	if c.reconnectMax < c.reconnectMin {
		c.reconnectMax = 30 * time.Second
	}
	return c, nil
}

// State exposes the replica, cart, and notices.
func (c *Client) State() *State {
	return c.state
}

// Run connects to the push channel and keeps the replica synced until ctx
// is done, redialing with exponential backoff after any drop.
func (c *Client) Run(ctx context.Context) {
	c.state.setStatus(StatusConnecting)
	backoff := c.reconnectMin
	for {
		synced, _ := c.connectOnce(ctx)
		if ctx.Err() != nil {
			c.state.setStatus(StatusDisconnected)
			return
		}
		if synced {
			// The session reached a bootstrap, so the escalated backoff
			// belongs to an outage that is over.
			backoff = c.reconnectMin
		}

		c.state.setStatus(StatusReconnecting)
		select {
		case <-ctx.Done():
			c.state.setStatus(StatusDisconnected)
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.reconnectMax {
			backoff = c.reconnectMax
		}
	}
}

// connectOnce holds one websocket session until it drops. The read loop
// only ever exits on error (gorilla reports even a clean close as one), so
// the synced flag is how Run learns the session got far enough to apply a
// bootstrap.
func (c *Client) connectOnce(ctx context.Context) (synced bool, err error) {
	wsURL := *c.baseURL.JoinPath("ws")
	if wsURL.Scheme == "https" {
		wsURL.Scheme = "wss"
	} else {
		wsURL.Scheme = "ws"
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return false, fmt.Errorf("dialing push channel: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return synced, err
		}
		if err := c.state.Apply(raw); err != nil {
			return synced, fmt.Errorf("applying event: %w", err)
		}
		if c.state.Status() == StatusSynced {
			synced = true
		}
	}
}

// Checkout is the customer-entered half of an order; everything else the
// server derives.
type Checkout struct {
	CustomerName            string               `json:"customerName"`
	CustomerContact         string               `json:"customerContact"`
	CustomerEmail           string               `json:"customerEmail,omitempty"`
	DeliveryOption          model.DeliveryOption `json:"deliveryOption"`
	DeliveryAddress         string               `json:"deliveryAddress,omitempty"`
	ZelleConfirmationNumber string               `json:"zelleConfirmationNumber,omitempty"`
	IsRecurring             bool                 `json:"isRecurring"`
}

type orderSubmission struct {
	Checkout
	Items          []model.CartItem `json:"items"`
	DonationAmount int              `json:"donationAmount"`
	OrderNumber    string           `json:"orderNumber,omitempty"`
}

// PlaceOrder submits the current cart. The cart is cleared only after the
// server accepts; any rejection leaves it intact for another attempt.
func (c *Client) PlaceOrder(ctx context.Context, checkout Checkout) (model.Order, error) {
	s := c.state
	s.mu.RLock()
	items := make([]model.CartItem, len(s.cart))
	copy(items, s.cart)
	submission := orderSubmission{
		Checkout:       checkout,
		Items:          items,
		DonationAmount: s.donationAmount,
		OrderNumber:    s.cartID,
	}
	s.mu.RUnlock()

	body, err := json.Marshal(submission)
	if err != nil {
		return model.Order{}, fmt.Errorf("encoding order: %w", err)
	}

	endpoint := c.baseURL.JoinPath("api", "orders").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Order{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.Order{}, fmt.Errorf("submitting order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return model.Order{}, fmt.Errorf("order rejected: status %d: %s", resp.StatusCode, raw)
	}

	// The server has recorded the order; clear before decoding its echo so
	// a malformed body cannot leave a cart that would duplicate on retry.
	c.state.ClearCart()

	var envelope struct {
		Data model.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return model.Order{}, fmt.Errorf("decoding order response: %w", err)
	}
	return envelope.Data, nil
}
