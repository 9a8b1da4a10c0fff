// Package orders implements the order half of the mutation boundary:
// validate a submission, apply it to the store, broadcast the delta.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// Service defines the order mutation operations.
type Service interface {
	List(ctx context.Context) []model.Order
	Create(ctx context.Context, submission Submission) (model.Order, error)
	Patch(ctx context.Context, id string, patch model.OrderPatch) (model.Order, error)
}

// AuditLog receives best-effort copies of accepted mutations. Implemented
// by the journal; a nil log disables auditing.
type AuditLog interface {
	OrderCreated(ctx context.Context, order model.Order)
	OrderUpdated(ctx context.Context, order model.Order)
}

// Submission is the raw storefront payload. Identity, totals, and group
// assignment are all computed server-side; the client's only derived input
// is an optional existing cart reference for the order number.
type Submission struct {
	CustomerName            string               `json:"customerName" validate:"required"`
	CustomerContact         string               `json:"customerContact" validate:"required"`
	CustomerEmail           string               `json:"customerEmail" validate:"omitempty,email"`
	Items                   []model.CartItem     `json:"items"`
	DonationAmount          int                  `json:"donationAmount" validate:"min=0"`
	DeliveryOption          model.DeliveryOption `json:"deliveryOption" validate:"required"`
	DeliveryAddress         string               `json:"deliveryAddress"`
	ZelleConfirmationNumber string               `json:"zelleConfirmationNumber"`
	IsRecurring             bool                 `json:"isRecurring"`
	OrderNumber             string               `json:"orderNumber"`
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Store     *store.Store
	Publisher broadcast.Publisher
	Audit     AuditLog

	// Now and PickGroup exist so tests can pin time and group assignment.
	Now       func() time.Time
	PickGroup func() model.GroupName
}

type service struct {
	store     *store.Store
	publisher broadcast.Publisher
	audit     AuditLog
	now       func() time.Time
	pickGroup func() model.GroupName
}

// NewService wires the order mutation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order store required")
	}
	if params.Publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "broadcast publisher required")
	}
	svc := &service{
		store:     params.Store,
		publisher: params.Publisher,
		audit:     params.Audit,
		now:       params.Now,
		pickGroup: params.PickGroup,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.pickGroup == nil {
		svc.pickGroup = randomGroup
	}
	return svc, nil
}

func randomGroup() model.GroupName {
	rotation := model.GroupRotation()
	return rotation[rand.Intn(len(rotation))]
}

func (s *service) List(ctx context.Context) []model.Order {
	return s.store.Orders()
}

var orderNumberPattern = regexp.MustCompile(`^LW-\d{6}$`)

func (s *service) Create(ctx context.Context, submission Submission) (model.Order, error) {
	if err := s.validateSubmission(submission); err != nil {
		return model.Order{}, err
	}

	now := s.now().UTC()
	order := model.Order{
		ID:                      newOrderID(now),
		CustomerName:            strings.TrimSpace(submission.CustomerName),
		CustomerContact:         strings.TrimSpace(submission.CustomerContact),
		CustomerEmail:           strings.TrimSpace(submission.CustomerEmail),
		Items:                   s.normalizeItems(submission.Items),
		DonationAmount:          submission.DonationAmount,
		DeliveryOption:          submission.DeliveryOption,
		DeliveryAddress:         strings.TrimSpace(submission.DeliveryAddress),
		ZelleConfirmationNumber: strings.TrimSpace(submission.ZelleConfirmationNumber),
		IsRecurring:             submission.IsRecurring,
		IsFulfilled:             false,
		AssignedGroup:           s.pickGroup(),
		OrderDate:               now,
		OrderNumber:             resolveOrderNumber(submission.OrderNumber, now),
	}
	order.TotalPrice = order.LineTotal() + order.DonationAmount

	if err := s.store.InsertOrder(order); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return model.Order{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order id already exists")
		}
		return model.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
	}

	s.publisher.Publish(broadcast.OrderCreated(order))
	if s.audit != nil {
		s.audit.OrderCreated(ctx, order)
	}
	return order, nil
}

func (s *service) Patch(ctx context.Context, id string, patch model.OrderPatch) (model.Order, error) {
	if strings.TrimSpace(id) == "" {
		return model.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.validatePatch(patch); err != nil {
		return model.Order{}, err
	}

	current, ok := s.store.GetOrder(id)
	if !ok {
		return model.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	preview := patch.Apply(current)
	if preview.DeliveryOption == model.DeliveryHome && strings.TrimSpace(preview.DeliveryAddress) == "" {
		return model.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require an address")
	}

	merged, err := s.store.PatchOrder(id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return model.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "patch order")
	}

	s.publisher.Publish(broadcast.OrderUpdated(merged))
	if patch.MarksFulfilled() {
		s.publisher.Publish(broadcast.Notice(fmt.Sprintf(
			"Order %s for %s is ready for fulfillment!", merged.OrderNumber, merged.CustomerName,
		)))
	}
	if s.audit != nil {
		s.audit.OrderUpdated(ctx, merged)
	}
	return merged, nil
}

func (s *service) validateSubmission(submission Submission) error {
	details := map[string]string{}
	if strings.TrimSpace(submission.CustomerName) == "" {
		details["customerName"] = "is required"
	}
	if strings.TrimSpace(submission.CustomerContact) == "" {
		details["customerContact"] = "is required"
	}
	if len(submission.Items) == 0 && submission.DonationAmount <= 0 {
		details["items"] = "at least one item or a donation is required"
	}
	if submission.DonationAmount < 0 {
		details["donationAmount"] = "must not be negative"
	}
	if !submission.DeliveryOption.IsValid() {
		details["deliveryOption"] = "must be Pickup or Delivery"
	}
	if submission.DeliveryOption == model.DeliveryHome && strings.TrimSpace(submission.DeliveryAddress) == "" {
		details["deliveryAddress"] = "is required for delivery orders"
	}
	if err := s.validateItems(submission.Items, details); err != nil {
		return err
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order submission").WithDetails(details)
	}
	return nil
}

func (s *service) validatePatch(patch model.OrderPatch) error {
	details := map[string]string{}
	if patch.DonationAmount != nil && *patch.DonationAmount < 0 {
		details["donationAmount"] = "must not be negative"
	}
	if patch.DeliveryOption != nil && !patch.DeliveryOption.IsValid() {
		details["deliveryOption"] = "must be Pickup or Delivery"
	}
	if patch.AssignedGroup != nil && !patch.AssignedGroup.IsValid() {
		details["assignedGroup"] = "is not part of the rotation"
	}
	if patch.Items != nil {
		if err := s.validateItems(*patch.Items, details); err != nil {
			return err
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order patch").WithDetails(details)
	}
	return nil
}

func (s *service) validateItems(items []model.CartItem, details map[string]string) error {
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if _, ok := s.store.GetProduct(item.ProductID); !ok {
			details[field] = fmt.Sprintf("unknown product %q", item.ProductID)
			continue
		}
		if !item.Size.IsValid() {
			details[field] = fmt.Sprintf("unknown size %q", item.Size)
		}
		if item.Quantity <= 0 {
			details[field] = "quantity must be positive"
		}
	}
	return nil
}

// normalizeItems resolves product names from the catalog so display names
// in the snapshot cannot be spoofed by the client.
func (s *service) normalizeItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	for i, item := range items {
		out[i] = item
		if product, ok := s.store.GetProduct(item.ProductID); ok {
			out[i].ProductName = product.Name
		}
	}
	return out
}

func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("order-%d-%s", now.UnixMilli(), suffix)
}

// resolveOrderNumber keeps a client's existing cart reference when it has
// the expected shape, so a customer's repeat checkouts from an uncleared
// cart share one payment-memo key. Anything else gets a fresh number.
func resolveOrderNumber(submitted string, now time.Time) string {
	submitted = strings.TrimSpace(submitted)
	if orderNumberPattern.MatchString(submitted) {
		return submitted
	}
	millis := fmt.Sprintf("%d", now.UnixMilli())
	return "LW-" + millis[len(millis)-6:]
}
