package orders

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

type fakePublisher struct {
	events []broadcast.Event
}

func (f *fakePublisher) Publish(event broadcast.Event) {
	f.events = append(f.events, event)
}

func (f *fakePublisher) ofType(t broadcast.EventType) []broadcast.Event {
	var out []broadcast.Event
	for _, e := range f.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(t *testing.T) (Service, *store.Store, *fakePublisher) {
	t.Helper()
	st := store.New()
	st.SeedProducts(model.SeedCatalog())
	pub := &fakePublisher{}
	svc, err := NewService(ServiceParams{
		Store:     st,
		Publisher: pub,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
		PickGroup: func() model.GroupName { return model.GroupPathfinders },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, st, pub
}

func validSubmission() Submission {
	return Submission{
		CustomerName:    "Dana Fields",
		CustomerContact: "555-0101",
		Items: []model.CartItem{
			{ProductID: "lemon-ginger", Size: model.SizeSevenShots, Quantity: 2},
		},
		DonationAmount: 25,
		DeliveryOption: model.DeliveryPickup,
	}
}

func TestCreateComputesServerFields(t *testing.T) {
	svc, st, pub := newTestService(t)

	sub := validSubmission()
	sub.IsRecurring = true
	order, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(order.ID, "order-") {
		t.Errorf("id = %q, want order- prefix", order.ID)
	}
	if !regexp.MustCompile(`^LW-\d{6}$`).MatchString(order.OrderNumber) {
		t.Errorf("orderNumber = %q, want LW-nnnnnn", order.OrderNumber)
	}
	if order.AssignedGroup != model.GroupPathfinders {
		t.Errorf("assignedGroup = %q", order.AssignedGroup)
	}
	// 2 units * $50 * 4 recurring weeks + $25 donation
	if order.TotalPrice != 425 {
		t.Errorf("totalPrice = %d, want 425", order.TotalPrice)
	}
	if order.Items[0].ProductName != "Lemon Ginger Shot" {
		t.Errorf("productName = %q, want catalog name", order.Items[0].ProductName)
	}

	stored, ok := st.GetOrder(order.ID)
	if !ok {
		t.Fatal("order not in store after Create")
	}
	if stored.TotalPrice != order.TotalPrice {
		t.Errorf("stored total = %d, want %d", stored.TotalPrice, order.TotalPrice)
	}
	created := pub.ofType(broadcast.EventOrderCreated)
	if len(created) != 1 {
		t.Fatalf("ORDER_CREATED events = %d, want 1", len(created))
	}
}

func TestCreateKeepsWellFormedClientOrderNumber(t *testing.T) {
	svc, _, _ := newTestService(t)

	sub := validSubmission()
	sub.OrderNumber = "LW-345678"
	order, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.OrderNumber != "LW-345678" {
		t.Errorf("orderNumber = %q, want client reference kept", order.OrderNumber)
	}

	sub = validSubmission()
	sub.OrderNumber = "INVOICE-1"
	order, err = svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.OrderNumber == "INVOICE-1" {
		t.Error("malformed client reference should be replaced")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, pub := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing name", func(s *Submission) { s.CustomerName = " " }},
		{"missing contact", func(s *Submission) { s.CustomerContact = "" }},
		{"empty order", func(s *Submission) { s.Items = nil; s.DonationAmount = 0 }},
		{"negative donation", func(s *Submission) { s.DonationAmount = -5 }},
		{"delivery without address", func(s *Submission) { s.DeliveryOption = model.DeliveryHome }},
		{"bad delivery option", func(s *Submission) { s.DeliveryOption = "Teleport" }},
		{"unknown product", func(s *Submission) { s.Items[0].ProductID = "kale-surprise" }},
		{"unknown size", func(s *Submission) { s.Items[0].Size = "Keg" }},
		{"zero quantity", func(s *Submission) { s.Items[0].Quantity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			_, err := svc.Create(context.Background(), sub)
			if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
	if len(pub.events) != 0 {
		t.Errorf("rejected submissions must not broadcast, got %d events", len(pub.events))
	}
}

func TestPatchBroadcastsUpdateAndFulfillmentNotice(t *testing.T) {
	svc, _, pub := newTestService(t)

	order, err := svc.Create(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pub.events = nil

	fulfilled := true
	merged, err := svc.Patch(context.Background(), order.ID, model.OrderPatch{IsFulfilled: &fulfilled})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !merged.IsFulfilled {
		t.Error("merged order not fulfilled")
	}

	if got := pub.ofType(broadcast.EventOrderUpdated); len(got) != 1 {
		t.Fatalf("ORDER_UPDATED events = %d, want 1", len(got))
	}
	notices := pub.ofType(broadcast.EventNotice)
	if len(notices) != 1 {
		t.Fatalf("NOTICE events = %d, want 1", len(notices))
	}
	payload, ok := notices[0].Payload.(broadcast.NoticePayload)
	if !ok {
		t.Fatalf("notice payload type %T", notices[0].Payload)
	}
	want := "Order " + order.OrderNumber + " for Dana Fields is ready for fulfillment!"
	if payload.Message != want {
		t.Errorf("notice = %q, want %q", payload.Message, want)
	}
}

func TestPatchRecomputesTotal(t *testing.T) {
	svc, _, _ := newTestService(t)

	order, err := svc.Create(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	donation := 100
	merged, err := svc.Patch(context.Background(), order.ID, model.OrderPatch{DonationAmount: &donation})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	// 2 units * $50 + $100 donation
	if merged.TotalPrice != 200 {
		t.Errorf("totalPrice = %d, want 200", merged.TotalPrice)
	}
}

func TestPatchUnknownOrder(t *testing.T) {
	svc, _, pub := newTestService(t)

	fulfilled := true
	_, err := svc.Patch(context.Background(), "order-nope", model.OrderPatch{IsFulfilled: &fulfilled})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("failed patch must not broadcast, got %d events", len(pub.events))
	}
}

func TestPatchRejectsStrippingDeliveryAddress(t *testing.T) {
	svc, _, _ := newTestService(t)

	sub := validSubmission()
	sub.DeliveryOption = model.DeliveryHome
	sub.DeliveryAddress = "12 Grove St"
	order, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty := ""
	_, err = svc.Patch(context.Background(), order.ID, model.OrderPatch{DeliveryAddress: &empty})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}
