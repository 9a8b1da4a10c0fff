package products

import (
	"context"
	"testing"

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

func newTestService(t *testing.T, seed []model.Product) (Service, *store.Store, *fakePublisher) {
	t.Helper()
	st := store.New()
	pub := &fakePublisher{}
	svc, err := NewService(ServiceParams{Store: st, Publisher: pub, Seed: seed})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, st, pub
}

func TestSyncSeedsOnceAndBroadcasts(t *testing.T) {
	svc, _, pub := newTestService(t, nil)

	list, seeded := svc.Sync(context.Background())
	if !seeded {
		t.Fatal("first sync should seed")
	}
	if len(list) != 6 {
		t.Fatalf("seeded %d products, want 6", len(list))
	}
	if len(pub.events) != 1 || pub.events[0].Type != broadcast.EventProductsReplaced {
		t.Fatalf("events = %+v, want one PRODUCTS_REPLACED", pub.events)
	}
}

func TestSyncNoOpOnPopulatedStore(t *testing.T) {
	svc, _, pub := newTestService(t, nil)
	svc.Sync(context.Background())
	pub.events = nil

	list, seeded := svc.Sync(context.Background())
	if seeded {
		t.Fatal("second sync must not reseed")
	}
	if len(list) != 6 {
		t.Fatalf("list = %d products, want existing 6", len(list))
	}
	if len(pub.events) != 0 {
		t.Fatalf("no-op sync must not broadcast, got %d events", len(pub.events))
	}
}

func TestSyncPreservesAdminToggles(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	svc.Sync(context.Background())

	off := false
	if _, err := svc.Patch(context.Background(), "lemon-ginger", model.ProductPatch{Available: &off}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	list, _ := svc.Sync(context.Background())
	for _, p := range list {
		if p.ID == "lemon-ginger" && p.Available {
			t.Fatal("sync clobbered availability toggle")
		}
	}
}

func TestPatchBroadcastsFullList(t *testing.T) {
	svc, st, pub := newTestService(t, nil)
	svc.Sync(context.Background())
	pub.events = nil

	name := "Golden Turmeric Shot"
	updated, err := svc.Patch(context.Background(), "carrot-apple", model.ProductPatch{Name: &name})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if updated.Name != name {
		t.Errorf("name = %q, want %q", updated.Name, name)
	}

	if len(pub.events) != 1 || pub.events[0].Type != broadcast.EventProductsReplaced {
		t.Fatalf("events = %+v, want one PRODUCTS_REPLACED", pub.events)
	}
	payload, ok := pub.events[0].Payload.([]model.Product)
	if !ok {
		t.Fatalf("payload type %T", pub.events[0].Payload)
	}
	if len(payload) != len(st.Products()) {
		t.Errorf("payload carries %d products, want full list of %d", len(payload), len(st.Products()))
	}
}

func TestPatchUnknownProduct(t *testing.T) {
	svc, _, pub := newTestService(t, nil)
	svc.Sync(context.Background())
	pub.events = nil

	name := "Mystery"
	_, err := svc.Patch(context.Background(), "kale-surprise", model.ProductPatch{Name: &name})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("failed patch must not broadcast, got %d events", len(pub.events))
	}
}

func TestPatchRejectsEmptyName(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	svc.Sync(context.Background())

	empty := "  "
	_, err := svc.Patch(context.Background(), "lemon-ginger", model.ProductPatch{Name: &empty})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}
