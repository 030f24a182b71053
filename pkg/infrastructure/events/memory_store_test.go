package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/vsinha/replenish/pkg/infrastructure/logging"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(logging.Discard())

	for i := 0; i < 3; i++ {
		if err := store.Publish(NewEvent(RecommendationsRecomputedEvent, "org-1", RecommendationsRecomputed{ContainerCount: i})); err != nil {
			t.Fatalf("Failed to publish: %v", err)
		}
	}
	_ = store.Publish(NewEvent(InventoryUpdatedEvent, "org-2", InventoryUpdated{ProductCount: 1}))
	store.Wait()

	events, err := store.ReadEvents(OrganizationStream("org-1"), 2)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events from version 2, got %d", len(events))
	}
	if events[0].Version() != 2 || events[1].Version() != 3 {
		t.Errorf("Expected versions 2 and 3, got %d and %d", events[0].Version(), events[1].Version())
	}

	all, _ := store.ReadAllEvents(0)
	if len(all) != 4 {
		t.Errorf("Expected 4 events in total, got %d", len(all))
	}
	if all[3].StreamID() != "organization-org-2" {
		t.Errorf("Expected organization-org-2, got %s", all[3].StreamID())
	}

	empty, _ := store.ReadEvents("organization-unknown", 1)
	if len(empty) != 0 {
		t.Errorf("Expected no events, got %d", len(empty))
	}
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(logging.Discard())

	var mu sync.Mutex
	var received []string
	handler := &HandlerFunc{
		Types: []string{ProductExcludedEvent},
		Fn: func(e Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, e.Type())
			return errors.New("handler errors are logged, not returned")
		},
	}

	if err := store.Subscribe([]string{ProductExcludedEvent, RecommendationsFailedEvent}, handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	_ = store.Publish(NewEvent(ProductExcludedEvent, "org-1", ProductExcluded{}))
	_ = store.Publish(NewEvent(RecommendationsFailedEvent, "org-1", RecommendationsFailed{}))
	_ = store.Publish(NewEvent(RecommendationsRecomputedEvent, "org-1", RecommendationsRecomputed{}))
	store.Wait()

	mu.Lock()
	if len(received) != 1 || received[0] != ProductExcludedEvent {
		t.Errorf("Expected only %s delivered, got %v", ProductExcludedEvent, received)
	}
	mu.Unlock()

	_ = store.Unsubscribe(handler)
	_ = store.Publish(NewEvent(ProductExcludedEvent, "org-1", ProductExcluded{}))
	store.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Errorf("Expected no delivery after unsubscribe, got %v", received)
	}
}

func TestInMemoryEventStore_Retention(t *testing.T) {
	store := NewInMemoryEventStoreWithRetention(logging.Discard(), 3)

	for i := 0; i < 4; i++ {
		_ = store.Publish(NewEvent(RecommendationsRecomputedEvent, "org-1", RecommendationsRecomputed{ContainerCount: i}))
	}
	_ = store.Publish(NewEvent(InventoryUpdatedEvent, "org-2", InventoryUpdated{ProductCount: 1}))
	store.Wait()

	if store.Position() != 5 {
		t.Errorf("Expected position 5, got %d", store.Position())
	}

	all, _ := store.ReadAllEvents(0)
	if len(all) != 3 {
		t.Fatalf("Expected 3 retained events, got %d", len(all))
	}

	fromPosition, _ := store.ReadAllEvents(4)
	if len(fromPosition) != 1 || fromPosition[0].StreamID() != "organization-org-2" {
		t.Errorf("Expected only the org-2 event from position 4, got %d events", len(fromPosition))
	}

	tests := []struct {
		name        string
		fromVersion int
		expected    []int
	}{
		{"trimmed versions start at the oldest retained", 1, []int{3, 4}},
		{"retained version", 4, []int{4}},
		{"past the end", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.ReadEvents(OrganizationStream("org-1"), tt.fromVersion)
			if err != nil {
				t.Fatalf("Failed to read events: %v", err)
			}
			if len(events) != len(tt.expected) {
				t.Fatalf("Expected %d events, got %d", len(tt.expected), len(events))
			}
			for i, event := range events {
				if event.Version() != tt.expected[i] {
					t.Errorf("Expected version %d, got %d", tt.expected[i], event.Version())
				}
			}
		})
	}
}

func TestInMemoryEventStore_RetentionDropsEmptyStreams(t *testing.T) {
	store := NewInMemoryEventStoreWithRetention(logging.Discard(), 1)

	_ = store.Publish(NewEvent(InventoryUpdatedEvent, "org-1", InventoryUpdated{}))
	_ = store.Publish(NewEvent(InventoryUpdatedEvent, "org-2", InventoryUpdated{}))
	_ = store.Publish(NewEvent(InventoryUpdatedEvent, "org-1", InventoryUpdated{}))
	store.Wait()

	gone, _ := store.ReadEvents(OrganizationStream("org-2"), 1)
	if len(gone) != 0 {
		t.Errorf("Expected org-2 stream trimmed, got %d events", len(gone))
	}

	kept, _ := store.ReadEvents(OrganizationStream("org-1"), 1)
	if len(kept) != 1 || kept[0].Version() != 2 {
		t.Fatalf("Expected org-1 version 2 retained, got %d events", len(kept))
	}
}
