package events

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// InMemoryEventStore keeps events in memory. With a retention limit only the most
// recent events are kept; versions and positions keep counting past trimmed events.
type InMemoryEventStore struct {
	streams     map[string][]Event
	versions    map[string]int
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []Event
	trimmed     int
	retention   int
	pending     sync.WaitGroup
	logger      logrus.FieldLogger
}

// NewInMemoryEventStore creates a store that keeps every event
func NewInMemoryEventStore(logger logrus.FieldLogger) *InMemoryEventStore {
	return NewInMemoryEventStoreWithRetention(logger, 0)
}

// NewInMemoryEventStoreWithRetention creates a store that keeps at most retention
// events. A retention of 0 or less keeps everything.
func NewInMemoryEventStoreWithRetention(logger logrus.FieldLogger, retention int) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		versions:    make(map[string]int),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		retention:   retention,
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.versions[streamID]++
	eventWithVersion := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID],
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.position++
	s.trim()

	s.pending.Add(1)
	go s.notifySubscribers(eventWithVersion)

	return nil
}

// Publish appends the event to its own stream
func (s *InMemoryEventStore) Publish(event Event) error {
	return s.AppendEvent(event.StreamID(), event)
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists || len(events) == 0 {
		return []Event{}, nil
	}

	// Versions below the oldest retained event start at the oldest one.
	start := fromVersion - events[0].Version()
	if start < 0 {
		start = 0
	}

	if start >= len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[start:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := fromPosition - s.trimmed
	if start < 0 {
		start = 0
	}

	if start >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[start:]...), nil
}

// Position returns the number of events appended since the store was created
func (s *InMemoryEventStore) Position() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.position
}

// trim drops the oldest events beyond the retention limit; caller holds the lock
func (s *InMemoryEventStore) trim() {
	if s.retention <= 0 || len(s.allEvents) <= s.retention {
		return
	}

	drop := len(s.allEvents) - s.retention
	for _, event := range s.allEvents[:drop] {
		stream := s.streams[event.StreamID()]
		if len(stream) <= 1 {
			delete(s.streams, event.StreamID())
			continue
		}
		s.streams[event.StreamID()] = stream[1:]
	}

	s.allEvents = append([]Event(nil), s.allEvents[drop:]...)
	s.trimmed += drop
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		newHandlers := make([]EventHandler, 0)
		for _, h := range handlers {
			if h != handler {
				newHandlers = append(newHandlers, h)
			}
		}
		s.subscribers[eventType] = newHandlers
	}

	return nil
}

// Wait blocks until every handler notified so far has returned
func (s *InMemoryEventStore) Wait() {
	s.pending.Wait()
}

func (s *InMemoryEventStore) notifySubscribers(event Event) {
	defer s.pending.Done()

	s.mutex.RLock()
	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)
	s.mutex.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		s.pending.Add(1)
		go func(h EventHandler, e Event) {
			defer s.pending.Done()
			if err := h.Handle(e); err != nil {
				s.logger.WithFields(logrus.Fields{
					"eventType": e.Type(),
					"stream":    e.StreamID(),
				}).WithError(err).Error("event handler failed")
			}
		}(handler, event)
	}
}
