package service

// EventType defines the type of event
type EventType string

const (
	EventCameraCreated   EventType = "camera_created"
	EventCameraUpdated   EventType = "camera_updated"
	EventCameraDeleted   EventType = "camera_deleted"
	EventStrategyCreated EventType = "strategy_created"
	EventStrategyUpdated EventType = "strategy_updated"
	EventStrategyDeleted EventType = "strategy_deleted"
	EventReportCreated   EventType = "report_created"
	EventRunStarted      EventType = "run_started"
	EventRunProgress     EventType = "run_progress"
	EventRunCompleted    EventType = "run_completed"
	EventRunFailed       EventType = "run_failed"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
