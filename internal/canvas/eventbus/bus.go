// Package eventbus carries cross-cutting canvas signals between controllers
// that have no parent-child data path, such as pan suppression and
// zoom-to-element requests. A Bus is created per session and injected.
package eventbus

import (
	"sync"

	models "tessera/internal/domain/models/canvas"
)

// Topic names a class of events
type Topic string

const (
	TopicPanning       Topic = "panning"
	TopicZoomToElement Topic = "zoom-to-element"
	TopicHighlight     Topic = "highlight"
)

// Event is anything published on the bus
type Event interface {
	Topic() Topic
}

// PanReason identifies why panning is suppressed
type PanReason string

const (
	ReasonDrag          PanReason = "drag"
	ReasonResize        PanReason = "resize"
	ReasonReadOnlyHover PanReason = "read-only-hover"
	ReasonBroadcast     PanReason = "broadcast"
)

// PanningChanged asks the viewport to suppress or release panning for a reason
type PanningChanged struct {
	Reason     PanReason
	Suppressed bool
}

func (PanningChanged) Topic() Topic { return TopicPanning }

// ZoomToElement requests that the viewport frame an element.
// Element takes precedence over ElementID when both are set.
type ZoomToElement struct {
	Element   *models.Element
	ElementID string
	Instant   bool
}

func (ZoomToElement) Topic() Topic { return TopicZoomToElement }

// HighlightChanged reports the currently highlighted element ("" when cleared)
type HighlightChanged struct {
	ElementID string
}

func (HighlightChanged) Topic() Topic { return TopicHighlight }

// Handler receives published events
type Handler func(Event)

// Bus is a synchronous publish/subscribe hub. Handlers run on the publishing
// goroutine in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic][]subscription
}

type subscription struct {
	id int
	fn Handler
}

func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers fn for topic and returns a function removing it
func (b *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every subscriber of its topic
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic()]))
	for _, s := range b.subs[e.Topic()] {
		handlers = append(handlers, s.fn)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// SuppressPanning publishes a suppression for reason
func (b *Bus) SuppressPanning(reason PanReason) {
	b.Publish(PanningChanged{Reason: reason, Suppressed: true})
}

// ReleasePanning publishes the release of reason
func (b *Bus) ReleasePanning(reason PanReason) {
	b.Publish(PanningChanged{Reason: reason, Suppressed: false})
}
