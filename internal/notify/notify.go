// ABOUTME: User-facing notification surface with duplicate suppression
// ABOUTME: Identity is (level, class, source) so retried failures emit one toast

package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level describes how a notification should be rendered.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a single user-visible message. Class carries the error
// classification for errors ("auth", "network", ...) and the operation kind
// for successes; Source names the logical operation or endpoint that caused
// it. Together with Level they form the notification's identity.
type Notification struct {
	Level   Level
	Class   string
	Source  string
	Message string
}

// Sink receives notifications that survived de-duplication.
type Sink func(Notification)

// DefaultWindow is how long an identical notification is suppressed after one
// has been shown.
const DefaultWindow = 3 * time.Second

// Notifier fans notifications out to sinks, suppressing duplicates.
// Suppression is owned here so callers never need to remember toast IDs.
type Notifier struct {
	mu     sync.Mutex
	sinks  []Sink
	window time.Duration
	last   map[identity]time.Time
	now    func() time.Time
}

type identity struct {
	level  Level
	class  string
	source string
}

func New() *Notifier {
	return &Notifier{
		window: DefaultWindow,
		last:   make(map[identity]time.Time),
		now:    time.Now,
	}
}

// AddSink registers a delivery target. Sinks are invoked synchronously in
// registration order.
func (n *Notifier) AddSink(s Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sinks = append(n.sinks, s)
}

// Info publishes an informational notification.
func (n *Notifier) Info(class, source, message string) {
	n.publish(Notification{Level: LevelInfo, Class: class, Source: source, Message: message})
}

// Success publishes a success notification.
func (n *Notifier) Success(class, source, message string) {
	n.publish(Notification{Level: LevelSuccess, Class: class, Source: source, Message: message})
}

// Error publishes an error notification.
func (n *Notifier) Error(class, source, message string) {
	n.publish(Notification{Level: LevelError, Class: class, Source: source, Message: message})
}

func (n *Notifier) publish(note Notification) {
	n.mu.Lock()
	id := identity{note.Level, note.Class, note.Source}
	ts := n.now()
	if prev, ok := n.last[id]; ok && ts.Sub(prev) < n.window {
		n.mu.Unlock()
		slog.Debug("notification suppressed", "class", note.Class, "source", note.Source)
		return
	}
	n.last[id] = ts
	sinks := make([]Sink, len(n.sinks))
	copy(sinks, n.sinks)
	n.mu.Unlock()

	for _, s := range sinks {
		s(note)
	}
}
