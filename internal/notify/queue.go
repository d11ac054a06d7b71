// Package notify keeps the transient, self-expiring user-facing messages.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Severity classifies a notification for rendering.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DefaultVisibleDuration is how long a notification stays up unless
// dismissed earlier.
const DefaultVisibleDuration = 3000 * time.Millisecond

// Notification is one visible message.
type Notification struct {
	ID        uuid.UUID
	Text      string
	Severity  Severity
	CreatedAt time.Time
}

// entry pairs a notification with the timer that owns its expiry. The
// timer is stopped whenever the entry leaves the queue, by either path,
// so no callback can fire against a removed message.
type entry struct {
	notification Notification
	timer        *time.Timer
}

// Queue is a FIFO of concurrently visible notifications, each expiring
// on its own independent timer.
type Queue struct {
	log *logrus.Logger
	ttl time.Duration

	mu      sync.Mutex
	entries []*entry
	closed  bool
}

// NewQueue creates a queue whose entries stay visible for ttl;
// a non-positive ttl falls back to DefaultVisibleDuration.
func NewQueue(ttl time.Duration, log *logrus.Logger) *Queue {
	if ttl <= 0 {
		ttl = DefaultVisibleDuration
	}
	return &Queue{
		log: log,
		ttl: ttl,
	}
}

// Push appends a notification and arms its expiry timer.
func (q *Queue) Push(text string, severity Severity) uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return uuid.Nil
	}

	id := uuid.New()
	e := &entry{
		notification: Notification{
			ID:        id,
			Text:      text,
			Severity:  severity,
			CreatedAt: time.Now(),
		},
	}
	e.timer = time.AfterFunc(q.ttl, func() {
		q.Dismiss(id)
	})
	q.entries = append(q.entries, e)
	q.log.Debugf("Notification queued [%s]: %s", severity, text)
	return id
}

// Success queues a success-severity notification.
func (q *Queue) Success(text string) uuid.UUID {
	return q.Push(text, SeveritySuccess)
}

// Error queues an error-severity notification.
func (q *Queue) Error(text string) uuid.UUID {
	return q.Push(text, SeverityError)
}

// Info queues an info-severity notification.
func (q *Queue) Info(text string) uuid.UUID {
	return q.Push(text, SeverityInfo)
}

// Dismiss removes one notification and stops its timer. Other entries
// and their timers are untouched. Reports whether the id was present.
func (q *Queue) Dismiss(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.notification.ID == id {
			e.timer.Stop()
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the currently visible notifications in FIFO order.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.notification
	}
	return out
}

// Close stops every pending timer and empties the queue. Pushes after
// Close are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
	q.closed = true
}
