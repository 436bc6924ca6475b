package account

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gravitational/account-registration/lib/logger"
)

type Color string

const (
	ColorDefault Color = ""
	ColorGreen   Color = "green"
	ColorRed     Color = "red"
)

// Notification is a toast-like status message. Notifications with the
// same ID replace each other.
type Notification struct {
	ID      string
	Title   string
	Message string
	Color   Color
	Loading bool
	At      time.Time
}

// Notifier displays notifications to the user.
type Notifier interface {
	Show(ctx context.Context, n Notification)
	Update(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the context logger.
type LogNotifier struct{}

func (LogNotifier) Show(ctx context.Context, n Notification) {
	logNotification(ctx, n)
}

func (LogNotifier) Update(ctx context.Context, n Notification) {
	logNotification(ctx, n)
}

func logNotification(ctx context.Context, n Notification) {
	log := logger.Get(ctx).WithField("notification", n.ID)
	if n.Color == ColorRed {
		log.Errorf("%s: %s", n.Title, n.Message)
		return
	}
	log.Infof("%s: %s", n.Title, n.Message)
}

// Notifications keeps the current notification per ID along with the full
// history, stamping each with the clock time.
type Notifications struct {
	clock clockwork.Clock

	mu      sync.Mutex
	current map[string]Notification
	history []Notification
}

func NewNotifications(clock clockwork.Clock) *Notifications {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Notifications{
		clock:   clock,
		current: make(map[string]Notification),
	}
}

func (n *Notifications) Show(_ context.Context, notification Notification) {
	n.put(notification)
}

func (n *Notifications) Update(_ context.Context, notification Notification) {
	n.put(notification)
}

func (n *Notifications) put(notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notification.At = n.clock.Now()
	n.current[notification.ID] = notification
	n.history = append(n.history, notification)
}

// Get returns the latest notification with the given ID.
func (n *Notifications) Get(id string) (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notification, ok := n.current[id]
	return notification, ok
}

// History returns every notification shown or updated so far, oldest first.
func (n *Notifications) History() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.history...)
}

var (
	_ Notifier = LogNotifier{}
	_ Notifier = &Notifications{}
)
