package account

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/gravitational/account-registration/lib/logger"
)

func TestNotificationsReplaceByID(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	notifications := NewNotifications(clock)

	notifications.Show(ctx, Notification{ID: "register", Title: "Creating account", Loading: true})
	started := clock.Now()
	clock.Advance(2 * time.Second)
	notifications.Update(ctx, Notification{ID: "register", Title: "Success", Color: ColorGreen})

	current, ok := notifications.Get("register")
	require.True(t, ok)
	require.Equal(t, "Success", current.Title)
	require.Equal(t, clock.Now(), current.At)

	history := notifications.History()
	require.Len(t, history, 2)
	require.Equal(t, started, history[0].At)

	_, ok = notifications.Get("other")
	require.False(t, ok)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	base := log.New()
	base.SetOutput(&buf)
	ctx := logger.WithLogger(context.Background(), base)

	LogNotifier{}.Show(ctx, Notification{ID: "register", Title: "Creating account", Message: "Please wait..."})
	LogNotifier{}.Update(ctx, Notification{ID: "register", Title: "Error", Message: "Email already exists", Color: ColorRed})

	out := buf.String()
	require.Contains(t, out, "Creating account: Please wait...")
	require.Contains(t, out, "level=error")
	require.Contains(t, out, "Error: Email already exists")
}
