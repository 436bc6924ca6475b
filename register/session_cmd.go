package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"

	"github.com/gravitational/account-registration/lib/credentials"
)

// WhoamiCmd prints what is known about the stored session
type WhoamiCmd struct {
	StorageConfig

	Out   io.Writer       `kong:"-"`
	Clock clockwork.Clock `kong:"-"`
}

func (c *WhoamiCmd) Run() error {
	ctx, cancel := commandContext()
	defer cancel()
	return trace.Wrap(c.run(ctx))
}

func (c *WhoamiCmd) run(ctx context.Context) error {
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}

	session, err := c.OpenSession(ctx)
	if err != nil {
		return trace.Wrap(err)
	}

	token, ok := session.AccessToken()
	if !ok {
		fmt.Fprintln(c.Out, "Not signed in")
		return nil
	}
	_, hasRefresh := session.RefreshToken()

	info, err := credentials.InspectAccessToken(token)
	if err != nil {
		fmt.Fprintln(c.Out, "Signed in with an opaque access token")
		fmt.Fprintf(c.Out, "Refresh token: %v\n", yesNo(hasRefresh))
		return nil
	}

	if info.Subject != "" {
		fmt.Fprintf(c.Out, "Subject:       %s\n", info.Subject)
	}
	if info.Email != "" {
		fmt.Fprintf(c.Out, "Email:         %s\n", info.Email)
	}
	if !info.ExpiresAt.IsZero() {
		status := "valid"
		if info.Expired(c.Clock.Now()) {
			status = "expired"
		}
		fmt.Fprintf(c.Out, "Expires:       %s (%s)\n", info.ExpiresAt.UTC().Format(time.RFC3339), status)
	}
	fmt.Fprintf(c.Out, "Refresh token: %v\n", yesNo(hasRefresh))
	return nil
}

// LogoutCmd clears the stored session
type LogoutCmd struct {
	StorageConfig

	Out io.Writer `kong:"-"`
}

func (c *LogoutCmd) Run() error {
	ctx, cancel := commandContext()
	defer cancel()
	return trace.Wrap(c.run(ctx))
}

func (c *LogoutCmd) run(ctx context.Context) error {
	if c.Out == nil {
		c.Out = os.Stdout
	}

	session, err := c.OpenSession(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	if err := session.Clear(ctx); err != nil {
		return trace.Wrap(err)
	}
	fmt.Fprintln(c.Out, "Signed out")
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
