package account

import (
	"context"

	"github.com/gravitational/trace"

	"github.com/gravitational/account-registration/lib/credentials"
	"github.com/gravitational/account-registration/lib/logger"
)

const (
	// RegisterNotificationID identifies the notification of a sign-up attempt.
	RegisterNotificationID = "register"

	// LoginPath is where the user goes after signing up.
	LoginPath = "/login"

	msgUnknownFailure = "Something went wrong"
)

// Registerer is the part of the API the Registrar needs.
type Registerer interface {
	RegisterUser(ctx context.Context, request RegisterRequest) (*Tokens, error)
}

type RegistrarConfig struct {
	API      Registerer
	Session  *credentials.Session
	Notifier Notifier
}

func (c *RegistrarConfig) CheckAndSetDefaults() error {
	if c.API == nil {
		return trace.BadParameter("missing API client")
	}
	if c.Session == nil {
		return trace.BadParameter("missing credentials session")
	}
	if c.Notifier == nil {
		c.Notifier = LogNotifier{}
	}
	return nil
}

// Registrar handles a sign-up form submission.
type Registrar struct {
	api      Registerer
	session  *credentials.Session
	notifier Notifier
}

func NewRegistrar(conf RegistrarConfig) (*Registrar, error) {
	if err := conf.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Registrar{
		api:      conf.API,
		session:  conf.Session,
		notifier: conf.Notifier,
	}, nil
}

// Outcome is a successful submission.
type Outcome struct {
	Tokens Tokens
	// Next is the page to navigate to.
	Next string
	// Persisted is false when the session holds the tokens only in memory.
	Persisted bool
}

// Submit validates the form, registers the account and stores the issued
// tokens in the session. Invalid forms fail with FieldErrors before any
// request is made; API failures are returned as *ResponseError.
func (r *Registrar) Submit(ctx context.Context, form RegistrationForm) (*Outcome, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, trace.Wrap(errs)
	}

	r.notifier.Show(ctx, Notification{
		ID:      RegisterNotificationID,
		Title:   "Creating account",
		Message: "Please wait...",
		Loading: true,
	})

	tokens, err := r.api.RegisterUser(ctx, form.Request())
	if err == nil && tokens == nil {
		err = trace.Wrap(&ResponseError{Message: msgMalformedResponse})
	}
	if err != nil {
		message := msgUnknownFailure
		if respErr, ok := AsResponseError(err); ok && respErr.Message != "" {
			message = respErr.Message
		}
		r.notifier.Update(ctx, Notification{
			ID:      RegisterNotificationID,
			Title:   "Error",
			Message: message,
			Color:   ColorRed,
		})
		return nil, trace.Wrap(err)
	}

	// The session keeps the tokens in memory even if persisting them fails.
	persisted := true
	if err := r.session.SetCredentials(ctx, tokens.Credentials()); err != nil {
		logger.Get(ctx).WithError(err).Warn("Registered, but failed to persist the issued tokens")
		persisted = false
	}

	r.notifier.Update(ctx, Notification{
		ID:      RegisterNotificationID,
		Title:   "Success",
		Message: "Successfully created account",
		Color:   ColorGreen,
	})

	return &Outcome{Tokens: *tokens, Next: LoginPath, Persisted: persisted}, nil
}
