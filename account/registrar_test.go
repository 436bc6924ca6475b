package account

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/gravitational/account-registration/lib/credentials"
)

type RegistrarSuite struct {
	suite.Suite

	api           *FakeAPI
	clock         clockwork.FakeClock
	session       *credentials.Session
	notifications *Notifications
	registrar     *Registrar
}

func TestRegistrar(t *testing.T) { suite.Run(t, &RegistrarSuite{}) }

func (s *RegistrarSuite) SetupTest() {
	t := s.T()

	s.api = NewFakeAPI()
	t.Cleanup(s.api.Close)

	var err error
	s.session, err = credentials.NewSession(context.Background(), credentials.NewMemoryStore())
	s.Require().NoError(err)

	s.clock = clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.notifications = NewNotifications(s.clock)
	s.registrar = s.newRegistrar(s.api.URL())
}

func (s *RegistrarSuite) newRegistrar(baseURL string) *Registrar {
	client, err := NewClient(Config{BaseURL: baseURL, Tokens: s.session, Timeout: 5 * time.Second})
	s.Require().NoError(err)

	registrar, err := NewRegistrar(RegistrarConfig{
		API:      client,
		Session:  s.session,
		Notifier: s.notifications,
	})
	s.Require().NoError(err)
	return registrar
}

func (s *RegistrarSuite) TestSuccessStoresTokens() {
	s.api.Respond(http.StatusCreated, `{"accessToken":"A","refreshToken":"B"}`)

	outcome, err := s.registrar.Submit(context.Background(), validForm)
	s.Require().NoError(err)
	s.Require().Equal(Tokens{AccessToken: "A", RefreshToken: "B"}, outcome.Tokens)
	s.Require().Equal(LoginPath, outcome.Next)
	s.Require().True(outcome.Persisted)

	accessToken, ok := s.session.AccessToken()
	s.Require().True(ok)
	s.Require().Equal("A", accessToken)
	refreshToken, ok := s.session.RefreshToken()
	s.Require().True(ok)
	s.Require().Equal("B", refreshToken)

	history := s.notifications.History()
	s.Require().Len(history, 2)
	s.Require().True(history[0].Loading)
	s.Require().Equal("Creating account", history[0].Title)

	last, ok := s.notifications.Get(RegisterNotificationID)
	s.Require().True(ok)
	s.Require().Equal("Success", last.Title)
	s.Require().Equal("Successfully created account", last.Message)
	s.Require().Equal(ColorGreen, last.Color)
	s.Require().False(last.Loading)
	s.Require().Equal(s.clock.Now(), last.At)
}

func (s *RegistrarSuite) TestConflictIsDisplayed() {
	s.api.Respond(http.StatusConflict, `{"message":"Email already exists"}`)

	outcome, err := s.registrar.Submit(context.Background(), validForm)
	s.Require().Nil(outcome)
	respErr, ok := AsResponseError(err)
	s.Require().True(ok)
	s.Require().Equal(http.StatusConflict, respErr.StatusCode)
	s.Require().Equal("Email already exists", respErr.Message)

	last, ok := s.notifications.Get(RegisterNotificationID)
	s.Require().True(ok)
	s.Require().Equal("Error", last.Title)
	s.Require().Equal("Email already exists", last.Message)
	s.Require().Equal(ColorRed, last.Color)

	s.Require().True(s.session.Credentials().IsEmpty())
}

func (s *RegistrarSuite) TestNetworkFailureIsDisplayed() {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	addr := listener.Addr().String()
	s.Require().NoError(listener.Close())

	registrar := s.newRegistrar("http://" + addr)
	outcome, err := registrar.Submit(context.Background(), validForm)
	s.Require().Nil(outcome)

	respErr, ok := AsResponseError(err)
	s.Require().True(ok)
	s.Require().Zero(respErr.StatusCode)

	last, ok := s.notifications.Get(RegisterNotificationID)
	s.Require().True(ok)
	s.Require().Equal(msgUnreachable, last.Message)
	s.Require().True(s.session.Credentials().IsEmpty())
}

func (s *RegistrarSuite) TestMismatchedPasswordsNeverReachTheAPI() {
	form := validForm
	form.ConfirmPassword = "something else"

	outcome, err := s.registrar.Submit(context.Background(), form)
	s.Require().Nil(outcome)
	fieldErrs, ok := AsFieldErrors(err)
	s.Require().True(ok)
	s.Require().Equal(FieldErrors{"confirmPassword": MsgPasswordMismatch}, fieldErrs)

	s.Require().Zero(s.api.Calls())
	s.Require().Empty(s.notifications.History())
}

func (s *RegistrarSuite) TestInvalidFieldsNeverReachTheAPI() {
	for _, modify := range []func(*RegistrationForm){
		func(f *RegistrationForm) { f.FirstName = "" },
		func(f *RegistrationForm) { f.LastName = "" },
		func(f *RegistrationForm) { f.Password, f.ConfirmPassword = "", "" },
		func(f *RegistrationForm) { f.Email = "not-an-email" },
	} {
		form := validForm
		modify(&form)
		_, err := s.registrar.Submit(context.Background(), form)
		fieldErrs, ok := AsFieldErrors(err)
		s.Require().True(ok)
		s.Require().Len(fieldErrs, 1)
	}
	s.Require().Zero(s.api.Calls())
}

func (s *RegistrarSuite) TestNewRegistrarChecksConfig() {
	_, err := NewRegistrar(RegistrarConfig{Session: s.session})
	s.Require().True(trace.IsBadParameter(err))

	_, err = NewRegistrar(RegistrarConfig{API: &stubRegisterer{}})
	s.Require().True(trace.IsBadParameter(err))
}

func (s *RegistrarSuite) TestUnexpectedErrorUsesGenericMessage() {
	registrar, err := NewRegistrar(RegistrarConfig{
		API:      &stubRegisterer{err: trace.Errorf("boom")},
		Session:  s.session,
		Notifier: s.notifications,
	})
	s.Require().NoError(err)

	_, err = registrar.Submit(context.Background(), validForm)
	s.Require().Error(err)
	last, _ := s.notifications.Get(RegisterNotificationID)
	s.Require().Equal(msgUnknownFailure, last.Message)
}

func (s *RegistrarSuite) TestPersistFailureKeepsSessionInMemory() {
	session, err := credentials.NewSession(context.Background(), &failingStore{})
	s.Require().NoError(err)
	registrar, err := NewRegistrar(RegistrarConfig{
		API:      &stubRegisterer{tokens: &Tokens{AccessToken: "A", RefreshToken: "B"}},
		Session:  session,
		Notifier: s.notifications,
	})
	s.Require().NoError(err)

	outcome, err := registrar.Submit(context.Background(), validForm)
	s.Require().NoError(err)
	s.Require().False(outcome.Persisted)

	accessToken, ok := session.AccessToken()
	s.Require().True(ok)
	s.Require().Equal("A", accessToken)

	last, _ := s.notifications.Get(RegisterNotificationID)
	s.Require().Equal("Success", last.Title)
}

// failingStore has nothing stored and rejects every write.
type failingStore struct{}

func (failingStore) GetCredentials(context.Context) (*credentials.Credentials, error) {
	return nil, trace.NotFound("nothing stored")
}

func (failingStore) PutCredentials(context.Context, *credentials.Credentials) error {
	return trace.AccessDenied("read-only")
}

func (failingStore) DeleteCredentials(context.Context) error {
	return trace.AccessDenied("read-only")
}

type stubRegisterer struct {
	tokens *Tokens
	err    error
}

func (r *stubRegisterer) RegisterUser(context.Context, RegisterRequest) (*Tokens, error) {
	return r.tokens, r.err
}
