package credentials

// AccessTokenProvider supplies the access token for an outgoing request.
// An empty token means the request is sent without credentials.
type AccessTokenProvider interface {
	GetAccessToken() (string, error)
}

type StaticAccessTokenProvider struct {
	token string
}

func NewStaticAccessTokenProvider(token string) *StaticAccessTokenProvider {
	return &StaticAccessTokenProvider{token: token}
}

func (s *StaticAccessTokenProvider) GetAccessToken() (string, error) {
	return s.token, nil
}

var (
	_ AccessTokenProvider = &StaticAccessTokenProvider{}
	_ AccessTokenProvider = &Session{}
)
