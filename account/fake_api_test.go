package account

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/julienschmidt/httprouter"
)

// receivedRequest is what FakeAPI saw on the register endpoint.
type receivedRequest struct {
	Body          RegisterRequest
	RawBody       map[string]interface{}
	Authorization string
	RequestID     string
	ContentType   string
}

// fakeResponse is what FakeAPI replies with.
type fakeResponse struct {
	Status      int
	Body        string
	ContentType string
}

type FakeAPI struct {
	srv *httptest.Server

	calls int32

	mu       sync.Mutex
	response fakeResponse
	requests []receivedRequest
}

func NewFakeAPI() *FakeAPI {
	router := httprouter.New()

	self := &FakeAPI{
		srv: httptest.NewServer(router),
		response: fakeResponse{
			Status: http.StatusCreated,
			Body:   `{"accessToken":"A","refreshToken":"B"}`,
		},
	}

	router.POST(RegisterPath, func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		atomic.AddInt32(&self.calls, 1)

		payload, err := io.ReadAll(r.Body)
		fatalIf(err)

		received := receivedRequest{
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
		}
		fatalIf(json.Unmarshal(payload, &received.Body))
		fatalIf(json.Unmarshal(payload, &received.RawBody))

		self.mu.Lock()
		self.requests = append(self.requests, received)
		response := self.response
		self.mu.Unlock()

		contentType := response.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		rw.Header().Add("Content-Type", contentType)
		rw.WriteHeader(response.Status)
		_, err = io.WriteString(rw, response.Body)
		fatalIf(err)
	})

	return self
}

func (s *FakeAPI) URL() string {
	return s.srv.URL
}

func (s *FakeAPI) Close() {
	s.srv.Close()
}

func (s *FakeAPI) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = fakeResponse{Status: status, Body: body}
}

func (s *FakeAPI) RespondWithContentType(status int, contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = fakeResponse{Status: status, Body: body, ContentType: contentType}
}

func (s *FakeAPI) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

func (s *FakeAPI) LastRequest() (receivedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return receivedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func fatalIf(err error) {
	if err != nil {
		panic(err)
	}
}
