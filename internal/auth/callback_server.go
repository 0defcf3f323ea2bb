package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

const callbackPath = "/callback"

// callbackResult is what one login attempt's redirect settles to: either an
// authorization code or an error, never both.
type callbackResult struct {
	code string
	err  error
}

// CallbackServer is the one-shot local HTTP server that receives the OAuth
// redirect for a single login attempt. It binds one fixed TCP port, accepts
// exactly one request to the callback path, settles exactly once, and is torn
// down by whichever path completes first: settle, context cancellation, or an
// explicit Close.
type CallbackServer struct {
	port          int
	expectedState string

	server   *http.Server
	listener net.Listener

	mu      sync.Mutex
	settled bool
	result  chan callbackResult

	closeOnce sync.Once
}

// NewCallbackServer creates a callback server for one login attempt. The
// expected state is compared against the redirect's state parameter; a
// mismatch settles the attempt with ErrStateMismatch.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		result:        make(chan callbackResult, 1),
	}
}

// Start binds the listener synchronously so a port conflict surfaces here,
// before the flow sends the user to the browser. A bind failure on an
// occupied port is returned as ErrPortInUse; any other bind failure as
// ErrServerStartFailed.
func (s *CallbackServer) Start() error {
	addr := fmt.Sprintf("localhost:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if isAddrInUse(err) {
			return &AuthError{
				Type:    ErrPortInUse.Type,
				Message: fmt.Sprintf("port %d is already in use", s.port),
				Cause:   err,
			}
		}
		return withCause(ErrServerStartFailed, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if errServe := s.server.Serve(listener); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			s.settle(callbackResult{err: withCause(ErrServerStartFailed, errServe)})
		}
	}()

	log.Debugf("OAuth callback server listening on port %d", s.port)
	return nil
}

// Wait blocks until the redirect settles the attempt or ctx is cancelled.
// On cancellation the listener is closed before returning, so a repeated
// login attempt can bind the same port.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case res := <-s.result:
		s.Close()
		return res.code, res.err
	case <-ctx.Done():
		s.Close()
		return "", ctx.Err()
	}
}

// Close shuts the listener down. It is idempotent and safe to call from any
// of the teardown paths.
func (s *CallbackServer) Close() {
	s.closeOnce.Do(func() {
		if s.server != nil {
			if err := s.server.Close(); err != nil {
				log.Debugf("closing OAuth callback server: %v", err)
			}
		}
	})
}

// handleCallback processes one redirect request. The mutex serializes
// concurrent requests (e.g. a stray favicon fetch racing the real redirect);
// exactly the first callback-path request settles the pending result, every
// later one gets a 404.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		err := &OAuthProviderError{
			Code:        errParam,
			Description: query.Get("error_description"),
		}
		log.Debugf("OAuth callback reported error: %s", errParam)
		s.writeFailure(w, err.Error())
		s.settleLocked(callbackResult{err: err})
		return
	}

	code := query.Get("code")
	if code == "" {
		log.Debug("OAuth callback carried no authorization code")
		s.writeFailure(w, ErrMissingCode.Message)
		s.settleLocked(callbackResult{err: ErrMissingCode})
		return
	}

	if state := query.Get("state"); state != s.expectedState {
		log.Debug("OAuth callback state mismatch")
		s.writeFailure(w, ErrStateMismatch.Message)
		s.settleLocked(callbackResult{err: ErrStateMismatch})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(loginSuccessHTML))

	s.settleLocked(callbackResult{code: code})
}

// writeFailure renders the 400 failure page.
func (s *CallbackServer) writeFailure(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(loginFailureHTML(reason)))
}

// settleLocked marks the attempt settled and delivers the result. Callers
// must hold s.mu. The server is closed asynchronously so the in-flight
// response can still be written.
func (s *CallbackServer) settleLocked(res callbackResult) {
	s.settled = true
	s.result <- res
	go s.Close()
}

// settle is settleLocked for callers outside the handler.
func (s *CallbackServer) settle(res callbackResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled {
		return
	}
	s.settleLocked(res)
}

// isAddrInUse reports whether a bind failure means the port is occupied.
func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Fallback for platforms whose listen errors do not unwrap to the errno.
	return strings.Contains(err.Error(), "address already in use")
}
