package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenClientExchange(t *testing.T) {
	t.Parallel()

	var gotForm map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form encoding", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"code":          r.PostFormValue("code"),
			"redirect_uri":  r.PostFormValue("redirect_uri"),
			"client_id":     r.PostFormValue("client_id"),
			"code_verifier": r.PostFormValue("code_verifier"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer"}`))
	}))
	defer ts.Close()

	client := NewTokenClient(ts.URL, "mittvibes", "http://localhost:52847/callback")
	resp, err := client.Exchange(context.Background(), "auth-code", "verifier-abc")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if resp.AccessToken != "tok-123" {
		t.Errorf("access token = %q, want %q", resp.AccessToken, "tok-123")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q, want %q", resp.TokenType, "Bearer")
	}

	want := map[string]string{
		"grant_type":    "authorization_code",
		"code":          "auth-code",
		"redirect_uri":  "http://localhost:52847/callback",
		"client_id":     "mittvibes",
		"code_verifier": "verifier-abc",
	}
	for key, value := range want {
		if gotForm[key] != value {
			t.Errorf("form %s = %q, want %q", key, gotForm[key], value)
		}
	}
}

func TestTokenClientExchangeRejected(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	client := NewTokenClient(ts.URL, "mittvibes", "http://localhost:52847/callback")
	_, err := client.Exchange(context.Background(), "stale-code", "verifier")

	var exchangeErr *ExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("Exchange() error = %v, want *ExchangeError", err)
	}
	if exchangeErr.StatusCode != http.StatusBadRequest {
		t.Errorf("exchange error status = %d, want %d", exchangeErr.StatusCode, http.StatusBadRequest)
	}
	if exchangeErr.Body != `{"error":"invalid_grant"}` {
		t.Errorf("exchange error body = %q, want the raw response", exchangeErr.Body)
	}
}

func TestTokenClientExchangeEmptyToken(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer ts.Close()

	client := NewTokenClient(ts.URL, "mittvibes", "http://localhost:52847/callback")
	if _, err := client.Exchange(context.Background(), "code", "verifier"); err == nil {
		t.Error("Exchange() accepted a response without an access token")
	}
}

func TestTokenClientExchangeCancelled(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewTokenClient(ts.URL, "mittvibes", "http://localhost:52847/callback")
	if _, err := client.Exchange(ctx, "code", "verifier"); !errors.Is(err, context.Canceled) {
		t.Errorf("Exchange() error = %v, want context.Canceled", err)
	}
}
