package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weissaufschwarz/mittvibes/internal/auth"
	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

func testSession(t *testing.T, token string) *auth.Session {
	t.Helper()
	v, err := vault.NewAtPath(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, v.SetAuth(vault.AuthConfig{AccessToken: token}))
	}
	return auth.NewSession(v)
}

func TestListCustomers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/customers", r.URL.Path)
		assert.Equal(t, "Bearer tok-api", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"customerId":"c1","name":"Acme"},
			{"customerId":"c2","name":"Globex"}
		]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testSession(t, "tok-api"))
	customers, err := client.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, Customer{CustomerID: "c1", Name: "Acme"}, customers[0])
	assert.Equal(t, Customer{CustomerID: "c2", Name: "Globex"}, customers[1])
}

func TestListCustomersUnauthenticated(t *testing.T) {
	client := NewClient("http://unused.example.test", testSession(t, ""))
	_, err := client.ListCustomers(context.Background())
	require.Error(t, err)
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	session := testSession(t, "tok-stale")
	client := NewClient(ts.URL, session)

	_, err := client.ListCustomers(context.Background())
	require.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.False(t, session.IsAuthenticated(), "session should be invalidated after a 401")
}

func TestGetContributorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/contributors/c-yes":
			w.WriteHeader(http.StatusOK)
		case "/v2/contributors/c-no":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testSession(t, "tok-api"))

	isContributor, err := client.GetContributorStatus(context.Background(), "c-yes")
	require.NoError(t, err)
	assert.True(t, isContributor)

	isContributor, err = client.GetContributorStatus(context.Background(), "c-no")
	require.NoError(t, err)
	assert.False(t, isContributor, "a 404 means not a contributor, not an error")

	_, err = client.GetContributorStatus(context.Background(), "c-broken")
	require.Error(t, err)
}

func TestListCustomersWithContributorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/customers":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"customerId":"c1","name":"Acme"},
				{"customerId":"c2","name":"Globex"},
				{"customerId":"c3","name":"Initech"}
			]`))
		case "/v2/contributors/c1":
			w.WriteHeader(http.StatusOK)
		case "/v2/contributors/c2":
			w.WriteHeader(http.StatusNotFound)
		default:
			// c3's lookup breaks; the listing skips it.
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testSession(t, "tok-api"))
	customers, err := client.ListCustomersWithContributorStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.True(t, customers[0].IsContributor)
	assert.False(t, customers[1].IsContributor)
}

func TestSubmitContributorInterest(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testSession(t, "tok-api"))
	require.NoError(t, client.SubmitContributorInterest(context.Background(), "c1"))
	assert.Equal(t, "/v2/customers/c1/contributor-interest", gotPath)
}

func TestListProjects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/projects", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("customerId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","description":"Main site"}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testSession(t, "tok-api"))
	projects, err := client.ListProjects(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, Project{ID: "p1", Description: "Main site"}, projects[0])
}

func TestUnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, testSession(t, "tok-api"))
	_, err := client.ListCustomers(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrSessionExpired), "a 500 must not invalidate the session")
	assert.Contains(t, err.Error(), "500")
}
