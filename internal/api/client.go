// Package api is a thin client for the mittwald v2 REST API covering the
// calls the init wizard needs: listing organizations and projects, checking
// contributor status and submitting contributor interest. Every call reads
// the bearer token through the session gate; an unauthorized response
// invalidates the session so the operator is asked to re-authenticate.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/weissaufschwarz/mittvibes/internal/auth"
)

// Customer is a mittwald customer organization.
type Customer struct {
	CustomerID string
	Name       string
	// IsContributor reports whether the organization may publish extensions.
	IsContributor bool
}

// Project is a hosting project belonging to a customer organization.
type Project struct {
	ID          string
	Description string
}

// Client calls the mittwald API on behalf of an authenticated session.
type Client struct {
	baseURL    string
	session    *auth.Session
	httpClient *http.Client
}

// NewClient creates an API client bound to the given session gate.
func NewClient(baseURL string, session *auth.Session) *Client {
	return &Client{
		baseURL:    baseURL,
		session:    session,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues an authenticated request and returns the response body. A 401
// invalidates the session and comes back as ErrSessionExpired; any other
// non-expected status is an error carrying the status and body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, expected ...int) (int, []byte, error) {
	token := c.session.AccessToken()
	if token == "" {
		return 0, nil, fmt.Errorf("not authenticated, please run 'mittvibes auth login' first")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Debugf("%s %s returned 401, invalidating session", method, path)
		c.session.Invalidate()
		return resp.StatusCode, respBody, auth.ErrSessionExpired
	}

	for _, status := range expected {
		if resp.StatusCode == status {
			return resp.StatusCode, respBody, nil
		}
	}
	return resp.StatusCode, respBody, fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, respBody)
}

// ListCustomers returns the customer organizations of the authenticated user.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/v2/customers", nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}

	var customers []Customer
	gjson.ParseBytes(body).ForEach(func(_, value gjson.Result) bool {
		customers = append(customers, Customer{
			CustomerID: value.Get("customerId").String(),
			Name:       value.Get("name").String(),
		})
		return true
	})
	return customers, nil
}

// GetContributorStatus reports whether the customer is a marketplace
// contributor. The API answers 200 for contributors and 404 for everyone
// else; both are regular outcomes, not errors.
func (c *Client) GetContributorStatus(ctx context.Context, customerID string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodGet, "/v2/contributors/"+customerID, nil, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return false, fmt.Errorf("failed to check contributor status: %w", err)
	}
	return status == http.StatusOK, nil
}

// ListCustomersWithContributorStatus resolves the contributor flag for every
// organization. Organizations whose status lookup fails are skipped rather
// than failing the whole listing.
func (c *Client) ListCustomersWithContributorStatus(ctx context.Context) ([]Customer, error) {
	customers, err := c.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Customer, 0, len(customers))
	for _, customer := range customers {
		isContributor, errStatus := c.GetContributorStatus(ctx, customer.CustomerID)
		if errStatus != nil {
			log.Warnf("skipping %s: %v", customer.Name, errStatus)
			continue
		}
		customer.IsContributor = isContributor
		result = append(result, customer)
	}
	return result, nil
}

// SubmitContributorInterest registers the customer's interest in becoming a
// marketplace contributor.
func (c *Client) SubmitContributorInterest(ctx context.Context, customerID string) error {
	path := "/v2/customers/" + customerID + "/contributor-interest"
	if _, _, err := c.do(ctx, http.MethodPost, path, []byte("{}"), http.StatusCreated); err != nil {
		return fmt.Errorf("failed to submit contributor interest: %w", err)
	}
	return nil
}

// ListProjects returns the projects of the given customer organization.
func (c *Client) ListProjects(ctx context.Context, customerID string) ([]Project, error) {
	path := "/v2/projects?customerId=" + customerID
	_, body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	var projects []Project
	gjson.ParseBytes(body).ForEach(func(_, value gjson.Result) bool {
		projects = append(projects, Project{
			ID:          value.Get("id").String(),
			Description: value.Get("description").String(),
		})
		return true
	})
	return projects, nil
}
