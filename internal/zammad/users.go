package zammad

import (
	"context"
	"net/url"
	"strconv"

	"github.com/zammad-tools/zammad-mcp/internal/models"
	"github.com/zammad-tools/zammad-mcp/internal/sanitize"
)

// GetUser fetches one user by id, with reference fields expanded.
func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	if id <= 0 {
		return nil, &PolicyError{Reason: "user id must be positive"}
	}
	data, err := c.get(ctx, "/users/"+strconv.Itoa(id), url.Values{"expand": {"true"}})
	if err != nil {
		return nil, err
	}
	return models.ParseUser(data)
}

// GetCurrentUser fetches the account the configured credentials belong
// to. It doubles as the startup connectivity check: a failure here
// means the URL or the credentials are wrong.
func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	data, err := c.get(ctx, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	return models.ParseUser(data)
}

// SearchUsers runs a paged user search.
func (c *Client) SearchUsers(ctx context.Context, query string, page, perPage int) ([]models.User, error) {
	if err := sanitize.ValidateQuery(query); err != nil {
		return nil, &PolicyError{Reason: err.Error()}
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 25
	}

	params := url.Values{
		"query":    {query},
		"expand":   {"true"},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	data, err := c.get(ctx, "/users/search", params)
	if err != nil {
		return nil, err
	}
	return models.ParseUsers(data)
}

// GetOrganization fetches one organization by id.
func (c *Client) GetOrganization(ctx context.Context, id int) (*models.Organization, error) {
	if id <= 0 {
		return nil, &PolicyError{Reason: "organization id must be positive"}
	}
	data, err := c.get(ctx, "/organizations/"+strconv.Itoa(id), url.Values{"expand": {"true"}})
	if err != nil {
		return nil, err
	}
	return models.ParseOrganization(data)
}

// SearchOrganizations runs a paged organization search.
func (c *Client) SearchOrganizations(ctx context.Context, query string, page, perPage int) ([]models.Organization, error) {
	if err := sanitize.ValidateQuery(query); err != nil {
		return nil, &PolicyError{Reason: err.Error()}
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 25
	}

	params := url.Values{
		"query":    {query},
		"expand":   {"true"},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	data, err := c.get(ctx, "/organizations/search", params)
	if err != nil {
		return nil, err
	}
	return models.ParseOrganizations(data)
}
