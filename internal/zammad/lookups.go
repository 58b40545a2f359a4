package zammad

import (
	"context"
	"fmt"

	"github.com/zammad-tools/zammad-mcp/internal/models"
)

// Lookup table fetches go through the cache: the first call for each
// table hits the remote, every later call is served from memory until
// RefreshCache or process restart.

// ListGroups returns all ticket groups.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	if groups, ok := c.cache.getGroups(); ok {
		return groups, nil
	}
	data, err := c.get(ctx, "/groups", nil)
	if err != nil {
		return nil, err
	}
	groups, err := models.ParseGroups(data)
	if err != nil {
		return nil, err
	}
	c.cache.setGroups(groups)
	return groups, nil
}

// ListTicketStates returns all ticket states.
func (c *Client) ListTicketStates(ctx context.Context) ([]models.State, error) {
	if states, ok := c.cache.getStates(); ok {
		return states, nil
	}
	data, err := c.get(ctx, "/ticket_states", nil)
	if err != nil {
		return nil, err
	}
	states, err := models.ParseStates(data)
	if err != nil {
		return nil, err
	}
	c.cache.setStates(states)
	return states, nil
}

// GetTicketState resolves one state by id, populating the state table
// on first use.
func (c *Client) GetTicketState(ctx context.Context, id int) (*models.State, error) {
	if state, ok := c.cache.getState(id); ok {
		return &state, nil
	}
	states, err := c.ListTicketStates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range states {
		if states[i].ID == id {
			return &states[i], nil
		}
	}
	return nil, &RequestError{Status: 404, Message: fmt.Sprintf("ticket state %d not found", id)}
}

// ListTicketPriorities returns all ticket priorities.
func (c *Client) ListTicketPriorities(ctx context.Context) ([]models.Priority, error) {
	if priorities, ok := c.cache.getPriorities(); ok {
		return priorities, nil
	}
	data, err := c.get(ctx, "/ticket_priorities", nil)
	if err != nil {
		return nil, err
	}
	priorities, err := models.ParsePriorities(data)
	if err != nil {
		return nil, err
	}
	c.cache.setPriorities(priorities)
	return priorities, nil
}
