package models

import "time"

// Lookup entities are small, slow-changing reference records (groups,
// ticket states, ticket priorities). They are fetched as complete lists
// and cached by id for the life of the process. Unknown ids coming back
// on tickets are preserved as opaque ids rather than rejected: the
// remote system is the source of truth and may grow values this client
// has not seen yet.

// Group is a ticket group (queue).
type Group struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Note     string `json:"note"`
	FollowUp string `json:"follow_up_possible"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *Group) validate() error {
	switch {
	case g.ID <= 0:
		return missingField("group.id", "positive integer")
	case g.Name == "":
		return missingField("group.name", "non-empty string")
	}
	return nil
}

// ParseGroups validates a group list response.
func ParseGroups(data []byte) ([]Group, error) {
	var groups []Group
	if err := decodeStrict("groups", data, &groups); err != nil {
		return nil, err
	}
	for i := range groups {
		if err := groups[i].validate(); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// Ticket state type ids as defined by Zammad.
const (
	StateTypeNew             = 1
	StateTypeOpen            = 2
	StateTypeClosed          = 5
	StateTypePendingReminder = 3
	StateTypePendingAction   = 4
)

// State is a ticket state.
type State struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	StateTypeID     int    `json:"state_type_id"`
	Active          bool   `json:"active"`
	DefaultCreate   bool   `json:"default_create"`
	DefaultFollowUp bool   `json:"default_follow_up"`
	Note            string `json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *State) validate() error {
	switch {
	case s.ID <= 0:
		return missingField("ticket_state.id", "positive integer")
	case s.Name == "":
		return missingField("ticket_state.name", "non-empty string")
	}
	return nil
}

// ParseStates validates a ticket state list response.
func ParseStates(data []byte) ([]State, error) {
	var states []State
	if err := decodeStrict("ticket_states", data, &states); err != nil {
		return nil, err
	}
	for i := range states {
		if err := states[i].validate(); err != nil {
			return nil, err
		}
	}
	return states, nil
}

// ParseTags extracts the tag list from a tag query response, which
// wraps the list in a "tags" envelope.
func ParseTags(data []byte) ([]string, error) {
	var envelope struct {
		Tags []string `json:"tags"`
	}
	if err := decodeStrict("tags", data, &envelope); err != nil {
		return nil, err
	}
	return envelope.Tags, nil
}

// Priority is a ticket priority level.
type Priority struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	DefaultCreate bool   `json:"default_create"`
	UIColor       string `json:"ui_color"`
	Note          string `json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Priority) validate() error {
	switch {
	case p.ID <= 0:
		return missingField("ticket_priority.id", "positive integer")
	case p.Name == "":
		return missingField("ticket_priority.name", "non-empty string")
	}
	return nil
}

// ParsePriorities validates a ticket priority list response.
func ParsePriorities(data []byte) ([]Priority, error) {
	var priorities []Priority
	if err := decodeStrict("ticket_priorities", data, &priorities); err != nil {
		return nil, err
	}
	for i := range priorities {
		if err := priorities[i].validate(); err != nil {
			return nil, err
		}
	}
	return priorities, nil
}
