package models

import "time"

// User is a snapshot of a remote user account.
type User struct {
	ID             int    `json:"id"`
	Login          string `json:"login"`
	Email          string `json:"email"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Active         bool   `json:"active"`
	VIP            bool   `json:"vip"`
	OrganizationID int    `json:"organization_id"`
	RoleIDs        []int  `json:"role_ids"`

	Organization Ref `json:"organization"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DisplayName returns the best human-readable identifier available.
func (u *User) DisplayName() string {
	switch {
	case u.Firstname != "" || u.Lastname != "":
		if u.Firstname == "" {
			return u.Lastname
		}
		if u.Lastname == "" {
			return u.Firstname
		}
		return u.Firstname + " " + u.Lastname
	case u.Email != "":
		return u.Email
	default:
		return u.Login
	}
}

func (u *User) validate() error {
	switch {
	case u.ID <= 0:
		return missingField("user.id", "positive integer")
	case u.CreatedAt.IsZero():
		return missingField("user.created_at", "RFC 3339 timestamp")
	case u.UpdatedAt.IsZero():
		return missingField("user.updated_at", "RFC 3339 timestamp")
	}
	return nil
}

// ParseUser validates and normalizes a raw user response body.
func ParseUser(data []byte) (*User, error) {
	var u User
	if err := decodeStrict("user", data, &u); err != nil {
		return nil, err
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// ParseUsers validates and normalizes a user list response.
func ParseUsers(data []byte) ([]User, error) {
	var users []User
	if err := decodeStrict("users", data, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if err := users[i].validate(); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Organization is a snapshot of a remote organization.
type Organization struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Shared    bool   `json:"shared"`
	Domain    string `json:"domain"`
	Active    bool   `json:"active"`
	Note      string `json:"note"`
	MemberIDs []int  `json:"member_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organization) validate() error {
	switch {
	case o.ID <= 0:
		return missingField("organization.id", "positive integer")
	case o.Name == "":
		return missingField("organization.name", "non-empty string")
	}
	return nil
}

func (o *Organization) sanitize() {
	o.Note = bodyPolicy.Sanitize(o.Note)
}

// ParseOrganization validates and normalizes a raw organization response.
func ParseOrganization(data []byte) (*Organization, error) {
	var o Organization
	if err := decodeStrict("organization", data, &o); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	o.sanitize()
	return &o, nil
}

// ParseOrganizations validates and normalizes an organization list response.
func ParseOrganizations(data []byte) ([]Organization, error) {
	var orgs []Organization
	if err := decodeStrict("organizations", data, &orgs); err != nil {
		return nil, err
	}
	for i := range orgs {
		if err := orgs[i].validate(); err != nil {
			return nil, err
		}
		orgs[i].sanitize()
	}
	return orgs, nil
}
