package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "full name", user: User{Firstname: "Jane", Lastname: "Doe"}, want: "Jane Doe"},
		{name: "first only", user: User{Firstname: "Jane"}, want: "Jane"},
		{name: "last only", user: User{Lastname: "Doe"}, want: "Doe"},
		{name: "email fallback", user: User{Email: "jane@example.com"}, want: "jane@example.com"},
		{name: "login fallback", user: User{Login: "jdoe"}, want: "jdoe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestParseUserOrganizationRef(t *testing.T) {
	body := `{
		"id": 7, "login": "jdoe", "organization": "ACME Corp",
		"created_at": "2024-01-15T08:00:00Z", "updated_at": "2024-05-01T09:00:00Z"
	}`

	user, err := ParseUser([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, RefString, user.Organization.Kind)
	assert.Equal(t, "ACME Corp", user.Organization.Display())
}

func TestParseUserRequiresTimestamps(t *testing.T) {
	_, err := ParseUser([]byte(`{"id": 7, "login": "jdoe"}`))

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "user.created_at", valErr.Field)
}

func TestParseOrganizationRequiresName(t *testing.T) {
	_, err := ParseOrganization([]byte(`{"id": 3, "created_at": "2024-01-15T08:00:00Z", "updated_at": "2024-05-01T09:00:00Z"}`))

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "organization.name", valErr.Field)
}
