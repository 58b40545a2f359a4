package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshalString(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`"Support"`), &r))

	assert.Equal(t, RefString, r.Kind)
	assert.Equal(t, "Support", r.Name)
	assert.Zero(t, r.ID)
	assert.Equal(t, "Support", r.Display())
}

func TestRefUnmarshalObject(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "name": "Support"}`), &r))

	assert.Equal(t, RefObject, r.Kind)
	assert.Equal(t, 3, r.ID)
	assert.Equal(t, "Support", r.Display())
}

func TestRefObjectParsedBeforeString(t *testing.T) {
	// An expanded object must never collapse into its stringified form:
	// the id would be lost silently.
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "name": "Support", "active": true}`), &r))

	assert.Equal(t, RefObject, r.Kind)
	assert.Equal(t, 3, r.ID)
}

func TestRefUnmarshalNull(t *testing.T) {
	r := RefFromName("stale")
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))

	assert.True(t, r.IsAbsent())
	assert.Empty(t, r.Display())
}

func TestRefUnmarshalObjectMissingID(t *testing.T) {
	var r Ref
	err := json.Unmarshal([]byte(`{"name": "Support"}`), &r)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestRefUnmarshalObjectNameOptional(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`{"id": 9}`), &r))

	assert.Equal(t, RefObject, r.Kind)
	assert.Equal(t, 9, r.ID)
	assert.Empty(t, r.Name)
}

func TestRefUnmarshalRejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{`42`, `true`, `[1, 2]`} {
		var r Ref
		assert.Error(t, json.Unmarshal([]byte(raw), &r), "shape %s", raw)
	}
}

func TestRefMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Ref
		want string
	}{
		{name: "absent", in: Ref{}, want: `null`},
		{name: "string", in: RefFromName("Support"), want: `"Support"`},
		{name: "object", in: RefFromObject(3, "Support"), want: `{"id":3,"name":"Support"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back Ref
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.in, back)
		})
	}
}
