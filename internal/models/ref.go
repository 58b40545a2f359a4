package models

import (
	"encoding/json"
	"fmt"
)

// RefKind discriminates the shapes a reference field can take on the wire.
type RefKind int

const (
	// RefAbsent means the field was missing or null.
	RefAbsent RefKind = iota
	// RefString means the server sent a bare identifying string.
	RefString
	// RefObject means the server sent an expanded object with id and name.
	RefObject
)

// Ref is a reference to another record (group, state, priority, owner,
// customer, organization). Depending on whether the request asked for
// expansion, Zammad returns these fields either as a bare name string or
// as a nested object carrying id and name. Ref accepts both without loss;
// callers must check Kind before reading ID.
type Ref struct {
	Kind RefKind
	ID   int
	Name string
}

// RefFromName builds a string-variant reference.
func RefFromName(name string) Ref {
	return Ref{Kind: RefString, Name: name}
}

// RefFromObject builds an expanded-variant reference.
func RefFromObject(id int, name string) Ref {
	return Ref{Kind: RefObject, ID: id, Name: name}
}

// IsAbsent reports whether the field was missing from the response.
func (r Ref) IsAbsent() bool { return r.Kind == RefAbsent }

// Display returns the human-readable name regardless of variant, or ""
// when the field was absent.
func (r Ref) Display() string { return r.Name }

// refObject is the expanded wire shape. Extra keys (state_type_id,
// active, email, ...) are ignored; id and name identify the record.
type refObject struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}

// UnmarshalJSON accepts null, a string, or an object with id+name.
// The object parse is attempted first: trying string-first would coerce
// valid expanded objects into their stringified form and drop the id.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("reference object: %w", err)
		}
		if obj.ID == nil {
			return fmt.Errorf("reference object missing id")
		}
		name := ""
		if obj.Name != nil {
			name = *obj.Name
		}
		*r = Ref{Kind: RefObject, ID: *obj.ID, Name: name}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("reference: expected string or object, got %s", previewJSON(data))
	}
	*r = Ref{Kind: RefString, Name: s}
	return nil
}

// MarshalJSON round-trips each variant to the shape it arrived in.
func (r Ref) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefObject:
		return json.Marshal(refObject{ID: &r.ID, Name: &r.Name})
	case RefString:
		return json.Marshal(r.Name)
	default:
		return []byte("null"), nil
	}
}

func previewJSON(data []byte) string {
	const max = 32
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
