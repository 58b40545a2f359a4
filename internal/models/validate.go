// Package models defines the normalized shape of every record returned
// by the Zammad REST API, along with the parsing and validation rules
// applied to raw response bodies. Records are only ever constructed
// from a successful parse; a response that fails validation yields a
// ValidationError and no record.
package models

import (
	"encoding/json"
	"fmt"
)

// ValidationError describes a malformed field in a server response:
// which field, what shape was expected, and what arrived instead.
type ValidationError struct {
	Field    string
	Expected string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid field %q: expected %s: %v", e.Field, e.Expected, e.Err)
	}
	return fmt.Sprintf("invalid field %q: expected %s", e.Field, e.Expected)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func missingField(field, expected string) *ValidationError {
	return &ValidationError{Field: field, Expected: expected, Err: fmt.Errorf("missing or empty")}
}

func decodeField(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Expected: "valid JSON value", Err: err}
}

// decodeStrict unmarshals data into dst and converts decode failures
// into a ValidationError rooted at the given record name.
func decodeStrict(record string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		if ute, ok := err.(*json.UnmarshalTypeError); ok {
			field := record
			if ute.Field != "" {
				field = record + "." + ute.Field
			}
			return &ValidationError{Field: field, Expected: ute.Type.String(), Err: err}
		}
		return decodeField(record, err)
	}
	return nil
}
