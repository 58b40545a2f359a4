package zammad

import "fmt"

// The client maps every failure to one of five kinds so that callers
// can tell "bad request to us" apart from "remote system is down":
//
//	ConfigError    - ambiguous or missing credentials at startup
//	PolicyError    - URL or input failed a safety check; no call was made
//	TransportError - network failure or timeout
//	RequestError   - the remote rejected the request (4xx)
//	RemoteError    - the remote failed (5xx)
//
// models.ValidationError is the sixth kind and originates in parsing.

// ConfigError reports invalid client configuration. It is fatal at
// startup; the client never reaches ready state.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "zammad: configuration error: " + e.Reason
}

// PolicyError reports a URL or input rejected by a safety check before
// any network traffic was generated.
type PolicyError struct {
	Target string
	Reason string
}

func (e *PolicyError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("zammad: policy violation for %q: %s", e.Target, e.Reason)
	}
	return "zammad: policy violation: " + e.Reason
}

// TransportError reports a network-level failure: connection refused,
// DNS, timeout. The remote may never have seen the request.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("zammad: transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestError reports a 4xx response: the remote understood and
// rejected the request. Status and the remote's message are preserved
// so the dispatch surface can produce an actionable error.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("zammad: request rejected (HTTP %d): %s", e.Status, e.Message)
}

// RemoteError reports a 5xx response: the remote system is unavailable
// or failing.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("zammad: remote unavailable (HTTP %d): %s", e.Status, e.Message)
}
