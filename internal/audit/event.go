// Package audit records OCSP operations as a tamper-evident trail.
//
// Each event is one JSONL line carrying a SHA-256 hash over its canonical
// form and the previous event's hash, so removal or edits break the chain
// and VerifyChain detects them. Timestamps are UTC; private keys and
// passphrases are never recorded. When a writer is installed, an event
// that cannot be written fails the operation it records.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// EventType represents the category of audit event.
type EventType string

const (
	// Request events
	EventRequestCreated EventType = "OCSP_REQUEST_CREATED"

	// Response events
	EventResponseSigned   EventType = "OCSP_RESPONSE_SIGNED"
	EventResponseError    EventType = "OCSP_RESPONSE_ERROR"
	EventResponseVerified EventType = "OCSP_RESPONSE_VERIFIED"

	// Responder events
	EventResponderAnswered EventType = "OCSP_RESPONDER_ANSWERED"
)

// Result represents the outcome of an audited operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Actor represents who performed the action.
type Actor struct {
	Type string `json:"type"`           // "user", "system", "service"
	ID   string `json:"id"`             // username or service identifier
	Host string `json:"host,omitempty"` // hostname where action occurred
}

// Object represents what was acted upon.
type Object struct {
	Type    string `json:"type"`              // "request", "response"
	Serial  string `json:"serial,omitempty"`  // subject certificate serial
	Subject string `json:"subject,omitempty"` // subject DN when known
	Path    string `json:"path,omitempty"`    // file path
}

// Context provides additional details about the operation.
type Context struct {
	Status    string `json:"status,omitempty"`    // response or certificate status
	Algorithm string `json:"algorithm,omitempty"` // digest or signature algorithm
	Responder string `json:"responder,omitempty"` // responder identity
	Reason    string `json:"reason,omitempty"`    // revocation or failure reason
	Verified  bool   `json:"verified,omitempty"`  // verification result
}

// Event represents a single audit log entry.
type Event struct {
	EventType EventType `json:"event_type"`
	Timestamp string    `json:"timestamp"` // RFC3339 UTC
	Actor     Actor     `json:"actor"`
	Object    Object    `json:"object"`
	Context   Context   `json:"context,omitempty"`
	Result    Result    `json:"result"`
	HashPrev  string    `json:"hash_prev"` // SHA-256 hash of previous event
	Hash      string    `json:"hash"`      // SHA-256 hash of this event
}

// NewEvent stamps a new event with the current UTC time and the local
// actor identity.
func NewEvent(eventType EventType, result Result) *Event {
	hostname, _ := os.Hostname()
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows
	}
	if username == "" {
		username = "unknown"
	}

	return &Event{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor: Actor{
			Type: "user",
			ID:   username,
			Host: hostname,
		},
		Result: result,
	}
}

// WithObject sets the object field.
func (e *Event) WithObject(obj Object) *Event {
	e.Object = obj
	return e
}

// WithContext sets the context field.
func (e *Event) WithContext(ctx Context) *Event {
	e.Context = ctx
	return e
}

// Validate checks that required fields are present.
func (e *Event) Validate() error {
	if e.EventType == "" {
		return fmt.Errorf("event_type is required")
	}
	if e.Timestamp == "" {
		return fmt.Errorf("timestamp is required")
	}
	if e.Actor.Type == "" || e.Actor.ID == "" {
		return fmt.Errorf("actor type and id are required")
	}
	if e.Result == "" {
		return fmt.Errorf("result is required")
	}
	return nil
}

// CanonicalJSON is the hashing input: the event without its own Hash
// field, in fixed field order.
func (e *Event) CanonicalJSON() ([]byte, error) {
	type eventForHash struct {
		EventType EventType `json:"event_type"`
		Timestamp string    `json:"timestamp"`
		Actor     Actor     `json:"actor"`
		Object    Object    `json:"object"`
		Context   Context   `json:"context,omitempty"`
		Result    Result    `json:"result"`
		HashPrev  string    `json:"hash_prev"`
	}

	return json.Marshal(eventForHash{
		EventType: e.EventType,
		Timestamp: e.Timestamp,
		Actor:     e.Actor,
		Object:    e.Object,
		Context:   e.Context,
		Result:    e.Result,
		HashPrev:  e.HashPrev,
	})
}

// JSON returns the full event as JSON.
func (e *Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}
