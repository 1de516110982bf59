// Package chat holds the conversation state machine for the terminal
// client. State is an immutable value updated through pure transition
// functions, so the serialization rule (at most one request in flight)
// lives in one place and is testable without the UI.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"medbot/internal/models"
)

// Role identifies the author of a log entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the append-only conversation log
type Message struct {
	ID             string
	Role           Role
	Content        string
	Timestamp      time.Time
	Sources        []models.SourceDocument
	ProcessingTime *float64
}

// Phase is the submission state of the conversation
type Phase int

const (
	// Idle means no request is in flight
	Idle Phase = iota
	// Submitting means exactly one request is in flight
	Submitting
)

// State is the full conversation client state
type State struct {
	Phase    Phase
	Messages []Message
	Healthy  bool
	Pending  string // question text of the in-flight request
}

// NewState returns the initial state: idle, empty log, input enabled
// until the first health poll says otherwise.
func NewState() State {
	return State{Phase: Idle, Healthy: true}
}

// Result is the outcome of a gateway round trip
type Result struct {
	Response *models.QueryResponse
	Err      error
}

// Submit attempts to start a submission. It is accepted only from Idle
// with non-blank text; otherwise the state is returned unchanged and
// accepted is false. While Submitting, further submits are ignored.
func Submit(s State, text string) (next State, accepted bool) {
	trimmed := strings.TrimSpace(text)
	if s.Phase != Idle || trimmed == "" {
		return s, false
	}
	s.Phase = Submitting
	s.Pending = trimmed
	return s, true
}

// Settle completes the in-flight submission: the user message and the
// assistant response (or an error surrogate) are appended as one pair,
// and the state returns to Idle. The pair lands even if the log was
// cleared while the request was in flight.
func Settle(s State, res Result) State {
	now := time.Now()

	userMsg := Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   s.Pending,
		Timestamp: now,
	}

	var assistantMsg Message
	if res.Err != nil {
		assistantMsg = Message{
			ID:        uuid.New().String(),
			Role:      RoleAssistant,
			Content:   "I'm sorry, I couldn't answer that: " + res.Err.Error(),
			Timestamp: now,
		}
	} else {
		pt := res.Response.ProcessingTime
		assistantMsg = Message{
			ID:             uuid.New().String(),
			Role:           RoleAssistant,
			Content:        res.Response.Answer,
			Timestamp:      now,
			Sources:        res.Response.Sources,
			ProcessingTime: &pt,
		}
	}

	s.Messages = append(s.Messages, userMsg, assistantMsg)
	s.Phase = Idle
	s.Pending = ""
	return s
}

// Clear resets the log to empty. It is safe from any phase and does
// not cancel an in-flight request; that request's settlement will
// append against the cleared log.
func Clear(s State) State {
	s.Messages = nil
	return s
}

// SetHealth records the most recent health poll result
func SetHealth(s State, healthy bool) State {
	s.Healthy = healthy
	return s
}

// InputDisabled reports whether the input should be gated. The health
// part of the gate is advisory only; the gateway never rejects a query
// because a poll reported unhealthy.
func (s State) InputDisabled() bool {
	return s.Phase == Submitting || !s.Healthy
}
