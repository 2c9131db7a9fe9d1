package moderation

import (
	"fmt"
	"strings"

	"estateBack/internal/models"
)

// Status constants used by the listing moderation state machine.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Actor roles relative to a listing.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// There is no terminal state: every status can reach every other one.
var transitions = map[string]map[string]struct{}{
	StatusPending:  {StatusApproved: {}, StatusRejected: {}},
	StatusApproved: {StatusPending: {}, StatusRejected: {}},
	StatusRejected: {StatusPending: {}, StatusApproved: {}},
}

// CanTransition returns whether a listing can move from the current status to the target status.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	_, ok = allowed[to]
	return ok
}

// Statuses lists the valid moderation statuses.
func Statuses() []string {
	return []string{StatusPending, StatusApproved, StatusRejected}
}

// Valid reports whether s is a known status.
func Valid(s string) bool {
	_, ok := transitions[s]
	return ok
}

// Parse validates a client supplied status.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !Valid(s) {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidStatus, s)
	}
	return s, nil
}

type reasonRule int

const (
	reasonUntouched reasonRule = iota
	reasonClear
	// reasonSuppliedOrKeep takes the supplied reason, or keeps the previous one.
	reasonSuppliedOrKeep
)

type rule struct {
	next   string // empty keeps the current status
	reason reasonRule
}

// intentNone is the table key used when no status was requested.
const intentNone = ""

var ownerRule = rule{next: StatusPending, reason: reasonClear}

// rules is the role x requested-status table. Owners always re-enter review.
var rules = map[string]map[string]rule{
	RoleOwner: {
		intentNone:     ownerRule,
		StatusPending:  ownerRule,
		StatusApproved: ownerRule,
		StatusRejected: ownerRule,
	},
	RoleAdmin: {
		intentNone:     {reason: reasonUntouched},
		StatusPending:  {next: StatusPending, reason: reasonClear},
		StatusApproved: {next: StatusApproved, reason: reasonClear},
		StatusRejected: {next: StatusRejected, reason: reasonSuppliedOrKeep},
	},
}

// State is the moderated part of a listing.
type State struct {
	Status       string
	RejectReason string
}

// Decide computes the next moderation state for an update by role. requested
// and reason are nil when the payload omitted them. Owners' requested values
// are discarded; an admin's requested status must be valid.
func Decide(role string, current State, requested, reason *string) (State, error) {
	table, ok := rules[role]
	if !ok {
		return State{}, fmt.Errorf("%w: unknown role %q", models.ErrForbidden, role)
	}

	intent := intentNone
	if role != RoleOwner && requested != nil && strings.TrimSpace(*requested) != "" {
		s, err := Parse(*requested)
		if err != nil {
			return State{}, err
		}
		intent = s
	}

	r := table[intent]
	next := current
	if r.next != "" {
		if Valid(current.Status) && !CanTransition(current.Status, r.next) {
			return State{}, fmt.Errorf("%w: cannot move from %s to %s", models.ErrValidation, current.Status, r.next)
		}
		next.Status = r.next
	}

	switch r.reason {
	case reasonClear:
		next.RejectReason = ""
	case reasonSuppliedOrKeep:
		if reason != nil {
			next.RejectReason = *reason
		}
	}
	return next, nil
}

// DecideStatusChange applies the admin status endpoint, where status is required.
func DecideStatusChange(current State, status string, reason *string) (State, error) {
	if strings.TrimSpace(status) == "" {
		return State{}, fmt.Errorf("%w: status is required", models.ErrInvalidStatus)
	}
	return Decide(RoleAdmin, current, &status, reason)
}
