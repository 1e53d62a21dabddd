package status

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// State is the closed set of member availability states.
type State string

const (
	StateActive    State = "active"
	StateInactive  State = "inactive"
	StateSignedOff State = "signed-off"
)

// Known reports whether s is one of the three recognized states.
func (s State) Known() bool {
	switch s {
	case StateActive, StateInactive, StateSignedOff:
		return true
	}
	return false
}

// Metadata is the state-dependent payload attached to a status.
// Active carries Until, Inactive carries Since, SignedOff carries Until and
// an optional Reason. Timestamps are always absolute instants.
type Metadata struct {
	Until  *time.Time `json:"until,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// Validate checks that the metadata shape matches the given state.
// A mismatch here is a programming error in the caller: user input is parsed
// and validated at the boundary before this package is invoked.
func (m Metadata) Validate(s State) error {
	switch s {
	case StateActive:
		if m.Until == nil {
			return fmt.Errorf("state %q requires an until timestamp", s)
		}
	case StateInactive:
		if m.Since == nil {
			return fmt.Errorf("state %q requires a since timestamp", s)
		}
	case StateSignedOff:
		if m.Until == nil {
			return fmt.Errorf("state %q requires an until timestamp", s)
		}
	default:
		return fmt.Errorf("unknown state %q", s)
	}
	return nil
}

// MarshalMeta serializes the metadata for persistence.
func (m Metadata) MarshalMeta() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal status metadata: %w", err)
	}
	return string(b), nil
}

// UnmarshalMeta deserializes persisted metadata. An empty document yields
// zero metadata rather than an error.
func UnmarshalMeta(raw string) (Metadata, error) {
	var m Metadata
	if raw == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Metadata{}, fmt.Errorf("failed to unmarshal status metadata: %w", err)
	}
	return m, nil
}

// Entry is one member's current status.
type Entry struct {
	State State
	Meta  Metadata
}

// Snapshot is the full current status picture, keyed by member id.
type Snapshot map[string]Entry

// Transition is a pending status change for one member.
type Transition struct {
	MemberID string
	State    State
	Meta     Metadata
}

// ComputeExpiry yields the transitions the expiry rule demands at the given
// instant: every active member whose until lies strictly before now becomes
// inactive since now. No other state ever expires automatically; in
// particular a signed-off member stays signed off past their until.
// The result is ordered by member id so applying it is deterministic.
func ComputeExpiry(snap Snapshot, now time.Time) []Transition {
	var transitions []Transition
	for memberID, entry := range snap {
		if entry.State != StateActive || entry.Meta.Until == nil {
			continue
		}
		if entry.Meta.Until.Before(now) {
			since := now
			transitions = append(transitions, Transition{
				MemberID: memberID,
				State:    StateInactive,
				Meta:     Metadata{Since: &since},
			})
		}
	}
	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].MemberID < transitions[j].MemberID
	})
	return transitions
}
