package board

import (
	"fmt"
	"math"
	"time"

	"team-status-backend/config"
	"team-status-backend/internal/model"
	"team-status-backend/internal/status"
)

// TimeLayout is the fixed day-month-year, 24-hour format used on the board.
const TimeLayout = "02.01.2006 15:04"

// Placeholder is rendered for roster members with no status on record.
const Placeholder = "—"

// Field is one member's line on the board.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Board is the rendered status board or report, ready to be posted as a
// message through the chat relay.
type Board struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// RenderBoard maps the full status snapshot into the status board. One field
// per roster member, in roster order.
func RenderBoard(snap status.Snapshot, roster []config.Member, loc *time.Location) Board {
	b := Board{
		Title:       "Team Status",
		Description: "Keep your status up to date. Repeated inactivity will be followed up on.",
		Fields:      make([]Field, 0, len(roster)),
	}

	for _, member := range roster {
		value := Placeholder
		if entry, ok := snap[member.ID]; ok {
			value = renderEntry(entry, loc)
		}
		b.Fields = append(b.Fields, Field{Name: member.Name, Value: value})
	}
	return b
}

func renderEntry(entry status.Entry, loc *time.Location) string {
	switch entry.State {
	case status.StateActive:
		if entry.Meta.Until == nil {
			return Placeholder
		}
		return fmt.Sprintf("Active until %s", entry.Meta.Until.In(loc).Format(TimeLayout))
	case status.StateInactive:
		if entry.Meta.Since == nil {
			return Placeholder
		}
		return fmt.Sprintf("Inactive since %s", entry.Meta.Since.In(loc).Format(TimeLayout))
	case status.StateSignedOff:
		if entry.Meta.Until == nil {
			return Placeholder
		}
		value := fmt.Sprintf("Signed off until %s", entry.Meta.Until.In(loc).Format(TimeLayout))
		if entry.Meta.Reason != "" {
			value += fmt.Sprintf("\nReason: %s", entry.Meta.Reason)
		}
		return value
	}
	return Placeholder
}

type actionCounts struct {
	active    int
	inactive  int
	signedOff int
}

func (c actionCounts) total() int {
	return c.active + c.inactive + c.signedOff
}

// activityRate is the share of transitions that were to active, as a rounded
// percentage. A member with no transitions in the window rates 0 rather than
// dividing by zero.
func (c actionCounts) activityRate() int {
	total := c.total()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(c.active) / float64(total) * 100))
}

// RenderWeeklyReport tallies activity log entries within the trailing window
// and renders per-member counts plus the activity rate, in roster order.
// Entries before windowStart are ignored even if the caller passed them in.
func RenderWeeklyReport(entries []model.ActivityLog, roster []config.Member, windowStart time.Time) Board {
	counts := make(map[string]actionCounts)
	for _, entry := range entries {
		if entry.Timestamp.Before(windowStart) {
			continue
		}
		c := counts[entry.MemberID]
		switch status.State(entry.Action) {
		case status.StateActive:
			c.active++
		case status.StateInactive:
			c.inactive++
		case status.StateSignedOff:
			c.signedOff++
		}
		counts[entry.MemberID] = c
	}

	b := Board{
		Title:       "📊 Weekly Report",
		Description: "Status activity over the last 7 days",
		Fields:      make([]Field, 0, len(roster)),
	}

	for _, member := range roster {
		c := counts[member.ID]
		value := fmt.Sprintf("Active: %dx\nInactive: %dx\nSigned off: %dx\nActivity rate: %d%%",
			c.active, c.inactive, c.signedOff, c.activityRate())
		b.Fields = append(b.Fields, Field{Name: member.Name, Value: value})
	}
	return b
}
