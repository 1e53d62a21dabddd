package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"team-status-backend/config"
	"team-status-backend/internal/model"
	"team-status-backend/internal/status"
)

var testRoster = []config.Member{
	{ID: "m-alex", Name: "Alex"},
	{ID: "m-billie", Name: "Billie"},
	{ID: "m-chris", Name: "Chris"},
	{ID: "m-drew", Name: "Drew"},
}

func TestRenderBoard(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	until := time.Date(2025, 9, 20, 23, 16, 0, 0, loc)
	since := time.Date(2025, 9, 18, 8, 0, 0, 0, loc)
	awayUntil := time.Date(2025, 10, 1, 0, 0, 0, 0, loc)

	snap := status.Snapshot{
		"m-alex":   {State: status.StateActive, Meta: status.Metadata{Until: &until}},
		"m-billie": {State: status.StateInactive, Meta: status.Metadata{Since: &since}},
		"m-chris":  {State: status.StateSignedOff, Meta: status.Metadata{Until: &awayUntil, Reason: "exams"}},
		// m-drew has no status on record.
	}

	b := RenderBoard(snap, testRoster, loc)

	assert.Equal(t, "Team Status", b.Title)
	require.Len(t, b.Fields, 4)

	// Fields follow roster order, not activity or alphabet.
	assert.Equal(t, "Alex", b.Fields[0].Name)
	assert.Equal(t, "Active until 20.09.2025 23:16", b.Fields[0].Value)

	assert.Equal(t, "Billie", b.Fields[1].Name)
	assert.Equal(t, "Inactive since 18.09.2025 08:00", b.Fields[1].Value)

	assert.Equal(t, "Chris", b.Fields[2].Name)
	assert.Equal(t, "Signed off until 01.10.2025 00:00\nReason: exams", b.Fields[2].Value)

	assert.Equal(t, "Drew", b.Fields[3].Name)
	assert.Equal(t, Placeholder, b.Fields[3].Value)
}

func TestRenderBoardSignedOffWithoutReason(t *testing.T) {
	loc := time.UTC
	until := time.Date(2025, 9, 25, 12, 0, 0, 0, loc)

	snap := status.Snapshot{
		"m-alex": {State: status.StateSignedOff, Meta: status.Metadata{Until: &until}},
	}

	b := RenderBoard(snap, testRoster[:1], loc)
	require.Len(t, b.Fields, 1)
	assert.Equal(t, "Signed off until 25.09.2025 12:00", b.Fields[0].Value)
	assert.NotContains(t, b.Fields[0].Value, "Reason")
}

func TestRenderBoardTimezoneConversion(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Stored as UTC, rendered in the board timezone (CEST = UTC+2).
	until := time.Date(2025, 9, 20, 21, 16, 0, 0, time.UTC)
	snap := status.Snapshot{
		"m-alex": {State: status.StateActive, Meta: status.Metadata{Until: &until}},
	}

	b := RenderBoard(snap, testRoster[:1], berlin)
	require.Len(t, b.Fields, 1)
	assert.Equal(t, "Active until 20.09.2025 23:16", b.Fields[0].Value)
}

func TestRenderWeeklyReport(t *testing.T) {
	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	windowStart := now.Add(-7 * 24 * time.Hour)

	entries := []model.ActivityLog{
		// Alex: all active within the window.
		{MemberID: "m-alex", Action: "active", Timestamp: now.Add(-time.Hour)},
		{MemberID: "m-alex", Action: "active", Timestamp: now.Add(-2 * time.Hour)},
		// Billie: mixed.
		{MemberID: "m-billie", Action: "active", Timestamp: now.Add(-24 * time.Hour)},
		{MemberID: "m-billie", Action: "inactive", Timestamp: now.Add(-23 * time.Hour)},
		{MemberID: "m-billie", Action: "signed-off", Timestamp: now.Add(-22 * time.Hour)},
		// Chris: only an entry outside the window; must be excluded.
		{MemberID: "m-chris", Action: "active", Timestamp: now.Add(-8 * 24 * time.Hour)},
	}

	b := RenderWeeklyReport(entries, testRoster, windowStart)

	assert.Equal(t, "📊 Weekly Report", b.Title)
	require.Len(t, b.Fields, 4)

	// All-active member rates 100.
	assert.Equal(t, "Active: 2x\nInactive: 0x\nSigned off: 0x\nActivity rate: 100%", b.Fields[0].Value)

	// 1 of 3 active rounds to 33.
	assert.Equal(t, "Active: 1x\nInactive: 1x\nSigned off: 1x\nActivity rate: 33%", b.Fields[1].Value)

	// Out-of-window entries count for nothing; rate is 0, not a crash.
	assert.Equal(t, "Active: 0x\nInactive: 0x\nSigned off: 0x\nActivity rate: 0%", b.Fields[2].Value)

	// Member with no entries at all.
	assert.Equal(t, "Active: 0x\nInactive: 0x\nSigned off: 0x\nActivity rate: 0%", b.Fields[3].Value)
}
