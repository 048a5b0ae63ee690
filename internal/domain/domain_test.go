package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "UTC instant",
			input:    "2025-07-21T06:24:14Z",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 0, time.UTC),
		},
		{
			name:     "Offset qualified",
			input:    "2025-07-21T08:24:14+02:00",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 0, time.UTC),
		},
		{
			name:     "Basic offset",
			input:    "2025-07-21T08:24:14+0200",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 0, time.UTC),
		},
		{
			name:     "Basic negative offset with fraction",
			input:    "2025-07-21T03:24:14.5-0300",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 500_000_000, time.UTC),
		},
		{
			name:     "Hours-only offset",
			input:    "2025-07-21T08:24:14+02",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 0, time.UTC),
		},
		{
			name:    "Truncated offset",
			input:   "2025-07-21T08:24:14+2",
			wantErr: true,
		},
		{
			name:     "Fractional seconds",
			input:    "2025-07-21T06:24:14.250Z",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 250_000_000, time.UTC),
		},
		{
			name:     "No offset is read as UTC",
			input:    "2025-07-21T06:24:14",
			expected: time.Date(2025, 7, 21, 6, 24, 14, 0, time.UTC),
		},
		{
			name:    "Garbage",
			input:   "yesterday",
			wantErr: true,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEvent)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day)

	day, err = ParseWeekday(" sunday ")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)

	_, err = ParseWeekday("mon")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	assert.Equal(t, "wednesday", WeekdayName(time.Wednesday))
}

func TestDndWindowLocation(t *testing.T) {
	loc, err := DndWindow{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = DndWindow{Timezone: "Europe/Warsaw"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", loc.String())

	_, err = DndWindow{Timezone: "Mars/Olympus"}.Location()
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestEventTypesClone(t *testing.T) {
	original := EventTypes{"item_shipped": {Enabled: true, Channels: []string{"email", "push"}}}
	clone := original.Clone()
	clone["item_shipped"].Channels[0] = "sms"

	assert.Equal(t, "email", original["item_shipped"].Channels[0])
}

func TestEventTypesValidate(t *testing.T) {
	assert.NoError(t, EventTypes{"item_shipped": {Enabled: true, Channels: []string{"email"}}}.Validate())
	assert.NoError(t, EventTypes{}.Validate())
	assert.ErrorIs(t, EventTypes{"": {Enabled: true}}.Validate(), ErrInvalidPreferences)
	assert.ErrorIs(t, EventTypes{"x": {Channels: []string{""}}}.Validate(), ErrInvalidPreferences)
}

func TestDecisionJSON(t *testing.T) {
	event := NotificationEvent{EventID: "evt_1", UserID: "usr_1"}

	body, err := json.Marshal(ProcessNotification(event, []string{"email", "push"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision":"PROCESS_NOTIFICATION","eventId":"evt_1","userId":"usr_1","channels":["email","push"]}`, string(body))

	body, err = json.Marshal(DoNotNotify(event, ReasonDndActive))
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision":"DO_NOT_NOTIFY","eventId":"evt_1","userId":"usr_1","reason":"DND_ACTIVE"}`, string(body))
}

func TestNewNotificationCommand(t *testing.T) {
	ts := time.Date(2025, 5, 28, 10, 0, 0, 0, time.UTC)
	received := time.Date(2025, 5, 28, 12, 0, 0, 0, time.FixedZone("x", 3600))
	cmd := NewNotificationCommand(NotificationEvent{EventID: "e", UserID: "u", EventType: "item_shipped", Timestamp: ts}, received)

	assert.Equal(t, "e", cmd.EventID)
	assert.Equal(t, "u", cmd.UserID)
	assert.Equal(t, "item_shipped", cmd.EventType)
	assert.Equal(t, ts, cmd.OccurredAt)
	assert.Equal(t, time.UTC, cmd.ReceivedAt.Location())
}
