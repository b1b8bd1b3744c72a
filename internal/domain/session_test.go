package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      int
	}{
		{"half of four", 2, 4, 50},
		{"no exercises", 0, 0, 0},
		{"completed ids without plan", 3, 0, 0},
		{"none done", 0, 5, 0},
		{"all done", 3, 3, 100},
		{"rounds to nearest", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"capped", 5, 4, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionRate(tt.completed, tt.total))
		})
	}
}

func TestCountCompletedInPlan(t *testing.T) {
	exercises := []Exercise{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	assert.EqualValues(t, 2, CountCompletedInPlan([]int64{1, 3}, exercises))
	assert.EqualValues(t, 1, CountCompletedInPlan([]int64{1, 1, 99}, exercises))
	assert.EqualValues(t, 0, CountCompletedInPlan(nil, exercises))
	assert.EqualValues(t, 0, CountCompletedInPlan([]int64{1}, nil))
}

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, SessionScheduled.CanTransitionTo(SessionCompleted))
	assert.True(t, SessionScheduled.CanTransitionTo(SessionMissed))
	assert.True(t, SessionScheduled.CanTransitionTo(SessionScheduled))
	assert.True(t, SessionCompleted.CanTransitionTo(SessionCompleted))

	assert.False(t, SessionCompleted.CanTransitionTo(SessionScheduled))
	assert.False(t, SessionCompleted.CanTransitionTo(SessionMissed))
	assert.False(t, SessionMissed.CanTransitionTo(SessionCompleted))
	assert.False(t, SessionMissed.CanTransitionTo(SessionScheduled))
}

func TestSummarizeSessions(t *testing.T) {
	stats := SummarizeSessions([]Session{
		{Status: SessionCompleted},
		{Status: SessionCompleted},
		{Status: SessionMissed},
		{Status: SessionScheduled},
	})
	assert.Equal(t, SessionStats{Total: 4, Completed: 2, Missed: 1, Scheduled: 1}, stats)
	assert.Equal(t, SessionStats{}, SummarizeSessions(nil))
}

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(b))

	var decoded Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-12-01"`), &decoded))
	assert.Equal(t, "2024-12-01", decoded.String())

	assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &decoded))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 6, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-06", d.String())

	require.NoError(t, d.Scan("2023-01-02"))
	assert.Equal(t, "2023-01-02", d.String())

	assert.Error(t, d.Scan(42))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("client").Valid())
	assert.EqualValues(t, 1, RoleAdmin.ID())
	assert.EqualValues(t, 2, RoleTrainer.ID())
	assert.EqualValues(t, 3, RoleMember.ID())
	assert.EqualValues(t, 0, Role("").ID())
}
