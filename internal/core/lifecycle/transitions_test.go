package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialStatus())
}

func TestCanTransition(t *testing.T) {
	legal := map[Status][]Status{
		StatusPending:    {StatusInProgress},
		StatusInProgress: {StatusResolved, StatusEscalated},
		StatusResolved:   {StatusClosed},
		StatusEscalated:  {StatusInProgress, StatusClosed},
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			want := false
			for _, s := range legal[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminalAndOpen(t *testing.T) {
	assert.True(t, IsTerminal(StatusClosed))
	assert.False(t, IsTerminal(StatusResolved))
	assert.True(t, IsOpen(StatusEscalated))
	assert.False(t, IsOpen(StatusResolved))
	assert.False(t, IsOpen(StatusClosed))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("In Progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("in progress")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestNextStatuses_ReturnsCopy(t *testing.T) {
	next := NextStatuses(StatusInProgress)
	next[0] = StatusClosed
	assert.Equal(t, []Status{StatusResolved, StatusEscalated}, NextStatuses(StatusInProgress))
}

func TestApplyTransition(t *testing.T) {
	fixedTime := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		in             TransitionInput
		wantResolvedAt bool
		wantEscalation bool
		wantAssignee   *uint
	}{
		{
			name:         "pending to in progress",
			in:           TransitionInput{Current: StatusPending, Target: StatusInProgress, Now: fixedTime},
			wantAssignee: nil,
		},
		{
			name:           "in progress to resolved sets ResolvedAt",
			in:             TransitionInput{Current: StatusInProgress, Target: StatusResolved, CurrentAssignee: uintPtr(3), Now: fixedTime},
			wantResolvedAt: true,
			wantAssignee:   uintPtr(3),
		},
		{
			name:           "escalation records prior and new assignee",
			in:             TransitionInput{Current: StatusInProgress, Target: StatusEscalated, CurrentAssignee: uintPtr(3), NewAssignee: uintPtr(9), Reason: "no response", Now: fixedTime},
			wantEscalation: true,
			wantAssignee:   uintPtr(9),
		},
		{
			name:         "escalated back to in progress reassigns",
			in:           TransitionInput{Current: StatusEscalated, Target: StatusInProgress, CurrentAssignee: uintPtr(9), NewAssignee: uintPtr(4), Now: fixedTime},
			wantAssignee: uintPtr(4),
		},
		{
			name:         "resolved to closed",
			in:           TransitionInput{Current: StatusResolved, Target: StatusClosed, Now: fixedTime},
			wantAssignee: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyTransition(tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.in.Target, result.NewStatus)
			assert.True(t, result.UpdatedAt.Equal(fixedTime))
			assert.Equal(t, tt.wantAssignee, result.AssignedTo)

			if tt.wantResolvedAt {
				require.NotNil(t, result.ResolvedAt)
				assert.True(t, result.ResolvedAt.Equal(fixedTime))
			} else {
				assert.Nil(t, result.ResolvedAt)
			}

			if tt.wantEscalation {
				require.NotNil(t, result.Escalation)
				assert.Equal(t, tt.in.CurrentAssignee, result.Escalation.From)
				assert.Equal(t, tt.wantAssignee, result.Escalation.To)
				assert.Equal(t, tt.in.Reason, result.Escalation.Reason)
			} else {
				assert.Nil(t, result.Escalation)
			}
		})
	}
}

func TestApplyTransition_RejectsIllegalEdges(t *testing.T) {
	illegal := []TransitionInput{
		{Current: StatusPending, Target: StatusResolved},
		{Current: StatusPending, Target: StatusPending},
		{Current: StatusResolved, Target: StatusInProgress},
		{Current: StatusClosed, Target: StatusInProgress},
		{Current: StatusPending, Target: StatusEscalated},
	}
	for _, in := range illegal {
		_, err := ApplyTransition(in)
		assert.Error(t, err, "%s -> %s", in.Current, in.Target)
	}
}
