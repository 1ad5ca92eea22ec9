package store

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/avirmadani/skolasync/internal/models"
)

func seededStore() *Store {
	s := New(zerolog.Nop())
	s.ReplaceAll(
		[]models.Course{{ID: "c1", Title: "Algorithms"}},
		[]models.Assignment{
			{ID: "a1", AssignmentName: "Heaps", Status: models.AssignmentStatusNotStarted},
			{ID: "a2", AssignmentName: "Tries", Status: models.AssignmentStatusInProgress},
		},
		models.AnalyticsSnapshot{TotalStudyHours: 10},
		[]models.Course{{ID: "c2", Title: "Databases"}},
	)
	return s
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := seededStore()

	assignments := s.Assignments()
	assignments[0].AssignmentName = "mutated"

	fresh, ok := s.Assignment("a1")
	require.True(t, ok)
	require.Equal(t, "Heaps", fresh.AssignmentName)

	courses := s.Courses()
	courses[0].Title = "mutated"
	require.Equal(t, "Algorithms", s.Courses()[0].Title)
}

func TestMutationCycleTagging(t *testing.T) {
	s := seededStore()

	state, ok := s.AssignmentState("a1")
	require.True(t, ok)
	require.Equal(t, StateClean, state)

	rollback, ok := s.BeginAssignmentMutation("a1")
	require.True(t, ok)
	require.Equal(t, "Heaps", rollback.AssignmentName)

	state, _ = s.AssignmentState("a1")
	require.Equal(t, StatePending, state)

	optimistic := rollback.Clone()
	optimistic.Status = models.AssignmentStatusSubmitted
	s.ApplyAssignment(optimistic)

	visible, _ := s.Assignment("a1")
	require.Equal(t, models.AssignmentStatusSubmitted, visible.Status)

	s.RollbackAssignment(rollback)
	reverted, _ := s.Assignment("a1")
	require.Equal(t, models.AssignmentStatusNotStarted, reverted.Status)
	state, _ = s.AssignmentState("a1")
	require.Equal(t, StateClean, state)
}

func TestOverlappingBeginCapturesVisibleValue(t *testing.T) {
	s := seededStore()

	first, ok := s.BeginAssignmentMutation("a1")
	require.True(t, ok)

	optimistic := first.Clone()
	optimistic.Status = models.AssignmentStatusSubmitted
	s.ApplyAssignment(optimistic)

	// A second mutation while the first is still pending snapshots the
	// optimistic value, not the last confirmed one.
	second, ok := s.BeginAssignmentMutation("a1")
	require.True(t, ok)
	require.Equal(t, models.AssignmentStatusSubmitted, second.Status)
}

func TestCommitAfterClearDoesNotReinsert(t *testing.T) {
	s := seededStore()

	pending, ok := s.BeginAssignmentMutation("a1")
	require.True(t, ok)

	s.Clear()
	require.Empty(t, s.Assignments())

	s.CommitAssignment(pending)
	require.Empty(t, s.Assignments())

	s.RollbackAssignment(pending)
	require.Empty(t, s.Assignments())
}

func TestUserWritesAfterClearDoNotReinsert(t *testing.T) {
	s := seededStore()
	s.SetUser(models.User{ID: "u1", Name: "Student"})

	pending, ok := s.BeginUserMutation()
	require.True(t, ok)

	// Logout while the profile mutation is still pending.
	s.Clear()

	changed := pending.Clone()
	changed.Name = "Ghost"
	s.ApplyUser(changed)
	_, ok = s.User()
	require.False(t, ok)

	s.CommitUser(changed)
	_, ok = s.User()
	require.False(t, ok)

	s.RollbackUser(pending)
	_, ok = s.User()
	require.False(t, ok)
	require.Equal(t, StateClean, s.UserState())
}

func TestClearWipesEverything(t *testing.T) {
	s := seededStore()
	s.SetUser(models.User{ID: "u1", Name: "Student"})

	s.Clear()

	_, ok := s.User()
	require.False(t, ok)
	require.Empty(t, s.Assignments())
	require.Empty(t, s.Courses())
	require.Empty(t, s.Recommendations())
	_, ok = s.Analytics()
	require.False(t, ok)
}

func TestUserMutationCycle(t *testing.T) {
	s := seededStore()
	s.SetUser(models.User{ID: "u1", Name: "Student"})

	rollback, ok := s.BeginUserMutation()
	require.True(t, ok)
	require.Equal(t, StatePending, s.UserState())

	changed := rollback.Clone()
	changed.Name = "Renamed"
	s.ApplyUser(changed)

	visible, _ := s.User()
	require.Equal(t, "Renamed", visible.Name)

	s.RollbackUser(rollback)
	reverted, _ := s.User()
	require.Equal(t, "Student", reverted.Name)
	require.Equal(t, StateClean, s.UserState())
}
