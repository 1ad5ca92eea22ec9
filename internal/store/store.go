// Package store owns the authoritative in-memory state for the current
// session: user, courses, assignments, analytics, recommendations. Readers
// always receive deep-copied snapshots; the sync engine is the only writer.
package store

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/avirmadani/skolasync/internal/models"
)

// SyncState tags a mutable entity's position in the optimistic-write cycle.
type SyncState string

const (
	// StateClean means no optimistic write is in flight for the entity.
	StateClean SyncState = "clean"
	// StatePending means an optimistic value is visible and unconfirmed.
	StatePending SyncState = "pending"
)

type assignmentEntry struct {
	value models.Assignment
	state SyncState
}

// Store holds the session's entity state behind a single RWMutex.
type Store struct {
	mu sync.RWMutex

	user      *models.User
	userState SyncState

	assignments     []assignmentEntry
	courses         []models.Course
	recommendations []models.Course
	analytics       *models.AnalyticsSnapshot

	logger zerolog.Logger
}

// New constructs an empty store.
func New(logger zerolog.Logger) *Store {
	return &Store{
		userState: StateClean,
		logger:    logger.With().Str("component", "store").Logger(),
	}
}

// SetUser installs the session user, e.g. right after authentication.
func (s *Store) SetUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := user.Clone()
	s.user = &cloned
	s.userState = StateClean
}

// User returns a copy of the session user, if any.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return s.user.Clone(), true
}

// UserState reports the sync state of the profile entity.
func (s *Store) UserState() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userState
}

// BeginUserMutation marks the profile Pending and returns the currently
// visible value as the rollback snapshot. Under overlapping mutations the
// snapshot is the optimistic value, not the last confirmed one.
func (s *Store) BeginUserMutation() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	s.userState = StatePending
	return s.user.Clone(), true
}

// ApplyUser makes an optimistic profile value visible to readers. The write
// is a no-op when no user is set, e.g. after a logout wiped the store.
func (s *Store) ApplyUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	cloned := user.Clone()
	s.user = &cloned
}

// CommitUser installs the confirmed value and returns the profile to Clean.
// A cleared store drops the commit, never re-acquires a user.
func (s *Store) CommitUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	cloned := user.Clone()
	s.user = &cloned
	s.userState = StateClean
}

// RollbackUser reverts the profile to the given snapshot and returns it to
// Clean. A cleared store drops the rollback, never re-acquires a user.
func (s *Store) RollbackUser(snapshot models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	cloned := snapshot.Clone()
	s.user = &cloned
	s.userState = StateClean
}

// Assignments returns a copy of the assignment list.
func (s *Store) Assignments() []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Assignment, 0, len(s.assignments))
	for _, entry := range s.assignments {
		out = append(out, entry.value.Clone())
	}
	return out
}

// Assignment returns a copy of one assignment by id.
func (s *Store) Assignment(id string) (models.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.assignments {
		if entry.value.ID == id {
			return entry.value.Clone(), true
		}
	}
	return models.Assignment{}, false
}

// AssignmentState reports the sync state of one assignment.
func (s *Store) AssignmentState(id string) (SyncState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.assignments {
		if entry.value.ID == id {
			return entry.state, true
		}
	}
	return StateClean, false
}

// BeginAssignmentMutation marks the assignment Pending and returns the
// currently visible value as the rollback snapshot.
func (s *Store) BeginAssignmentMutation(id string) (models.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assignments {
		if s.assignments[i].value.ID == id {
			s.assignments[i].state = StatePending
			return s.assignments[i].value.Clone(), true
		}
	}
	return models.Assignment{}, false
}

// ApplyAssignment makes an optimistic assignment value visible to readers.
// The write is a no-op if the id is unknown, e.g. after a logout wiped the
// store.
func (s *Store) ApplyAssignment(assignment models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assignments {
		if s.assignments[i].value.ID == assignment.ID {
			s.assignments[i].value = assignment.Clone()
			return
		}
	}
}

// CommitAssignment installs the confirmed value and returns the entity to
// Clean. Unknown ids are dropped, never re-inserted.
func (s *Store) CommitAssignment(assignment models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assignments {
		if s.assignments[i].value.ID == assignment.ID {
			s.assignments[i].value = assignment.Clone()
			s.assignments[i].state = StateClean
			return
		}
	}
}

// RollbackAssignment reverts the assignment to the given snapshot and
// returns it to Clean. Unknown ids are dropped, never re-inserted.
func (s *Store) RollbackAssignment(snapshot models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assignments {
		if s.assignments[i].value.ID == snapshot.ID {
			s.assignments[i].value = snapshot.Clone()
			s.assignments[i].state = StateClean
			return
		}
	}
}

// Courses returns a copy of the enrolled course list.
func (s *Store) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCourses(s.courses)
}

// Recommendations returns a copy of the recommended course list.
func (s *Store) Recommendations() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCourses(s.recommendations)
}

// Analytics returns a copy of the analytics snapshot, if fetched.
func (s *Store) Analytics() (models.AnalyticsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.analytics == nil {
		return models.AnalyticsSnapshot{}, false
	}
	return s.analytics.Clone(), true
}

// ReplaceAll atomically installs the result of a successful bulk fetch. All
// assignment entries start Clean.
func (s *Store) ReplaceAll(courses []models.Course, assignments []models.Assignment, analytics models.AnalyticsSnapshot, recommendations []models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = models.CloneCourses(courses)
	s.recommendations = models.CloneCourses(recommendations)
	snapshot := analytics.Clone()
	s.analytics = &snapshot

	s.assignments = make([]assignmentEntry, 0, len(assignments))
	for _, assignment := range assignments {
		s.assignments = append(s.assignments, assignmentEntry{
			value: assignment.Clone(),
			state: StateClean,
		})
	}

	s.logger.Debug().
		Int("courses", len(courses)).
		Int("assignments", len(assignments)).
		Msg("store populated")
}

// Clear wipes all entity state. Called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.userState = StateClean
	s.assignments = nil
	s.courses = nil
	s.recommendations = nil
	s.analytics = nil
	s.logger.Debug().Msg("store cleared")
}
