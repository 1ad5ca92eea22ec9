package syncer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/avirmadani/skolasync/internal/backend"
	"github.com/avirmadani/skolasync/internal/dto"
	"github.com/avirmadani/skolasync/internal/models"
	"github.com/avirmadani/skolasync/internal/store"
)

// scriptedBackend wraps a real zero-latency simulated server and lets a test
// force failures or intercept updates.
type scriptedBackend struct {
	inner    *backend.Server
	fetchErr map[string]error
	fetchFn  map[string]func(ctx context.Context) (any, error)
	updateFn func(ctx context.Context, path, userID string, patch dto.AssignmentPatch) (models.Assignment, error)
}

func (s *scriptedBackend) Fetch(ctx context.Context, path, userID string) (any, error) {
	if fn, ok := s.fetchFn[path]; ok {
		return fn(ctx)
	}
	if err, ok := s.fetchErr[path]; ok {
		return nil, err
	}
	return s.inner.Fetch(ctx, path, userID)
}

func (s *scriptedBackend) Update(ctx context.Context, path, userID string, patch dto.AssignmentPatch) (models.Assignment, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, path, userID, patch)
	}
	return s.inner.Update(ctx, path, userID, patch)
}

func newTestEngine(t *testing.T) (*Engine, *store.Store, *scriptedBackend) {
	t.Helper()
	inner := backend.NewServer(backend.Config{
		SeedEmail:    "test@example.com",
		SeedPassword: "password123",
	}, nil, rand.New(rand.NewSource(1)), zerolog.Nop())

	remote := &scriptedBackend{
		inner:    inner,
		fetchErr: map[string]error{},
		fetchFn:  map[string]func(ctx context.Context) (any, error){},
	}
	entityStore := store.New(zerolog.Nop())
	validate := validator.New(validator.WithRequiredStructEnabled())
	engine := NewEngine(entityStore, remote, validate, zerolog.Nop())
	return engine, entityStore, remote
}

func loadSession(t *testing.T, engine *Engine, entityStore *store.Store) {
	t.Helper()
	engine.Bind("test")
	require.NoError(t, engine.FetchAll(context.Background()))
	require.Len(t, entityStore.Assignments(), 3)
}

func TestFetchAllPopulatesStore(t *testing.T) {
	engine, entityStore, _ := newTestEngine(t)

	engine.Bind("test")
	require.NoError(t, engine.FetchAll(context.Background()))

	require.Len(t, entityStore.Courses(), 3)
	require.Len(t, entityStore.Assignments(), 3)
	require.Len(t, entityStore.Recommendations(), 2)
	analytics, ok := entityStore.Analytics()
	require.True(t, ok)
	require.Equal(t, 125, analytics.TotalStudyHours)
}

func TestFetchAllRequiresSession(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	require.ErrorIs(t, engine.FetchAll(context.Background()), ErrNoSession)
}

func TestFetchAllIsAllOrNothing(t *testing.T) {
	engine, entityStore, remote := newTestEngine(t)
	remote.fetchErr[backend.PathAnalytics] = backend.ErrNotFound

	engine.Bind("test")
	err := engine.FetchAll(context.Background())

	var aggErr *AggregateFetchError
	require.ErrorAs(t, err, &aggErr)
	require.Contains(t, aggErr.Failures, "analytics")
	require.ErrorIs(t, err, backend.ErrNotFound)

	require.Empty(t, entityStore.Courses())
	require.Empty(t, entityStore.Assignments())
	require.Empty(t, entityStore.Recommendations())
	_, ok := entityStore.Analytics()
	require.False(t, ok)
}

func TestFetchFailureDoesNotBlameCanceledSiblings(t *testing.T) {
	engine, entityStore, remote := newTestEngine(t)
	remote.fetchErr[backend.PathAnalytics] = backend.ErrNotFound
	// The courses fetch only dies of the cancellation triggered by the
	// analytics failure.
	remote.fetchFn[backend.PathEnrolledCourses] = func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	engine.Bind("test")
	err := engine.FetchAll(context.Background())

	var aggErr *AggregateFetchError
	require.ErrorAs(t, err, &aggErr)
	require.Contains(t, aggErr.Failures, "analytics")
	require.NotContains(t, aggErr.Failures, "courses")
	require.Empty(t, entityStore.Courses())
}

func TestFetchAllCanceledByCaller(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.Bind("test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := engine.FetchAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
	var aggErr *AggregateFetchError
	require.False(t, errors.As(err, &aggErr))
}

func TestUpdateAssignmentConfirms(t *testing.T) {
	engine, entityStore, _ := newTestEngine(t)
	loadSession(t, engine, entityStore)

	status := models.AssignmentStatusSubmitted
	confirmed, err := engine.UpdateAssignment(context.Background(), "1", dto.AssignmentPatch{
		Status:            &status,
		SubmissionHistory: []models.Submission{{FileURL: "#"}},
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusSubmitted, confirmed.Status)
	require.NotEmpty(t, confirmed.SubmissionHistory[0].ID)

	stored, ok := entityStore.Assignment("1")
	require.True(t, ok)
	require.Equal(t, confirmed, stored)

	state, _ := entityStore.AssignmentState("1")
	require.Equal(t, store.StateClean, state)
}

func TestUpdateAssignmentRollsBackOnFailure(t *testing.T) {
	engine, entityStore, remote := newTestEngine(t)
	loadSession(t, engine, entityStore)

	before, ok := entityStore.Assignment("2")
	require.True(t, ok)
	require.Equal(t, models.AssignmentStatusSubmitted, before.Status)

	remote.updateFn = func(context.Context, string, string, dto.AssignmentPatch) (models.Assignment, error) {
		return models.Assignment{}, backend.ErrValidation
	}

	status := models.AssignmentStatusGraded
	_, err := engine.UpdateAssignment(context.Background(), "2", dto.AssignmentPatch{Status: &status})
	require.ErrorIs(t, err, backend.ErrValidation)

	after, ok := entityStore.Assignment("2")
	require.True(t, ok)
	require.Equal(t, before, after)

	state, _ := entityStore.AssignmentState("2")
	require.Equal(t, store.StateClean, state)
}

func TestUpdateAssignmentRejectsBadPatches(t *testing.T) {
	engine, entityStore, _ := newTestEngine(t)
	loadSession(t, engine, entityStore)

	_, err := engine.UpdateAssignment(context.Background(), "1", dto.AssignmentPatch{})
	require.ErrorIs(t, err, ErrEmptyPatch)

	bogus := models.AssignmentStatus("Vanished")
	_, err = engine.UpdateAssignment(context.Background(), "1", dto.AssignmentPatch{Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidStatus)

	status := models.AssignmentStatusGraded
	_, err = engine.UpdateAssignment(context.Background(), "99", dto.AssignmentPatch{Status: &status})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestOverlappingMutationsLastRollbackWins(t *testing.T) {
	engine, entityStore, remote := newTestEngine(t)
	loadSession(t, engine, entityStore)

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	remote.updateFn = func(ctx context.Context, path, userID string, patch dto.AssignmentPatch) (models.Assignment, error) {
		close(firstStarted)
		<-release
		return remote.inner.Update(ctx, path, userID, patch)
	}

	submitted := models.AssignmentStatusSubmitted
	done := make(chan error, 1)
	go func() {
		_, err := engine.UpdateAssignment(context.Background(), "1", dto.AssignmentPatch{Status: &submitted})
		done <- err
	}()
	<-firstStarted

	// Second intent on the same entity while the first is in flight. Its
	// rollback snapshot is the first intent's optimistic value; when it
	// fails, the store reverts to that intermediate state, not to the last
	// confirmed one.
	remote.updateFn = func(context.Context, string, string, dto.AssignmentPatch) (models.Assignment, error) {
		return models.Assignment{}, backend.ErrValidation
	}
	graded := models.AssignmentStatusGraded
	_, err := engine.UpdateAssignment(context.Background(), "1", dto.AssignmentPatch{Status: &graded})
	require.ErrorIs(t, err, backend.ErrValidation)

	visible, _ := entityStore.Assignment("1")
	require.Equal(t, models.AssignmentStatusSubmitted, visible.Status)

	remote.updateFn = nil
	close(release)
	require.NoError(t, <-done)

	confirmed, _ := entityStore.Assignment("1")
	require.Equal(t, models.AssignmentStatusSubmitted, confirmed.Status)
}

func TestStaleMutationIsDiscarded(t *testing.T) {
	engine, entityStore, remote := newTestEngine(t)
	loadSession(t, engine, entityStore)

	started := make(chan struct{})
	release := make(chan struct{})
	remote.updateFn = func(ctx context.Context, path, userID string, patch dto.AssignmentPatch) (models.Assignment, error) {
		close(started)
		<-release
		return remote.inner.Update(ctx, path, userID, patch)
	}

	status := models.AssignmentStatusSubmitted
	done := make(chan error, 1)
	go func() {
		_, err := engine.UpdateAssignment(context.Background(), "1", dto.AssignmentPatch{Status: &status})
		done <- err
	}()
	<-started

	// Logout while the mutation is still in flight.
	engine.Reset()
	entityStore.Clear()

	close(release)
	require.ErrorIs(t, <-done, ErrStaleSession)

	// The late completion must not reintroduce the assignment.
	require.Empty(t, entityStore.Assignments())
}

func TestUpdateProfileLocalOnly(t *testing.T) {
	engine, entityStore, _ := newTestEngine(t)
	loadSession(t, engine, entityStore)
	entityStore.SetUser(models.User{ID: "test", Name: "Student User", Email: "test@example.com"})

	name := "Ada Lovelace"
	updated, err := engine.UpdateProfile(context.Background(), dto.ProfilePatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", updated.Name)

	stored, ok := entityStore.User()
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", stored.Name)
	require.Equal(t, store.StateClean, entityStore.UserState())
}

func TestUpdateProfileValidationLeavesStoreUntouched(t *testing.T) {
	engine, entityStore, _ := newTestEngine(t)
	loadSession(t, engine, entityStore)
	entityStore.SetUser(models.User{ID: "test", Name: "Student User", Email: "test@example.com"})

	bad := "not-an-email"
	_, err := engine.UpdateProfile(context.Background(), dto.ProfilePatch{Email: &bad})
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	stored, _ := entityStore.User()
	require.Equal(t, "test@example.com", stored.Email)
	require.Equal(t, store.StateClean, entityStore.UserState())
}
