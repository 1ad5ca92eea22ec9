// Package syncer orchestrates synchronization between the entity store and
// the simulated backend: optimistic mutations with rollback, the
// all-or-nothing bulk fetch, and the stale-completion guard that discards
// results belonging to a dead session.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/avirmadani/skolasync/internal/backend"
	"github.com/avirmadani/skolasync/internal/dto"
	"github.com/avirmadani/skolasync/internal/models"
	"github.com/avirmadani/skolasync/internal/store"
)

var (
	// ErrNoSession indicates an operation was issued without a bound user.
	ErrNoSession = errors.New("no active session")
	// ErrStaleSession indicates a completion arrived after the originating
	// session ended; its result was discarded.
	ErrStaleSession = errors.New("session changed while operation was in flight")
	// ErrAssignmentNotFound indicates the assignment is not in the store.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrEmptyPatch indicates a patch that would change nothing.
	ErrEmptyPatch = errors.New("patch is empty")
	// ErrInvalidStatus indicates a patch carrying an unknown lifecycle state.
	ErrInvalidStatus = errors.New("invalid assignment status")
)

// Backend is the slice of the simulated service the engine talks to.
type Backend interface {
	Fetch(ctx context.Context, path, userID string) (any, error)
	Update(ctx context.Context, path, userID string, patch dto.AssignmentPatch) (models.Assignment, error)
}

// Engine is the only component allowed to mutate the entity store in
// response to a user intent.
type Engine struct {
	store    *store.Store
	backend  Backend
	validate *validator.Validate
	logger   zerolog.Logger

	mu     sync.Mutex
	epoch  uint64
	userID string
}

// NewEngine constructs a sync engine bound to a store and backend.
func NewEngine(entityStore *store.Store, remote Backend, validate *validator.Validate, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    entityStore,
		backend:  remote,
		validate: validate,
		logger:   logger.With().Str("component", "sync_engine").Logger(),
	}
}

// Bind attaches the engine to a freshly authenticated user. Any results of
// operations started before the bind are discarded when they resolve.
func (e *Engine) Bind(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.userID = userID
}

// Reset detaches the engine from the current user. In-flight operations keep
// running but their completions become no-ops.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.userID = ""
}

func (e *Engine) session() (uint64, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch, e.userID
}

func (e *Engine) sessionCurrent(epoch uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch == epoch
}

// FetchAll loads courses, assignments, analytics, and recommendations in one
// aggregate operation. The store is populated only when all four fetches
// succeed; a partial failure leaves it untouched and reports every cause.
func (e *Engine) FetchAll(ctx context.Context) error {
	epoch, userID := e.session()
	if userID == "" {
		return ErrNoSession
	}

	var (
		courses         []models.Course
		assignments     []models.Assignment
		analytics       models.AnalyticsSnapshot
		recommendations []models.Course
	)

	failures := make(map[string]error)
	var failMu sync.Mutex
	record := func(resource string, err error) error {
		// The first failure cancels the group context; sibling fetches that
		// only died of that cancellation are not failures of their resource.
		if errors.Is(err, context.Canceled) {
			return err
		}
		failMu.Lock()
		failures[resource] = err
		failMu.Unlock()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		payload, err := e.backend.Fetch(gctx, backend.PathEnrolledCourses, userID)
		if err != nil {
			return record("courses", err)
		}
		result, ok := payload.([]models.Course)
		if !ok {
			return record("courses", fmt.Errorf("unexpected payload %T", payload))
		}
		courses = result
		return nil
	})
	g.Go(func() error {
		payload, err := e.backend.Fetch(gctx, backend.PathAssignments, userID)
		if err != nil {
			return record("assignments", err)
		}
		result, ok := payload.([]models.Assignment)
		if !ok {
			return record("assignments", fmt.Errorf("unexpected payload %T", payload))
		}
		assignments = result
		return nil
	})
	g.Go(func() error {
		payload, err := e.backend.Fetch(gctx, backend.PathAnalytics, userID)
		if err != nil {
			return record("analytics", err)
		}
		result, ok := payload.(models.AnalyticsSnapshot)
		if !ok {
			return record("analytics", fmt.Errorf("unexpected payload %T", payload))
		}
		analytics = result
		return nil
	})
	g.Go(func() error {
		payload, err := e.backend.Fetch(gctx, backend.PathRecommendations, userID)
		if err != nil {
			return record("recommendations", err)
		}
		result, ok := payload.([]models.Course)
		if !ok {
			return record("recommendations", fmt.Errorf("unexpected payload %T", payload))
		}
		recommendations = result
		return nil
	})

	if err := g.Wait(); err != nil {
		if len(failures) == 0 {
			// The caller canceled before any resource failed on its own.
			return err
		}
		aggErr := &AggregateFetchError{Failures: failures}
		e.logger.Warn().Err(aggErr).Str("user_id", userID).Msg("bulk fetch failed")
		return aggErr
	}

	if !e.sessionCurrent(epoch) {
		e.logger.Debug().Str("user_id", userID).Msg("discarding stale bulk fetch")
		return ErrStaleSession
	}

	e.store.ReplaceAll(courses, assignments, analytics, recommendations)
	e.logger.Info().Str("user_id", userID).Msg("bulk fetch completed")
	return nil
}

// UpdateAssignment applies the patch optimistically, confirms it against the
// backend, and rolls back the store on failure. The returned value is the
// backend-confirmed assignment.
func (e *Engine) UpdateAssignment(ctx context.Context, id string, patch dto.AssignmentPatch) (models.Assignment, error) {
	if patch.IsEmpty() {
		return models.Assignment{}, ErrEmptyPatch
	}
	if err := e.validate.Struct(patch); err != nil {
		return models.Assignment{}, fmt.Errorf("invalid assignment patch: %w", err)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return models.Assignment{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}

	epoch, userID := e.session()
	if userID == "" {
		return models.Assignment{}, ErrNoSession
	}

	// The rollback snapshot is the currently visible value. While another
	// mutation on the same entity is still Pending this captures its
	// optimistic value, so overlapping mutations may roll back to an
	// intermediate state ("last rollback wins").
	rollback, ok := e.store.BeginAssignmentMutation(id)
	if !ok {
		return models.Assignment{}, fmt.Errorf("%w: %s", ErrAssignmentNotFound, id)
	}

	optimistic := patch.Apply(rollback)
	e.store.ApplyAssignment(optimistic)

	confirmed, err := e.backend.Update(ctx, backend.AssignmentPath(id), userID, patch)
	if err != nil {
		if e.sessionCurrent(epoch) {
			e.store.RollbackAssignment(rollback)
		}
		e.logger.Warn().Err(err).Str("assignment_id", id).Msg("assignment update rolled back")
		return models.Assignment{}, fmt.Errorf("update assignment %s: %w", id, err)
	}

	if !e.sessionCurrent(epoch) {
		e.logger.Debug().Str("assignment_id", id).Msg("discarding stale assignment update")
		return models.Assignment{}, ErrStaleSession
	}

	e.store.CommitAssignment(confirmed)
	e.logger.Info().Str("assignment_id", id).Str("status", string(confirmed.Status)).Msg("assignment confirmed")
	return confirmed, nil
}

// UpdateProfile applies a profile patch. The simulated backend exposes no
// profile-update resource, so the patch is confirmed locally: validation
// failures surface before any store mutation and a valid patch commits
// immediately.
func (e *Engine) UpdateProfile(ctx context.Context, patch dto.ProfilePatch) (models.User, error) {
	if patch.IsEmpty() {
		return models.User{}, ErrEmptyPatch
	}
	if err := e.validate.Struct(patch); err != nil {
		return models.User{}, fmt.Errorf("invalid profile patch: %w", err)
	}

	epoch, userID := e.session()
	if userID == "" {
		return models.User{}, ErrNoSession
	}

	current, ok := e.store.BeginUserMutation()
	if !ok {
		return models.User{}, ErrNoSession
	}

	optimistic := patch.Apply(current)
	e.store.ApplyUser(optimistic)

	if !e.sessionCurrent(epoch) {
		return models.User{}, ErrStaleSession
	}

	e.store.CommitUser(optimistic)
	e.logger.Info().Str("user_id", userID).Msg("profile updated")
	return optimistic, nil
}
