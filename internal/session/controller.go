// Package session gates all entity-store population behind authentication
// and owns the Anonymous → Authenticating → Authenticated lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/avirmadani/skolasync/internal/dto"
	"github.com/avirmadani/skolasync/internal/models"
	"github.com/avirmadani/skolasync/internal/store"
	"github.com/avirmadani/skolasync/internal/syncer"
)

// State enumerates the session lifecycle.
type State string

const (
	// StateAnonymous means no user is signed in.
	StateAnonymous State = "anonymous"
	// StateAuthenticating means a login or registration is in flight.
	StateAuthenticating State = "authenticating"
	// StateAuthenticated means a user owns the session.
	StateAuthenticated State = "authenticated"
)

var (
	// ErrNotAuthenticated indicates an intent that requires a signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionActive indicates a login attempt over an existing session.
	ErrSessionActive = errors.New("a session is already active")
)

// Authenticator is the slice of the simulated backend the controller uses.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	Register(ctx context.Context, email, password string) (models.User, error)
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	State           State
	UserID          string
	User            *models.User
	Courses         []models.Course
	Assignments     []models.Assignment
	Recommendations []models.Course
	Analytics       *models.AnalyticsSnapshot
}

// Controller owns authentication state and triggers the initial bulk fetch.
type Controller struct {
	auth     Authenticator
	engine   *syncer.Engine
	store    *store.Store
	validate *validator.Validate
	logger   zerolog.Logger

	mu     sync.Mutex
	state  State
	userID string
}

// NewController constructs an anonymous session controller.
func NewController(auth Authenticator, engine *syncer.Engine, entityStore *store.Store, validate *validator.Validate, logger zerolog.Logger) *Controller {
	return &Controller{
		auth:     auth,
		engine:   engine,
		store:    entityStore,
		validate: validate,
		logger:   logger.With().Str("component", "session_controller").Logger(),
		state:    StateAnonymous,
	}
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UserID returns the signed-in user id, empty when anonymous.
func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Login authenticates the credential pair, binds the sync engine, and runs
// the initial bulk fetch. A failed authentication retains no partial session
// state; a failed bulk fetch leaves the session authenticated with an empty
// store and surfaces the aggregate error instead of a user value.
func (c *Controller) Login(ctx context.Context, email, password string) (models.User, error) {
	if err := c.validate.Struct(dto.LoginRequest{Email: email, Password: password}); err != nil {
		return models.User{}, fmt.Errorf("invalid login request: %w", err)
	}

	if err := c.beginAuth(); err != nil {
		return models.User{}, err
	}

	user, err := c.auth.Authenticate(ctx, email, password)
	if err != nil {
		c.abortAuth()
		return models.User{}, fmt.Errorf("login failed: %w", err)
	}

	if err := c.completeAuth(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new account and treats the success as an implicit
// login.
func (c *Controller) Register(ctx context.Context, email, password string) (models.User, error) {
	if err := c.validate.Struct(dto.RegisterRequest{Email: email, Password: password}); err != nil {
		return models.User{}, fmt.Errorf("invalid registration request: %w", err)
	}

	if err := c.beginAuth(); err != nil {
		return models.User{}, err
	}

	user, err := c.auth.Register(ctx, email, password)
	if err != nil {
		c.abortAuth()
		return models.User{}, fmt.Errorf("registration failed: %w", err)
	}

	if err := c.completeAuth(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Controller) beginAuth() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAnonymous {
		return ErrSessionActive
	}
	c.state = StateAuthenticating
	return nil
}

func (c *Controller) abortAuth() {
	c.mu.Lock()
	c.state = StateAnonymous
	c.userID = ""
	c.mu.Unlock()
}

func (c *Controller) completeAuth(ctx context.Context, user models.User) error {
	c.mu.Lock()
	c.state = StateAuthenticated
	c.userID = user.ID
	c.mu.Unlock()

	c.engine.Bind(user.ID)
	c.store.SetUser(user)
	c.logger.Info().Str("user_id", user.ID).Msg("session authenticated")

	if err := c.engine.FetchAll(ctx); err != nil {
		return fmt.Errorf("initial fetch: %w", err)
	}
	return nil
}

// Logout is synchronous and unconditional: the session ends and all entity
// state is wiped regardless of in-flight sync operations, whose results are
// discarded when they eventually resolve.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.state = StateAnonymous
	c.userID = ""
	c.mu.Unlock()

	c.engine.Reset()
	c.store.Clear()
	c.logger.Info().Msg("session ended")
}

// UpdateAssignment forwards an assignment mutation intent to the sync
// engine.
func (c *Controller) UpdateAssignment(ctx context.Context, id string, patch dto.AssignmentPatch) (models.Assignment, error) {
	if c.State() != StateAuthenticated {
		return models.Assignment{}, ErrNotAuthenticated
	}
	return c.engine.UpdateAssignment(ctx, id, patch)
}

// UpdateProfile forwards a profile mutation intent to the sync engine.
func (c *Controller) UpdateProfile(ctx context.Context, patch dto.ProfilePatch) (models.User, error) {
	if c.State() != StateAuthenticated {
		return models.User{}, ErrNotAuthenticated
	}
	return c.engine.UpdateProfile(ctx, patch)
}

// Snapshot assembles a consistent read-only view of the session for the
// presentation layer.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	state, userID := c.state, c.userID
	c.mu.Unlock()

	snap := Snapshot{State: state, UserID: userID}
	if user, ok := c.store.User(); ok {
		snap.User = &user
	}
	snap.Courses = c.store.Courses()
	snap.Assignments = c.store.Assignments()
	snap.Recommendations = c.store.Recommendations()
	if analytics, ok := c.store.Analytics(); ok {
		snap.Analytics = &analytics
	}
	return snap
}
