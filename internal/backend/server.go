// Package backend simulates the remote learning service: per-user seeded
// datasets, artificial latency, and deterministic failure rules. It is the
// system of record the entity store synchronizes against and never touches
// the store directly.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/avirmadani/skolasync/internal/dto"
	"github.com/avirmadani/skolasync/internal/models"
)

// Logical resource paths exposed by the simulated service.
const (
	PathEnrolledCourses = "/api/courses/enrolled"
	PathAssignments     = "/api/assignments"
	PathAnalytics       = "/api/analytics"
	PathRecommendations = "/api/recommendations"
)

// ProfilePath returns the profile resource path for a user.
func ProfilePath(userID string) string {
	return "/api/users/" + userID
}

// AssignmentPath returns the patchable path for a single assignment.
func AssignmentPath(assignmentID string) string {
	return PathAssignments + "/" + assignmentID
}

// Config carries the deterministic rules of the simulated service.
type Config struct {
	SeedEmail    string
	SeedPassword string
	LatencyMin   time.Duration
	LatencyMax   time.Duration
	CacheTTL     time.Duration
}

// Server is an explicit, test-constructible instance of the simulated
// service. All per-user state lives behind its mutex.
type Server struct {
	mu          sync.Mutex
	users       map[string]models.User
	courses     map[string][]models.Course
	assignments map[string][]models.Assignment
	analytics   map[string]models.AnalyticsSnapshot

	cfg    Config
	cache  *redis.Client
	rngMu  sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
	now    func() time.Time
}

// NewServer constructs a simulated backend. A nil cache disables the
// analytics read-through cache; a nil rng falls back to a time-seeded source.
func NewServer(cfg Config, cache *redis.Client, rng *rand.Rand, logger zerolog.Logger) *Server {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Server{
		users:       make(map[string]models.User),
		courses:     make(map[string][]models.Course),
		assignments: make(map[string][]models.Assignment),
		analytics:   make(map[string]models.AnalyticsSnapshot),
		cfg:         cfg,
		cache:       cache,
		rng:         rng,
		logger:      logger.With().Str("component", "backend").Logger(),
		now:         time.Now,
	}
}

// Seed creates the default datasets for a user id. First call wins; repeated
// calls for the same id are no-ops.
func (s *Server) Seed(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(userID)
}

func (s *Server) seedLocked(userID string) {
	if _, ok := s.users[userID]; ok {
		return
	}
	s.users[userID] = seedUser(userID)
	s.courses[userID] = seedCourses()
	s.assignments[userID] = seedAssignments(s.now())
	s.analytics[userID] = s.sampleAnalytics()
	s.logger.Debug().Str("user_id", userID).Msg("seeded user dataset")
}

func (s *Server) sampleAnalytics() models.AnalyticsSnapshot {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.seedAnalytics(s.now())
}

// Authenticate verifies the configured credential pair and returns the
// seeded user. Every other input fails with ErrInvalidCredentials.
func (s *Server) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if err := s.wait(ctx); err != nil {
		return models.User{}, err
	}

	if email != s.cfg.SeedEmail || password != s.cfg.SeedPassword {
		return models.User{}, ErrInvalidCredentials
	}

	userID := localPart(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(userID)
	return s.users[userID].Clone(), nil
}

// Register creates and seeds a new user. The user id derives from the email
// local part; a known id fails with ErrConflict.
func (s *Server) Register(ctx context.Context, email, password string) (models.User, error) {
	if err := s.wait(ctx); err != nil {
		return models.User{}, err
	}

	userID := localPart(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; ok {
		return models.User{}, ErrConflict
	}
	s.seedLocked(userID)
	return s.users[userID].Clone(), nil
}

// Fetch returns the stored collection or object for one of the fixed logical
// resources. Unknown paths fail with ErrNotFound.
func (s *Server) Fetch(ctx context.Context, path, userID string) (any, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.seedLocked(userID)
	s.mu.Unlock()

	switch path {
	case ProfilePath(userID):
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.users[userID].Clone(), nil
	case PathEnrolledCourses:
		s.mu.Lock()
		defer s.mu.Unlock()
		return models.CloneCourses(s.courses[userID]), nil
	case PathAssignments:
		s.mu.Lock()
		defer s.mu.Unlock()
		return models.CloneAssignments(s.assignments[userID]), nil
	case PathAnalytics:
		return s.fetchAnalytics(ctx, userID)
	case PathRecommendations:
		return seedRecommendations(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
}

// fetchAnalytics serves the analytics snapshot through the optional redis
// read-through cache.
func (s *Server) fetchAnalytics(ctx context.Context, userID string) (models.AnalyticsSnapshot, error) {
	cacheKey := fmt.Sprintf("backend:analytics:%s", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var snapshot models.AnalyticsSnapshot
			if unmarshalErr := json.Unmarshal([]byte(cached), &snapshot); unmarshalErr == nil {
				s.logger.Debug().Str("user_id", userID).Msg("analytics cache hit")
				return snapshot, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
		}
	}

	s.mu.Lock()
	snapshot := s.analytics[userID].Clone()
	s.mu.Unlock()

	if s.cache != nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cfg.CacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
			}
		}
	}

	return snapshot, nil
}

// Update patches a single assignment by id. Only assignment paths are
// patchable; the merge is shallow and the submission history stays
// append-only.
func (s *Server) Update(ctx context.Context, path, userID string, patch dto.AssignmentPatch) (models.Assignment, error) {
	if err := s.wait(ctx); err != nil {
		return models.Assignment{}, err
	}

	assignmentID, ok := strings.CutPrefix(path, PathAssignments+"/")
	if !ok || assignmentID == "" || strings.Contains(assignmentID, "/") {
		return models.Assignment{}, fmt.Errorf("%w: %s", ErrValidation, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(userID)

	assignments := s.assignments[userID]
	for i := range assignments {
		if assignments[i].ID != assignmentID {
			continue
		}

		if patch.SubmissionHistory != nil && len(patch.SubmissionHistory) < len(assignments[i].SubmissionHistory) {
			return models.Assignment{}, fmt.Errorf("%w: submission history is append-only", ErrValidation)
		}

		merged := patch.Apply(assignments[i])
		for j := range merged.SubmissionHistory {
			if merged.SubmissionHistory[j].ID == "" {
				merged.SubmissionHistory[j].ID = uuid.NewString()
			}
		}
		assignments[i] = merged

		s.logger.Info().
			Str("user_id", userID).
			Str("assignment_id", assignmentID).
			Str("status", string(merged.Status)).
			Msg("assignment updated")
		return merged.Clone(), nil
	}

	return models.Assignment{}, fmt.Errorf("%w: assignment %s", ErrNotFound, assignmentID)
}

// wait sleeps a random duration inside the configured latency window so the
// caller's in-flight window stays observable. It honors ctx cancellation.
func (s *Server) wait(ctx context.Context) error {
	if s.cfg.LatencyMax <= 0 {
		return ctx.Err()
	}

	window := s.cfg.LatencyMax - s.cfg.LatencyMin
	delay := s.cfg.LatencyMin
	if window > 0 {
		s.rngMu.Lock()
		delay += time.Duration(s.rng.Int63n(int64(window)))
		s.rngMu.Unlock()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
