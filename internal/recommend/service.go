package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/kalambet/cgs/internal/storage"
)

// Store defines the storage operations the Service needs.
// Implemented by storage.Store.
type Store interface {
	GetProfileByEmail(email string) (storage.UserProfile, error)
	ListCourses() ([]storage.Course, error)
}

// Service resolves a user's profile and the course list from storage and
// runs the Engine over them. Nothing is cached between calls.
type Service struct {
	store  Store
	engine *Engine
}

func NewService(store Store, engine *Engine) *Service {
	return &Service{store: store, engine: engine}
}

// RecommendForEmail recommends courses for the profile registered under
// email. An unknown email yields an empty result, not an error.
func (s *Service) RecommendForEmail(ctx context.Context, email string) (Result, error) {
	profile, err := s.store.GetProfileByEmail(email)
	if errors.Is(err, storage.ErrNotFound) {
		return empty(PathNone, ReasonUnknownUser), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("loading profile: %w", err)
	}

	courses, err := s.store.ListCourses()
	if err != nil {
		return Result{}, fmt.Errorf("listing courses: %w", err)
	}

	return s.engine.Recommend(ctx, profile, courses)
}
