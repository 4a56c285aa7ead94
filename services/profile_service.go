package services

import (
	"context"
	"errors"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"foodshare-api/models"
	"foodshare-api/repositories"
)

const rememberedProfiles = 1024

// ProfileService keeps the last known name and email of each acting user.
// Identities already saved in this process are not written again.
type ProfileService struct {
	store  ProfileStore
	seen   *lru.Cache[string, models.Profile]
	logger *slog.Logger
}

func NewProfileService(store ProfileStore, logger *slog.Logger) *ProfileService {
	seen, _ := lru.New[string, models.Profile](rememberedProfiles)
	return &ProfileService{store: store, seen: seen, logger: logger}
}

// Remember saves the user's profile. Errors are logged; a stale profile only
// affects email delivery and profile display.
func (s *ProfileService) Remember(ctx context.Context, user models.User) {
	if user.ID == "" {
		return
	}
	profile := user.Profile()
	if prev, ok := s.seen.Get(user.ID); ok && prev.Email == profile.Email && prev.FullName == profile.FullName {
		return
	}
	if err := s.store.Upsert(ctx, &profile); err != nil {
		s.logger.Warn("failed to save profile", "user_id", user.ID, "error", err)
		return
	}
	s.seen.Add(user.ID, profile)
}

// Get returns the saved profile, or nil if the user has never acted
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("profile", err)
	}
	return profile, nil
}
