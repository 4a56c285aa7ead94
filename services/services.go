package services

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"foodshare-api/repositories"
)

// Options configures the service graph. Mailer may be nil.
type Options struct {
	Mailer    Mailer
	FromName  string
	CacheSize int
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

type Services struct {
	Posts         *PostService
	Interactions  *InteractionService
	Ratings       *RatingService
	Notifications *NotificationService
	Profiles      *ProfileService
}

var (
	_ PostStore         = (*repositories.PostRepository)(nil)
	_ InteractionStore  = (*repositories.InteractionRepository)(nil)
	_ RatingStore       = (*repositories.RatingRepository)(nil)
	_ NotificationStore = (*repositories.NotificationRepository)(nil)
	_ ProfileStore      = (*repositories.ProfileRepository)(nil)
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// NewStores builds the SQL backed stores over an open connection
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Posts:         repositories.NewPostRepository(db),
		Interactions:  repositories.NewInteractionRepository(db),
		Ratings:       repositories.NewRatingRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
		Profiles:      repositories.NewProfileRepository(db),
	}
}

// New wires every service over the given stores
func New(stores Stores, opts Options) (*Services, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cache *PostCache
	if opts.CacheSize > 0 && opts.CacheTTL > 0 {
		c, err := NewPostCache(opts.CacheSize, opts.CacheTTL)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	sanitizer := NewSanitizer()
	profiles := NewProfileService(stores.Profiles, logger.With("service", "profiles"))
	notifications := NewNotificationService(stores.Notifications, profiles, opts.Mailer, opts.FromName, logger.With("service", "notifications"))
	posts := NewPostService(stores.Posts, stores.Interactions, profiles, notifications, cache, sanitizer, logger.With("service", "posts"))

	return &Services{
		Posts:         posts,
		Interactions:  NewInteractionService(stores.Interactions, stores.Posts, posts, sanitizer, logger.With("service", "interactions")),
		Ratings:       NewRatingService(stores.Ratings, stores.Posts, profiles, notifications, sanitizer, logger.With("service", "ratings")),
		Notifications: notifications,
		Profiles:      profiles,
	}, nil
}
