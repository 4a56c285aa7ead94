package services

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"foodshare-api/lifecycle"
	"foodshare-api/models"
	"foodshare-api/repositories"
)

// InteractionService exposes claims and offers. Interaction status follows
// the post; owner review is carried out as a post transition.
type InteractionService struct {
	interactions InteractionStore
	posts        PostStore
	postService  *PostService
	sanitizer    *Sanitizer
	logger       *slog.Logger
}

func NewInteractionService(interactions InteractionStore, posts PostStore, postService *PostService, sanitizer *Sanitizer, logger *slog.Logger) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		posts:        posts,
		postService:  postService,
		sanitizer:    sanitizer,
		logger:       logger,
	}
}

// List returns the user's own interactions, or every interaction on postID
// when the user owns that post. Non-owners only see their own on it.
func (s *InteractionService) List(ctx context.Context, user models.User, postID string) ([]models.Interaction, error) {
	if user.ID == "" {
		return nil, lifecycle.ErrUnauthenticated
	}

	filter := repositories.InteractionFilter{UserID: user.ID}
	if postID != "" {
		post, err := s.posts.FindByID(ctx, postID)
		if err != nil {
			return nil, storeError("post", err)
		}
		filter.PostID = postID
		if post.OwnerID == user.ID {
			filter.UserID = ""
		}
	}

	interactions, err := s.interactions.List(ctx, filter)
	if err != nil {
		return nil, storeError("interactions", err)
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	return interactions, nil
}

// UpdateMessage lets the interacting user edit the note sent with their claim
func (s *InteractionService) UpdateMessage(ctx context.Context, user models.User, id, message string) (*models.Interaction, error) {
	if user.ID == "" {
		return nil, lifecycle.ErrUnauthenticated
	}
	interaction, err := s.interactions.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("interaction", err)
	}
	if interaction.UserID != user.ID {
		return nil, lifecycle.ErrNotParticipant
	}

	message = s.sanitizer.Text(message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, validationError("message must be at most %d characters", maxMessageLength)
	}
	if err := s.interactions.UpdateMessage(ctx, id, message); err != nil {
		return nil, storeError("interaction", err)
	}

	interaction.Message = &message
	return interaction, nil
}

// Review applies the owner's decision on a pending claim. Approving hands the
// post over for pickup; rejecting releases the claim.
func (s *InteractionService) Review(ctx context.Context, user models.User, id string, approve bool) (*models.PostView, error) {
	if user.ID == "" {
		return nil, lifecycle.ErrUnauthenticated
	}
	interaction, err := s.interactions.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("interaction", err)
	}
	post, err := s.posts.FindByID(ctx, interaction.PostID)
	if err != nil {
		return nil, storeError("post", err)
	}

	if post.OwnerID != user.ID {
		return nil, lifecycle.ErrNotOwner
	}
	state := post.State()
	if interaction.Status != models.InteractionPending || state.ClaimedBy != interaction.UserID {
		return nil, fmt.Errorf("%w: interaction is %s and no longer the open claim", lifecycle.ErrInvalidTransition, interaction.Status)
	}

	if approve {
		return s.postService.ApprovePickup(ctx, user, post.ID)
	}
	return s.postService.CancelClaim(ctx, user, post.ID)
}
