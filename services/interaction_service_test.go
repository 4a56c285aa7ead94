package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare-api/lifecycle"
	"foodshare-api/models"
)

func TestInteractionListVisibility(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)
	_, err := h.posts.Claim(ctx, bob, post.ID, "Can collect tonight")
	require.NoError(t, err)
	_, err = h.posts.CancelClaim(ctx, bob, post.ID)
	require.NoError(t, err)
	_, err = h.posts.Claim(ctx, carol, post.ID, "")
	require.NoError(t, err)

	all, err := h.interactions.List(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := h.interactions.List(ctx, bob, post.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bob.ID, own[0].UserID)
	require.NotNil(t, own[0].Message)
	assert.Equal(t, "Can collect tonight", *own[0].Message)

	_, err = h.interactions.List(ctx, anon, post.ID)
	assert.ErrorIs(t, err, lifecycle.ErrUnauthenticated)

	_, err = h.interactions.List(ctx, bob, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInteractionTypeFollowsPostType(t *testing.T) {
	h := newHarness(t)
	req := h.request(models.PostTypeRequest)
	post, err := h.posts.Create(ctx, alice, req)
	require.NoError(t, err)
	_, err = h.posts.Claim(ctx, bob, post.ID, "")
	require.NoError(t, err)

	own, err := h.interactions.List(ctx, bob, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, models.InteractionOffer, own[0].InteractionType)
	assert.Equal(t, models.InteractionPending, own[0].Status)
}

func TestUpdateMessage(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)
	_, err := h.posts.Claim(ctx, bob, post.ID, "")
	require.NoError(t, err)
	own, err := h.interactions.List(ctx, bob, post.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	id := own[0].ID

	updated, err := h.interactions.UpdateMessage(ctx, bob, id, " <i>Running late</i> ")
	require.NoError(t, err)
	require.NotNil(t, updated.Message)
	assert.Equal(t, "Running late", *updated.Message)

	_, err = h.interactions.UpdateMessage(ctx, alice, id, "hijack")
	assert.ErrorIs(t, err, lifecycle.ErrNotParticipant)

	_, err = h.interactions.UpdateMessage(ctx, bob, "missing", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewRoutesThroughLifecycle(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)

	_, err := h.posts.Claim(ctx, bob, post.ID, "")
	require.NoError(t, err)
	bobs, err := h.interactions.List(ctx, bob, post.ID)
	require.NoError(t, err)
	require.Len(t, bobs, 1)

	_, err = h.interactions.Review(ctx, bob, bobs[0].ID, true)
	assert.ErrorIs(t, err, lifecycle.ErrNotOwner)

	released, err := h.interactions.Review(ctx, alice, bobs[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPosted, released.Status)
	assert.Nil(t, released.ClaimedBy)

	_, err = h.interactions.Review(ctx, alice, bobs[0].ID, true)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	_, err = h.posts.Claim(ctx, carol, post.ID, "")
	require.NoError(t, err)
	carols, err := h.interactions.List(ctx, carol, post.ID)
	require.NoError(t, err)
	require.Len(t, carols, 1)

	picked, err := h.interactions.Review(ctx, alice, carols[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPickedUp, picked.Status)

	all, err := h.interactions.List(ctx, alice, post.ID)
	require.NoError(t, err)
	statuses := map[string]models.InteractionStatus{}
	for _, i := range all {
		statuses[i.UserID] = i.Status
	}
	assert.Equal(t, models.InteractionRejected, statuses[bob.ID])
	assert.Equal(t, models.InteractionApproved, statuses[carol.ID])

	assert.Contains(t, h.notificationTypes(t, bob), models.NotificationTypeClaimCancelled)
	assert.Contains(t, h.notificationTypes(t, carol), models.NotificationTypePickupApproved)
}
