package support

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/notify/notifytest"
	"inventory-system/internal/testutil"
)

func TestSubmitNotifiesAdmins(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	user := testutil.CreateUser(t, store, types[models.RoleCustomer], "buyer")

	notifier := &notifytest.MockNotifier{}
	notifier.On("NotifyAdmins", mock.Anything, mock.MatchedBy(func(a AdminAlert) bool {
		return a.UserID == user.ID && a.Role == models.RoleCustomer && a.UserName == "buyer full" && a.Message == "where is my order?"
	})).Return(nil).Once()
	svc := NewService(store, notifier)

	msg, err := svc.Submit(ctx, user.ID, "  where is my order? ")
	require.NoError(t, err)
	require.False(t, msg.IsResolved)
	require.Equal(t, "where is my order?", msg.Message)
	notifier.AssertExpectations(t)

	stored, err := store.SupportMessages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.False(t, stored.IsResolved)
}

func TestSubmitUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifier := &notifytest.MockNotifier{}
	svc := NewService(store, notifier)

	_, err := svc.Submit(ctx, uuid.New(), "hello")
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	count, err := store.SupportMessages.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	notifier.AssertNotCalled(t, "NotifyAdmins", mock.Anything, mock.Anything)
}

func TestSubmitSurvivesNotifierFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	user := testutil.CreateUser(t, store, types[models.RoleSupplier], "vendor")

	notifier := &notifytest.MockNotifier{}
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything).Return(errors.New("redis unavailable"))
	svc := NewService(store, notifier)

	msg, err := svc.Submit(ctx, user.ID, "hello")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, msg.ID)
}

func TestRespondRelaysToUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	user := testutil.CreateUser(t, store, types[models.RoleCustomer], "buyer")
	admin := testutil.CreateUser(t, store, types[models.RoleAdmin], "admin")

	notifier := &notifytest.MockNotifier{}
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyUser", mock.Anything, user.ID, mock.MatchedBy(func(r UserReply) bool {
		return r.AdminResponse == "shipped today" && r.OriginalMessage == "status?"
	})).Return(nil).Once()

	respondedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(store, notifier)
	svc.now = func() time.Time { return respondedAt }

	msg, err := svc.Submit(ctx, user.ID, "status?")
	require.NoError(t, err)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	answered, err := svc.Respond(ctx, msg.ID, "shipped today", admin.ID)
	require.NoError(t, err)
	require.True(t, answered.IsResolved)
	require.Equal(t, "shipped today", answered.AdminResponse)
	require.True(t, respondedAt.Equal(*answered.ResponseDate))
	notifier.AssertExpectations(t)

	stored, err := store.SupportMessages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, admin.ID, *stored.RespondedBy)

	pending, err = svc.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalTickets)
	require.EqualValues(t, 1, stats.ResolvedTickets)
	require.Zero(t, stats.OpenTickets)
}

func TestRespondUnknownMessage(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testutil.NewStore(t), &notifytest.MockNotifier{})

	_, err := svc.Respond(ctx, uuid.New(), "hi", uuid.New())
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Respond(ctx, uuid.New(), "   ", uuid.New())
	require.True(t, apperr.Is(err, apperr.KindValidation))
}
