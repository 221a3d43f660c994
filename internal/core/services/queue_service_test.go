package services

import (
	"context"
	"testing"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
	"shopserve/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegisterEntry(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	svc, store := newTestQueue(t)
	svc.notifier = notifier
	notifier.EXPECT().NotifyQueueUpdate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u ports.QueueUpdate) error {
			assert.Equal(t, "registered", u.Action)
			return nil
		})

	entry, err := svc.RegisterEntry(ctx, RegisterEntryInput{CustomerName: "  Eve  ", PWD: true})
	require.NoError(t, err)
	assert.Equal(t, "Eve", entry.CustomerName)
	assert.Equal(t, domain.StatusWaiting, entry.Status)
	assert.Equal(t, domain.TierPWD, entry.Priority.Tier())
	assert.Equal(t, fixedNow, entry.CreatedAt)

	stored, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.CustomerName, stored.CustomerName)

	_, err = svc.RegisterEntry(ctx, RegisterEntryInput{CustomerName: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_name", ve.Field)
}

func TestSetManualPosition(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestQueue(t)
	senior := store.AddEntry(domain.QueueEntry{CreatedAt: minutesAgo(30), Priority: domain.PriorityFlags{SeniorCitizen: true}})
	walkin := store.AddEntry(domain.QueueEntry{CreatedAt: minutesAgo(1)})

	_, err := svc.SetManualPosition(ctx, walkin, ptr(1), cashier)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SetManualPosition(ctx, walkin, ptr(0), admin)
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := svc.SetManualPosition(ctx, walkin, ptr(1), admin)
	require.NoError(t, err)
	assert.Equal(t, 1, *updated.ManualPosition)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Waiting, 2)
	assert.Equal(t, walkin, snap.Waiting[0].Entry.ID)
	assert.Equal(t, senior, snap.Waiting[1].Entry.ID)
	assert.Equal(t, 10, snap.Waiting[1].EstimatedWaitMinutes)

	cleared, err := svc.SetManualPosition(ctx, walkin, nil, admin)
	require.NoError(t, err)
	assert.Nil(t, cleared.ManualPosition)

	pos, err := svc.EntryPosition(ctx, walkin)
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Position)
}

func TestSetManualPosition_OnlyWaitingEntries(t *testing.T) {
	svc, store := newTestQueue(t)
	id := store.AddEntry(domain.QueueEntry{Status: domain.StatusServing, CreatedAt: minutesAgo(5)})

	_, err := svc.SetManualPosition(context.Background(), id, ptr(1), admin)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetCounterActive(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestQueue(t)
	counterID := store.AddCounter("Counter 1", true)
	store.AddEntry(domain.QueueEntry{CreatedAt: minutesAgo(5)})

	_, err := svc.SetCounterActive(ctx, counterID, false, sales)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CallNext(ctx, counterID, cashier)
	require.NoError(t, err)
	_, err = svc.SetCounterActive(ctx, counterID, false, admin)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.ResetQueue(ctx, admin, "")
	require.NoError(t, err)
	counter, err := svc.SetCounterActive(ctx, counterID, false, admin)
	require.NoError(t, err)
	assert.False(t, counter.IsActive)

	_, err = svc.SetCounterActive(ctx, 999, true, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestQueue(t)
	counterID := store.AddCounter("Counter 1", true)
	first := store.AddEntry(domain.QueueEntry{CreatedAt: minutesAgo(9)})
	store.AddEntry(domain.QueueEntry{CreatedAt: minutesAgo(3)})

	_, err := svc.CallNext(ctx, counterID, cashier)
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Waiting, 1)
	require.Len(t, snap.InService, 1)
	assert.Equal(t, first, snap.InService[0].ID)
	assert.Len(t, snap.Counters, 1)

	pos, err := svc.EntryPosition(ctx, first)
	require.NoError(t, err)
	assert.Zero(t, pos.Position)

	events, err := svc.History(ctx, first)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = svc.History(ctx, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
