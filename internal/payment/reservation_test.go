package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/logger"
	"gymhub/internal/principal"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func fixedStore(t *testing.T, window time.Duration) (*ReservationStore, redismock.ClientMock, *Order) {
	t.Helper()

	rdb, mock := redismock.NewClientMock()
	store := NewReservationStore(rdb, window)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	payer := principal.FromBytes([]byte{0x01})
	order := &Order{
		ID:        orderID("gym-1", payer, now),
		GymID:     "gym-1",
		Payer:     payer.String(),
		AmountE8s: 1000,
		CreatedAt: now,
	}
	return store, mock, order
}

func TestReservationStore_CreateAndGet(t *testing.T) {
	store, mock, want := fixedStore(t, time.Minute)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectSet(orderKey(want.ID), data, time.Minute).SetVal("OK")
	mock.ExpectGet(orderKey(want.ID)).SetVal(string(data))

	order, err := store.Create(context.Background(), "gym-1", principal.FromBytes([]byte{0x01}), 1000)
	require.NoError(t, err)
	assert.Equal(t, want.ID, order.ID)
	assert.Equal(t, want.AmountE8s, order.AmountE8s)

	loaded, err := store.Get(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationStore_Get_Missing(t *testing.T) {
	store, mock, _ := fixedStore(t, time.Minute)

	mock.ExpectGet(orderKey(123)).RedisNil()

	_, err := store.Get(context.Background(), 123)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReservationStore_Consume(t *testing.T) {
	store, mock, want := fixedStore(t, time.Minute)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectSet(orderKey(want.ID), data, time.Minute).SetVal("OK")
	mock.ExpectDel(orderKey(want.ID)).SetVal(1)

	_, err = store.Create(context.Background(), "gym-1", principal.FromBytes([]byte{0x01}), 1000)
	require.NoError(t, err)

	require.NoError(t, store.Consume(context.Background(), want.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationStore_Consume_AlreadyGone(t *testing.T) {
	store, mock, _ := fixedStore(t, time.Minute)

	mock.ExpectDel(orderKey(77)).SetVal(0)

	err := store.Consume(context.Background(), 77)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReservationStore_ExpiryTimerDiscards(t *testing.T) {
	store, mock, want := fixedStore(t, 20*time.Millisecond)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectSet(orderKey(want.ID), data, 20*time.Millisecond).SetVal("OK")
	mock.ExpectDel(orderKey(want.ID)).SetVal(1)

	_, err = store.Create(context.Background(), "gym-1", principal.FromBytes([]byte{0x01}), 1000)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, time.Second, 10*time.Millisecond)
}

func TestReservationStore_ExpiryTimerToleratesMissingKey(t *testing.T) {
	store, mock, want := fixedStore(t, 20*time.Millisecond)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectSet(orderKey(want.ID), data, 20*time.Millisecond).SetVal("OK")
	// Key already gone by the time the timer fires; discard must shrug.
	mock.ExpectDel(orderKey(want.ID)).SetVal(0)

	_, err = store.Create(context.Background(), "gym-1", principal.FromBytes([]byte{0x01}), 1000)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, time.Second, 10*time.Millisecond)
}
