package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"
	"gymhub/internal/principal"
)

var (
	ErrOrderNotFound = errors.New("payment order not found")
)

// Order is a pending payment reservation. Its ID doubles as the memo the
// payer must attach to the ledger transfer, correlating the transfer back to
// this order.
type Order struct {
	ID        uint64    `json:"id"`
	GymID     string    `json:"gym_id"`
	Payer     string    `json:"payer"`
	AmountE8s uint64    `json:"amount_e8s"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationStore keeps pending orders in redis for a bounded window.
// Each order is discarded by a one-shot timer when the window elapses; the
// redis TTL is a backstop in case the process dies before the timer fires.
type ReservationStore struct {
	rdb    *redis.Client
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	timers map[uint64]*time.Timer
}

func NewReservationStore(rdb *redis.Client, window time.Duration) *ReservationStore {
	return &ReservationStore{
		rdb:    rdb,
		window: window,
		now:    time.Now,
		timers: make(map[uint64]*time.Timer),
	}
}

func orderKey(id uint64) string {
	return fmt.Sprintf("payment:order:%d", id)
}

// orderID derives the correlation id for a new order from the gym, the payer
// and the current time.
func orderID(gymID string, payer principal.Principal, now time.Time) uint64 {
	seed := fmt.Sprintf("%s|%s|%d", gymID, payer.String(), now.UnixNano())
	return principal.Hash64([]byte(seed))
}

// Create reserves a pending order and arms its expiry timer.
func (s *ReservationStore) Create(ctx context.Context, gymID string, payer principal.Principal, amountE8s uint64) (*Order, error) {
	now := s.now()
	order := &Order{
		ID:        orderID(gymID, payer, now),
		GymID:     gymID,
		Payer:     payer.String(),
		AmountE8s: amountE8s,
		CreatedAt: now.UTC(),
	}

	data, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, orderKey(order.ID), data, s.window).Err(); err != nil {
		return nil, fmt.Errorf("store payment order: %w", err)
	}

	s.mu.Lock()
	s.timers[order.ID] = time.AfterFunc(s.window, func() { s.discard(order.ID) })
	s.mu.Unlock()

	return order, nil
}

// Get returns the pending order for id, or ErrOrderNotFound once it has been
// consumed or expired.
func (s *ReservationStore) Get(ctx context.Context, id uint64) (*Order, error) {
	data, err := s.rdb.Get(ctx, orderKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment order: %w", err)
	}

	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("decode payment order: %w", err)
	}
	return &order, nil
}

// Consume removes a completed order and cancels its expiry timer.
func (s *ReservationStore) Consume(ctx context.Context, id uint64) error {
	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	removed, err := s.rdb.Del(ctx, orderKey(id)).Result()
	if err != nil {
		return fmt.Errorf("consume payment order: %w", err)
	}
	if removed == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// discard is the timer callback: best-effort removal of an expired order.
// The order may already be gone (consumed, or redis TTL won the race); that
// is a logged no-op and must never take anything down with it.
func (s *ReservationStore) discard(id uint64) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	removed, err := s.rdb.Del(ctx, orderKey(id)).Result()
	if err != nil {
		logger.Errorf("Failed to discard expired payment order %d: %v", id, err)
		return
	}
	if removed == 0 {
		logger.Debugf("Payment order %d already gone at expiry", id)
		return
	}

	metrics.RecordReservationExpired()
	logger.Infof("Payment order %d expired after %s", id, s.window)
}
