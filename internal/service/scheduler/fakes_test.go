package scheduler

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
)

type eventRecord struct {
	rideID    uuid.UUID
	eventType types.ScheduledRideEvent
}

// fakeStore keeps bookings, ride requests and events in memory.
// fakeTxManager snapshots it to emulate rollback.
type fakeStore struct {
	mu           sync.Mutex
	rides        map[uuid.UUID]*models.ScheduledRide
	rideRequests []*models.RideRequest
	events       []eventRecord

	listErr          error
	saveErr          error
	createErr        error
	markReminderErr  error
	eventErr         error
	beforeProcessing func(ride *models.ScheduledRide)

	// readyCtx is the context of the last ListReadyToBook call; onReadyList runs inside it.
	readyCtx    context.Context
	onReadyList func()
}

func newFakeStore(rides ...*models.ScheduledRide) *fakeStore {
	s := &fakeStore{rides: make(map[uuid.UUID]*models.ScheduledRide)}
	for _, r := range rides {
		c := *r
		s.rides[r.ID] = &c
	}
	return s
}

func (s *fakeStore) get(id uuid.UUID) models.ScheduledRide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.rides[id]
}

func (s *fakeStore) selectSorted(pred func(*models.ScheduledRide) bool) []*models.ScheduledRide {
	var out []*models.ScheduledRide
	for _, r := range s.rides {
		if pred(r) {
			c := *r
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.ScheduledRide) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out
}

func (s *fakeStore) ListNeedingReminder(_ context.Context, tier models.ReminderTier, now time.Time) ([]*models.ScheduledRide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.selectSorted(func(r *models.ScheduledRide) bool { return r.NeedsReminder(tier, now) }), nil
}

func (s *fakeStore) ListReadyToBook(ctx context.Context, now time.Time) ([]*models.ScheduledRide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readyCtx = ctx
	if s.onReadyList != nil {
		s.onReadyList()
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.selectSorted(func(r *models.ScheduledRide) bool { return r.ReadyToBook(now) }), nil
}

func (s *fakeStore) MarkReminderSent(_ context.Context, id uuid.UUID, tier models.ReminderTier, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markReminderErr != nil {
		return false, s.markReminderErr
	}
	r := s.rides[id]
	if r.ReminderSent(tier) {
		return false, nil
	}
	r.MarkReminderSent(tier)
	r.UpdatedAt = now
	return true, nil
}

func (s *fakeStore) MarkProcessing(_ context.Context, id uuid.UUID, now time.Time) (*models.ScheduledRide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rides[id]
	if s.beforeProcessing != nil {
		s.beforeProcessing(r)
	}
	if r.Status != types.StatusPending {
		return nil, types.ErrStatusConflict
	}
	r.Status = types.StatusProcessing
	r.UpdatedAt = now
	c := *r
	return &c, nil
}

func (s *fakeStore) SaveDispatchResult(_ context.Context, ride *models.ScheduledRide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.rides[ride.ID].Status != types.StatusProcessing {
		return types.ErrStatusConflict
	}
	c := *ride
	s.rides[ride.ID] = &c
	return nil
}

func (s *fakeStore) ResetStaleProcessing(_ context.Context, staleBefore, now time.Time) ([]*models.ScheduledRide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	reset := s.selectSorted(func(r *models.ScheduledRide) bool {
		return r.Status == types.StatusProcessing && r.UpdatedAt.Before(staleBefore)
	})
	for _, r := range reset {
		r.RecordFailedAttempt(now)
		r.UpdatedAt = now
		c := *r
		s.rides[r.ID] = &c
	}
	return reset, nil
}

func (s *fakeStore) Create(_ context.Context, ride *models.RideRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.rideRequests = append(s.rideRequests, ride)
	return nil
}

func (s *fakeStore) CreateEvent(_ context.Context, id uuid.UUID, eventType types.ScheduledRideEvent, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eventErr != nil {
		return s.eventErr
	}
	s.events = append(s.events, eventRecord{rideID: id, eventType: eventType})
	return nil
}

func (s *fakeStore) eventTypes(id uuid.UUID) []types.ScheduledRideEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.ScheduledRideEvent
	for _, e := range s.events {
		if e.rideID == id {
			out = append(out, e.eventType)
		}
	}
	return out
}

type storeSnapshot struct {
	rides        map[uuid.UUID]*models.ScheduledRide
	rideRequests int
	events       int
}

func (s *fakeStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	rides := make(map[uuid.UUID]*models.ScheduledRide, len(s.rides))
	for id, r := range s.rides {
		c := *r
		rides[id] = &c
	}
	return storeSnapshot{rides: rides, rideRequests: len(s.rideRequests), events: len(s.events)}
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rides = maps.Clone(snap.rides)
	s.rideRequests = s.rideRequests[:snap.rideRequests]
	s.events = s.events[:snap.events]
}

type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type sentNotification struct {
	userID uuid.UUID
	n      models.Notification
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentNotification
}

func (f *fakeNotifier) SendToUser(_ context.Context, userID uuid.UUID, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{userID: userID, n: n})
	return nil
}

func (f *fakeNotifier) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeNotifier) ofType(t types.NotificationType) []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentNotification
	for _, s := range f.sent {
		if s.n.Type() == t {
			out = append(out, s)
		}
	}
	return out
}

type fakeDirectory struct {
	drivers []models.Driver
}

func (f *fakeDirectory) AvailableDrivers(context.Context, types.VehicleType, models.Location, float64) ([]models.Driver, error) {
	return f.drivers, nil
}

type fakeLock struct {
	mu       sync.Mutex
	ttl      time.Duration
	held     bool
	err      error
	released int
}

func (l *fakeLock) Acquire(context.Context) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.held {
		return nil, types.ErrCycleInProgress
	}
	l.held = true
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.held = false
		l.released++
		return nil
	}, nil
}

func (l *fakeLock) TTL() time.Duration {
	return l.ttl
}

var errDB = errors.New("connection refused")
