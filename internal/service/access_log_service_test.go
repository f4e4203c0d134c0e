package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
)

// fakeAccessLogRepo keeps entries in memory, newest first like the real
// repository's sort order.
type fakeAccessLogRepo struct {
	mu      sync.Mutex
	entries []*domain.AccessEntry
}

func (f *fakeAccessLogRepo) Insert(_ context.Context, entry *domain.AccessEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	f.entries = append([]*domain.AccessEntry{entry}, f.entries...)
	return nil
}

func (f *fakeAccessLogRepo) InsertMany(ctx context.Context, entries []*domain.AccessEntry) error {
	for _, e := range entries {
		if err := f.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAccessLogRepo) GetByID(_ context.Context, id string) (*domain.AccessEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID.Hex() == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAccessLogRepo) matches(e *domain.AccessEntry, filter dto.AccessLogFilter) bool {
	if filter.UserID != nil && e.UserID != *filter.UserID {
		return false
	}
	if filter.EventID != nil && e.EventID != *filter.EventID {
		return false
	}
	if filter.AccessType != "" && e.AccessType != filter.AccessType {
		return false
	}
	return true
}

func (f *fakeAccessLogRepo) List(_ context.Context, filter dto.AccessLogFilter, limit, offset int) ([]*domain.AccessEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*domain.AccessEntry, 0)
	for _, e := range f.entries {
		if f.matches(e, filter) {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeAccessLogRepo) Count(ctx context.Context, filter dto.AccessLogFilter) (int64, error) {
	entries, err := f.List(ctx, filter, int(^uint(0)>>1), 0)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

func (f *fakeAccessLogRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AccessEntry, error) {
	return f.List(ctx, dto.AccessLogFilter{}, limit, 0)
}

func (f *fakeAccessLogRepo) Update(_ context.Context, id string, details map[string]string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID.Hex() == id {
			if v, ok := details["status"]; ok {
				e.Details.Status = v
			}
			if v, ok := details["device"]; ok {
				e.Details.Device = v
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccessLogRepo) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID.Hex() == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccessLogRepo) Stats(_ context.Context, _ time.Time) (*domain.AccessStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &domain.AccessStats{Total: int64(len(f.entries))}
	for _, e := range f.entries {
		switch e.AccessType {
		case domain.AccessTypeRegistration:
			stats.Registrations++
		case domain.AccessTypeCertificate:
			stats.Certificates++
		}
	}
	return stats, nil
}

func (f *fakeAccessLogRepo) EnsureIndexes(_ context.Context) error { return nil }

func TestAccessLogUnavailableWithoutStore(t *testing.T) {
	svc := NewAccessLogService(nil, newFakeUserRepo(), newFakeEventRepo(), zap.NewNop())

	_, _, err := svc.List(context.Background(), dto.AccessLogFilter{}, dto.Pagination{})
	assert.ErrorIs(t, err, ErrAuditUnavailable)

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrAuditUnavailable)

	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, ErrAuditUnavailable)

	assert.ErrorIs(t, svc.Delete(context.Background(), "x"), ErrAuditUnavailable)
}

func TestAccessLogEnrichment(t *testing.T) {
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	accessLogs := &fakeAccessLogRepo{}
	svc := NewAccessLogService(accessLogs, users, events, zap.NewNop())

	user, err := users.Create(context.Background(), &domain.User{Name: "Alice", Email: "a@example.com", Role: domain.RoleParticipant})
	require.NoError(t, err)
	event, err := events.Create(context.Background(), &domain.Event{Title: "Go Conf", OrganizerID: 9, EventDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	// one fully resolvable entry, one pointing at deleted rows, one login
	require.NoError(t, accessLogs.Insert(context.Background(), &domain.AccessEntry{
		UserID: user.ID, EventID: event.ID, AccessType: domain.AccessTypeRegistration, Timestamp: time.Now(),
	}))
	require.NoError(t, accessLogs.Insert(context.Background(), &domain.AccessEntry{
		UserID: 404, EventID: 404, AccessType: domain.AccessTypeCertificate, Timestamp: time.Now(),
	}))
	require.NoError(t, accessLogs.Insert(context.Background(), &domain.AccessEntry{
		UserID: user.ID, EventID: domain.SentinelEventID, AccessType: domain.AccessTypeRegistration, Timestamp: time.Now(),
	}))

	entries, total, err := svc.List(context.Background(), dto.AccessLogFilter{}, dto.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 3)

	byUser := make(map[int64][]*domain.EnrichedAccessEntry)
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	// deleted referents stay readable with null joins
	orphan := byUser[404][0]
	assert.Nil(t, orphan.User)
	assert.Nil(t, orphan.Event)

	for _, e := range byUser[user.ID] {
		require.NotNil(t, e.User)
		assert.Equal(t, "Alice", e.User.Name)
		if e.EventID == domain.SentinelEventID {
			assert.Nil(t, e.Event)
		} else {
			require.NotNil(t, e.Event)
			assert.Equal(t, "Go Conf", e.Event.Title)
		}
	}
}

func TestAccessLogGetAndUpdate(t *testing.T) {
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	accessLogs := &fakeAccessLogRepo{}
	svc := NewAccessLogService(accessLogs, users, events, zap.NewNop())

	entry := &domain.AccessEntry{UserID: 1, EventID: 2, AccessType: domain.AccessTypeRegistration, Timestamp: time.Now()}
	require.NoError(t, accessLogs.Insert(context.Background(), entry))

	got, err := svc.Get(context.Background(), entry.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Update(context.Background(), entry.ID.Hex(), dto.UpdateAccessLogRequest{Status: "flagged"}))
	got, err = svc.Get(context.Background(), entry.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "flagged", got.Details.Status)

	require.NoError(t, svc.Delete(context.Background(), entry.ID.Hex()))
	assert.ErrorIs(t, svc.Delete(context.Background(), entry.ID.Hex()), ErrNotFound)
}

func TestAccessLogFilterByType(t *testing.T) {
	accessLogs := &fakeAccessLogRepo{}
	svc := NewAccessLogService(accessLogs, newFakeUserRepo(), newFakeEventRepo(), zap.NewNop())

	require.NoError(t, accessLogs.Insert(context.Background(), &domain.AccessEntry{
		UserID: 1, AccessType: domain.AccessTypeRegistration, Timestamp: time.Now(),
	}))
	require.NoError(t, accessLogs.Insert(context.Background(), &domain.AccessEntry{
		UserID: 1, AccessType: domain.AccessTypeCertificate, Timestamp: time.Now(),
	}))

	entries, total, err := svc.List(context.Background(), dto.AccessLogFilter{AccessType: domain.AccessTypeCertificate}, dto.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AccessTypeCertificate, entries[0].AccessType)
}
