package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/cache"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/config"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
)

var ticketPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func student(name string) model.Attendee {
	return model.Attendee{
		StudentName: name,
		Email:       "student@example.com",
		Phone:       "9876543210",
		CollegeName: "Acme",
		Course:      "B.Tech",
		Semester:    "5",
	}
}

func TestRegistrationRepo_CreateThenSeatTaken(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	reg, err := r.regs.Create(ctx, "acme", "s1", 1, 5, student(" Asha "))
	require.NoError(t, err)
	require.Equal(t, "A-5", reg.SeatCode)
	require.Equal(t, 1, reg.SeatRow)
	require.Equal(t, 5, reg.SeatCol)
	require.Equal(t, "Asha", reg.StudentName)
	require.False(t, reg.Attended)
	require.Regexp(t, ticketPattern, reg.TicketID)

	_, err = r.regs.Create(ctx, "acme", "s1", 1, 5, student("Ravi"))
	require.ErrorIs(t, err, ErrSeatTaken)

	list, err := r.regs.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, reg.ID, list[0].ID)
}

func TestRegistrationRepo_ConcurrentBookingsOneWinner(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	const n = 40
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		taken   int
		unknown []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.regs.Create(ctx, "acme", "s1", 3, 7, student("Racer"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSeatTaken):
				taken++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	wg.Wait()
	require.Empty(t, unknown)
	require.Equal(t, 1, wins)
	require.Equal(t, n-1, taken)

	list, err := r.regs.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "C-7", list[0].SeatCode)
}

func TestRegistrationRepo_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	a, err := r.regs.Create(ctx, "college-a", "s1", 1, 1, student("A"))
	require.NoError(t, err)
	_, err = r.regs.Create(ctx, "college-b", "s1", 1, 1, student("B"))
	require.NoError(t, err, "same seminar id and seat in another college is independent")

	list, err := r.regs.List(ctx, "college-b", "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "B", list[0].StudentName)

	_, err = r.regs.Get(ctx, "college-b", "s1", a.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.regs.FindByTicket(ctx, "college-b", "s1", a.TicketID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.regs.SetAttended(ctx, "college-b", "s1", a.ID, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistrationRepo_ValidationBeforeStorage(t *testing.T) {
	fs := &failingStore{}
	repo := NewRegistrationRepo(fs, nil, discardLogger())

	_, err := repo.Create(context.Background(), "acme", "s1", 0, 5, model.Attendee{Email: "nope"})
	requireValidation(t, err, "studentName", "email", "phone", "seatRow")
	require.Zero(t, fs.calls)

	_, err = repo.Create(context.Background(), "acme", "s1", 1, 0, student("Asha"))
	requireValidation(t, err, "seatCol")
	require.Zero(t, fs.calls)
}

func TestRegistrationRepo_ListNormalizesLegacyDocuments(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	coll := registrationsColl("acme", "s1")
	require.NoError(t, r.store.Set(ctx, coll, "new", map[string]any{
		"seatId": "B-2", "studentName": "Neha", "ticketId": "NEW00001", "collegeName": "Acme",
		"attended": true, "createdAt": "2024-01-01T10:00:02.000Z",
	}))
	require.NoError(t, r.store.Set(ctx, coll, "old", map[string]any{
		"seatId": "A-1", "name": "Old Timer", "qrCodeData": "OLD00001", "college": "Acme Legacy",
		"createdAt": "2024-01-01T10:00:01.000Z",
	}))
	require.NoError(t, r.store.Set(ctx, coll, "broken", map[string]any{
		"seatId": "??", "studentName": "Broken", "ticketId": "BRK00001",
		"createdAt": "2024-01-01T10:00:03.000Z",
	}))

	list, err := r.regs.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.Len(t, list, 3)

	old := list[0]
	require.Equal(t, "old", old.ID)
	require.Equal(t, "Old Timer", old.StudentName)
	require.Equal(t, "OLD00001", old.TicketID)
	require.Equal(t, "Acme Legacy", old.CollegeName)
	require.Equal(t, 1, old.SeatRow)
	require.Equal(t, 1, old.SeatCol)
	require.False(t, old.Attended)

	require.Equal(t, "new", list[1].ID)
	require.True(t, list[1].Attended)

	broken := list[2]
	require.Equal(t, "??", broken.SeatCode)
	require.Zero(t, broken.SeatRow)
	require.Zero(t, broken.SeatCol)

	found, err := r.regs.FindByTicket(ctx, "acme", "s1", "OLD00001")
	require.NoError(t, err)
	require.Equal(t, "old", found.ID)
}

func TestRegistrationRepo_LegacySeatWithoutClaimIsTaken(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	require.NoError(t, r.store.Set(ctx, registrationsColl("acme", "s1"), "old", map[string]any{
		"seatId": "A-5", "name": "Old", "qrCodeData": "OLD00001",
	}))
	_, err := r.regs.Create(ctx, "acme", "s1", 1, 5, student("New"))
	require.ErrorIs(t, err, ErrSeatTaken)
}

func TestRegistrationRepo_Attendance(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	reg, err := r.regs.Create(ctx, "acme", "s1", 2, 3, student("Asha"))
	require.NoError(t, err)

	require.NoError(t, r.regs.MarkAttended(ctx, "acme", "s1", reg.ID))
	require.ErrorIs(t, r.regs.MarkAttended(ctx, "acme", "s1", reg.ID), ErrAlreadyAttended)

	got, err := r.regs.SetAttended(ctx, "acme", "s1", reg.ID, false)
	require.NoError(t, err)
	require.False(t, got.Attended)
	require.NoError(t, r.regs.MarkAttended(ctx, "acme", "s1", reg.ID), "admin reset re-admits")

	got, err = r.regs.SetAttended(ctx, "acme", "s1", reg.ID, true)
	require.NoError(t, err)
	require.True(t, got.Attended)

	_, err = r.regs.SetAttended(ctx, "acme", "s1", "missing", true)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.regs.MarkAttended(ctx, "acme", "s1", "missing"), ErrNotFound)
}

func TestRegistrationRepo_TicketIndex(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	reg, err := r.regs.Create(ctx, "acme", "s9", 1, 1, student("Asha"))
	require.NoError(t, err)

	sid, rid, err := r.regs.LookupTicket(ctx, "acme", reg.TicketID)
	require.NoError(t, err)
	require.Equal(t, "s9", sid)
	require.Equal(t, reg.ID, rid)

	_, _, err = r.regs.LookupTicket(ctx, "other", reg.TicketID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistrationRepo_TicketCollisionRegenerates(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	ids := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	r.regs.newTicketID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	first, err := r.regs.Create(ctx, "acme", "s1", 1, 1, student("One"))
	require.NoError(t, err)
	second, err := r.regs.Create(ctx, "acme", "s2", 1, 1, student("Two"))
	require.NoError(t, err)
	require.Equal(t, "AAAAAAAA", first.TicketID)
	require.Equal(t, "BBBBBBBB", second.TicketID)
}

func TestRegistrationRepo_TicketSpaceExhaustedReleasesSeat(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	r.regs.newTicketID = func() (string, error) { return "SAMESAME", nil }

	_, err := r.regs.Create(ctx, "acme", "s1", 1, 1, student("One"))
	require.NoError(t, err)
	_, err = r.regs.Create(ctx, "acme", "s1", 1, 2, student("Two"))
	require.ErrorIs(t, err, ErrTicketSpace)

	_, err = r.store.Get(ctx, seatClaimsColl("acme", "s1"), "A-2")
	require.ErrorIs(t, err, docstore.ErrNotFound, "seat claim is released")
}

type recordingCache struct {
	mu          sync.Mutex
	lists       map[string][]model.Registration
	gens        map[string]int64
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{lists: map[string][]model.Registration{}, gens: map[string]int64{}}
}

func (c *recordingCache) Get(_ context.Context, cid, sid string) ([]model.Registration, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[cid+"/"+sid]
	l, ok := c.lists[fmt.Sprintf("%s/%s/%d", cid, sid, gen)]
	return l, gen, ok
}

func (c *recordingCache) Set(_ context.Context, cid, sid string, gen int64, regs []model.Registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[fmt.Sprintf("%s/%s/%d", cid, sid, gen)] = regs
}

func (c *recordingCache) Invalidate(_ context.Context, cid, sid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[cid+"/"+sid]++
	c.invalidated++
}

func TestRegistrationRepo_CacheInvalidation(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	c := newRecordingCache()
	repo := NewRegistrationRepo(store, c, discardLogger())

	first, err := repo.Create(ctx, "acme", "s1", 1, 1, student("One"))
	require.NoError(t, err)
	list, err := repo.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, _, ok := c.Get(ctx, "acme", "s1")
	require.True(t, ok)

	_, err = repo.Create(ctx, "acme", "s1", 1, 2, student("Two"))
	require.NoError(t, err)
	list, err = repo.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, repo.MarkAttended(ctx, "acme", "s1", first.ID))
	list, err = repo.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.True(t, list[0].Attended)
	require.Equal(t, 3, c.invalidated)
}

// slowListStore holds the first ordered registration query after it has
// read, so a booking can land between the read and the cache fill.
type slowListStore struct {
	*docstore.MemoryStore
	once    sync.Once
	entered chan struct{}
	resume  chan struct{}
}

func (s *slowListStore) Query(ctx context.Context, coll string, q docstore.Query) ([]docstore.Document, error) {
	docs, err := s.MemoryStore.Query(ctx, coll, q)
	if q.OrderBy == "createdAt" {
		s.once.Do(func() {
			close(s.entered)
			<-s.resume
		})
	}
	return docs, err
}

func TestRegistrationRepo_ListDoesNotCacheReadOverlappingWrite(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.NewRegistrationCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test"}, rdb, discardLogger())

	store := &slowListStore{MemoryStore: docstore.NewMemoryStore(), entered: make(chan struct{}), resume: make(chan struct{})}
	repo := NewRegistrationRepo(store, c, discardLogger())

	done := make(chan []model.Registration, 1)
	go func() {
		list, err := repo.List(ctx, "acme", "s1")
		assert.NoError(t, err)
		done <- list
	}()
	<-store.entered
	_, err := repo.Create(ctx, "acme", "s1", 1, 1, student("One"))
	require.NoError(t, err)
	close(store.resume)
	require.Empty(t, <-done, "the list was read before the booking")

	list, err := repo.List(ctx, "acme", "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "A-1", list[0].SeatCode)
}

func TestNewRegistrationRepo_NilCache(t *testing.T) {
	repo := NewRegistrationRepo(docstore.NewMemoryStore(), nil, discardLogger())
	require.IsType(t, noCache{}, repo.cache)

	list, err := repo.List(context.Background(), "acme", "s1")
	require.NoError(t, err)
	require.Empty(t, list)
}
