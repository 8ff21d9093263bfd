package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// memStore backs every fake repository so that the fake transactor can roll
// all of them back together.
type memStore struct {
	mu         sync.Mutex
	seq        int
	users      map[string]domain.User
	userOrder  map[string]int
	complaints map[string]domain.Complaint
	notes      []domain.ComplaintNote
	halls      map[string]domain.Hall
	meals      map[string]domain.Meal
	menuItems  map[string]domain.MenuItem

	failNoteCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]domain.User{},
		userOrder:  map[string]int{},
		complaints: map[string]domain.Complaint{},
		halls:      map[string]domain.Hall{},
		meals:      map[string]domain.Meal{},
		menuItems:  map[string]domain.MenuItem{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type storeSnapshot struct {
	seq        int
	users      map[string]domain.User
	userOrder  map[string]int
	complaints map[string]domain.Complaint
	notes      []domain.ComplaintNote
	halls      map[string]domain.Hall
	meals      map[string]domain.Meal
	menuItems  map[string]domain.MenuItem
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() storeSnapshot {
	return storeSnapshot{
		seq:        s.seq,
		users:      copyMap(s.users),
		userOrder:  copyMap(s.userOrder),
		complaints: copyMap(s.complaints),
		notes:      append([]domain.ComplaintNote(nil), s.notes...),
		halls:      copyMap(s.halls),
		meals:      copyMap(s.meals),
		menuItems:  copyMap(s.menuItems),
	}
}

func (s *memStore) restore(snap storeSnapshot) {
	s.seq = snap.seq
	s.users = snap.users
	s.userOrder = snap.userOrder
	s.complaints = snap.complaints
	s.notes = snap.notes
	s.halls = snap.halls
	s.meals = snap.meals
	s.menuItems = snap.menuItems
}

func (s *memStore) notesFor(complaintID string) []domain.ComplaintNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ComplaintNote
	for _, n := range s.notes {
		if n.ComplaintID == complaintID {
			out = append(out, n)
		}
	}
	return out
}

type fakeTransactor struct {
	store   *memStore
	commits int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	snap := t.store.snapshot()
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.restore(snap)
		t.store.mu.Unlock()
		return err
	}
	t.commits++
	return nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.store.nextID("user")
	r.store.users[user.ID] = *user
	r.store.userOrder[user.ID] = r.store.seq
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.AccountStatus = status
	r.store.users[id] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	r.store.users[id] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.User
	for _, user := range r.store.users {
		if filter.Status != nil && user.AccountStatus != *filter.Status {
			continue
		}
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.HallName != nil && user.HallName != *filter.HallName {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.store.userOrder[out[i].ID] > r.store.userOrder[out[j].ID]
	})
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.users, id)
	return nil
}

func (r *fakeUserRepo) HallNames(_ context.Context) ([]string, error) {
	stats, _ := r.HallStatistics(context.Background())
	names := make([]string, 0, len(stats))
	for _, s := range stats {
		names = append(names, s.HallName)
	}
	return names, nil
}

func (r *fakeUserRepo) HallStatistics(_ context.Context) ([]domain.HallStatistic, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	counts := map[string]int{}
	for _, user := range r.store.users {
		if user.HallName != "" {
			counts[user.HallName]++
		}
	}
	out := make([]domain.HallStatistic, 0, len(counts))
	for hall, count := range counts {
		out = append(out, domain.HallStatistic{HallName: hall, UserCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HallName < out[j].HallName })
	return out, nil
}

type fakeComplaintRepo struct {
	store *memStore
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	complaint.ID = r.store.nextID("complaint")
	stored := *complaint
	stored.Notes = nil
	r.store.complaints[complaint.ID] = stored
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *complaint
	stored.Notes = nil
	r.store.complaints[complaint.ID] = stored
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	complaint, ok := r.store.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (r *fakeComplaintRepo) Exists(_ context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.complaints[id]
	return ok, nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Complaint
	for _, c := range r.store.complaints {
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeComplaintRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.complaints, id)
	return nil
}

type fakeNoteRepo struct {
	store *memStore
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.ComplaintNote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failNoteCreate {
		return errors.New("note insert failed")
	}
	note.ID = r.store.nextID("note")
	r.store.notes = append(r.store.notes, *note)
	return nil
}

func (r *fakeNoteRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintNote, error) {
	return r.store.notesFor(complaintID), nil
}

func (r *fakeNoteRepo) ListByComplaints(_ context.Context, ids []string) (map[string][]domain.ComplaintNote, error) {
	out := make(map[string][]domain.ComplaintNote, len(ids))
	for _, id := range ids {
		out[id] = r.store.notesFor(id)
	}
	return out, nil
}

func (r *fakeNoteRepo) DeleteByComplaint(_ context.Context, complaintID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.notes[:0:0]
	for _, n := range r.store.notes {
		if n.ComplaintID != complaintID {
			kept = append(kept, n)
		}
	}
	r.store.notes = kept
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hashed, plain string) error {
	if hashed != "hashed:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMetrics struct {
	transitions []string
}

func (m *recordingMetrics) RecordTransition(entity, status string) {
	m.transitions = append(m.transitions, entity+":"+status)
}
