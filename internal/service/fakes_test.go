package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
)

// In-memory repositories for service tests. They implement the same
// nil-on-miss convention as the real implementations.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.users[user.ID]; ok {
		existing.Name = user.Name
		existing.Email = user.Email
	}
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id int64, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeUserRepo) GetRefsByIDs(_ context.Context, ids []int64) (map[int64]*domain.UserRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make(map[int64]*domain.UserRef)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			refs[id] = &domain.UserRef{ID: u.ID, Name: u.Name}
		}
	}
	return refs, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, u := range f.users {
		counts[u.Role]++
	}
	return counts, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]*domain.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*domain.Category), nextID: 1}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	cp := *c
	f.categories[c.ID] = &cp
	return c, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*domain.Category, 0, len(f.categories))
	for _, c := range f.categories {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (f *fakeCategoryRepo) ListWithEventCounts(ctx context.Context) ([]*domain.Category, error) {
	return f.List(ctx)
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.categories[c.ID]; ok {
		existing.Name = c.Name
	}
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return false, nil
	}
	delete(f.categories, id)
	return true, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[int64]*domain.Event
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	e.CreatedAt = time.Now()
	cp := *e
	f.events[e.ID] = &cp
	return e, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) all() []*domain.Event {
	events := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		cp := *e
		events = append(events, &cp)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

func (f *fakeEventRepo) List(_ context.Context, filter dto.EventFilter, limit, offset int) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*domain.Event, 0)
	for _, e := range f.all() {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(e.Title), needle) &&
				!strings.Contains(strings.ToLower(e.Description), needle) {
				continue
			}
		}
		if filter.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Upcoming && !e.EventDate.After(time.Now()) {
			continue
		}
		matched = append(matched, e)
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

func (f *fakeEventRepo) Count(ctx context.Context, filter dto.EventFilter) (int64, error) {
	events, err := f.List(ctx, filter, int(^uint(0)>>1), 0)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

func (f *fakeEventRepo) ListByOrganizer(_ context.Context, organizerID int64) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]*domain.Event, 0)
	for _, e := range f.all() {
		if e.OrganizerID == organizerID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (f *fakeEventRepo) ListWithRegistrationCounts(ctx context.Context, organizerID int64) ([]*domain.Event, error) {
	return f.ListByOrganizer(ctx, organizerID)
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.events[e.ID]; ok {
		existing.Title = e.Title
		existing.Description = e.Description
		existing.EventDate = e.EventDate
		existing.CategoryID = e.CategoryID
	}
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return false, nil
	}
	delete(f.events, id)
	return true, nil
}

func (f *fakeEventRepo) GetRefsByIDs(_ context.Context, ids []int64) (map[int64]*domain.EventRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make(map[int64]*domain.EventRef)
	for _, id := range ids {
		if e, ok := f.events[id]; ok {
			refs[id] = &domain.EventRef{ID: e.ID, Title: e.Title}
		}
	}
	return refs, nil
}

func (f *fakeEventRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.events)), nil
}

func (f *fakeEventRepo) CountUpcoming(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.events {
		if e.EventDate.After(now) {
			n++
		}
	}
	return n, nil
}

// fakeRegistrationRepo resolves organizer-scoped reads through the event
// repo, matching the SQL join.
type fakeRegistrationRepo struct {
	mu            sync.Mutex
	registrations map[int64]*domain.Registration
	nextID        int64
	events        *fakeEventRepo
}

func newFakeRegistrationRepo(events *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: make(map[int64]*domain.Registration), nextID: 1, events: events}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, r *domain.Registration) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.nextID
	f.nextID++
	r.CreatedAt = time.Now()
	cp := *r
	f.registrations[r.ID] = &cp
	return r, nil
}

func (f *fakeRegistrationRepo) join(r *domain.Registration) *domain.Registration {
	cp := *r
	if f.events != nil {
		if e, _ := f.events.GetByID(context.Background(), r.EventID); e != nil {
			cp.EventTitle = e.Title
			date := e.EventDate
			cp.EventDate = &date
		}
	}
	return &cp
}

func (f *fakeRegistrationRepo) GetByID(_ context.Context, id int64) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.registrations[id]
	if !ok {
		return nil, nil
	}
	return f.join(r), nil
}

func (f *fakeRegistrationRepo) GetByUserAndEvent(_ context.Context, userID, eventID int64) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.registrations {
		if r.UserID == userID && r.EventID == eventID {
			return f.join(r), nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) all() []*domain.Registration {
	regs := make([]*domain.Registration, 0, len(f.registrations))
	for _, r := range f.registrations {
		regs = append(regs, f.join(r))
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs
}

func (f *fakeRegistrationRepo) List(_ context.Context, limit, offset int) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	regs := f.all()
	if offset >= len(regs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(regs) {
		end = len(regs)
	}
	return regs[offset:end], nil
}

func (f *fakeRegistrationRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.registrations)), nil
}

func (f *fakeRegistrationRepo) ListByEvent(_ context.Context, eventID int64, status string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	regs := make([]*domain.Registration, 0)
	for _, r := range f.all() {
		if r.EventID == eventID && (status == "" || r.Status == status) {
			regs = append(regs, r)
		}
	}
	return regs, nil
}

func (f *fakeRegistrationRepo) ListByOrganizer(ctx context.Context, organizerID int64, limit, offset int) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	regs := make([]*domain.Registration, 0)
	for _, r := range f.all() {
		if e, _ := f.events.GetByID(ctx, r.EventID); e != nil && e.OrganizerID == organizerID {
			regs = append(regs, r)
		}
	}
	if offset >= len(regs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(regs) {
		end = len(regs)
	}
	return regs[offset:end], nil
}

func (f *fakeRegistrationRepo) CountByOrganizer(ctx context.Context, organizerID int64) (int64, error) {
	regs, err := f.ListByOrganizer(ctx, organizerID, int(^uint(0)>>1), 0)
	if err != nil {
		return 0, err
	}
	return int64(len(regs)), nil
}

func (f *fakeRegistrationRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	regs := make([]*domain.Registration, 0)
	for _, r := range f.all() {
		if r.UserID == userID {
			regs = append(regs, r)
		}
	}
	return regs, nil
}

func (f *fakeRegistrationRepo) ListByUserWithCertificates(ctx context.Context, userID int64) ([]*domain.Registration, error) {
	return f.ListByUser(ctx, userID)
}

func (f *fakeRegistrationRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.registrations[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakeRegistrationRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.registrations[id]; !ok {
		return false, nil
	}
	delete(f.registrations, id)
	return true, nil
}

func (f *fakeRegistrationRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, r := range f.registrations {
		counts[r.Status]++
	}
	return counts, nil
}

// fakeCertificateRepo mirrors the SQL joins by resolving user and event
// fields through the registration repo on every read.
type fakeCertificateRepo struct {
	mu           sync.Mutex
	certificates map[int64]*domain.Certificate
	nextID       int64
	regs         *fakeRegistrationRepo
}

func newFakeCertificateRepo(regs *fakeRegistrationRepo) *fakeCertificateRepo {
	return &fakeCertificateRepo{certificates: make(map[int64]*domain.Certificate), nextID: 1, regs: regs}
}

func (f *fakeCertificateRepo) join(c *domain.Certificate) *domain.Certificate {
	cp := *c
	if f.regs != nil {
		if reg, _ := f.regs.GetByID(context.Background(), c.RegistrationID); reg != nil {
			cp.UserID = reg.UserID
			cp.EventID = reg.EventID
			cp.UserName = reg.UserName
			cp.EventTitle = reg.EventTitle
			cp.EventDate = reg.EventDate
		}
	}
	return &cp
}

func (f *fakeCertificateRepo) Create(_ context.Context, c *domain.Certificate) (*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	c.IssuedAt = time.Now()
	cp := *c
	f.certificates[c.ID] = &cp
	return c, nil
}

func (f *fakeCertificateRepo) GetByID(_ context.Context, id int64) (*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.certificates[id]
	if !ok {
		return nil, nil
	}
	return f.join(c), nil
}

func (f *fakeCertificateRepo) GetByRegistrationID(_ context.Context, registrationID int64) (*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certificates {
		if c.RegistrationID == registrationID {
			return f.join(c), nil
		}
	}
	return nil, nil
}

func (f *fakeCertificateRepo) List(_ context.Context, limit, offset int) ([]*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*domain.Certificate, 0, len(f.certificates))
	for _, c := range f.certificates {
		all = append(all, f.join(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeCertificateRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.certificates)), nil
}

func (f *fakeCertificateRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	certs := make([]*domain.Certificate, 0)
	for _, c := range f.certificates {
		joined := f.join(c)
		if joined.UserID == userID {
			certs = append(certs, joined)
		}
	}
	return certs, nil
}

func (f *fakeCertificateRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.certificates[id]; !ok {
		return false, nil
	}
	delete(f.certificates, id)
	return true, nil
}

// fakeRecorder captures recorded access entries synchronously.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []recordedAccess
}

type recordedAccess struct {
	UserID     int64
	EventID    int64
	AccessType string
	Meta       dto.AccessMeta
}

func (f *fakeRecorder) Record(userID, eventID int64, accessType string, meta dto.AccessMeta) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedAccess{UserID: userID, EventID: eventID, AccessType: accessType, Meta: meta})
}

func (f *fakeRecorder) Close() {}

func (f *fakeRecorder) recorded() []recordedAccess {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedAccess, len(f.entries))
	copy(out, f.entries)
	return out
}
