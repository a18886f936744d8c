package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	byID      map[string]*domain.Client
	seq       int
	deleteErr error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byID: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	for _, existing := range r.byID {
		if existing.WhatsApp == c.WhatsApp {
			return nil, domain.ErrClientExists
		}
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("client-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) FindByWhatsApp(_ context.Context, whatsapp string) (*domain.Client, error) {
	for _, c := range r.byID {
		if c.WhatsApp == whatsapp {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) FindOrCreate(ctx context.Context, name, whatsapp string, now time.Time) (*domain.Client, error) {
	if c, err := r.FindByWhatsApp(ctx, whatsapp); err == nil {
		return c, nil
	}
	return r.Create(ctx, &domain.Client{Name: name, WhatsApp: whatsapp, CreatedAt: now, UpdatedAt: now})
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if _, ok := r.byID[c.ID]; !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.byID, id)
	return nil
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubClientRepo) Search(_ context.Context, term string, limit int) ([]*domain.Client, error) {
	term = strings.ToLower(term)
	var out []*domain.Client
	for _, c := range r.byID {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(c.WhatsApp, term) {
			clone := *c
			out = append(out, &clone)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubAccountRepo struct {
	byID map[string]*domain.ServiceAccount
	seq  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.ServiceAccount)}
}

func cloneAccount(a *domain.ServiceAccount) *domain.ServiceAccount {
	clone := *a
	clone.Profiles = append([]domain.Profile(nil), a.Profiles...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.ServiceAccount) (*domain.ServiceAccount, error) {
	for _, existing := range r.byID {
		if existing.Name == a.Name || existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	r.seq++
	clone := cloneAccount(a)
	clone.ID = fmt.Sprintf("account-%d", r.seq)
	r.byID[clone.ID] = clone
	return cloneAccount(clone), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.ServiceAccount, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.ServiceAccount, error) {
	var out []*domain.ServiceAccount
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.ServiceAccount, error) {
	out := make([]*domain.ServiceAccount, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.ServiceAccount) (*domain.ServiceAccount, error) {
	if _, ok := r.byID[a.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	r.byID[a.ID] = cloneAccount(a)
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type stubAssignmentRepo struct {
	byID      map[string]*domain.Assignment
	seq       int
	createErr error
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{byID: make(map[string]*domain.Assignment)}
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *a
	clone.ID = fmt.Sprintf("assignment-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAssignmentRepo) FindByID(_ context.Context, id string) (*domain.Assignment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAssignmentRepo) FindActiveByClient(_ context.Context, clientID string, now time.Time) (*domain.Assignment, error) {
	for _, a := range r.byID {
		if a.ClientID == clientID && a.IsActive(now) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrNoActiveAssignment
}

// List applies the same filters the real Mongo repo would use.
func (r *stubAssignmentRepo) List(_ context.Context, f ports.AssignmentFilter) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, a := range r.byID {
		if f.ClientID != "" && a.ClientID != f.ClientID {
			continue
		}
		if f.AccountID != "" && a.AccountID != f.AccountID {
			continue
		}
		if !f.ExpiresFrom.IsZero() && a.ExpiryDate.Before(f.ExpiresFrom) {
			continue
		}
		if !f.ExpiresUntil.IsZero() && a.ExpiryDate.After(f.ExpiresUntil) {
			continue
		}
		if !f.ExpiredBefore.IsZero() && !a.ExpiryDate.Before(f.ExpiredBefore) {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}

	switch f.Sort {
	case ports.SortExpiryAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	case ports.SortExpiryDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.After(out[j].ExpiryDate) })
	case ports.SortAssignedDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].AssignedDate.After(out[j].AssignedDate) })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubAssignmentRepo) Update(_ context.Context, a *domain.Assignment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAssignmentNotFound
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAssignmentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAssignmentRepo) deleteWhere(match func(*domain.Assignment) bool) int64 {
	var n int64
	for id, a := range r.byID {
		if match(a) {
			delete(r.byID, id)
			n++
		}
	}
	return n
}

func (r *stubAssignmentRepo) DeleteByClient(_ context.Context, clientID string) (int64, error) {
	return r.deleteWhere(func(a *domain.Assignment) bool { return a.ClientID == clientID }), nil
}

func (r *stubAssignmentRepo) DeleteByAccount(_ context.Context, accountID string) (int64, error) {
	return r.deleteWhere(func(a *domain.Assignment) bool { return a.AccountID == accountID }), nil
}

func (r *stubAssignmentRepo) countWhere(match func(*domain.Assignment) bool) int {
	n := 0
	for _, a := range r.byID {
		if match(a) {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Infrastructure stubs
// ---------------------------------------------------------------------------

type stubTx struct {
	calls int
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type stubLocker struct {
	held       map[string]bool
	acquireErr error
	released   int
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: make(map[string]bool)}
}

func (l *stubLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	if l.acquireErr != nil {
		return nil, false, l.acquireErr
	}
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func() {
		delete(l.held, key)
		l.released++
	}, true, nil
}

type stubPublisher struct {
	events []domain.AssignmentEvent
}

func (p *stubPublisher) Publish(ev domain.AssignmentEvent) {
	p.events = append(p.events, ev)
}

func (p *stubPublisher) types() []domain.AssignmentEventType {
	out := make([]domain.AssignmentEventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// stubCipher is reversible and recognisable: "enc(" + plaintext + ")".
type stubCipher struct {
	encryptCalls int
}

func (c *stubCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	c.encryptCalls++
	return "enc(" + plaintext + ")", nil
}

func (c *stubCipher) Decrypt(ciphertext string) string {
	if !strings.HasPrefix(ciphertext, "enc(") || !strings.HasSuffix(ciphertext, ")") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(ciphertext, "enc("), ")")
}

type stubSessionStore struct {
	ids     map[string]time.Duration
	saveErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{ids: make(map[string]time.Duration)}
}

func (s *stubSessionStore) Save(_ context.Context, id string, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.ids[id] = ttl
	return nil
}

func (s *stubSessionStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.ids[id]
	return ok, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.ids, id)
	return nil
}

type stubAuditRepo struct {
	inserted  []*domain.AssignmentEvent
	insertErr error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, ev *domain.AssignmentEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *ev
	r.inserted = append(r.inserted, &clone)
	return nil
}

func (r *stubAuditRepo) Recent(_ context.Context, limit int) ([]*domain.AssignmentEvent, error) {
	out := make([]*domain.AssignmentEvent, 0, len(r.inserted))
	for i := len(r.inserted) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.inserted[i])
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
