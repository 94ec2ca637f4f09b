package trust

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

type memLedger struct {
	mu     sync.Mutex
	events []domain.TrustEvent
	fail   bool
}

func (l *memLedger) Append(_ context.Context, event *domain.TrustEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return errStoreDown
	}
	l.events = append(l.events, *event)
	return nil
}

func (l *memLedger) Impacts(_ context.Context, userID string) ([]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, errStoreDown
	}
	var impacts []int
	for _, e := range l.events {
		if e.UserID == userID {
			impacts = append(impacts, e.Impact)
		}
	}
	return impacts, nil
}

func (l *memLedger) History(_ context.Context, userID string, limit int) ([]domain.TrustEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, errStoreDown
	}
	out := []domain.TrustEvent{}
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		if l.events[i].UserID == userID {
			out = append(out, l.events[i])
		}
	}
	return out, nil
}

type memProfile struct {
	role  domain.UserRole
	name  string
	flags domain.ProfileFlags
}

type memProfiles struct {
	users map[string]*memProfile
	fail  bool
}

func newMemProfiles() *memProfiles {
	return &memProfiles{users: map[string]*memProfile{}}
}

func (p *memProfiles) add(id string, role domain.UserRole, flags domain.ProfileFlags) {
	p.users[id] = &memProfile{role: role, name: "user " + id, flags: flags}
}

func (p *memProfiles) UserRole(_ context.Context, userID string) (domain.UserRole, error) {
	if p.fail {
		return "", errStoreDown
	}
	u, ok := p.users[userID]
	if !ok {
		return "", errors.New("not found")
	}
	return u.role, nil
}

func (p *memProfiles) ProfileFlags(_ context.Context, _ domain.UserRole, userID string) (domain.ProfileFlags, error) {
	if p.fail {
		return domain.ProfileFlags{}, errStoreDown
	}
	return p.users[userID].flags, nil
}

func (p *memProfiles) SetBlocked(_ context.Context, _ domain.UserRole, userID string, blocked bool) error {
	if p.fail {
		return errStoreDown
	}
	p.users[userID].flags.IsBlocked = blocked
	return nil
}

func (p *memProfiles) SetSuspicious(_ context.Context, _ domain.UserRole, userID string, suspicious bool) error {
	if p.fail {
		return errStoreDown
	}
	p.users[userID].flags.IsSuspicious = suspicious
	return nil
}

func (p *memProfiles) ListSuspicious(_ context.Context) ([]domain.SuspiciousUser, error) {
	if p.fail {
		return nil, errStoreDown
	}
	var out []domain.SuspiciousUser
	for id, u := range p.users {
		if u.flags.IsSuspicious {
			out = append(out, domain.SuspiciousUser{UserID: id, Name: u.name, Role: u.role, IsBlocked: u.flags.IsBlocked})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type memCache struct {
	scores      map[string]int
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{scores: map[string]int{}}
}

func (c *memCache) Get(_ context.Context, userID string) (int, bool, error) {
	s, ok := c.scores[userID]
	return s, ok, nil
}

func (c *memCache) Set(_ context.Context, userID string, score int) error {
	c.scores[userID] = score
	return nil
}

func (c *memCache) Invalidate(_ context.Context, userID string) error {
	delete(c.scores, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}
