package session

import (
	"context"
	"sync"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"
	"alcyxob/fitlab/internal/metrics"
	"alcyxob/fitlab/internal/snapshot"
	"alcyxob/fitlab/internal/workout"

	log "github.com/sirupsen/logrus"
)

type ManagerOptions struct {
	Gateway  gateway.Gateway
	Snapshot snapshot.Port
	// KeyPrefix namespaces every snapshot key of this process.
	KeyPrefix       string
	Clock           workout.Clock
	Metrics         *metrics.Manager
	RefreshInterval time.Duration
	BcryptCost      int
}

// Manager keeps one Store per signed-in identity.
type Manager struct {
	opts ManagerOptions

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(opts ManagerOptions) *Manager {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewTestManager()
	}
	return &Manager{
		opts:   opts,
		stores: make(map[string]*Store),
	}
}

func (m *Manager) newStore(memberID string) *Store {
	return NewStore(Options{
		Gateway:    m.opts.Gateway,
		Local:      snapshot.WithPrefix(m.opts.Snapshot, m.opts.KeyPrefix+":user:"+memberID),
		Shared:     snapshot.WithPrefix(m.opts.Snapshot, m.opts.KeyPrefix+":shared"),
		Clock:      m.opts.Clock,
		Metrics:    m.opts.Metrics,
		BcryptCost: m.opts.BcryptCost,
	})
}

// Open signs an authenticated member into a fresh store, replacing any previous one.
func (m *Manager) Open(ctx context.Context, member domain.Member) (*Store, State) {
	store := m.newStore(member.ID)
	st, err := store.SignIn(ctx, member)
	if err != nil {
		log.Warnf("session: initial load for %s incomplete: %v", member.ID, err)
	}

	m.mu.Lock()
	if old, ok := m.stores[member.ID]; ok {
		old.mu.Lock()
		if old.live != nil {
			old.live.Abandon()
			old.live = nil
		}
		old.mu.Unlock()
	}
	m.stores[member.ID] = store
	m.opts.Metrics.GaugeSessions.Set(float64(len(m.stores)))
	m.mu.Unlock()
	return store, st
}

// Get returns the store of an authenticated identity. A store not yet in memory is
// restored from the snapshot, or signed in again from the remote member list; a store
// older than the refresh interval is refreshed first.
func (m *Manager) Get(ctx context.Context, memberID string) (*Store, error) {
	m.mu.Lock()
	store, ok := m.stores[memberID]
	m.mu.Unlock()

	if !ok {
		var err error
		if store, err = m.load(ctx, memberID); err != nil {
			return nil, err
		}
		return store, nil
	}

	if m.opts.RefreshInterval > 0 && m.now().Sub(store.RefreshedAt()) > m.opts.RefreshInterval {
		if _, err := store.Refresh(ctx); err != nil {
			log.Warnf("session: refresh of %s failed, serving local state: %v", memberID, err)
		}
	}
	return store, nil
}

func (m *Manager) load(ctx context.Context, memberID string) (*Store, error) {
	store := m.newStore(memberID)
	restored, err := store.Restore(ctx)
	if err != nil {
		log.Warnf("session: snapshot of %s unreadable: %v", memberID, err)
	}
	if u, ok := store.CurrentUser(); !restored || !ok || u.ID != memberID {
		members, err := m.opts.Gateway.ListMembers(ctx)
		if err != nil {
			return nil, err
		}
		var found bool
		for _, member := range members {
			if member.ID == memberID {
				if _, err := store.SignIn(ctx, member); err != nil {
					log.Warnf("session: initial load for %s incomplete: %v", memberID, err)
				}
				found = true
				break
			}
		}
		if !found {
			return nil, apperror.NewNotFoundError("member", memberID)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[memberID]; ok {
		return existing, nil
	}
	m.stores[memberID] = store
	m.opts.Metrics.GaugeSessions.Set(float64(len(m.stores)))
	return store, nil
}

// Close signs the identity out and drops its store.
func (m *Manager) Close(ctx context.Context, memberID string) error {
	m.mu.Lock()
	store, ok := m.stores[memberID]
	delete(m.stores, memberID)
	m.opts.Metrics.GaugeSessions.Set(float64(len(m.stores)))
	m.mu.Unlock()

	if !ok {
		store = m.newStore(memberID)
	}
	return store.SignOut(ctx)
}

func (m *Manager) now() time.Time {
	if m.opts.Clock == nil {
		return time.Now()
	}
	return m.opts.Clock.Now()
}
