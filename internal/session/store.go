// Package session keeps the working copy of one signed-in identity: who is signed in, the
// current view, and local copies of every collection the views read. Mutations are applied
// locally first, then written through the gateway, and rolled back if the write fails.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"
	"alcyxob/fitlab/internal/metrics"
	"alcyxob/fitlab/internal/snapshot"
	"alcyxob/fitlab/internal/workout"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	Gateway gateway.Gateway
	// Local holds the identity and view of this store.
	Local snapshot.Port
	// Shared holds the catalog, categories and goals; defaults to Local.
	Shared snapshot.Port
	Clock  workout.Clock
	// Metrics defaults to an unexported registry.
	Metrics    *metrics.Manager
	BcryptCost int
	NewID      func() string
}

// Store is the session context of one identity. All methods are safe for concurrent use;
// the lock is never held across a gateway call.
type Store struct {
	gw         gateway.Gateway
	local      snapshot.Port
	shared     snapshot.Port
	clock      workout.Clock
	metrics    *metrics.Manager
	bcryptCost int
	newID      func() string

	mu       sync.RWMutex
	st       state
	live     *workout.Session
	inFlight map[string]struct{}
}

func NewStore(opts Options) *Store {
	s := &Store{
		gw:         opts.Gateway,
		local:      opts.Local,
		shared:     opts.Shared,
		clock:      opts.Clock,
		metrics:    opts.Metrics,
		bcryptCost: opts.BcryptCost,
		newID:      opts.NewID,
		inFlight:   make(map[string]struct{}),
	}
	if s.shared == nil {
		s.shared = s.local
	}
	if s.clock == nil {
		s.clock = workout.RealClock()
	}
	if s.metrics == nil {
		// Unregistered: counts are kept but never exported.
		s.metrics = metrics.NewTestManager()
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	s.st = state{
		view:       ViewLogin,
		catalog:    domain.SeedCatalog(),
		categories: append([]string{}, domain.DefaultCategories...),
		goals:      make(map[string]domain.Goals),
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	out := s.st.copy()
	if s.live != nil && !s.live.Ended() {
		status := s.live.Status()
		out.Workout = &status
	}
	return out
}

// CurrentUser returns the signed-in member.
func (s *Store) CurrentUser() (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st.user == nil {
		return domain.Member{}, false
	}
	return *s.st.user, true
}

func (s *Store) actor() (domain.Member, error) {
	u, ok := s.CurrentUser()
	if !ok {
		return domain.Member{}, ErrNotSignedIn
	}
	return u, nil
}

func (s *Store) trainer() (domain.Member, error) {
	u, err := s.actor()
	if err != nil {
		return u, err
	}
	if !u.IsTrainer() {
		return u, ErrForbidden
	}
	return u, nil
}

// subject resolves whose data an action touches: a member may only act on itself,
// the trainer on anyone. An empty memberID means the actor.
func (s *Store) subject(memberID string) (domain.Member, string, error) {
	u, err := s.actor()
	if err != nil {
		return u, "", err
	}
	if memberID == "" {
		memberID = u.ID
	}
	if !u.IsTrainer() && memberID != u.ID {
		return u, "", ErrForbidden
	}
	return u, memberID, nil
}

// scope is the member filter for list calls: empty for the trainer.
func (s *Store) scope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st.user == nil || s.st.user.IsTrainer() {
		return ""
	}
	return s.st.user.ID
}

// SignIn makes an authenticated member the current identity and loads its data.
func (s *Store) SignIn(ctx context.Context, member domain.Member) (State, error) {
	s.mu.Lock()
	u := member
	s.st.user = &u
	if s.st.view == ViewLogin || !s.st.view.Valid() {
		s.st.view = ViewDashboard
	}
	view := s.st.view
	s.mu.Unlock()

	s.persist(ctx, s.local, snapshot.KeyCurrentUser, member)
	s.persist(ctx, s.local, snapshot.KeyCurrentView, view)
	log.Debugf("session: %s signed in as %s", member.ID, member.Role)
	return s.Refresh(ctx)
}

// SignOut forgets the identity and abandons any live workout.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.live != nil {
		s.live.Abandon()
		s.live = nil
	}
	s.st.user = nil
	s.st.view = ViewLogin
	s.mu.Unlock()

	return multierr.Combine(
		s.local.Delete(ctx, snapshot.KeyCurrentUser),
		s.local.Delete(ctx, snapshot.KeyCurrentView),
	)
}

// Restore picks up the identity and view remembered by the snapshot. It reports whether
// someone is signed in afterwards; an identity that no longer exists remotely is dropped.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	var member domain.Member
	ok, err := snapshot.LoadJSON(ctx, s.local, snapshot.KeyCurrentUser, &member)
	if err != nil {
		return false, err
	}
	if !ok || member.ID == "" {
		return false, nil
	}
	var view View
	if found, _ := snapshot.LoadJSON(ctx, s.local, snapshot.KeyCurrentView, &view); !found || !view.Valid() || view == ViewLogin {
		view = ViewDashboard
	}
	// A live workout does not survive a restart.
	if view == ViewWorkout {
		view = ViewDashboard
	}

	s.mu.Lock()
	s.st.user = &member
	s.st.view = view
	s.mu.Unlock()

	if _, err := s.Refresh(ctx); err != nil {
		log.Warnf("session: restore of %s could not refresh: %v", member.ID, err)
	}

	s.mu.Lock()
	_, known := find(s.st.members, member.ID, memberKey)
	s.mu.Unlock()
	if !known && s.membersLoaded() {
		log.Warnf("session: restored identity %s no longer exists", member.ID)
		return false, s.SignOut(ctx)
	}
	return true, nil
}

func (s *Store) membersLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.st.refreshed.IsZero()
}

// SetView navigates. Leaving the workout view with a live session needs confirm, and
// abandons the session.
func (s *Store) SetView(ctx context.Context, view View, confirm bool) (State, error) {
	if !view.Valid() || view == ViewLogin {
		return s.State(), apperror.NewValidationError("view", "unknown view")
	}
	if _, err := s.actor(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	if view != ViewWorkout && s.live != nil && !s.live.Ended() {
		if !confirm {
			st := s.stateLocked()
			s.mu.Unlock()
			return st, ErrConfirmRequired
		}
		s.live.Abandon()
		s.live = nil
		log.Debugf("session: workout abandoned by navigating to %s", view)
	}
	s.st.view = view
	st := s.stateLocked()
	s.mu.Unlock()

	s.persist(ctx, s.local, snapshot.KeyCurrentView, view)
	return st, nil
}

// Refresh reloads every collection in scope. The catalog falls back to the snapshot copy
// when the remote one cannot be listed.
func (s *Store) Refresh(ctx context.Context) (State, error) {
	if _, err := s.actor(); err != nil {
		return s.State(), err
	}
	err := multierr.Combine(
		s.reloadMembers(ctx),
		s.reloadPlans(ctx),
		s.reloadContent(ctx),
		s.reloadCheckIns(ctx),
		s.reloadLoads(ctx),
		s.reloadPhotos(ctx),
	)
	s.reloadCatalog(ctx)
	s.loadGoals(ctx)

	s.mu.Lock()
	if err == nil {
		s.st.refreshed = s.clock.Now()
	}
	st := s.stateLocked()
	s.mu.Unlock()
	return st, err
}

// RefreshedAt is the time of the last complete refresh.
func (s *Store) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.refreshed
}

func (s *Store) persist(ctx context.Context, port snapshot.Port, key string, v any) {
	if err := snapshot.SaveJSON(ctx, port, key, v); err != nil {
		log.Warnf("session: snapshot %s not saved: %v", key, err)
	}
}

// --- reconciliation ---

func (s *Store) reloadMembers(ctx context.Context) error {
	members, err := s.gw.ListMembers(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.user == nil {
		return nil
	}
	if !s.st.user.IsTrainer() {
		var own []domain.Member
		for _, m := range members {
			if m.ID == s.st.user.ID {
				own = append(own, m)
			}
		}
		members = own
	}
	s.st.members = members
	if fresh, ok := find(members, s.st.user.ID, memberKey); ok {
		s.st.user = &fresh
	}
	return nil
}

func (s *Store) reloadPlans(ctx context.Context) error {
	var plans []domain.WorkoutPlan
	if scope := s.scope(); scope == "" {
		all, err := s.gw.ListPlans(ctx)
		if err != nil {
			return err
		}
		plans = all
	} else {
		plan, err := s.gw.GetPlan(ctx, scope)
		switch {
		case apperror.IsNotFound(err):
		case err != nil:
			return err
		default:
			plans = []domain.WorkoutPlan{plan}
		}
	}
	s.mu.Lock()
	s.st.plans = plans
	s.mu.Unlock()
	return nil
}

func (s *Store) reloadContent(ctx context.Context) error {
	content, err := s.gw.ListContent(ctx)
	if err != nil {
		return err
	}
	domain.SortContent(content)
	s.mu.Lock()
	s.st.content = content
	s.mu.Unlock()
	return nil
}

func (s *Store) reloadCheckIns(ctx context.Context) error {
	checkIns, err := s.gw.ListCheckIns(ctx, s.scope())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.st.checkIns = checkIns
	s.mu.Unlock()
	return nil
}

func (s *Store) reloadLoads(ctx context.Context) error {
	loads, err := s.gw.ListLoads(ctx, s.scope())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.st.loads = loads
	s.mu.Unlock()
	return nil
}

func (s *Store) reloadPhotos(ctx context.Context) error {
	photos, err := s.gw.ListPhotos(ctx, s.scope())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.st.photos = photos
	s.mu.Unlock()
	return nil
}

// reloadCatalog never fails: remote, then snapshot, then the seed catalog.
func (s *Store) reloadCatalog(ctx context.Context) {
	catalog, err := s.gw.ListCatalog(ctx)
	if err == nil {
		s.persist(ctx, s.shared, snapshot.KeyCatalog, catalog)
	} else {
		log.Warnf("session: catalog unavailable, using cached copy: %v", err)
		var cached []domain.CatalogExercise
		if ok, _ := snapshot.LoadJSON(ctx, s.shared, snapshot.KeyCatalog, &cached); ok {
			catalog = cached
		} else {
			catalog = domain.SeedCatalog()
		}
	}

	var extra []string
	if _, err := snapshot.LoadJSON(ctx, s.shared, snapshot.KeyCategories, &extra); err != nil {
		log.Warnf("session: categories not loaded: %v", err)
	}

	s.mu.Lock()
	s.st.catalog = catalog
	s.st.categories = mergeCategories(domain.DefaultCategories, extra, catalog)
	s.mu.Unlock()
}

func (s *Store) loadGoals(ctx context.Context) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.st.members))
	for _, m := range s.st.members {
		ids = append(ids, m.ID)
	}
	s.mu.RUnlock()

	goals := make(map[string]domain.Goals, len(ids))
	for _, id := range ids {
		var g domain.Goals
		ok, err := snapshot.LoadJSON(ctx, s.shared, snapshot.GoalsKey(id), &g)
		if err != nil {
			log.Warnf("session: goals of %s not loaded: %v", id, err)
		}
		if ok && len(g) > 0 {
			goals[id] = g
		}
	}
	s.mu.Lock()
	s.st.goals = goals
	s.mu.Unlock()
}

func mergeCategories(base, extra []string, catalog []domain.CatalogExercise) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			return
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	for _, c := range base {
		add(c)
	}
	for _, c := range extra {
		add(c)
	}
	for _, e := range catalog {
		add(e.MuscleGroup)
	}
	return out
}

// --- optimistic pipeline ---

// txn is one remote-touching action: local changes are applied with an undo, the entity
// key is held in the in-flight set until commit or fail.
type txn struct {
	s       *Store
	action  string
	key     string
	pending any
	undo    []func()
}

func (s *Store) begin(action, key string, pending any) (*txn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.user == nil {
		return nil, ErrNotSignedIn
	}
	if _, busy := s.inFlight[key]; busy {
		return nil, ErrActionInFlight
	}
	s.inFlight[key] = struct{}{}
	return &txn{s: s, action: action, key: key, pending: pending}, nil
}

// apply changes the working copy; fn returns the matching undo.
func (t *txn) apply(fn func(st *state) func()) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if undo := fn(&t.s.st); undo != nil {
		t.undo = append(t.undo, undo)
	}
}

// keep confirms the changes applied so far: a later fail leaves them in place and
// reports pending instead of the original value.
func (t *txn) keep(pending any) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.undo = nil
	t.pending = pending
}

// fail rolls back every unconfirmed change and reports err as a SyncError.
func (t *txn) fail(err error) (State, error) {
	t.s.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	delete(t.s.inFlight, t.key)
	st := t.s.stateLocked()
	t.s.mu.Unlock()

	log.Warnf("session: %s rolled back: %v", t.action, err)
	return st, apperror.NewSyncError(t.action, t.pending, err)
}

// abort releases the entity without any rollback, for errors found before applying.
func (t *txn) abort(err error) (State, error) {
	t.s.mu.Lock()
	delete(t.s.inFlight, t.key)
	st := t.s.stateLocked()
	t.s.mu.Unlock()
	return st, err
}

// commit re-lists the touched collections. A failing re-list keeps the local state.
func (t *txn) commit(ctx context.Context, reloads ...func(context.Context) error) (State, error) {
	for _, reload := range reloads {
		if err := reload(ctx); err != nil {
			log.Warnf("session: %s applied but reconcile failed, keeping local state: %v", t.action, err)
		}
	}
	t.s.mu.Lock()
	delete(t.s.inFlight, t.key)
	st := t.s.stateLocked()
	t.s.mu.Unlock()
	return st, nil
}
