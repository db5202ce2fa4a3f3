package session

import (
	"errors"
	"time"

	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/workout"
)

var (
	ErrActionInFlight  = errors.New("another action on this entity is still in flight")
	ErrNotSignedIn     = errors.New("no signed-in user")
	ErrForbidden       = errors.New("action not allowed for this role")
	ErrConfirmRequired = errors.New("leaving an active workout requires confirmation")
	ErrWorkoutActive   = errors.New("a workout is already in progress")
	ErrNoWorkout       = errors.New("no workout in progress")
)

// View is the screen the signed-in user is on.
type View string

const (
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewMembers   View = "members"
	ViewPlan      View = "plan"
	ViewCatalog   View = "catalog"
	ViewContent   View = "content"
	ViewPresence  View = "presence"
	ViewProfile   View = "profile"
	ViewWorkout   View = "workout"
)

func (v View) Valid() bool {
	switch v {
	case ViewLogin, ViewDashboard, ViewMembers, ViewPlan, ViewCatalog,
		ViewContent, ViewPresence, ViewProfile, ViewWorkout:
		return true
	}
	return false
}

// State is a copy of everything a store holds. Mutating it has no effect on the store.
type State struct {
	CurrentUser *domain.Member           `json:"currentUser"`
	View        View                     `json:"view"`
	Members     []domain.Member          `json:"members"`
	Plans       []domain.WorkoutPlan     `json:"plans"`
	Catalog     []domain.CatalogExercise `json:"catalog"`
	Categories  []string                 `json:"categories"`
	Content     []domain.VideoContent    `json:"content"`
	CheckIns    []domain.CheckIn         `json:"checkIns"`
	Loads       []domain.LoadRecord      `json:"loads"`
	Photos      []domain.ProgressPhoto   `json:"photos"`
	Goals       map[string]domain.Goals  `json:"goals"`
	Workout     *workout.Status          `json:"workout,omitempty"`
	RefreshedAt time.Time                `json:"refreshedAt"`
}

// Plan returns the plan of a member.
func (s State) Plan(memberID string) (domain.WorkoutPlan, bool) {
	for _, p := range s.Plans {
		if p.MemberID == memberID {
			return p, true
		}
	}
	return domain.WorkoutPlan{}, false
}

// Member returns the member with the given id.
func (s State) Member(id string) (domain.Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Member{}, false
}

// state is the mutable working copy guarded by Store.mu.
type state struct {
	user       *domain.Member
	view       View
	members    []domain.Member
	plans      []domain.WorkoutPlan
	catalog    []domain.CatalogExercise
	categories []string
	content    []domain.VideoContent
	checkIns   []domain.CheckIn
	loads      []domain.LoadRecord
	photos     []domain.ProgressPhoto
	goals      map[string]domain.Goals
	refreshed  time.Time
}

func (st *state) copy() State {
	out := State{
		View:        st.view,
		Members:     append([]domain.Member{}, st.members...),
		Catalog:     append([]domain.CatalogExercise{}, st.catalog...),
		Categories:  append([]string{}, st.categories...),
		Content:     append([]domain.VideoContent{}, st.content...),
		CheckIns:    append([]domain.CheckIn{}, st.checkIns...),
		Loads:       append([]domain.LoadRecord{}, st.loads...),
		Photos:      append([]domain.ProgressPhoto{}, st.photos...),
		Plans:       make([]domain.WorkoutPlan, 0, len(st.plans)),
		Goals:       make(map[string]domain.Goals, len(st.goals)),
		RefreshedAt: st.refreshed,
	}
	if st.user != nil {
		u := *st.user
		out.CurrentUser = &u
	}
	for _, p := range st.plans {
		out.Plans = append(out.Plans, p.Clone())
	}
	for id, g := range st.goals {
		out.Goals[id] = g.Clone()
	}
	return out
}

// Keyed slice helpers used by the optimistic apply/undo steps.

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	if i := indexOf(items, id, key); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// put replaces the element with v's key or appends v.
func put[T any](items []T, v T, key func(T) string) []T {
	if i := indexOf(items, key(v), key); i >= 0 {
		items[i] = v
		return items
	}
	return append(items, v)
}

func remove[T any](items []T, id string, key func(T) string) []T {
	if i := indexOf(items, id, key); i >= 0 {
		return append(items[:i:i], items[i+1:]...)
	}
	return items
}

// restorer returns an undo that puts back the element id as it was before a change.
func restorer[T any](items *[]T, id string, key func(T) string) func() {
	old, existed := find(*items, id, key)
	return func() {
		if existed {
			*items = put(*items, old, key)
		} else {
			*items = remove(*items, id, key)
		}
	}
}

func memberKey(m domain.Member) string {
	return m.ID
}

func planKey(p domain.WorkoutPlan) string {
	return p.MemberID
}

func exerciseKey(e domain.CatalogExercise) string {
	return e.ID
}

func contentKey(v domain.VideoContent) string {
	return v.ID
}

func checkInKey(c domain.CheckIn) string {
	return c.ID
}

func loadKey(r domain.LoadRecord) string {
	return r.ID
}

func photoKey(p domain.ProgressPhoto) string {
	return p.ID
}
