package session

import (
	"context"
	"io"
	"strings"

	"alcyxob/fitlab/internal/analytics"
	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/snapshot"

	log "github.com/sirupsen/logrus"
)

// LoadResult is the outcome of logging one load.
type LoadResult struct {
	State          State             `json:"state"`
	Record         domain.LoadRecord `json:"record"`
	PersonalRecord bool              `json:"personalRecord"`
}

// LogLoad records a lifted weight. The weight is free text ("42,5 kg" is 42.5).
func (s *Store) LogLoad(ctx context.Context, memberID, exercise, weight string) (LoadResult, error) {
	_, memberID, err := s.subject(memberID)
	if err != nil {
		return LoadResult{State: s.State()}, err
	}
	kg, err := domain.ParseWeight(weight)
	if err != nil {
		return LoadResult{State: s.State()}, err
	}
	record := domain.LoadRecord{
		ID:           s.newID(),
		MemberID:     memberID,
		ExerciseName: domain.NormalizeExerciseName(exercise),
		WeightKg:     kg,
		At:           s.clock.Now(),
	}
	if err := record.Validate(); err != nil {
		return LoadResult{State: s.State()}, err
	}

	tx, err := s.begin("log_load", "load:"+memberID+":"+record.ExerciseName, map[string]string{"exercise": exercise, "weight": weight})
	if err != nil {
		return LoadResult{State: s.State()}, err
	}
	var pr bool
	tx.apply(func(st *state) func() {
		pr = analytics.CheckPersonalRecord(st.loads, memberID, record.ExerciseName, kg)
		st.loads = append(st.loads, record)
		return func() { st.loads = remove(st.loads, record.ID, loadKey) }
	})
	if _, err := s.gw.AppendLoad(ctx, record); err != nil {
		st, err := tx.fail(err)
		return LoadResult{State: st}, err
	}
	if pr {
		s.metrics.CounterPersonalRecords.Inc()
		log.Debugf("session: personal record for %s on %s: %.2f kg", memberID, record.ExerciseName, kg)
	}
	st, err := tx.commit(ctx, s.reloadLoads)
	return LoadResult{State: st, Record: record, PersonalRecord: pr}, err
}

// DeleteLoad removes a history entry.
func (s *Store) DeleteLoad(ctx context.Context, id string) (State, error) {
	s.mu.RLock()
	record, ok := find(s.st.loads, id, loadKey)
	s.mu.RUnlock()
	if !ok {
		return s.State(), apperror.NewNotFoundError("load", id)
	}
	if _, _, err := s.subject(record.MemberID); err != nil {
		return s.State(), err
	}

	tx, err := s.begin("delete_load", "load:"+id, id)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.loads, id, loadKey)
		st.loads = remove(st.loads, id, loadKey)
		return undo
	})
	if err := s.gw.DeleteLoad(ctx, id); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadLoads)
}

// CheckInInput records attendance outside a timed session.
type CheckInInput struct {
	MemberID        string `json:"memberId"`
	DivisionLetter  string `json:"divisionLetter"`
	DurationSeconds int64  `json:"durationSeconds"`
}

// RecordCheckIn stores a completed visit.
func (s *Store) RecordCheckIn(ctx context.Context, in CheckInInput) (State, error) {
	_, memberID, err := s.subject(in.MemberID)
	if err != nil {
		return s.State(), err
	}
	plan, ok := s.State().Plan(memberID)
	if !ok {
		return s.State(), apperror.NewNotFoundError("plan", memberID)
	}
	letter := strings.ToUpper(strings.TrimSpace(in.DivisionLetter))
	if _, ok := plan.Division(letter); !ok {
		return s.State(), apperror.NewNotFoundError("division", letter)
	}
	checkIn := domain.CheckIn{
		ID:              s.newID(),
		MemberID:        memberID,
		PlanID:          plan.ID,
		DivisionLetter:  letter,
		At:              s.clock.Now(),
		DurationSeconds: in.DurationSeconds,
	}
	if err := checkIn.Validate(); err != nil {
		return s.State(), err
	}

	tx, err := s.begin("record_checkin", "checkin:"+memberID, in)
	if err != nil {
		return s.State(), err
	}
	s.applyCheckIn(tx, checkIn)
	if _, err := s.gw.AppendCheckIn(ctx, checkIn); err != nil {
		return tx.fail(err)
	}
	s.metrics.CounterCheckIns.Inc()
	return tx.commit(ctx, s.reloadCheckIns)
}

func (s *Store) applyCheckIn(tx *txn, checkIn domain.CheckIn) {
	tx.apply(func(st *state) func() {
		st.checkIns = append(st.checkIns, checkIn)
		return func() { st.checkIns = remove(st.checkIns, checkIn.ID, checkInKey) }
	})
}

// PhotoUpload is a progress photo as received from the client.
type PhotoUpload struct {
	MemberID    string
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// UploadPhoto stores the binary, registers it in the gallery and makes it the member's
// current photo. Nothing is applied locally before the binary is stored.
func (s *Store) UploadPhoto(ctx context.Context, in PhotoUpload) (State, error) {
	_, memberID, err := s.subject(in.MemberID)
	if err != nil {
		return s.State(), err
	}
	if in.Size <= 0 {
		return s.State(), apperror.NewValidationError("photo", "file is empty")
	}
	pending := map[string]string{"memberId": memberID, "fileName": in.FileName}

	tx, err := s.begin("upload_photo", "photo:"+memberID, pending)
	if err != nil {
		return s.State(), err
	}
	obj, err := s.gw.UploadPhoto(ctx, memberID, in.FileName, in.ContentType, in.Body, in.Size)
	if err != nil {
		return tx.fail(err)
	}

	photo := domain.ProgressPhoto{
		ID:        s.newID(),
		MemberID:  memberID,
		URL:       obj.URL,
		ObjectKey: obj.Key,
		CreatedAt: s.clock.Now(),
	}
	tx.apply(func(st *state) func() {
		st.photos = append(st.photos, photo)
		return func() { st.photos = remove(st.photos, photo.ID, photoKey) }
	})
	if _, err := s.gw.AppendPhoto(ctx, photo); err != nil {
		return tx.fail(err)
	}

	// The gallery row exists remotely from here on; only the pointer update can be undone.
	tx.keep(map[string]string{"step": "set_member_photo", "memberId": memberID, "photoUrl": photo.URL})
	tx.apply(func(st *state) func() {
		return s.setPhotoLocked(st, memberID, photo.URL)
	})
	if err := s.gw.SetMemberPhoto(ctx, memberID, photo.URL); err != nil {
		if rerr := s.reloadPhotos(ctx); rerr != nil {
			log.Warnf("session: upload_photo reconcile failed, keeping local gallery: %v", rerr)
		}
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadPhotos, s.reloadMembers)
}

func (s *Store) setPhotoLocked(st *state, memberID, url string) func() {
	undo := restorer(&st.members, memberID, memberKey)
	m, ok := find(st.members, memberID, memberKey)
	if !ok {
		return func() {}
	}
	m.PhotoURL = url
	st.members = put(st.members, m, memberKey)
	if st.user != nil && st.user.ID == memberID {
		prev := *st.user
		u := *st.user
		u.PhotoURL = url
		st.user = &u
		return func() {
			undo()
			st.user = &prev
		}
	}
	return undo
}

// DeletePhoto removes a gallery entry and its stored binary.
func (s *Store) DeletePhoto(ctx context.Context, id string) (State, error) {
	s.mu.RLock()
	photo, ok := find(s.st.photos, id, photoKey)
	s.mu.RUnlock()
	if !ok {
		return s.State(), apperror.NewNotFoundError("photo", id)
	}
	if _, _, err := s.subject(photo.MemberID); err != nil {
		return s.State(), err
	}

	tx, err := s.begin("delete_photo", "photo:"+id, id)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.photos, id, photoKey)
		st.photos = remove(st.photos, id, photoKey)
		return undo
	})
	if err := s.gw.DeletePhoto(ctx, id); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadPhotos)
}

// SetGoal sets a member's target weight for an exercise; a zero weight clears it.
func (s *Store) SetGoal(ctx context.Context, memberID, exercise string, weightKg float64) (State, error) {
	_, memberID, err := s.subject(memberID)
	if err != nil {
		return s.State(), err
	}
	name := domain.NormalizeExerciseName(exercise)
	if name == "" {
		return s.State(), apperror.NewValidationError("exercise", "is required")
	}
	if weightKg < 0 {
		return s.State(), apperror.NewValidationError("weight", "must not be negative")
	}

	s.mu.Lock()
	goals := s.st.goals[memberID].Clone()
	if weightKg == 0 {
		delete(goals, name)
	} else {
		goals[name] = weightKg
	}
	s.st.goals[memberID] = goals
	st := s.stateLocked()
	s.mu.Unlock()

	s.persist(ctx, s.shared, snapshot.GoalsKey(memberID), goals)
	return st, nil
}
