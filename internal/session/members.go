package session

import (
	"context"
	"strings"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// NewMember is the trainer's enrollment form.
type NewMember struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Objective string `json:"objective"`
	Password  string `json:"password"`
}

// MemberUpdate changes the fields that are set.
type MemberUpdate struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Objective *string `json:"objective"`
}

// AddMember enrolls a new member. Trainer only.
func (s *Store) AddMember(ctx context.Context, in NewMember) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return s.State(), err
	}
	member := domain.Member{
		ID:         s.newID(),
		Name:       strings.TrimSpace(in.Name),
		Email:      domain.NormalizeEmail(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Objective:  strings.TrimSpace(in.Objective),
		Role:       domain.RoleMember,
		EnrolledAt: s.clock.Now(),
	}
	if err := member.Validate(); err != nil {
		return s.State(), err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return s.State(), err
	}
	member.PasswordHash = string(hash)

	in.Password = ""
	return s.saveMember(ctx, "add_member", member, in)
}

// UpdateMember edits a member's profile. Members may only edit themselves.
func (s *Store) UpdateMember(ctx context.Context, id string, in MemberUpdate) (State, error) {
	_, id, err := s.subject(id)
	if err != nil {
		return s.State(), err
	}
	member, err := s.member(id)
	if err != nil {
		return s.State(), err
	}
	if in.Name != nil {
		member.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		member.Email = domain.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		member.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Objective != nil {
		member.Objective = strings.TrimSpace(*in.Objective)
	}
	if err := member.Validate(); err != nil {
		return s.State(), err
	}
	return s.saveMember(ctx, "update_member", member, in)
}

// ChangePassword replaces the signed-in user's password after checking the current one.
func (s *Store) ChangePassword(ctx context.Context, current, next string) (State, error) {
	u, err := s.actor()
	if err != nil {
		return s.State(), err
	}
	member, err := s.member(u.ID)
	if err != nil {
		member = u
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(current)) != nil {
		return s.State(), apperror.NewValidationError("currentPassword", "does not match")
	}
	if err := domain.ValidatePassword(next); err != nil {
		return s.State(), err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return s.State(), err
	}
	member.PasswordHash = string(hash)
	return s.saveMember(ctx, "change_password", member, nil)
}

func (s *Store) member(id string) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := find(s.st.members, id, memberKey)
	if !ok {
		return m, apperror.NewNotFoundError("member", id)
	}
	return m, nil
}

func (s *Store) saveMember(ctx context.Context, action string, member domain.Member, pending any) (State, error) {
	tx, err := s.begin(action, "member:"+member.ID, pending)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.members, member.ID, memberKey)
		st.members = put(st.members, member, memberKey)
		if st.user != nil && st.user.ID == member.ID {
			prev := *st.user
			u := member
			st.user = &u
			return func() {
				undo()
				st.user = &prev
			}
		}
		return undo
	})
	if _, err := s.gw.UpsertMember(ctx, member); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadMembers)
}
