package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrTrainerNotConfigured = errors.New("trainer email and password must be configured")
	ErrEmailTakenByMember   = errors.New("trainer email belongs to a member account")
)

// TrainerService bootstraps the single trainer account the whole lab is run by.
type TrainerService interface {
	EnsureTrainer(ctx context.Context, name, email, password string) (domain.Member, error)
}

type trainerService struct {
	gw  gateway.Gateway
	now func() time.Time
}

func NewTrainerService(gw gateway.Gateway) TrainerService {
	return &trainerService{gw: gw, now: time.Now}
}

// EnsureTrainer creates the trainer account on first start. An existing trainer keeps its
// password; the configured one only seeds a fresh install.
func (s *trainerService) EnsureTrainer(ctx context.Context, name, email, password string) (domain.Member, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.Member{}, ErrTrainerNotConfigured
	}

	existing, err := s.gw.FindMemberByEmail(ctx, email)
	switch {
	case err == nil && existing.IsTrainer():
		log.Debugf("trainer %s already present", existing.ID)
		return existing, nil
	case err == nil:
		return domain.Member{}, ErrEmailTakenByMember
	case !apperror.IsNotFound(err):
		return domain.Member{}, err
	}

	if err := domain.ValidatePassword(password); err != nil {
		return domain.Member{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Member{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Trainer"
	}
	trainer := domain.Member{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Role:         domain.RoleTrainer,
		EnrolledAt:   s.now(),
		PasswordHash: string(hash),
	}
	if err := trainer.Validate(); err != nil {
		return domain.Member{}, err
	}
	created, err := s.gw.UpsertMember(ctx, trainer)
	if err != nil {
		return domain.Member{}, err
	}
	log.Infof("created trainer account %s <%s>", created.ID, created.Email)
	return created, nil
}
