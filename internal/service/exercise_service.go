package service

import (
	"context"

	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"

	log "github.com/sirupsen/logrus"
)

// ExerciseService owns the remote copy of the exercise catalog.
type ExerciseService interface {
	// EnsureCatalog writes the built-in catalog when the remote one is empty and reports
	// how many exercises it added.
	EnsureCatalog(ctx context.Context) (int, error)
}

type exerciseService struct {
	gw gateway.Gateway
}

func NewExerciseService(gw gateway.Gateway) ExerciseService {
	return &exerciseService{gw: gw}
}

func (s *exerciseService) EnsureCatalog(ctx context.Context) (int, error) {
	existing, err := s.gw.ListCatalog(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	seed := domain.SeedCatalog()
	for _, ex := range seed {
		if _, err := s.gw.UpsertCatalogExercise(ctx, ex); err != nil {
			return 0, err
		}
	}
	log.Infof("seeded exercise catalog with %d exercises", len(seed))
	return len(seed), nil
}
