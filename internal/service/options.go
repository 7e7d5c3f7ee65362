package service

import (
	"context"
	"log/slog"

	"faqforge/internal/domain/models"
	"faqforge/internal/domain/repositories"
	"faqforge/internal/domain/services"
)

// optionsService implements the OptionsService interface.
type optionsService struct {
	repo   repositories.OptionsRepository
	logger *slog.Logger
}

// NewOptionsService creates a new console options service.
func NewOptionsService(repo repositories.OptionsRepository, logger *slog.Logger) services.OptionsService {
	return &optionsService{repo: repo, logger: logger}
}

func (s *optionsService) ListConsoles(ctx context.Context) ([]models.ConsoleOption, error) {
	return s.repo.ListConsoles(ctx)
}

func (s *optionsService) ListSubConsoles(ctx context.Context, consoleID int64) ([]models.ConsoleOption, error) {
	return s.repo.ListSubConsoles(ctx, consoleID)
}
