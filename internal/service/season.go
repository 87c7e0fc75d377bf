package service

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

type seasonService struct {
	seasonRepo repository.SeasonRepository
}

func NewSeasonService(seasonRepo repository.SeasonRepository) SeasonService {
	return &seasonService{seasonRepo: seasonRepo}
}

func validateSeasonInput(in SeasonInput) map[string][]string {
	errs := map[string][]string{}
	if in.Name == "" {
		errs["name"] = append(errs["name"], "Season name is required")
	}
	if in.StartDate.IsZero() {
		errs["startDate"] = append(errs["startDate"], "Invalid start date")
	}
	if in.EndDate.IsZero() {
		errs["endDate"] = append(errs["endDate"], "Invalid end date")
	} else if in.EndDate.Before(in.StartDate) {
		errs["endDate"] = append(errs["endDate"], "End date must not be before start date")
	}
	if in.PriceMultiplier <= 0 {
		errs["priceMultiplier"] = append(errs["priceMultiplier"], "Price multiplier must be greater than zero")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *seasonService) CreateSeason(ctx context.Context, actor domain.Actor, in SeasonInput) domain.Result {
	if !actor.IsAdmin() {
		return domain.Fail("Unauthorized: Only Admins can manage seasons.")
	}
	if errs := validateSeasonInput(in); errs != nil {
		return domain.Invalid(errs)
	}

	season := &domain.Season{
		Name:            in.Name,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		PriceMultiplier: in.PriceMultiplier,
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		logger.Error("Failed to create season", "name", in.Name, "error", err)
		return domain.Fail("Failed to create season.")
	}
	return domain.OK("Season created.")
}

func (s *seasonService) DeleteSeason(ctx context.Context, actor domain.Actor, seasonID string) domain.Result {
	if !actor.IsAdmin() {
		return domain.Fail("Unauthorized: Only Admins can manage seasons.")
	}
	if err := s.seasonRepo.Delete(ctx, seasonID); err != nil {
		logger.Error("Failed to delete season", "season_id", seasonID, "error", err)
		return domain.Fail("Failed to delete season.")
	}
	return domain.OK("Season deleted.")
}

func (s *seasonService) ListSeasons(ctx context.Context) ([]domain.Season, error) {
	return s.seasonRepo.List(ctx)
}
