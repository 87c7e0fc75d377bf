package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

type fleetService struct {
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
	nowFn       func() time.Time
}

func NewFleetService(carRepo repository.CarRepository, bookingRepo repository.BookingRepository) FleetService {
	return &fleetService{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		nowFn:       time.Now,
	}
}

func validateCarInput(in CarInput) map[string][]string {
	errs := map[string][]string{}
	if in.Make == "" {
		errs["make"] = append(errs["make"], "Make is required")
	}
	if in.Model == "" {
		errs["model"] = append(errs["model"], "Model is required")
	}
	if in.Plate == "" {
		errs["plate"] = append(errs["plate"], "License plate is required")
	}
	if in.DailyRate < 0 {
		errs["dailyRate"] = append(errs["dailyRate"], "Daily rate cannot be negative")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *fleetService) AddCar(ctx context.Context, actor domain.Actor, in CarInput) domain.Result {
	if errs := validateCarInput(in); errs != nil {
		return domain.Invalid(errs)
	}

	ownerID := in.OwnerID
	if !actor.IsAdmin() {
		// Owners can only register cars under themselves.
		id := actor.ID
		ownerID = &id
	}

	status := in.Status
	if status == "" {
		status = domain.CarStatusAvailable
	}

	car := &domain.Car{
		Make:      in.Make,
		Model:     in.Model,
		Year:      in.Year,
		Plate:     in.Plate,
		Category:  in.Category,
		DailyRate: in.DailyRate,
		Status:    status,
		Image:     in.Image,
		OwnerID:   ownerID,
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		if errors.Is(err, repository.ErrDuplicatePlate) {
			return domain.Fail("A car with this license plate already exists.")
		}
		logger.Error("Failed to create car", "plate", in.Plate, "error", err)
		return domain.Fail("Failed to add car.")
	}
	return domain.OK("Car added successfully!")
}

func (s *fleetService) UpdateCar(ctx context.Context, actor domain.Actor, carID string, in CarInput) domain.Result {
	if errs := validateCarInput(in); errs != nil {
		return domain.Invalid(errs)
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Car not found.")
	}
	if err != nil {
		logger.Error("Failed to load car", "car_id", carID, "error", err)
		return domain.Fail("Failed to update car.")
	}
	if !actor.IsAdmin() && !car.OwnedBy(actor.ID) {
		return domain.Fail("Unauthorized: You can only manage your own cars.")
	}

	car.Make = in.Make
	car.Model = in.Model
	car.Year = in.Year
	car.Plate = in.Plate
	car.Category = in.Category
	car.DailyRate = in.DailyRate
	car.Image = in.Image
	if in.Status != "" {
		car.Status = in.Status
	}
	if actor.IsAdmin() && in.OwnerID != nil {
		car.OwnerID = in.OwnerID
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		if errors.Is(err, repository.ErrDuplicatePlate) {
			return domain.Fail("A car with this license plate already exists.")
		}
		logger.Error("Failed to update car", "car_id", carID, "error", err)
		return domain.Fail("Failed to update car.")
	}
	return domain.OK("Car updated successfully!")
}

func (s *fleetService) DeleteCar(ctx context.Context, actor domain.Actor, carID string) domain.Result {
	car, err := s.carRepo.GetByID(ctx, carID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fail("Car not found.")
	}
	if err != nil {
		logger.Error("Failed to load car", "car_id", carID, "error", err)
		return domain.Fail("Failed to delete car.")
	}
	if !actor.IsAdmin() && !car.OwnedBy(actor.ID) {
		return domain.Fail("Unauthorized: You can only manage your own cars.")
	}

	blocked, err := s.bookingRepo.HasUnresolvedForCar(ctx, carID)
	if err != nil {
		logger.Error("Failed to check bookings for car", "car_id", carID, "error", err)
		return domain.Fail("Failed to delete car.")
	}
	if blocked {
		return domain.Fail("Cannot delete car with active or upcoming bookings.")
	}

	if err := s.carRepo.SoftDelete(ctx, carID, s.nowFn()); err != nil {
		logger.Error("Failed to delete car", "car_id", carID, "error", err)
		return domain.Fail("Failed to delete car.")
	}
	return domain.OK("Car deleted successfully!")
}

func (s *fleetService) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, carID)
}
