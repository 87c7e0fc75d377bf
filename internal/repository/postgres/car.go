package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, make, model, year, plate, category, daily_rate, status, image, owner_id, deleted_at, created_at, updated_at`

func scanCar(row interface{ Scan(...any) error }) (*domain.Car, error) {
	c := &domain.Car{}
	err := row.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Plate, &c.Category, &c.DailyRate, &c.Status, &c.Image, &c.OwnerID, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// isUniqueViolation checks for the postgres unique constraint error class.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	if car.ID == "" {
		car.ID = uuid.NewString()
	}
	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now
	query := `INSERT INTO cars (` + carColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, $11, $12)`
	_, err := r.db.ExecContext(ctx, query, car.ID, car.Make, car.Model, car.Year, car.Plate, car.Category, car.DailyRate, car.Status, car.Image, car.OwnerID, now, now)
	if isUniqueViolation(err) {
		return repository.ErrDuplicatePlate
	}
	return err
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return scanCar(r.db.QueryRowContext(ctx, query, id))
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `UPDATE cars SET make=$1, model=$2, year=$3, plate=$4, category=$5, daily_rate=$6, status=$7, image=$8, owner_id=$9, updated_at=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, car.Make, car.Model, car.Year, car.Plate, car.Category, car.DailyRate, car.Status, car.Image, car.OwnerID, time.Now(), car.ID)
	if isUniqueViolation(err) {
		return repository.ErrDuplicatePlate
	}
	return err
}

func (r *carRepository) UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error {
	query := `UPDATE cars SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *carRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	query := `UPDATE cars SET deleted_at=$1, updated_at=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, deletedAt, id)
	return err
}

func (r *carRepository) ListByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE status = $1 AND deleted_at IS NULL ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}
