package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/google/uuid"
)

type seasonRepository struct {
	db *sql.DB
}

func NewSeasonRepository(db *sql.DB) repository.SeasonRepository {
	return &seasonRepository{db: db}
}

const seasonColumns = `id, name, start_date, end_date, price_multiplier`

func (r *seasonRepository) Create(ctx context.Context, s *domain.Season) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `INSERT INTO seasons (` + seasonColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.StartDate, s.EndDate, s.PriceMultiplier)
	return err
}

func (r *seasonRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	return err
}

func (r *seasonRepository) list(ctx context.Context, query string, args ...any) ([]domain.Season, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []domain.Season
	for rows.Next() {
		var s domain.Season
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.PriceMultiplier); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (r *seasonRepository) List(ctx context.Context) ([]domain.Season, error) {
	return r.list(ctx, `SELECT `+seasonColumns+` FROM seasons ORDER BY start_date`)
}

func (r *seasonRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE start_date <= $2 AND end_date >= $1 ORDER BY start_date`
	return r.list(ctx, query, start, end)
}
