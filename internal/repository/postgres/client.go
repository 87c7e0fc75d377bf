package postgres

import (
	"context"
	"database/sql"

	"rentalops-backend/internal/repository"

	"github.com/google/uuid"
)

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) UpsertByName(ctx context.Context, name string) error {
	query := `INSERT INTO clients (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), name)
	return err
}
