package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prestanaute/backend/internal/domain"
)

// WorksiteRepo defines read access to the worksite reference data.
// Worksites are maintained by the billing side; this backend only reads them.
type WorksiteRepo interface {
	// Search returns worksites whose name or id contains term, ordered by id
	// descending. An empty slice means no match.
	Search(ctx context.Context, term string) ([]domain.Worksite, error)

	// Exists reports whether a worksite with the given id is known.
	Exists(ctx context.Context, worksiteID string) (bool, error)
}

// pgWorksiteRepo is the Postgres implementation of WorksiteRepo.
type pgWorksiteRepo struct {
	db db
}

// NewWorksiteRepo constructs a WorksiteRepo backed by the provided db connection.
func NewWorksiteRepo(db db) WorksiteRepo {
	return &pgWorksiteRepo{db: db}
}

func (r *pgWorksiteRepo) Search(ctx context.Context, term string) ([]domain.Worksite, error) {
	const q = `
		SELECT worksite_id, worksite_name
		FROM worksites
		WHERE worksite_name ILIKE @pattern OR worksite_id ILIKE @pattern
		ORDER BY worksite_id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pattern": "%" + term + "%"})
	if err != nil {
		return nil, fmt.Errorf("repo.WorksiteRepo.Search: %w", err)
	}
	defer rows.Close()

	var worksites []domain.Worksite
	for rows.Next() {
		var w domain.Worksite
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("repo.WorksiteRepo.Search: scan: %w", err)
		}
		worksites = append(worksites, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.WorksiteRepo.Search: rows: %w", err)
	}

	return worksites, nil
}

func (r *pgWorksiteRepo) Exists(ctx context.Context, worksiteID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM worksites WHERE worksite_id = @worksite_id)`

	var exists bool
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"worksite_id": worksiteID})
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.WorksiteRepo.Exists: %w", err)
	}
	return exists, nil
}
