package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"hackathon-portal/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads a variant's problem rows (JSONB) from Postgres.
type CatalogLoader struct {
	pool    *pgxpool.Pool
	variant string
}

func NewCatalogLoader(pool *pgxpool.Pool, variant string) *CatalogLoader {
	return &CatalogLoader{pool: pool, variant: variant}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.Problem, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT data FROM problems WHERE variant=$1 ORDER BY position`, l.variant)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var problems []domain.Problem
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		var problem domain.Problem
		if err := json.Unmarshal(raw, &problem); err != nil {
			return nil, fmt.Errorf("unmarshal problem: %w", err)
		}
		problems = append(problems, problem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(problems) == 0 {
		return nil, domain.ErrCatalogNotFound
	}
	return problems, nil
}
