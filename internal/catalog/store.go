// internal/catalog/store.go

// Package catalog is the provider catalog: canonical records in PostgreSQL,
// free-text lookup through Elasticsearch.
package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/models"
)

const providerColumns = `id, name, location, technologies, project_types, specialties,
	past_projects, base_cost, cost_per_sqm, typical_project_size,
	typical_timeline_months, min_timeline_months, rating`

// Store reads provider records from PostgreSQL.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// ListProviders returns the full catalog, ordered by name for deterministic
// downstream ranking input.
func (s *Store) ListProviders(ctx context.Context) ([]models.Provider, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+providerColumns+` FROM providers ORDER BY name`)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}
	defer rows.Close()

	var providers []models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, commonerrors.NewCatalogQueryFailedError(err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}

	s.logger.Debug("listed providers", map[string]interface{}{"count": len(providers)})
	return providers, nil
}

// ErrProviderNotFound marks a lookup for an id the catalog does not hold.
var ErrProviderNotFound = sql.ErrNoRows

// GetProvider returns a single provider by id. A missing id yields
// ErrProviderNotFound, not a catalog error.
func (s *Store) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id)
	p, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}
	return &p, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row scannable) (models.Provider, error) {
	var p models.Provider
	var technologies, projectTypes pq.StringArray
	var specialties sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Location,
		&technologies,
		&projectTypes,
		&specialties,
		&p.PastProjects,
		&p.BaseCost,
		&p.CostPerSqm,
		&p.TypicalProjectSize,
		&p.TypicalTimelineMonths,
		&p.MinTimelineMonths,
		&p.Rating,
	)
	if err != nil {
		return models.Provider{}, err
	}

	p.Technologies = technologies
	p.ProjectTypes = projectTypes
	p.Specialties = specialties.String
	return p, nil
}
