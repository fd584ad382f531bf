package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// ListStages returns the tenant's pipeline stage definitions ordered by
// stage_order. An empty result means the tenant uses the default pipeline.
func (r *Repository) ListStages(ctx context.Context, tenantID uuid.UUID) ([]domain.StageDefinition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, stage_order
		FROM pipeline_stages
		WHERE tenant_id = $1
		ORDER BY stage_order ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]domain.StageDefinition, 0)
	for rows.Next() {
		var def domain.StageDefinition
		if err := rows.Scan(&def.Name, &def.StageOrder); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return defs, nil
}
