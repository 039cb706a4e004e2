package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Catalog reads designs and designers. Orders reference designs by id only.
type Catalog struct {
	db DBTX
}

var _ domain.Catalog = (*Catalog)(nil)

// NewCatalog creates a catalog reader over the designs and designers tables.
func NewCatalog(db DBTX) *Catalog {
	return &Catalog{db: db}
}

// ResolveDesigns includes soft-deleted designs with Active=false so that
// history can still show their titles. Hard-deleted ids are omitted.
func (c *Catalog) ResolveDesigns(ctx context.Context, ids []string) ([]domain.Design, error) {
	if len(ids) == 0 {
		return []domain.Design{}, nil
	}

	rows, err := c.db.Query(ctx, `
		SELECT d.id, d.title, d.description, d.price_cents, d.designer_id, r.name, d.image_url,
		       d.active AND d.deleted_at IS NULL
		FROM designs d
		JOIN designers r ON r.id = d.designer_id
		WHERE d.id = ANY($1::text[])`,
		ids,
	)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.resolve", "catalog lookup failed")
	}
	designs, err := collectDesigns(rows)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.resolve", "catalog lookup failed")
	}
	return designs, nil
}

// GetDesigner looks up one designer.
func (c *Catalog) GetDesigner(ctx context.Context, designerID string) (*domain.Designer, error) {
	var d domain.Designer
	err := c.db.QueryRow(ctx, `SELECT id, name FROM designers WHERE id = $1`, designerID).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("catalog.designer", "designer", designerID)
		}
		return nil, domain.Unavailable(err, "catalog.designer", "catalog lookup failed")
	}
	return &d, nil
}

// DesignsByDesigner returns all of a designer's designs, soft-deleted ones included.
func (c *Catalog) DesignsByDesigner(ctx context.Context, designerID string) ([]domain.Design, error) {
	rows, err := c.db.Query(ctx, `
		SELECT d.id, d.title, d.description, d.price_cents, d.designer_id, r.name, d.image_url,
		       d.active AND d.deleted_at IS NULL
		FROM designs d
		JOIN designers r ON r.id = d.designer_id
		WHERE d.designer_id = $1
		ORDER BY d.created_at, d.id`,
		designerID,
	)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.by_designer", "catalog lookup failed")
	}
	designs, err := collectDesigns(rows)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.by_designer", "catalog lookup failed")
	}
	return designs, nil
}

func collectDesigns(rows pgx.Rows) ([]domain.Design, error) {
	designs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Design, error) {
		var d domain.Design
		err := row.Scan(&d.ID, &d.Title, &d.Description, &d.PriceCents, &d.DesignerID, &d.DesignerName, &d.ImageURL, &d.Active)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	if designs == nil {
		designs = []domain.Design{}
	}
	return designs, nil
}
