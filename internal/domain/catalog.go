package domain

//go:generate mockgen -destination=../mocks/catalog.go -package=mocks . Catalog

import "context"

// Design is a catalog entry as seen by the order subsystem.
type Design struct {
	ID           string
	Title        string
	Description  string
	PriceCents   int64
	DesignerID   string
	DesignerName string
	ImageURL     string
	Active       bool
}

// Designer is a catalog designer.
type Designer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaceholderDesign stands in for a design that no longer resolves.
// Listings and reports degrade to it instead of failing.
func PlaceholderDesign(id string) Design {
	return Design{
		ID:    id,
		Title: "Unavailable design",
	}
}

// Catalog is the design catalog collaborator. Lookups are batched.
type Catalog interface {
	// ResolveDesigns returns the designs that exist among ids. Missing ids are
	// omitted from the result rather than reported as errors.
	ResolveDesigns(ctx context.Context, ids []string) ([]Design, error)

	GetDesigner(ctx context.Context, designerID string) (*Designer, error)

	// DesignsByDesigner returns every catalog design owned by the designer.
	DesignsByDesigner(ctx context.Context, designerID string) ([]Design, error)
}

// DesignIndex maps resolved designs by id.
func DesignIndex(designs []Design) map[string]Design {
	idx := make(map[string]Design, len(designs))
	for _, d := range designs {
		idx[d.ID] = d
	}
	return idx
}
