package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/telemetry"
)

// reportService implements domain.ReportService. Reports are computed in memory
// after one bulk fetch of the matching orders.
type reportService struct {
	store   domain.OrderStore
	catalog domain.Catalog
	cache   cache.ReportCache
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewReportService creates the sales aggregation engine. A nil cache disables caching.
func NewReportService(store domain.OrderStore, catalog domain.Catalog, reports cache.ReportCache, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.ReportService {
	if reports == nil {
		reports = cache.NopReportCache{}
	}
	if metrics == nil {
		metrics = telemetry.NewNopBusinessMetrics()
	}
	return &reportService{store: store, catalog: catalog, cache: reports, metrics: metrics, logger: logger}
}

// SalesReport aggregates every order matching filters.
func (s *reportService) SalesReport(ctx context.Context, filters domain.ReportFilters) (*domain.SalesReport, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	report := &domain.SalesReport{}
	key := s.cacheKey(ctx, "sales", "", filters)
	if s.cacheGet(ctx, key, report) {
		return report, nil
	}

	defer s.observe("sales", time.Now())

	var designIDs []string
	if filters.DesignerID != "" {
		designs, err := s.catalog.DesignsByDesigner(ctx, filters.DesignerID)
		if err != nil {
			return nil, domain.Unavailable(err, "report.designer_designs", "catalog lookup failed")
		}
		designIDs = designIDsOf(designs)
	}

	built, _, err := s.build(ctx, filters, designIDs)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, built)
	return built, nil
}

// DesignReport scopes the sales report to one design and adds a size breakdown.
func (s *reportService) DesignReport(ctx context.Context, designID string, filters domain.ReportFilters) (*domain.DesignReport, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	report := &domain.DesignReport{}
	key := s.cacheKey(ctx, "design", designID, filters)
	if s.cacheGet(ctx, key, report) {
		return report, nil
	}

	defer s.observe("design", time.Now())

	resolved, err := s.catalog.ResolveDesigns(ctx, []string{designID})
	if err != nil {
		return nil, domain.Unavailable(err, "report.design", "catalog lookup failed")
	}
	design, ok := domain.DesignIndex(resolved)[designID]
	if !ok {
		return nil, ErrDesignNotFound
	}

	filters.DesignID = designID
	filters.DesignerID = ""
	sales, orders, err := s.build(ctx, filters, nil)
	if err != nil {
		return nil, err
	}

	report = &domain.DesignReport{
		Design: domain.DesignSummary{
			ID:           design.ID,
			Title:        design.Title,
			DesignerID:   design.DesignerID,
			DesignerName: design.DesignerName,
			Price:        domain.Money(design.PriceCents),
			ImageURL:     design.ImageURL,
		},
		Sales:       *sales,
		SalesBySize: salesBySize(orders, designID),
	}

	s.cacheSet(ctx, key, report)
	return report, nil
}

// DesignerReport scopes the sales report to one designer's catalog.
// ActiveDesigns counts the designer's designs that reach TopSellingDesigns.
func (s *reportService) DesignerReport(ctx context.Context, designerID string, filters domain.ReportFilters) (*domain.DesignerReport, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	report := &domain.DesignerReport{}
	key := s.cacheKey(ctx, "designer", designerID, filters)
	if s.cacheGet(ctx, key, report) {
		return report, nil
	}

	defer s.observe("designer", time.Now())

	designer, err := s.catalog.GetDesigner(ctx, designerID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, ErrDesignerNotFound
		}
		return nil, domain.Unavailable(err, "report.designer", "catalog lookup failed")
	}

	designs, err := s.catalog.DesignsByDesigner(ctx, designerID)
	if err != nil {
		return nil, domain.Unavailable(err, "report.designer_designs", "catalog lookup failed")
	}

	report = &domain.DesignerReport{Designer: *designer, TotalDesigns: len(designs)}
	if len(designs) == 0 {
		report.Sales = aggregateSales(nil, nil)
		s.cacheSet(ctx, key, report)
		return report, nil
	}

	filters.DesignerID = designerID
	sales, _, err := s.build(ctx, filters, designIDsOf(designs))
	if err != nil {
		return nil, err
	}
	report.Sales = *sales

	owned := make(map[string]struct{}, len(designs))
	for _, d := range designs {
		owned[d.ID] = struct{}{}
	}
	for _, top := range sales.TopSellingDesigns {
		if _, ok := owned[top.DesignID]; ok {
			report.ActiveDesigns++
		}
	}
	report.InactiveDesigns = report.TotalDesigns - report.ActiveDesigns

	s.cacheSet(ctx, key, report)
	return report, nil
}

// build fetches matching orders, resolves their designs in one batch and folds
// them. designerDesigns is the designer's design set when a designer filter applies.
func (s *reportService) build(ctx context.Context, filters domain.ReportFilters, designerDesigns []string) (*domain.SalesReport, []domain.Order, error) {
	query := domain.OrderQuery{
		CreatedFrom: filters.StartDate,
		CreatedTo:   filters.EndDate,
		Statuses:    filters.EffectiveStatuses(),
	}

	switch {
	case filters.DesignerID != "" && filters.DesignID != "":
		query.DesignIDs = []string{}
		for _, id := range designerDesigns {
			if id == filters.DesignID {
				query.DesignIDs = []string{id}
				break
			}
		}
	case filters.DesignerID != "":
		query.DesignIDs = designerDesigns
		if query.DesignIDs == nil {
			query.DesignIDs = []string{}
		}
	case filters.DesignID != "":
		query.DesignIDs = []string{filters.DesignID}
	}

	orders, err := s.store.FindForReport(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			if _, ok := seen[item.DesignID]; !ok {
				seen[item.DesignID] = struct{}{}
				ids = append(ids, item.DesignID)
			}
		}
	}

	var index map[string]domain.Design
	if len(ids) > 0 {
		designs, err := s.catalog.ResolveDesigns(ctx, ids)
		if err != nil {
			return nil, nil, domain.Unavailable(err, "report.resolve", "catalog lookup failed")
		}
		index = domain.DesignIndex(designs)
	}

	report := aggregateSales(orders, index)
	return &report, orders, nil
}

func (s *reportService) observe(kind string, start time.Time) {
	s.metrics.ReportsBuilt.WithLabelValues(kind).Inc()
	s.metrics.ReportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// cacheKey returns "" when no key could be derived; callers then skip the cache.
func (s *reportService) cacheKey(ctx context.Context, kind, id string, f domain.ReportFilters) string {
	statuses := make([]string, 0, len(f.Statuses))
	for _, st := range f.EffectiveStatuses() {
		statuses = append(statuses, string(st))
	}
	key, err := s.cache.Key(ctx, kind,
		id,
		formatBound(f.StartDate),
		formatBound(f.EndDate),
		strings.Join(statuses, ","),
		f.DesignerID,
		f.DesignID,
	)
	if err != nil {
		s.metrics.ReportCache.WithLabelValues("error").Inc()
		s.logger.Warn("Report cache unavailable", "error", err)
		return ""
	}
	return key
}

func (s *reportService) cacheGet(ctx context.Context, key string, dest any) bool {
	if key == "" {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	switch {
	case err != nil:
		s.metrics.ReportCache.WithLabelValues("error").Inc()
		s.logger.Warn("Report cache read failed", "error", err)
		return false
	case hit:
		s.metrics.ReportCache.WithLabelValues("hit").Inc()
		return true
	default:
		s.metrics.ReportCache.WithLabelValues("miss").Inc()
		return false
	}
}

func (s *reportService) cacheSet(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("Report cache write failed", "error", err)
	}
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func designIDsOf(designs []domain.Design) []string {
	ids := make([]string, len(designs))
	for i, d := range designs {
		ids[i] = d.ID
	}
	return ids
}
