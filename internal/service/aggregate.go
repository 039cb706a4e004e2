package service

import (
	"sort"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/shopspring/decimal"
)

// salesFold accumulates a sales report in a single pass over orders. Each report
// request builds its own fold, so concurrent reports share nothing.
type salesFold struct {
	designs map[string]domain.Design

	totalSales   int
	totalRevenue int64

	dates map[string]*dateTotals

	designOrder []string
	designTotal map[string]*designTotals

	designerOrder []string
	designerTotal map[string]*designerTotals
}

type dateTotals struct {
	orders  int
	revenue int64
}

type designTotals struct {
	quantity int
	revenue  int64
}

// designerTotals derives the order count from set cardinality, so an order with
// several of a designer's items counts once.
type designerTotals struct {
	name     string
	orderIDs map[string]struct{}
	revenue  int64
}

func newSalesFold(designs map[string]domain.Design) *salesFold {
	return &salesFold{
		designs:       designs,
		dates:         make(map[string]*dateTotals),
		designTotal:   make(map[string]*designTotals),
		designerTotal: make(map[string]*designerTotals),
	}
}

// add folds one order into the totals.
func (f *salesFold) add(order domain.Order) {
	revenue := orderRevenue(order)

	f.totalSales++
	f.totalRevenue += revenue

	day := order.CreatedAt.UTC().Format(time.DateOnly)
	dt, ok := f.dates[day]
	if !ok {
		dt = &dateTotals{}
		f.dates[day] = dt
	}
	dt.orders++
	dt.revenue += revenue

	for _, item := range order.Items {
		line := item.LineTotalCents()

		ds, ok := f.designTotal[item.DesignID]
		if !ok {
			ds = &designTotals{}
			f.designTotal[item.DesignID] = ds
			f.designOrder = append(f.designOrder, item.DesignID)
		}
		ds.quantity += item.Quantity
		ds.revenue += line

		design, ok := f.designs[item.DesignID]
		if !ok || design.DesignerID == "" {
			continue
		}
		dr, ok := f.designerTotal[design.DesignerID]
		if !ok {
			dr = &designerTotals{name: design.DesignerName, orderIDs: make(map[string]struct{})}
			f.designerTotal[design.DesignerID] = dr
			f.designerOrder = append(f.designerOrder, design.DesignerID)
		}
		dr.orderIDs[order.ID] = struct{}{}
		dr.revenue += line
	}
}

// report derives averages and rankings from the accumulated totals.
func (f *salesFold) report() domain.SalesReport {
	r := domain.SalesReport{
		TotalSales:        f.totalSales,
		TotalRevenue:      domain.Money(f.totalRevenue),
		AverageOrderValue: decimal.Zero,
		SalesByDate:       make([]domain.DateSales, 0, len(f.dates)),
		TopSellingDesigns: make([]domain.DesignSales, 0, min(len(f.designOrder), domain.TopDesignsLimit)),
		SalesByDesigner:   make([]domain.DesignerSales, 0, len(f.designerOrder)),
	}
	if f.totalSales > 0 {
		r.AverageOrderValue = domain.Money(f.totalRevenue).Div(decimal.NewFromInt(int64(f.totalSales))).Round(2)
	}

	for day, dt := range f.dates {
		r.SalesByDate = append(r.SalesByDate, domain.DateSales{Date: day, Orders: dt.orders, Revenue: domain.Money(dt.revenue)})
	}
	sort.Slice(r.SalesByDate, func(i, j int) bool { return r.SalesByDate[i].Date < r.SalesByDate[j].Date })

	ranked := make([]domain.DesignSales, 0, len(f.designOrder))
	for _, id := range f.designOrder {
		ds := f.designTotal[id]
		design, ok := f.designs[id]
		if !ok {
			design = domain.PlaceholderDesign(id)
		}
		ranked = append(ranked, domain.DesignSales{
			DesignID:     id,
			Title:        design.Title,
			DesignerID:   design.DesignerID,
			DesignerName: design.DesignerName,
			Quantity:     ds.quantity,
			Revenue:      domain.Money(ds.revenue),
		})
	}
	// Stable: ties keep discovery order.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Quantity > ranked[j].Quantity })
	if len(ranked) > domain.TopDesignsLimit {
		ranked = ranked[:domain.TopDesignsLimit]
	}
	r.TopSellingDesigns = append(r.TopSellingDesigns, ranked...)

	for _, id := range f.designerOrder {
		dr := f.designerTotal[id]
		r.SalesByDesigner = append(r.SalesByDesigner, domain.DesignerSales{
			DesignerID:   id,
			DesignerName: dr.name,
			Orders:       len(dr.orderIDs),
			Revenue:      domain.Money(dr.revenue),
		})
	}
	sort.SliceStable(r.SalesByDesigner, func(i, j int) bool {
		return r.SalesByDesigner[i].Revenue.GreaterThan(r.SalesByDesigner[j].Revenue)
	})

	return r
}

// aggregateSales folds orders into a sales report.
func aggregateSales(orders []domain.Order, designs map[string]domain.Design) domain.SalesReport {
	fold := newSalesFold(designs)
	for _, o := range orders {
		fold.add(o)
	}
	return fold.report()
}

// orderRevenue is the item total, or the stored total for an order without items.
func orderRevenue(order domain.Order) int64 {
	if len(order.Items) == 0 {
		return order.TotalAmountCents
	}
	return order.ItemsSubtotalCents()
}

var sizeOrder = []domain.Size{domain.SizeXS, domain.SizeS, domain.SizeM, domain.SizeL, domain.SizeXL, domain.SizeXXL}

// salesBySize breaks one design's items down by size, in garment size order.
func salesBySize(orders []domain.Order, designID string) []domain.SizeSales {
	type totals struct {
		quantity int
		revenue  int64
	}
	bySize := make(map[domain.Size]*totals)
	for _, o := range orders {
		for _, item := range o.Items {
			if item.DesignID != designID {
				continue
			}
			t, ok := bySize[item.Size]
			if !ok {
				t = &totals{}
				bySize[item.Size] = t
			}
			t.quantity += item.Quantity
			t.revenue += item.LineTotalCents()
		}
	}

	out := make([]domain.SizeSales, 0, len(bySize))
	for _, size := range sizeOrder {
		if t, ok := bySize[size]; ok {
			out = append(out, domain.SizeSales{Size: size, Quantity: t.quantity, Revenue: domain.Money(t.revenue)})
		}
	}
	return out
}
