package fulfillment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ridha-415/filaops-sub002/internal/erp"
	"github.com/ridha-415/filaops-sub002/internal/shared"
)

// Sections that may degrade without failing the whole view.
const (
	sectionProductionOrders = "production_orders"
	sectionRequirements     = "requirements"
	sectionCapacity         = "capacity"
	sectionPayments         = "payments"
)

// Backend is the slice of the ERP API the fulfillment view consumes.
type Backend interface {
	GetSalesOrder(ctx context.Context, id int64) (*erp.SalesOrder, error)
	ListSalesOrders(ctx context.Context, status *erp.SalesOrderStatus) ([]erp.SalesOrder, error)
	UpdateOrderStatus(ctx context.Context, id int64, status erp.SalesOrderStatus) error
	CancelSalesOrder(ctx context.Context, id int64) error
	ShipSalesOrder(ctx context.Context, id int64, req erp.ShipRequest) error
	UpdateShippingAddress(ctx context.Context, id int64, req erp.UpdateAddressRequest) error
	DeleteSalesOrder(ctx context.Context, id int64) error
	GenerateProductionOrders(ctx context.Context, id int64) ([]erp.ProductionOrder, error)

	GetRequirements(ctx context.Context, productID int64) ([]erp.UnitRequirement, error)
	ExplodeBOM(ctx context.Context, productID int64, quantity float64) ([]erp.BOMComponent, error)
	GetRoutingByProduct(ctx context.Context, productID int64) (*erp.Routing, error)

	ListProductionOrders(ctx context.Context, salesOrderID int64) ([]erp.ProductionOrder, error)
	CreateProductionOrder(ctx context.Context, req erp.CreateProductionOrderRequest) (*erp.ProductionOrder, error)
	ReleaseProductionOrder(ctx context.Context, id int64) error
	StartProductionOrder(ctx context.Context, id int64) error
	CompleteProductionOrder(ctx context.Context, id int64) error

	ListOrderPayments(ctx context.Context, orderID int64) ([]erp.Payment, error)
	GetPaymentSummary(ctx context.Context, orderID int64) (*erp.PaymentSummary, error)
	CreatePayment(ctx context.Context, req erp.CreatePaymentRequest) (*erp.Payment, error)
}

// Service assembles fulfillment views and dispatches order actions.
type Service struct {
	backend Backend
	logger  *slog.Logger
	views   singleflight.Group
}

// NewService constructs a fulfillment service.
func NewService(backend Backend, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// LoadView builds the full fulfillment view for one order. Only the order
// fetch is fatal; every other section degrades to absent data. Concurrent
// builds for the same order and credential are deduplicated; the shared
// build is detached from any single caller's cancellation, so one caller
// leaving never fails the others.
func (s *Service) LoadView(ctx context.Context, orderID int64) (*View, error) {
	key := strconv.FormatInt(orderID, 10) + ":" + string(shared.TokenFromContext(ctx))
	result := s.views.DoChan(key, func() (any, error) {
		return s.buildView(context.WithoutCancel(ctx), orderID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*View), nil
	}
}

func (s *Service) buildView(ctx context.Context, orderID int64) (*View, error) {
	order, err := s.backend.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}

	view := &View{Order: order}
	if err := s.loadSections(ctx, view, sectionProductionOrders, sectionRequirements, sectionCapacity, sectionPayments); err != nil {
		return nil, err
	}
	view.recompute()
	return view, nil
}

// loadSections fetches the named secondary sections in parallel. A section
// failure is not fatal: the section stays absent and is recorded in
// Degraded. The errgroup only propagates context cancellation.
func (s *Service) loadSections(ctx context.Context, view *View, sections ...string) error {
	orderID := view.Order.ID
	degraded := make(chan string, len(sections))

	g, ctx := errgroup.WithContext(ctx)
	for _, section := range sections {
		section := section
		g.Go(func() error {
			if err := s.loadSection(ctx, view, section); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("fulfillment section degraded",
					slog.String("section", section),
					slog.Int64("order_id", orderID),
					slog.Any("error", err))
				degraded <- section
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	close(degraded)
	for section := range degraded {
		view.Degraded = append(view.Degraded, section)
	}
	return nil
}

func (s *Service) loadSection(ctx context.Context, view *View, section string) error {
	switch section {
	case sectionProductionOrders:
		wos, err := s.backend.ListProductionOrders(ctx, view.Order.ID)
		if err != nil {
			return err
		}
		view.setProductionOrders(wos)
	case sectionRequirements:
		explosion, err := s.loadRequirements(ctx, view.Order)
		if err != nil {
			return err
		}
		view.Requirements = explosion
	case sectionCapacity:
		productID, ok := MainProductID(view.Order)
		if !ok {
			return nil
		}
		routing, err := s.backend.GetRoutingByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if routing != nil {
			view.Capacity = AggregateCapacity(routing.Operations, view.Order.Quantity)
			view.TotalHours = TotalHours(view.Capacity)
		}
	case sectionPayments:
		summary, err := s.backend.GetPaymentSummary(ctx, view.Order.ID)
		if err != nil {
			return err
		}
		payments, err := s.backend.ListOrderPayments(ctx, view.Order.ID)
		if err != nil {
			return err
		}
		view.PaymentSummary = summary
		view.Payments = payments
	}
	return nil
}

// loadRequirements is the two-tier requirements fetch. The netted MRP
// endpoint is primary; when it fails, the raw BOM explosion stands in and
// the result is tagged so callers know which shortage semantics apply.
func (s *Service) loadRequirements(ctx context.Context, order *erp.SalesOrder) (*Explosion, error) {
	productID, ok := MainProductID(order)
	if !ok {
		return nil, nil
	}

	units, err := s.backend.GetRequirements(ctx, productID)
	if err == nil {
		return &Explosion{Mode: ModeNetted, Requirements: ScaleRequirements(units, order.Quantity)}, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	s.logger.Warn("mrp requirements unavailable, falling back to raw bom explosion",
		slog.Int64("product_id", productID),
		slog.Any("error", err))

	components, fallbackErr := s.backend.ExplodeBOM(ctx, productID, order.Quantity)
	if fallbackErr != nil {
		return nil, fmt.Errorf("explode bom fallback: %w", fallbackErr)
	}
	return &Explosion{Mode: ModeRaw, Requirements: RawRequirements(components)}, nil
}

// ActionView builds the response view for a successful action: the order
// plus only the sections the action's affected set names. Untouched
// sections stay absent; the caller keeps its previous copy of those.
func (s *Service) ActionView(ctx context.Context, orderID int64, affected []Resource) (*View, error) {
	order, err := s.backend.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	view := &View{Order: order}
	rest := make([]Resource, 0, len(affected))
	for _, resource := range affected {
		if resource != ResourceOrder {
			rest = append(rest, resource)
		}
	}
	if err := s.Refresh(ctx, view, rest); err != nil {
		return nil, err
	}
	return view, nil
}

// Refresh refetches only the named resources into the view and recomputes
// the derived values. Each action reports its affected resource set; this
// is the invalidation dispatcher consuming it.
func (s *Service) Refresh(ctx context.Context, view *View, affected []Resource) error {
	sections := make([]string, 0, len(affected))
	for _, resource := range affected {
		switch resource {
		case ResourceOrder:
			order, err := s.backend.GetSalesOrder(ctx, view.Order.ID)
			if err != nil {
				return fmt.Errorf("refetch order: %w", err)
			}
			view.Order = order
		case ResourceProductionOrders:
			sections = append(sections, sectionProductionOrders)
		case ResourceRequirements:
			sections = append(sections, sectionRequirements)
		case ResourcePayments:
			sections = append(sections, sectionPayments)
		}
	}
	view.Degraded = nil
	if len(sections) > 0 {
		if err := s.loadSections(ctx, view, sections...); err != nil {
			return err
		}
	}
	view.recompute()
	return nil
}

// ListOrders proxies the order list for the admin overview.
func (s *Service) ListOrders(ctx context.Context, status *erp.SalesOrderStatus) ([]erp.SalesOrder, error) {
	orders, err := s.backend.ListSalesOrders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	return orders, nil
}

func (v *View) setProductionOrders(wos []erp.ProductionOrder) {
	views := make([]ProductionOrderView, 0, len(wos))
	for _, wo := range wos {
		views = append(views, ProductionOrderView{
			ProductionOrder:   wo,
			CompletionPercent: CompletionPercent(wo),
		})
	}
	v.ProductionOrders = views
}

// recompute refreshes every derived number from the fetched data.
func (v *View) recompute() {
	wos := make([]erp.ProductionOrder, 0, len(v.ProductionOrders))
	for i := range v.ProductionOrders {
		v.ProductionOrders[i].CompletionPercent = CompletionPercent(v.ProductionOrders[i].ProductionOrder)
		wos = append(wos, v.ProductionOrders[i].ProductionOrder)
	}
	var reqs []MaterialRequirement
	if v.Requirements != nil {
		reqs = v.Requirements.Requirements
	}
	v.Projection = Project(v.Order, wos, reqs)
}
