package fulfillment

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ridha-415/filaops-sub002/internal/erp"
	"github.com/ridha-415/filaops-sub002/internal/platform/httpx"
	"github.com/ridha-415/filaops-sub002/internal/shared"
)

// Handler wires the fulfillment JSON endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var statusPtr *erp.SalesOrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := erp.SalesOrderStatus(raw)
		if !status.IsValid() {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "unknown order status: "+raw)
			return
		}
		statusPtr = &status
	}

	orders, err := h.service.ListOrders(r.Context(), statusPtr)
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		h.respondViewError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(orders))
	start, end := pagination.Bounds()

	summaries := make([]OrderSummary, 0, end-start)
	for _, order := range orders[start:end] {
		summaries = append(summaries, OrderSummary{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			Status:        string(order.Status),
			Quantity:      order.Quantity,
			GrandTotal:    order.GrandTotal,
			PaymentStatus: order.PaymentStatus,
		})
	}
	httpx.JSON(w, http.StatusOK, ListOrdersResponse{Orders: summaries, Pagination: pagination})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	view, err := h.service.LoadView(r.Context(), id)
	if err != nil {
		h.logger.Error("load fulfillment view failed", slog.Any("error", err), slog.Int64("id", id))
		h.respondViewError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) ShowRequirements(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	view, err := h.service.LoadView(r.Context(), id)
	if err != nil {
		h.respondViewError(w, err)
		return
	}
	// A nil explosion stays null: absent data carries neither netted nor
	// raw shortage semantics.
	httpx.JSON(w, http.StatusOK, view.Requirements)
}

func (h *Handler) ShowCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	view, err := h.service.LoadView(r.Context(), id)
	if err != nil {
		h.respondViewError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"capacity":    view.Capacity,
		"total_hours": view.TotalHours,
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.CancelOrder(r.Context(), id)
	})
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req AdvanceOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	next := erp.SalesOrderStatus(req.Status)
	if !next.IsValid() {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Status", "unknown order status: "+req.Status)
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.AdvanceOrder(r.Context(), id, next)
	})
}

func (h *Handler) GenerateWOs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.GenerateOrderWOs(r.Context(), id)
	})
}

func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req CreateWorkOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.CreateShortageWO(r.Context(), id, req.ComponentID)
	})
}

func (h *Handler) TransitionWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	woID, err := strconv.ParseInt(chi.URLParam(r, "woID"), 10, 64)
	if err != nil || woID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "work order id must be a positive integer")
		return
	}
	transition := WOTransition(chi.URLParam(r, "transition"))
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.TransitionWorkOrder(r.Context(), id, woID, transition)
	})
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Amount.IsZero() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "payment amount must be non-zero")
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.RecordPayment(r.Context(), erp.CreatePaymentRequest{
			OrderID:     id,
			Amount:      req.Amount,
			Method:      req.Method,
			Reference:   req.Reference,
			Description: req.Description,
		})
	})
}

func (h *Handler) Ship(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req ShipOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.ShipOrder(r.Context(), id, req.TrackingNumber)
	})
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req UpdateAddressRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, id, func() (*ActionResult, error) {
		return h.service.UpdateAddress(r.Context(), id, erp.UpdateAddressRequest{
			ShippingName:   req.ShippingName,
			ShippingStreet: req.ShippingStreet,
			ShippingCity:   req.ShippingCity,
			ShippingState:  req.ShippingState,
			ShippingZip:    req.ShippingZip,
		})
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	result, err := h.service.DeleteOrder(r.Context(), id)
	if err != nil {
		h.respondActionError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ActionResponse{Affected: result.Affected})
}

// dispatch runs one action and, on success, refetches only the affected
// resources into the response view.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, orderID int64, action func() (*ActionResult, error)) {
	result, err := action()
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	response := ActionResponse{Affected: result.Affected}
	if includesDetailResource(result.Affected) {
		view, err := h.service.ActionView(r.Context(), orderID, result.Affected)
		if err != nil {
			// The mutation succeeded; a failed refetch only degrades the
			// response payload.
			h.logger.Warn("post-action refetch failed", slog.Any("error", err), slog.Int64("id", orderID))
		} else {
			response.View = view
		}
	}
	httpx.JSON(w, http.StatusOK, response)
}

func includesDetailResource(affected []Resource) bool {
	for _, resource := range affected {
		switch resource {
		case ResourceOrder, ResourceProductionOrders, ResourcePayments, ResourceRequirements:
			return true
		}
	}
	return false
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "order id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

// respondViewError maps a failed primary fetch: not found or a retryable
// full-view error. There is no automatic retry; the operator clicks Retry.
func (h *Handler) respondViewError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "order not found")
		return
	}
	if errors.Is(err, shared.ErrMissingCredential) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	httpx.RetryableProblem(w, http.StatusBadGateway, "Backend Unavailable", shared.UserSafeMessage(err))
}

// respondActionError maps action failures: precondition violations and
// backend rejections share the problem shape so the UI treats them alike.
func (h *Handler) respondActionError(w http.ResponseWriter, err error) {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Action Rejected", actionErr.Message)
		return
	}
	var apiErr *erp.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		httpx.Problem(w, status, "Action Failed", UserMessage(err))
		return
	}
	if errors.Is(err, shared.ErrMissingCredential) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	httpx.Problem(w, http.StatusBadGateway, "Action Failed", UserMessage(err))
}
