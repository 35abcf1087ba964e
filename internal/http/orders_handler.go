package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/identity"
	"github.com/go-chi/chi/v5"
)

type OrderQueries interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

type OrderReconciler interface {
	Reconcile(ctx context.Context, sessionID string) (*domain.Order, error)
}

type OrdersHandler struct {
	queries    OrderQueries
	reconciler OrderReconciler
	timeout    time.Duration
}

func NewOrdersHandler(queries OrderQueries, reconciler OrderReconciler, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		queries:    queries,
		reconciler: reconciler,
		timeout:    timeout,
	}
}

type OrderItemDTO struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type OrderResponseDTO struct {
	ID                 string         `json:"id"`
	CheckoutSessionRef string         `json:"checkout_session_ref"`
	TotalAmountCents   int64          `json:"total_amount_cents"`
	Currency           string         `json:"currency"`
	Status             string         `json:"status"`
	Items              []OrderItemDTO `json:"items"`
	CreatedAt          string         `json:"created_at"`
	UpdatedAt          string         `json:"updated_at"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.queries.ListOrders(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(list))
	for _, o := range list {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.queries.GetOrder(ctx, orderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertOrder(order))
}

// POST /api/v1/orders/reconcile/{session_id}
// Asks the provider again. An order whose outcome is still unknown comes back with 202.
func (h *OrdersHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := identity.FromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	// only the owner (or an admin) may trigger a provider round trip
	sessionID := chi.URLParam(r, "session_id")
	if _, err := h.queries.GetOrderBySession(ctx, sessionID); err != nil {
		handleError(w, r, err)
		return
	}

	order, err := h.reconciler.Reconcile(ctx, sessionID)
	if errors.Is(err, domain.ErrUnknownProviderOutcome) && order != nil {
		respondJSON(w, http.StatusAccepted, convertOrder(order))
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertOrder(order))
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	return OrderResponseDTO{
		ID:                 o.ID,
		CheckoutSessionRef: o.CheckoutSessionRef,
		TotalAmountCents:   o.TotalAmountCents,
		Currency:           o.Currency,
		Status:             o.Status.String(),
		Items:              items,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          o.UpdatedAt.Format(time.RFC3339),
	}
}
