package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
)

type CheckoutInitiator interface {
	CreateCheckoutSession(ctx context.Context, req checkout.Request, nav checkout.Navigator) (*checkout.Result, error)
}

type ReturnFinalizer interface {
	FinalizeFromReturn(ctx context.Context, sessionID string) (*orders.ReturnResult, error)
}

type CheckoutHandler struct {
	initiator CheckoutInitiator
	finalizer ReturnFinalizer
	returns   domain.ReturnTargets
	timeout   time.Duration
}

// NewCheckoutHandler sends the provider back to publicBaseURL once the shopper
// leaves the hosted page.
func NewCheckoutHandler(initiator CheckoutInitiator, finalizer ReturnFinalizer, publicBaseURL string, timeout time.Duration) *CheckoutHandler {
	base := strings.TrimRight(publicBaseURL, "/")
	return &CheckoutHandler{
		initiator: initiator,
		finalizer: finalizer,
		returns: domain.ReturnTargets{
			SuccessURL: base + "/checkout/success?session_id=" + domain.SessionIDPlaceholder,
			CancelURL:  base + "/checkout/cancel?session_id=" + domain.SessionIDPlaceholder,
		},
		timeout: timeout,
	}
}

type CheckoutResponseDTO struct {
	OrderID     string `json:"order_id"`
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
	Status      string `json:"status"`
	Replayed    bool   `json:"replayed,omitempty"`
}

type ReturnResponseDTO struct {
	Status      string `json:"status"`
	OrderID     string `json:"order_id,omitempty"`
	CartCleared bool   `json:"cart_cleared"`
	Message     string `json:"message"`
}

// redirectNavigator remembers where the initiator wants the shopper to go.
type redirectNavigator struct {
	target string
}

func (n *redirectNavigator) Navigate(redirectURL string) {
	n.target = redirectURL
}

// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	nav := &redirectNavigator{}
	res, err := h.initiator.CreateCheckoutSession(ctx, checkout.Request{
		Returns:        h.returns,
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	}, nav)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, nav.target, http.StatusSeeOther)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	respondJSON(w, status, CheckoutResponseDTO{
		OrderID:     res.Order.ID,
		SessionID:   res.Session.SessionID,
		RedirectURL: nav.target,
		Status:      res.Order.Status.String(),
		Replayed:    res.Replayed,
	})
}

// GET /checkout/success and GET /checkout/cancel
func (h *CheckoutHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.finalizer.FinalizeFromReturn(ctx, r.URL.Query().Get("session_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto := ReturnResponseDTO{CartCleared: res.CartCleared}
	if res.Order != nil {
		dto.OrderID = res.Order.ID
	}
	switch {
	case res.Unconfirmed || res.Order == nil:
		dto.Status = "unconfirmed"
		dto.Message = "We could not confirm your payment yet. Your cart has been kept; check your orders shortly."
	case res.Order.Status == domain.OrderStatusPaid:
		dto.Status = res.Order.Status.String()
		dto.Message = "Payment successful. Thank you for your order!"
	default:
		dto.Status = res.Order.Status.String()
		dto.Message = "Payment was not completed. Your cart has been kept."
	}
	respondJSON(w, http.StatusOK, dto)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
