package provider

import (
	"encoding/json"
	"net/http"

	"github.com/fjod/go_storefront/pkg/paymentpb"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type sessionView struct {
	SessionID   string     `json:"session_id"`
	Outcome     string     `json:"outcome"`
	AmountTotal int64      `json:"amount_total"`
	Items       []itemView `json:"line_items"`
}

type itemView struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
	Currency   string `json:"currency"`
}

func itemViews(items []*paymentpb.LineItem) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{ProductID: it.ProductId, Name: it.Name, UnitAmount: it.UnitAmount, Quantity: it.Quantity, Currency: it.Currency})
	}
	return out
}

// HostedPages serves the provider's checkout page endpoints. Submitting a payment asks
// the policy for the outcome and sends the shopper back to the matching return URL.
type HostedPages struct {
	server *Server
	policy OutcomePolicy
}

func NewHostedPages(server *Server, policy OutcomePolicy) *HostedPages {
	return &HostedPages{server: server, policy: policy}
}

func (h *HostedPages) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/pay/{session_id}", h.show)
	r.Post("/pay/{session_id}/pay", h.pay)
	r.Post("/pay/{session_id}/cancel", h.cancel)
	return r
}

func (h *HostedPages) show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")

	h.server.mu.Lock()
	sess, ok := h.server.sessions[id]
	var view sessionView
	if ok {
		view = sessionView{SessionID: sess.id, Outcome: sess.outcome, AmountTotal: sess.total(), Items: itemViews(sess.items)}
	}
	h.server.mu.Unlock()

	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

func (h *HostedPages) pay(w http.ResponseWriter, r *http.Request) {
	outcome, details := h.policy.PaymentOutcome()
	h.complete(w, r, outcome, details)
}

func (h *HostedPages) cancel(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, paymentpb.OutcomeCancelled, "cancelled by customer")
}

func (h *HostedPages) complete(w http.ResponseWriter, r *http.Request, outcome, details string) {
	id := chi.URLParam(r, "session_id")

	_, err := h.server.CompleteSession(r.Context(), &paymentpb.CompleteSessionRequest{SessionId: id, Outcome: outcome})
	switch status.Code(err) {
	case codes.OK:
	case codes.NotFound:
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case codes.FailedPrecondition:
		http.Error(w, "session already completed", http.StatusConflict)
		return
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if details != "" {
		h.server.setDetails(id, details)
	}

	target, _ := h.server.returnURL(id, outcome != paymentpb.OutcomePaid)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
