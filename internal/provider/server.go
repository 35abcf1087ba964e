package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/paymentpb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type session struct {
	id          string
	items       []*paymentpb.LineItem
	successURL  string
	cancelURL   string
	outcome     string
	customerRef string
	details     string
	createdAt   time.Time
}

func (s *session) total() int64 {
	var total int64
	for _, it := range s.items {
		total += it.UnitAmount * it.Quantity
	}
	return total
}

// Server is an in-memory hosted checkout. Sessions start open and are completed once.
type Server struct {
	paymentpb.UnimplementedPaymentProviderServer
	mu       sync.Mutex
	sessions map[string]*session
	payBase  string
	log      zerolog.Logger
}

// NewServer creates a provider whose hosted pages live under payBase.
func NewServer(payBase string, log zerolog.Logger) *Server {
	return &Server{
		sessions: make(map[string]*session),
		payBase:  strings.TrimRight(payBase, "/"),
		log:      log,
	}
}

func (s *Server) CreateCheckoutSession(_ context.Context, r *paymentpb.CreateCheckoutSessionRequest) (*paymentpb.CreateCheckoutSessionResponse, error) {
	if len(r.GetLineItems()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "line_items must not be empty")
	}
	for _, it := range r.LineItems {
		if it == nil || it.Name == "" {
			return nil, status.Error(codes.InvalidArgument, "line item name is required")
		}
		if it.Quantity <= 0 {
			return nil, status.Errorf(codes.InvalidArgument, "quantity of %q must be positive", it.Name)
		}
		if it.UnitAmount < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "unit_amount of %q must not be negative", it.Name)
		}
	}
	if !absoluteURL(r.SuccessUrl) || !absoluteURL(r.CancelUrl) {
		return nil, status.Error(codes.InvalidArgument, "success_url and cancel_url must be absolute")
	}

	sess := &session{
		id:         "cs_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		items:      r.LineItems,
		successURL: r.SuccessUrl,
		cancelURL:  r.CancelUrl,
		outcome:    paymentpb.OutcomeOpen,
		createdAt:  time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info().Str("session_id", sess.id).Int64("amount", sess.total()).Msg("checkout session created")
	return &paymentpb.CreateCheckoutSessionResponse{
		SessionId: sess.id,
		Url:       fmt.Sprintf("%s/pay/%s", s.payBase, sess.id),
	}, nil
}

func (s *Server) GetSessionStatus(_ context.Context, r *paymentpb.GetSessionStatusRequest) (*paymentpb.GetSessionStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[r.SessionId]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "session %s not found", r.SessionId)
	}
	return &paymentpb.GetSessionStatusResponse{
		SessionId:   sess.id,
		Outcome:     sess.outcome,
		CustomerRef: sess.customerRef,
		Details:     sess.details,
	}, nil
}

// CompleteSession closes an open session with a final outcome.
func (s *Server) CompleteSession(_ context.Context, r *paymentpb.CompleteSessionRequest) (*paymentpb.CompleteSessionResponse, error) {
	switch r.Outcome {
	case paymentpb.OutcomePaid, paymentpb.OutcomeCancelled, paymentpb.OutcomeFailed:
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unsupported outcome %q", r.Outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[r.SessionId]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "session %s not found", r.SessionId)
	}
	if sess.outcome != paymentpb.OutcomeOpen {
		return nil, status.Errorf(codes.FailedPrecondition, "session %s already %s", sess.id, sess.outcome)
	}
	sess.outcome = r.Outcome
	if r.Outcome == paymentpb.OutcomePaid {
		sess.customerRef = "cus_" + sess.id[3:11]
	}

	s.log.Info().Str("session_id", sess.id).Str("outcome", sess.outcome).Msg("checkout session completed")
	return &paymentpb.CompleteSessionResponse{SessionId: sess.id, Outcome: sess.outcome}, nil
}

func (s *Server) setDetails(id, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.details = details
	}
}

func (s *Server) returnURL(id string, cancelled bool) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	target := sess.successURL
	if cancelled {
		target = sess.cancelURL
	}
	return strings.ReplaceAll(target, domain.SessionIDPlaceholder, url.QueryEscape(sess.id)), true
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
