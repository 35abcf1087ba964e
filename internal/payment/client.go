package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/pkg/paymentpb"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// healthCheckSession never exists; a NotFound answer proves the provider is up.
const healthCheckSession = "health-check"

// Client adapts the provider's gRPC API to the storefront. Calls are never retried;
// a breaker fails fast once the provider keeps failing at the transport level.
type Client struct {
	api           paymentpb.PaymentProviderClient
	timeout       time.Duration
	createBreaker *circuitbreaker.Breaker[*paymentpb.CreateCheckoutSessionResponse]
	statusBreaker *circuitbreaker.Breaker[*paymentpb.GetSessionStatusResponse]
}

func NewClient(api paymentpb.PaymentProviderClient, timeout time.Duration, cfg circuitbreaker.Config, log zerolog.Logger) *Client {
	cfg.IsFailure = isTransportFailure
	return &Client{
		api:           api,
		timeout:       timeout,
		createBreaker: circuitbreaker.New[*paymentpb.CreateCheckoutSessionResponse]("payment-create-session", cfg, log),
		statusBreaker: circuitbreaker.New[*paymentpb.GetSessionStatusResponse]("payment-session-status", cfg, log),
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, items []domain.LineItem, returns domain.ReturnTargets) (*domain.CheckoutSession, error) {
	req := &paymentpb.CreateCheckoutSessionRequest{
		LineItems:  make([]*paymentpb.LineItem, 0, len(items)),
		SuccessUrl: returns.SuccessURL,
		CancelUrl:  returns.CancelURL,
	}
	for _, it := range items {
		req.LineItems = append(req.LineItems, &paymentpb.LineItem{
			ProductId:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			UnitAmount:  it.UnitPriceCents,
			Quantity:    it.Quantity,
			Currency:    it.Currency,
		})
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.createBreaker.Do(func() (*paymentpb.CreateCheckoutSessionResponse, error) {
		resp, err := c.api.CreateCheckoutSession(callCtx, req)
		return resp, blameCaller(ctx, err)
	})
	if err != nil {
		return nil, mapError("create checkout session", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty create session response", domain.ErrProviderResponseInvalid)
	}
	return &domain.CheckoutSession{SessionID: resp.SessionId, RedirectURL: resp.Url}, nil
}

func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*domain.ProviderStatus, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.statusBreaker.Do(func() (*paymentpb.GetSessionStatusResponse, error) {
		resp, err := c.api.GetSessionStatus(callCtx, &paymentpb.GetSessionStatusRequest{SessionId: sessionID})
		return resp, blameCaller(ctx, err)
	})
	if err != nil {
		return nil, mapError("get session status", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty session status response", domain.ErrProviderResponseInvalid)
	}
	return &domain.ProviderStatus{
		SessionID:   resp.SessionId,
		Outcome:     resp.Outcome,
		CustomerRef: resp.CustomerRef,
		Details:     resp.Details,
	}, nil
}

// Ping reports whether the provider answers at all.
func (c *Client) Ping(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	_, err := c.api.GetSessionStatus(callCtx, &paymentpb.GetSessionStatusRequest{SessionId: healthCheckSession})
	if err == nil || status.Code(err) == codes.NotFound {
		return nil
	}
	return mapError("ping", err)
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if rid := logger.RequestID(ctx); rid != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "request-id", rid)
	}
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func mapError(op string, err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("%w: %s: %w", domain.ErrProviderUnavailable, op, err)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %s: %w", domain.ErrProviderUnavailable, op, err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", domain.ErrValidation, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", domain.ErrProviderUnavailable, op, st.Message())
	}
}

// callerGone marks a failure that happened after the caller's own context ended.
type callerGone struct {
	err error
}

func (e callerGone) Error() string { return e.err.Error() }
func (e callerGone) Unwrap() error { return e.err }

func blameCaller(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return callerGone{err: err}
	}
	return err
}

// isTransportFailure keeps rejected and abandoned requests from tripping the breaker.
func isTransportFailure(err error) bool {
	var gone callerGone
	if errors.As(err, &gone) {
		return false
	}
	switch status.Code(err) {
	case codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition, codes.AlreadyExists:
		return false
	default:
		return true
	}
}
