package poller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClearer struct {
	sessions []string
	current  string
	err      error
}

func (m *mockClearer) ClearIfSession(_ context.Context, sessionID string) (bool, error) {
	m.sessions = append(m.sessions, sessionID)
	if m.err != nil {
		return false, m.err
	}
	return sessionID == m.current, nil
}

type mockReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool
}

func (m *mockReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.messages) == 0 {
		m.mu.Unlock()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	m.mu.Unlock()
	return msg, nil
}

func (m *mockReader) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *mockReader) Close() error {
	m.closed = true
	return nil
}

func event(t *testing.T, status domain.OrderStatus, session string) []byte {
	t.Helper()
	b, err := json.Marshal(domain.OrderEvent{
		EventType:          domain.OrderStatusChangedEvent,
		OrderID:            "o1",
		UserRef:            "u1",
		Status:             status,
		CheckoutSessionRef: session,
		OccurredAt:         time.Now(),
	})
	require.NoError(t, err)
	return b
}

func TestHandle_PaidClearsMatchingSession(t *testing.T) {
	c := &mockClearer{current: "s1"}
	p := &Poller{cart: c, log: zerolog.Nop()}

	require.NoError(t, p.handle(context.Background(), event(t, domain.OrderStatusPaid, "s1")))
	assert.Equal(t, []string{"s1"}, c.sessions)
}

func TestHandle_CancelledIgnored(t *testing.T) {
	c := &mockClearer{current: "s1"}
	p := &Poller{cart: c, log: zerolog.Nop()}

	require.NoError(t, p.handle(context.Background(), event(t, domain.OrderStatusCancelled, "s1")))
	assert.Empty(t, c.sessions)
}

func TestHandle_InvalidPayload(t *testing.T) {
	p := &Poller{cart: &mockClearer{}, log: zerolog.Nop()}

	err := p.handle(context.Background(), []byte("{not json"))
	assert.ErrorContains(t, err, "parse order event")
}

func TestHandle_MissingSession(t *testing.T) {
	c := &mockClearer{}
	p := &Poller{cart: c, log: zerolog.Nop()}

	assert.Error(t, p.handle(context.Background(), event(t, domain.OrderStatusPaid, "")))
	assert.Empty(t, c.sessions)
}

func TestHandle_ClearError(t *testing.T) {
	c := &mockClearer{current: "s1", err: errors.New("disk full")}
	p := &Poller{cart: c, log: zerolog.Nop()}

	err := p.handle(context.Background(), event(t, domain.OrderStatusPaid, "s1"))
	assert.ErrorContains(t, err, "disk full")
}

func TestRun_ConsumesUntilCancelled(t *testing.T) {
	c := &mockClearer{current: "s2"}
	r := &mockReader{messages: []kafka.Message{
		{Key: []byte("o1"), Value: event(t, domain.OrderStatusPaid, "s1")},
		{Key: []byte("o2"), Value: []byte("garbage")},
		{Key: []byte("o3"), Value: event(t, domain.OrderStatusPaid, "s2")},
	}}
	p := &Poller{cart: c, reader: r, log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.pending() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	p.Close()

	assert.Equal(t, []string{"s1", "s2"}, c.sessions)
	assert.True(t, r.closed)
}
