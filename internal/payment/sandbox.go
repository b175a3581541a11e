package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Sandbox is an in-memory gateway used when no payment API is configured.
type Sandbox struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewSandbox() *Sandbox {
	return &Sandbox{intents: make(map[string]*Intent)}
}

func (s *Sandbox) CreateIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	if req.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	intent := &Intent{
		Ref:          "pi_" + id,
		ClientSecret: "pi_" + id + "_secret",
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		Status:       "requires_payment_method",
	}
	s.intents[intent.Ref] = intent
	cp := *intent
	return &cp, nil
}

func (s *Sandbox) UpdateIntent(_ context.Context, ref string, amountMinor int64) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[ref]
	if !ok {
		return nil, ErrIntentNotFound
	}
	intent.AmountMinor = amountMinor
	cp := *intent
	return &cp, nil
}
