// Package session defines the request-scoped storefront session. Handlers
// receive the session explicitly; nothing reads it from ambient state.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/cart"
)

// Session is the server-side state behind the storefront session cookie
type Session struct {
	ID           string     `json:"id"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	Cart         *cart.Cart `json:"cart"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	dirty bool
}

// New creates an empty session with a fresh id
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Cart:      cart.New(),
		CreatedAt: now,
		UpdatedAt: now,
		dirty:     true,
	}
}

// IsAuthenticated reports whether a customer is signed in
func (s *Session) IsAuthenticated() bool {
	return s.CustomerID != nil
}

// SignIn binds the session to a customer
func (s *Session) SignIn(customerID uuid.UUID, name string) {
	s.CustomerID = &customerID
	s.CustomerName = name
	s.MarkDirty()
}

// SignOut forgets the customer and empties the cart
func (s *Session) SignOut() {
	s.CustomerID = nil
	s.CustomerName = ""
	s.Cart.Clear()
	s.MarkDirty()
}

// MarkDirty flags the session for saving at the end of the request
func (s *Session) MarkDirty() {
	s.dirty = true
	s.UpdatedAt = time.Now()
}

// IsDirty reports whether the session changed during the request
func (s *Session) IsDirty() bool {
	return s.dirty
}

// Saved clears the dirty flag after the store has persisted the session
func (s *Session) Saved() {
	s.dirty = false
}

// EnsureCart guarantees a non-nil cart after decoding
func (s *Session) EnsureCart() {
	if s.Cart == nil {
		s.Cart = cart.New()
	}
	if s.Cart.Items == nil {
		s.Cart.Items = []cart.Item{}
	}
}

// Store persists sessions between requests.
// Load returns shared.ErrNotFound for unknown or expired ids.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
