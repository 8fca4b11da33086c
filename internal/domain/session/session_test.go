package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSession_SignInAndOut(t *testing.T) {
	s := New()
	s.Saved()
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsDirty())

	id := uuid.New()
	s.SignIn(id, "An")
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsDirty())
	assert.Equal(t, &id, s.CustomerID)

	s.Cart.Add(uuid.New(), "Phone", decimal.NewFromInt(10), 1, "")
	s.SignOut()
	assert.False(t, s.IsAuthenticated())
	assert.True(t, s.Cart.IsEmpty())
}

func TestSession_EnsureCart(t *testing.T) {
	s := &Session{}
	s.EnsureCart()
	assert.NotNil(t, s.Cart)
	assert.NotNil(t, s.Cart.Items)
}
