package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	apptrade "github.com/phonestore/backend/internal/application/trade"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	newOrder := func(t *testing.T, f *shopFixture) *trade.Order {
		order, err := trade.NewOrder(f.customer.ID, f.address.ID, decimal.Zero, trade.PaymentCashOnDelivery, "", time.Now().UTC())
		require.NoError(t, err)
		colorID := f.color.ID
		order.AddDetail(trade.NewOrderDetail(f.product.ID, &colorID, 3, f.product.Price))
		order.RecalculateTotal()
		return order
	}

	t.Run("commits on success", func(t *testing.T) {
		f := newShopFixture(t)
		ctx := context.Background()
		scope := NewGormTransactionScope(f.db)
		order := newOrder(t, f)

		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			ok, err := repos.ProductRepo().DecrementStock(ctx, f.product.ID, 3)
			if err != nil || !ok {
				return errors.New("stock not reserved")
			}
			return repos.OrderRepo().Create(ctx, order)
		})
		require.NoError(t, err)

		product, err := NewGormProductRepository(f.db).FindByID(ctx, f.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, product.Stock)

		_, err = NewGormOrderRepository(f.db).FindByID(ctx, order.ID)
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		f := newShopFixture(t)
		ctx := context.Background()
		scope := NewGormTransactionScope(f.db)
		order := newOrder(t, f)
		boom := errors.New("warranty issuance failed")

		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			if _, err := repos.ProductRepo().DecrementStock(ctx, f.product.ID, 3); err != nil {
				return err
			}
			if err := repos.OrderRepo().Create(ctx, order); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		product, err := NewGormProductRepository(f.db).FindByID(ctx, f.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, product.Stock)

		count, err := NewGormOrderRepository(f.db).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
