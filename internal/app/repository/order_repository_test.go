package repository

import (
	"testing"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrder(orderID string, created time.Time) *model.Order {
	return &model.Order{
		OrderID:         orderID,
		CustomerName:    "Test Customer",
		CustomerPhone:   "9800000000",
		CustomerEmail:   "buyer@example.com",
		ShippingAddress: "Baneshwor, Kathmandu",
		TotalAmount:     900,
		ItemCount:       2,
		Items: model.OrderItems{
			{ArtworkID: "art-1", Name: "Lotus", UnitPrice: 450, Quantity: 2, LineTotal: 900},
		},
		CreatedAt: created,
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)

	order := newOrder("CHT-1-AAAAA", baseTime)
	require.NoError(t, repo.Create(order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, model.OrderStatusPlaced, order.Status)

	found, err := repo.FindByOrderID("CHT-1-AAAAA")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 450.0, found.Items[0].UnitPrice)

	exists, err := repo.OrderIDExists("CHT-1-AAAAA")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_DuplicateOrderID(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)

	require.NoError(t, repo.Create(newOrder("CHT-1-AAAAA", baseTime)))
	assert.Error(t, repo.Create(newOrder("CHT-1-AAAAA", baseTime)))
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	order := newOrder("CHT-1-AAAAA", baseTime)
	require.NoError(t, repo.Create(order))

	received := baseTime.Add(time.Hour)
	order.Status = model.OrderStatusSeen
	order.ReceivedAt = &received
	require.NoError(t, repo.UpdateStatus(order))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusSeen, found.Status)
	require.NotNil(t, found.ReceivedAt)
	assert.True(t, found.ReceivedAt.Equal(received))
	assert.Nil(t, found.DeliveredAt)

	missing := newOrder("CHT-2-BBBBB", baseTime)
	missing.ID = "missing"
	assert.ErrorIs(t, repo.UpdateStatus(missing), gorm.ErrRecordNotFound)
}

func TestOrderRepository_ListCountDelete(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)

	first := newOrder("CHT-1-AAAAA", baseTime.Add(-time.Hour))
	second := newOrder("CHT-2-BBBBB", baseTime)
	second.Status = model.OrderStatusContacted
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	orders, total, err := repo.List(nil, NewPage(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, second.ID, orders[0].ID)

	placed := model.OrderStatusPlaced
	all, err := repo.ListAll(&placed)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)

	processing, err := repo.CountByStatus(model.OrderStatusSeen, model.OrderStatusContacted, model.OrderStatusSold)
	require.NoError(t, err)
	assert.Equal(t, int64(1), processing)

	require.NoError(t, repo.Delete(first.ID))
	assert.ErrorIs(t, repo.Delete(first.ID), gorm.ErrRecordNotFound)
	total, err = repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
