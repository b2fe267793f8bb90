package repository

import (
	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id string) (*model.Order, error)
	FindByOrderID(orderID string) (*model.Order, error)
	OrderIDExists(orderID string) (bool, error)
	List(status *model.OrderStatus, page Page) ([]model.Order, int64, error)
	ListAll(status *model.OrderStatus) ([]model.Order, error)
	UpdateStatus(order *model.Order) error
	Delete(id string) error
	CountByStatus(statuses ...model.OrderStatus) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_id":     order.OrderID,
		"total_amount": order.TotalAmount,
		"item_count":   order.ItemCount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_id":     order.OrderID,
			"total_amount": order.TotalAmount,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"id":       order.ID,
		"order_id": order.OrderID,
	})
	return nil
}

func (r *orderRepository) FindByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderID(orderID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) OrderIDExists(orderID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) scoped(status *model.OrderStatus) *gorm.DB {
	query := r.db.Model(&model.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query
}

func (r *orderRepository) List(status *model.OrderStatus, page Page) ([]model.Order, int64, error) {
	var total int64
	if err := r.scoped(status).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders", err)
		return nil, 0, err
	}

	var orders []model.Order
	if err := page.apply(r.scoped(status).Order("created_at DESC, id ASC")).Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders", err)
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListAll(status *model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	if err := r.scoped(status).Order("created_at DESC, id ASC").Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders for export", err)
		return nil, err
	}
	return orders, nil
}

// UpdateStatus persists status and the lifecycle timestamps of order.
func (r *orderRepository) UpdateStatus(order *model.Order) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"id":     order.ID,
		"status": order.Status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", order.ID).
		Select("status", "received_at", "delivered_at", "updated_at").
		Updates(order)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"id":     order.ID,
			"status": order.Status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Delete(id string) error {
	result := r.db.Delete(&model.Order{}, "id = ?", id)
	if result.Error != nil {
		logger.Error("Failed to delete order", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) CountByStatus(statuses ...model.OrderStatus) (int64, error) {
	var count int64
	query := r.db.Model(&model.Order{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}
