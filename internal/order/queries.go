package order

import (
	"context"

	"gorm.io/gorm"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
)

// createOrder persists an order and its items in one transaction.
func createOrder(ctx context.Context, db *gorm.DB, o *models.Order) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

// findOrderByID loads an order with its items. Returns gorm.ErrRecordNotFound
// when the order does not exist.
func findOrderByID(ctx context.Context, db *gorm.DB, orderID int64) (*models.Order, error) {
	var o models.Order
	err := db.WithContext(ctx).
		Preload("Items").
		First(&o, "order_id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// findOrdersByUser returns a user's orders, newest first.
func findOrdersByUser(ctx context.Context, db *gorm.DB, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

// findAllOrders returns every order in the system.
func findAllOrders(ctx context.Context, db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

// updateOrderStatus persists a status change.
func updateOrderStatus(ctx context.Context, db *gorm.DB, orderID int64, status string) error {
	return db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

// countOrders returns the total order count.
func countOrders(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// countOrdersByStatus returns the order count for one status.
func countOrdersByStatus(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
