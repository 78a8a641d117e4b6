package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/catalog"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
)

type fakeCatalog struct {
	items map[int64]*catalog.MenuItem
}

func (f *fakeCatalog) GetMenuItem(ctx context.Context, itemID int64) (*catalog.MenuItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return item, nil
}

type fakePublisher struct {
	err     error
	queues  []string
	headers []amqp.Table
	bodies  [][]byte
}

func (p *fakePublisher) Publish(queue string, headers amqp.Table, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.queues = append(p.queues, queue)
	p.headers = append(p.headers, headers)
	p.bodies = append(p.bodies, body)
	return nil
}

func testBus() *config.BusConfig {
	return &config.BusConfig{
		OrderEvents:          "order-events",
		NotificationRequests: "notification-requests",
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newTestService(t *testing.T, items map[int64]*catalog.MenuItem, pub *fakePublisher) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewService(db, &fakeCatalog{items: items}, pub, testBus(), zap.NewNop())
	return svc, mock
}

func margheritaCatalog() map[int64]*catalog.MenuItem {
	return map[int64]*catalog.MenuItem{
		3: {
			ItemID:       3,
			Name:         "Margherita",
			Price:        decimal.RequireFromString("9.50"),
			Available:    true,
			CategoryName: "Pizza",
		},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, mock := newTestService(t, margheritaCatalog(), pub)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	o, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:          42,
		Items:           []OrderItemRequest{{MenuItemID: 3, Quantity: 2}},
		DeliveryMode:    "",
		DeliveryAddress: "1 Via Roma",
	})
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Equal(t, models.DeliveryModeDelivery, o.DeliveryMode)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("19.00")), "total %s", o.TotalAmount)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "Margherita", o.Items[0].ItemName)
	assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("9.50")))
	assert.True(t, o.Items[0].TotalPrice.Equal(decimal.RequireFromString("19.00")))

	// Exactly one ORDER_CREATED event, with routing metadata in the headers.
	require.Len(t, pub.queues, 1)
	assert.Equal(t, "order-events", pub.queues[0])
	assert.Equal(t, models.EventTypeOrderCreated, pub.headers[0][models.HeaderEventType])
	assert.Equal(t, "1", pub.headers[0][models.HeaderOrderID])
	assert.Equal(t, "42", pub.headers[0][models.HeaderUserID])
	assert.Equal(t, models.SourceOrderService, pub.headers[0][models.HeaderSource])

	var event models.OrderEvent
	require.NoError(t, json.Unmarshal(pub.bodies[0], &event))
	assert.Regexp(t, `^EVT-1-\d+$`, event.EventID)
	assert.Equal(t, models.EventTypeOrderCreated, event.EventType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		req  CreateOrderRequest
	}{
		{
			name: "missing user",
			req: CreateOrderRequest{
				Items: []OrderItemRequest{{MenuItemID: 3, Quantity: 1}},
			},
		},
		{
			name: "no items",
			req:  CreateOrderRequest{UserID: 42},
		},
		{
			name: "zero quantity",
			req: CreateOrderRequest{
				UserID: 42,
				Items:  []OrderItemRequest{{MenuItemID: 3, Quantity: 0}},
			},
		},
		{
			name: "unknown delivery mode",
			req: CreateOrderRequest{
				UserID:       42,
				Items:        []OrderItemRequest{{MenuItemID: 3, Quantity: 1}},
				DeliveryMode: "TELEPORT",
			},
		},
		{
			name: "unknown menu item",
			req: CreateOrderRequest{
				UserID: 42,
				Items:  []OrderItemRequest{{MenuItemID: 99, Quantity: 1}},
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pub := &fakePublisher{}
			svc, mock := newTestService(t, margheritaCatalog(), pub)

			o, err := svc.CreateOrder(context.Background(), tc.req)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, errs.ErrValidation)

			// Nothing persisted, nothing published.
			assert.Empty(t, pub.queues)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateOrderUnavailableItem(t *testing.T) {
	t.Parallel()

	items := margheritaCatalog()
	items[3].Available = false

	pub := &fakePublisher{}
	svc, mock := newTestService(t, items, pub)

	o, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: 42,
		Items:  []OrderItemRequest{{MenuItemID: 3, Quantity: 1}},
	})
	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, pub.queues)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A bus outage must never fail an order that already committed.
func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("broker gone")}
	svc, mock := newTestService(t, margheritaCatalog(), pub)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	o, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID: 42,
		Items:  []OrderItemRequest{{MenuItemID: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func orderRow(orderID, userID int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"order_id", "user_id", "total_amount", "status", "delivery_mode", "delivery_address", "order_date",
	}).AddRow(orderID, userID, "19.00", status, "DELIVERY", "", time.Now())
}

func emptyItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"order_item_id", "order_id", "menu_item_id", "item_name", "quantity", "price", "total_price",
	})
}

func TestGetOrderByIDNotFound(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, mock := newTestService(t, nil, pub)

	mock.ExpectQuery(`SELECT .* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	o, err := svc.GetOrderByID(context.Background(), 404)
	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, mock := newTestService(t, nil, pub)

	mock.ExpectQuery(`SELECT .* FROM "orders"`).
		WillReturnRows(orderRow(1, 42, models.OrderStatusPending))
	mock.ExpectQuery(`SELECT .* FROM "order_items"`).
		WillReturnRows(emptyItemRows())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o, err := svc.UpdateOrderStatus(context.Background(), 1, "delivered")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, o.Status)

	require.Len(t, pub.queues, 1)
	assert.Equal(t, "order-events", pub.queues[0])
	assert.Equal(t, models.EventTypeOrderDelivered, pub.headers[0][models.HeaderEventType])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusUnknownToken(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, mock := newTestService(t, nil, pub)

	o, err := svc.UpdateOrderStatus(context.Background(), 1, "SHIPPED")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, pub.queues)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStatistics(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, mock := newTestService(t, nil, pub)

	// Per-status counts run in map iteration order.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(10)))
	for status, n := range map[string]int64{
		models.OrderStatusPending:   4,
		models.OrderStatusConfirmed: 3,
		models.OrderStatusDelivered: 2,
		models.OrderStatusCancelled: 1,
	} {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE status`).
			WithArgs(status).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}

	stats, err := svc.OrderStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		"totalOrders":     10,
		"pendingOrders":   4,
		"confirmedOrders": 3,
		"deliveredOrders": 2,
		"cancelledOrders": 1,
	}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishNotificationRequest(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	svc, mock := newTestService(t, nil, pub)

	svc.PublishNotificationRequest(17, 42, "your pizza left the oven", "")

	require.Len(t, pub.queues, 1)
	assert.Equal(t, "notification-requests", pub.queues[0])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(pub.bodies[0], &payload))
	assert.Equal(t, models.EventTypeDirectNotification, payload["eventType"])
	assert.Equal(t, "17", payload["orderId"])
	assert.Equal(t, "42", payload["userId"])
	assert.Equal(t, "your pizza left the oven", payload["message"])
	assert.Equal(t, models.DefaultChannel, payload["channel"])

	assert.NoError(t, mock.ExpectationsWereMet())
}
