package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"gorm.io/gorm"
)

func intPtr(v int64) *int64 { return &v }

func TestCreateOrder_ComputesTotalsAndSnapshots(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "totals", false, false)
	burger := createTestProduct(t, ts.db, est.ID, "Burger", 2500, true)
	soda := createTestProduct(t, ts.db, est.ID, "Soda", 700, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@totals.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: burger.ID, Quantity: 2, Note: "no onions"},
			{ProductID: soda.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2*2500+3*700), order.TotalCents)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	assert.Equal(t, int64(0), order.PaidCents)
	assert.Nil(t, order.ClosedAt)
	assert.NotEmpty(t, order.Code)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Burger", order.Items[0].ProductName)
	assert.Equal(t, int64(2500), order.Items[0].UnitPriceCents)
	assert.Equal(t, "no onions", order.Items[0].Note)

	// A later catalog price change must not touch the snapshot.
	require.NoError(t, ts.db.Model(burger).Update("price_cents", 9900).Error)
	reloaded, err := ts.orders.GetByID(est.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), reloaded.Items[0].UnitPriceCents)
	assert.Equal(t, int64(2*2500+3*700), reloaded.TotalCents)
}

func TestCreateOrder_Validation(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "validation", false, false)
	other := createTestEstablishment(t, ts.db, "other", false, false)
	active := createTestProduct(t, ts.db, est.ID, "Active", 1000, true)
	inactive := createTestProduct(t, ts.db, est.ID, "Inactive", 1000, false)
	foreign := createTestProduct(t, ts.db, other.ID, "Foreign", 1000, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@validation.test", models.RoleCashier)

	tests := []struct {
		name  string
		items []OrderItemInput
	}{
		{"empty item list", nil},
		{"zero quantity", []OrderItemInput{{ProductID: active.ID, Quantity: 0}}},
		{"inactive product", []OrderItemInput{{ProductID: inactive.ID, Quantity: 1}}},
		{"product of another establishment", []OrderItemInput{{ProductID: foreign.ID, Quantity: 1}}},
		{"unknown product", []OrderItemInput{{ProductID: 99999, Quantity: 1}}},
		{"one good one bad fails whole order", []OrderItemInput{
			{ProductID: active.ID, Quantity: 1},
			{ProductID: inactive.ID, Quantity: 1},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{Items: tc.items})
			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)

			// No partial writes.
			var count int64
			ts.db.Model(&models.Order{}).Where("establishment_id = ?", est.ID).Count(&count)
			assert.Equal(t, int64(0), count)
		})
	}
}

func TestCreateOrder_InactiveEstablishment(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "closed-shop", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Item", 1000, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@closed.test", models.RoleCashier)
	require.NoError(t, ts.db.Model(est).Update("active", false).Error)

	_, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCreateOrder_SpawnsKitchenTicket(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "kitchen-on", true, false)
	p := createTestProduct(t, ts.db, est.ID, "Pasta", 2500, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@kitchen.test", models.RoleCashier)

	first, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, first.Ticket)
	assert.Equal(t, models.TicketStatusQueue, first.Ticket.Status)
	assert.Equal(t, 1, first.Ticket.TicketNumber)
	assert.Equal(t, int64(5000), first.TotalCents)

	second, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, second.Ticket)
	assert.Equal(t, 2, second.Ticket.TicketNumber)

	// Ticket numbering is per establishment.
	est2 := createTestEstablishment(t, ts.db, "kitchen-two", true, false)
	p2 := createTestProduct(t, ts.db, est2.ID, "Pizza", 3000, true)
	user2 := createTestUser(t, ts.db, est2.ID, "cashier@kitchen2.test", models.RoleCashier)
	o2, err := ts.orders.Create(est2.ID, &user2.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p2.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, o2.Ticket)
	assert.Equal(t, 1, o2.Ticket.TicketNumber)
}

func TestCreateOrder_NoTicketWithoutKitchen(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "no-kitchen", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Coffee", 500, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@nokitchen.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Nil(t, order.Ticket)
}

func TestCreateOrder_PayNow(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "paynow", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Combo", 3500, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@paynow.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		PayNow:        true,
		PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, int64(3500), order.PaidCents)
	assert.NotNil(t, order.ClosedAt)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, models.PaymentMethodCard, order.Payments[0].Method)
	assert.Equal(t, int64(3500), order.Payments[0].AmountCents)

	_, err = ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		PayNow:        true,
		PaymentMethod: "check",
	})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestApplyPayment_PartialThenPaid(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "settle", true, false)
	p := createTestProduct(t, ts.db, est.ID, "Steak", 2500, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@settle.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5000), order.TotalCents)

	order, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodCash, intPtr(2000), &user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, order.PaymentStatus)
	assert.Equal(t, int64(2000), order.PaidCents)
	assert.Nil(t, order.ClosedAt)

	order, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodPix, intPtr(3000), &user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, int64(5000), order.PaidCents)
	assert.NotNil(t, order.ClosedAt)
	assert.Len(t, order.Payments, 2)

	// Status axis is untouched by financial settlement.
	assert.Equal(t, models.OrderStatusOpen, order.Status)
}

func TestApplyPayment_AlreadyPaid(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "alreadypaid", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Juice", 800, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@paid.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		PayNow:        true,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodCash, intPtr(100), &user.ID)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Error(), "already paid")

	// No ledger entry was written by the rejected attempt.
	var count int64
	ts.db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApplyPayment_CanceledOrder(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "cancelpay", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Wrap", 1200, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@cancel.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = ts.orders.UpdateStatus(est.ID, order.ID, models.OrderStatusCanceled, &user.ID)
	require.NoError(t, err)

	_, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodCash, nil, &user.ID)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestApplyPayment_DefaultAmountIsFullTotal(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "defaultamt", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Platter", 5000, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@default.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Omitted amount settles the order total, not the remaining balance:
	// a partially paid order ends up over-collected.
	order, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodCash, intPtr(1500), &user.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPartial, order.PaymentStatus)

	order, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodCash, nil, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, int64(1500+5000), order.PaidCents)
	assert.NotNil(t, order.ClosedAt)
}

func TestApplyPayment_ConcurrentPaymentConflict(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "race", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Platter", 5000, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@race.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Simulate a second cashier landing between the read and the guarded
	// update: bump paid_cents right before the order row is written, so the
	// guard compares against a stale value.
	fired := false
	err = ts.db.Callback().Update().Before("gorm:update").Register("concurrent_cashier", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "orders" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE orders SET paid_cents = paid_cents + 100 WHERE id = ?", order.ID)
	})
	require.NoError(t, err)
	defer ts.db.Callback().Update().Remove("concurrent_cashier")

	_, err = ts.orders.ApplyPayment(est.ID, order.ID, models.PaymentMethodCash, intPtr(2000), &user.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.True(t, fired, "the simulated concurrent write never ran")

	// The losing payment rolled back whole: no ledger entry survives.
	var payments int64
	ts.db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&payments)
	assert.Equal(t, int64(0), payments)

	reloaded, err := ts.orders.GetByID(est.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusUnpaid, reloaded.PaymentStatus)
}

func TestApplyPayment_Scoping(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "scope-a", false, false)
	other := createTestEstablishment(t, ts.db, "scope-b", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Dish", 1000, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@scope.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	var notFound *NotFoundError
	_, err = ts.orders.ApplyPayment(other.ID, order.ID, models.PaymentMethodCash, nil, &user.ID)
	assert.ErrorAs(t, err, &notFound)

	_, err = ts.orders.ApplyPayment(est.ID, 99999, models.PaymentMethodCash, nil, &user.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "lifecycle", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Tea", 400, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@lifecycle.test", models.RoleCashier)

	order, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	order, err = ts.orders.UpdateStatus(est.ID, order.ID, models.OrderStatusClosed, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusClosed, order.Status)
	assert.NotNil(t, order.ClosedAt)

	// Reopening clears the close timestamp. There is no adjacency table on
	// this axis; any known status is reachable from any other.
	order, err = ts.orders.UpdateStatus(est.ID, order.ID, models.OrderStatusOpen, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Nil(t, order.ClosedAt)

	order, err = ts.orders.UpdateStatus(est.ID, order.ID, models.OrderStatusCanceled, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, order.Status)

	_, err = ts.orders.UpdateStatus(est.ID, order.ID, "archived", &user.ID)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCreatePublicOrder(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "online", true, true)
	p := createTestProduct(t, ts.db, est.ID, "Acai", 1800, true)
	name := "Walk-in Customer"

	order, err := ts.orders.CreatePublic("online", CreateOrderInput{
		Items:        []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		CustomerName: &name,
	})
	require.NoError(t, err)
	assert.Nil(t, order.CreatedByID)
	require.NotNil(t, order.CustomerName)
	assert.Equal(t, name, *order.CustomerName)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	require.NotNil(t, order.Ticket)
	assert.Equal(t, models.TicketStatusQueue, order.Ticket.Status)
}

func TestCreatePublicOrder_OnlineOrderingDisabled(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "offline", false, false)
	p := createTestProduct(t, ts.db, est.ID, "Valid Item", 1000, true)

	// Fails with not-found even though the items are perfectly valid.
	_, err := ts.orders.CreatePublic("offline", CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = ts.orders.CreatePublic("no-such-slug", CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateOrder_PublishesEvents(t *testing.T) {
	ts := setupServices(t)
	est := createTestEstablishment(t, ts.db, "events", true, false)
	p := createTestProduct(t, ts.db, est.ID, "Soup", 900, true)
	user := createTestUser(t, ts.db, est.ID, "cashier@events.test", models.RoleCashier)

	_, err := ts.orders.Create(est.ID, &user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	events := ts.hub.Recent(est.ID)
	require.Len(t, events, 2)
	assert.Equal(t, realtime.EventOrderCreated, events[0].Type)
	assert.Equal(t, realtime.EventTicketCreated, events[1].Type)
}
