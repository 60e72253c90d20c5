package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"
	"ecoshop/internal/usecase"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type orderFixture struct {
	tx         *fakeTxManager
	txRepos    *fakeTxRepos
	orders     *MockOrderRepository
	orderItems *MockOrderItemRepository
	addresses  *MockAddressRepository
	profiles   *MockProfileRepository
	uc         *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		txRepos: &fakeTxRepos{
			orders:     new(MockOrderRepository),
			orderItems: new(MockOrderItemRepository),
			addresses:  new(MockAddressRepository),
			outbox:     new(MockOutboxRepository),
		},
		orders:     new(MockOrderRepository),
		orderItems: new(MockOrderItemRepository),
		addresses:  new(MockAddressRepository),
		profiles:   new(MockProfileRepository),
	}
	f.tx = &fakeTxManager{repos: f.txRepos}
	f.uc = usecase.NewOrderUsecase(f.tx, f.orders, f.orderItems, f.addresses, f.profiles, fixedClock{t: testNow}, discardLogger())
	return f
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validOrderInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		UserID:        5,
		TotalAmount:   dec("59.98"),
		PaymentMethod: "card",
		Status:        "pending",
		AddressID:     9,
		Items: []usecase.OrderItemInput{
			{ProductID: "p1", Quantity: 2, Price: dec("29.99")},
		},
	}
}

func TestCreateOrder_WritesOrderItemsAndOutbox(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	in := validOrderInput()
	in.Items = append(in.Items, usecase.OrderItemInput{ProductID: "42", Quantity: 1, Price: dec("0")})

	f.txRepos.addresses.On("IsOwnedByUser", ctx, int64(9), int64(5)).Return(true, nil)
	f.txRepos.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 5 && o.AddressID == 9 && o.TotalAmount.Equal(decimal.RequireFromString("59.98")) &&
			o.PaymentMethod == "card" && o.Status == "pending" && o.OrderDate.Equal(testNow)
	})).Return(int64(77), nil)

	var gotItems []model.OrderItem
	f.txRepos.orderItems.On("CreateBulk", ctx, int64(77), mock.Anything).
		Run(func(args mock.Arguments) { gotItems = args.Get(2).([]model.OrderItem) }).
		Return(nil)

	var gotEvent model.OutboxEvent
	f.txRepos.outbox.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { gotEvent = args.Get(1).(model.OutboxEvent) }).
		Return(nil)

	id, err := f.uc.CreateOrder(ctx, 5, in)
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	assert.Equal(t, 1, f.tx.calls)

	want := []model.OrderItem{
		{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("29.99")},
		{ProductID: "42", Quantity: 1, Price: decimal.Zero},
	}
	if diff := cmp.Diff(want, gotItems, decimalEqual); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, int64(77), gotEvent.AggregateID)
	assert.Equal(t, model.EventOrderCreated, gotEvent.EventType)
	assert.Equal(t, model.OutboxStatusNew, gotEvent.Status)

	var payload usecase.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(gotEvent.Payload, &payload))
	assert.Equal(t, int64(77), payload.OrderID)
	assert.Equal(t, 2, payload.ItemCount)
	assert.True(t, payload.TotalAmount.Equal(decimal.RequireFromString("59.98")))
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *usecase.CreateOrderInput)
		status int
	}{
		{"empty items", func(in *usecase.CreateOrderInput) { in.Items = nil }, http.StatusBadRequest},
		{"missing total", func(in *usecase.CreateOrderInput) { in.TotalAmount = nil }, http.StatusBadRequest},
		{"negative total", func(in *usecase.CreateOrderInput) { in.TotalAmount = dec("-1") }, http.StatusBadRequest},
		{"long payment method", func(in *usecase.CreateOrderInput) { in.PaymentMethod = "creditcard!" }, http.StatusBadRequest},
		{"empty status", func(in *usecase.CreateOrderInput) { in.Status = " " }, http.StatusBadRequest},
		{"zero quantity", func(in *usecase.CreateOrderInput) { in.Items[0].Quantity = 0 }, http.StatusBadRequest},
		{"missing price", func(in *usecase.CreateOrderInput) { in.Items[0].Price = nil }, http.StatusBadRequest},
		{"price with three decimals", func(in *usecase.CreateOrderInput) { in.Items[0].Price = dec("29.999") }, http.StatusBadRequest},
		{"total too large", func(in *usecase.CreateOrderInput) { in.TotalAmount = dec("10000000000") }, http.StatusBadRequest},
		{"total with three decimals", func(in *usecase.CreateOrderInput) { in.TotalAmount = dec("59.981") }, http.StatusBadRequest},
		{"long product id", func(in *usecase.CreateOrderInput) {
			in.Items[0].ProductID = "0123456789012345678901234567890123456"
		}, http.StatusBadRequest},
		{"missing address", func(in *usecase.CreateOrderInput) { in.AddressID = 0 }, http.StatusBadRequest},
		{"other user", func(in *usecase.CreateOrderInput) { in.UserID = 6 }, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			in := validOrderInput()
			tt.mutate(&in)

			_, err := f.uc.CreateOrder(context.Background(), 5, in)
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, he.Status)
			assert.Equal(t, 0, f.tx.calls)
		})
	}
}

func TestCreateOrder_ForeignAddress(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.txRepos.addresses.On("IsOwnedByUser", ctx, int64(9), int64(5)).Return(false, nil)

	_, err := f.uc.CreateOrder(ctx, 5, validOrderInput())
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "invalid address_id", he.Message)
	f.txRepos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_ItemFailureAborts(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.txRepos.addresses.On("IsOwnedByUser", ctx, int64(9), int64(5)).Return(true, nil)
	f.txRepos.orders.On("Create", ctx, mock.Anything).Return(int64(1), nil)
	f.txRepos.orderItems.On("CreateBulk", ctx, int64(1), mock.Anything).Return(errors.New("value too long"))

	_, err := f.uc.CreateOrder(ctx, 5, validOrderInput())
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "failed to create order", he.Message)
	f.txRepos.outbox.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListUserOrders_NoProfile(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.profiles.On("FindByUserID", ctx, int64(5)).Return(model.Profile{}, repo.ErrNotFound)

	_, err := f.uc.ListUserOrders(ctx, 5)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestListUserOrders_AttachesItemsInOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	newer := testNow
	older := testNow.Add(-time.Hour)

	f.profiles.On("FindByUserID", ctx, int64(5)).Return(model.Profile{ID: "p", UserID: 5}, nil)
	f.orders.On("ListByUserID", ctx, int64(5)).Return([]model.Order{
		{ID: 2, UserID: 5, TotalAmount: decimal.RequireFromString("10"), OrderDate: newer},
		{ID: 1, UserID: 5, TotalAmount: decimal.RequireFromString("1999.99"), OrderDate: older},
	}, nil)
	f.orderItems.On("ListByOrderIDs", ctx, []int64{2, 1}).Return([]model.OrderItem{
		{ID: 10, OrderID: 1, ProductID: "a", Quantity: 1, Price: decimal.RequireFromString("1999.99")},
		{ID: 11, OrderID: 2, ProductID: "b", Quantity: 2, Price: decimal.RequireFromString("5")},
	}, nil)

	got, err := f.uc.ListUserOrders(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, "b", got[0].Items[0].ProductID)
	assert.Equal(t, "1999.99", got[1].TotalAmount.String())
}

func TestListUserOrders_EmptyIsNotNil(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.profiles.On("FindByUserID", ctx, int64(5)).Return(model.Profile{UserID: 5}, nil)
	f.orders.On("ListByUserID", ctx, int64(5)).Return([]model.Order{}, nil)

	got, err := f.uc.ListUserOrders(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	f.orderItems.AssertNotCalled(t, "ListByOrderIDs", mock.Anything, mock.Anything)
}

func TestGetUserOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.orders.On("FindByIDForUser", ctx, int64(3), int64(5)).Return(model.Order{ID: 3, UserID: 5, AddressID: 9}, nil)
	f.orders.On("FindByIDForUser", ctx, int64(4), int64(5)).Return(model.Order{}, repo.ErrNotFound)
	f.orderItems.On("ListByOrderID", ctx, int64(3)).Return([]model.OrderItem{
		{ID: 1, OrderID: 3, ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("29.99")},
	}, nil)
	f.addresses.On("FindByIDForUser", ctx, int64(9), int64(5)).Return(model.Address{ID: 9, Label: "home"}, nil)

	got, err := f.uc.GetUserOrder(ctx, 5, 3)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Address)
	assert.Equal(t, "home", got.Address.Label)

	_, err = f.uc.GetUserOrder(ctx, 5, 4)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
