package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxPaymentMethodLen = 10
	maxStatusLen        = 20
	maxProductIDLen     = 36
)

// numeric(12,2)に収まる金額の上限（この値未満）
var maxAmount = decimal.New(1, 10)

// 小数2桁以内で列に収まるか。丸めて保存されないようにする
func validAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(maxAmount) && d.Equal(d.Truncate(2))
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
	Price     *decimal.Decimal
}

// チェックアウト内容（カートはクライアント側で組み立て済み）
type CreateOrderInput struct {
	UserID         int64
	TotalAmount    *decimal.Decimal
	PaymentMethod  string
	PaymentDetails *string
	Status         string
	AddressID      int64
	Items          []OrderItemInput
}

type OrderItemDTO struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderDTO struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails *string         `json:"payment_details"`
	Status         string          `json:"status"`
	OrderDate      time.Time       `json:"order_date"`
	AddressID      int64           `json:"address_id"`
	Address        *AddressDTO     `json:"address,omitempty"`
	Items          []OrderItemDTO  `json:"items"`
}

// outboxに書くorder.createdの中身
type OrderCreatedEvent struct {
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	ItemCount   int             `json:"item_count"`
	OrderDate   time.Time       `json:"order_date"`
}

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	addresses  repo.AddressRepository
	profiles   repo.ProfileRepository
	clock      Clock
	log        Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	addresses repo.AddressRepository,
	profiles repo.ProfileRepository,
	clock Clock,
	logger Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		addresses:  addresses,
		profiles:   profiles,
		clock:      clock,
		log:        logger,
	}
}

// 注文ヘッダ・明細・outboxイベントを1トランザクションで書く
func (u *OrderUsecase) CreateOrder(ctx context.Context, authUserID int64, in CreateOrderInput) (int64, error) {
	if authUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.Status = strings.TrimSpace(in.Status)
	if err := validateCreateOrder(in); err != nil {
		return 0, err
	}
	//他人名義の注文は作れない
	if in.UserID != authUserID {
		return 0, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	now := u.clock.Now()
	order := model.Order{
		UserID:         in.UserID,
		TotalAmount:    *in.TotalAmount,
		PaymentMethod:  in.PaymentMethod,
		PaymentDetails: in.PaymentDetails,
		Status:         in.Status,
		OrderDate:      now,
		AddressID:      in.AddressID,
	}
	items := lo.Map(in.Items, func(it OrderItemInput, _ int) model.OrderItem {
		return model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     *it.Price,
		}
	})

	var orderID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//address_idの所有チェック
		owned, err := r.Addresses().IsOwnedByUser(ctx, in.AddressID, in.UserID)
		if err != nil {
			return fmt.Errorf("check address: %w", err)
		}
		if !owned {
			return NewHTTPError(http.StatusBadRequest, "invalid address_id")
		}

		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		payload, err := json.Marshal(OrderCreatedEvent{
			OrderID:     id,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
			ItemCount:   len(items),
			OrderDate:   order.OrderDate,
		})
		if err != nil {
			return fmt.Errorf("marshal order event: %w", err)
		}
		if err := r.Outbox().Create(ctx, model.OutboxEvent{
			AggregateID: id,
			EventType:   model.EventOrderCreated,
			Payload:     payload,
			Status:      model.OutboxStatusNew,
		}); err != nil {
			return fmt.Errorf("create outbox event: %w", err)
		}

		orderID = id
		return nil
	})
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			return 0, he
		}
		//住所が同時に消された
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, NewHTTPError(http.StatusBadRequest, "invalid address_id")
		}
		u.log.Errorj(log.JSON{"msg": "create order failed", "user_id": in.UserID, "error": err.Error()})
		return 0, NewHTTPError(http.StatusInternalServerError, "failed to create order")
	}

	u.log.Infoj(log.JSON{"msg": "order created", "order_id": orderID, "user_id": in.UserID, "items": len(items)})
	return orderID, nil
}

// プロフィールが無いユーザーは404
func (u *OrderUsecase) ListUserOrders(ctx context.Context, userID int64) ([]OrderDTO, error) {
	if _, err := u.profiles.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, u.internal("find profile failed", userID, err)
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, u.internal("list orders failed", userID, err)
	}
	if len(orders) == 0 {
		return []OrderDTO{}, nil
	}

	ids := lo.Map(orders, func(o model.Order, _ int) int64 { return o.ID })
	items, err := u.orderItems.ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, u.internal("list order items failed", userID, err)
	}
	byOrder := lo.GroupBy(items, func(it model.OrderItem) int64 { return it.OrderID })

	return lo.Map(orders, func(o model.Order, _ int) OrderDTO {
		return toOrderDTO(o, byOrder[o.ID])
	}), nil
}

func (u *OrderUsecase) GetUserOrder(ctx context.Context, userID, orderID int64) (OrderDTO, error) {
	if orderID <= 0 {
		return OrderDTO{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	o, err := u.orders.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderDTO{}, NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return OrderDTO{}, u.internal("find order failed", userID, err)
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDTO{}, u.internal("list order items failed", userID, err)
	}
	out := toOrderDTO(o, items)

	addr, err := u.addresses.FindByIDForUser(ctx, o.AddressID, userID)
	switch {
	case err == nil:
		dto := toAddressDTO(addr)
		out.Address = &dto
	case errors.Is(err, repo.ErrNotFound):
	default:
		return OrderDTO{}, u.internal("find order address failed", userID, err)
	}
	return out, nil
}

func validateCreateOrder(in CreateOrderInput) error {
	bad := func(msg string) error { return NewHTTPError(http.StatusBadRequest, msg) }

	if in.UserID <= 0 {
		return bad("user_id is required")
	}
	if in.AddressID <= 0 {
		return bad("address_id is required")
	}
	if in.TotalAmount == nil {
		return bad("total_amount is required")
	}
	if !validAmount(*in.TotalAmount) {
		return bad("invalid total_amount")
	}
	if in.PaymentMethod == "" || utf8.RuneCountInString(in.PaymentMethod) > maxPaymentMethodLen {
		return bad("invalid payment_method")
	}
	if in.Status == "" || utf8.RuneCountInString(in.Status) > maxStatusLen {
		return bad("invalid status")
	}
	if len(in.Items) == 0 {
		return bad("order_items must not be empty")
	}
	for i, it := range in.Items {
		if it.ProductID == "" || utf8.RuneCountInString(it.ProductID) > maxProductIDLen {
			return bad(fmt.Sprintf("order_items[%d]: invalid product_id", i))
		}
		if it.Quantity <= 0 {
			return bad(fmt.Sprintf("order_items[%d]: quantity must be > 0", i))
		}
		if it.Price == nil || !validAmount(*it.Price) {
			return bad(fmt.Sprintf("order_items[%d]: invalid price", i))
		}
	}
	return nil
}

func toOrderDTO(o model.Order, items []model.OrderItem) OrderDTO {
	return OrderDTO{
		ID:             o.ID,
		UserID:         o.UserID,
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		PaymentDetails: o.PaymentDetails,
		Status:         o.Status,
		OrderDate:      o.OrderDate,
		AddressID:      o.AddressID,
		Items: lo.Map(items, func(it model.OrderItem, _ int) OrderItemDTO {
			return OrderItemDTO{
				ID:        it.ID,
				OrderID:   it.OrderID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
		}),
	}
}

func (u *OrderUsecase) internal(msg string, userID int64, err error) error {
	u.log.Errorj(log.JSON{"msg": msg, "user_id": userID, "error": err.Error()})
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
