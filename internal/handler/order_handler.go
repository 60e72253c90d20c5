package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ecoshop/internal/middleware"
	"ecoshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 文字列でも数値でも受け付けるproduct_id
type productID string

func (p *productID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = productID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("product_id must be a string or number")
	}
	*p = productID(n.String())
	return nil
}

type orderItemRequest struct {
	ProductID productID        `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

type orderCreateRequest struct {
	UserID         int64              `json:"user_id"`
	TotalAmount    *decimal.Decimal   `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentDetails *string            `json:"payment_details"`
	Status         string             `json:"status"`
	AddressID      int64              `json:"address_id"`
	OrderItems     []orderItemRequest `json:"order_items"`
}

type orderCreatedResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

func (h *OrderHandler) RegisterRoutes(r Routes) {
	r.Public.POST("/orders", h.create, r.Auth...)
	r.User.GET("/orders", h.list)
	r.User.GET("/orders/:order_id", h.detail)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req orderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	id, err := h.uc.CreateOrder(c.Request().Context(), middleware.UserIDFrom(c), usecase.CreateOrderInput{
		UserID:         req.UserID,
		TotalAmount:    req.TotalAmount,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		Status:         req.Status,
		AddressID:      req.AddressID,
		Items: lo.Map(req.OrderItems, func(it orderItemRequest, _ int) usecase.OrderItemInput {
			return usecase.OrderItemInput{
				ProductID: string(it.ProductID),
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
		}),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderCreatedResponse{Message: "Order created successfully", OrderID: id})
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListUserOrders(c.Request().Context(), middleware.UserIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid order_id")
	}

	out, err := h.uc.GetUserOrder(c.Request().Context(), middleware.UserIDFrom(c), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
