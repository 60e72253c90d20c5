package handler

import (
	"net/http"
	"strconv"

	"ecoshop/internal/middleware"
	"ecoshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

type addressRequest struct {
	Label   string `json:"label"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (h *AddressHandler) RegisterRoutes(r Routes) {
	r.User.GET("/addresses", h.list)
	r.User.POST("/addresses", h.create)
	r.User.PUT("/addresses/:address_id", h.update)
	r.User.DELETE("/addresses/:address_id", h.delete)
}

func (h *AddressHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.UserIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHandler) create(c echo.Context) error {
	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	id, err := h.uc.Create(c.Request().Context(), middleware.UserIDFrom(c), usecase.AddressInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *AddressHandler) update(c echo.Context) error {
	addressID, err := strconv.ParseInt(c.Param("address_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid address_id")
	}
	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.uc.Update(c.Request().Context(), middleware.UserIDFrom(c), addressID, usecase.AddressInput(req)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Address updated"})
}

func (h *AddressHandler) delete(c echo.Context) error {
	addressID, err := strconv.ParseInt(c.Param("address_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid address_id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.UserIDFrom(c), addressID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Address deleted"})
}
