package handler

import (
	"net/http"

	"ecoshop/internal/middleware"
	"ecoshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	uc *usecase.ProfileUsecase
}

func NewProfileHandler(uc *usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

type profileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Gender    *string `json:"gender"`
	Mail      *string `json:"mail"`
	Phone     *string `json:"phone"`
}

func (h *ProfileHandler) RegisterRoutes(r Routes) {
	r.User.GET("", h.get)
	r.User.PUT("", h.save)
}

// user_idはPathUserGuardでトークンと一致済み
func (h *ProfileHandler) get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), middleware.UserIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProfileHandler) save(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	err := h.uc.Save(c.Request().Context(), middleware.UserIDFrom(c), usecase.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Mail:      req.Mail,
		Phone:     req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Profile saved"})
}
