package handler

import (
	"net/http"

	"ecoshop/internal/middleware"
	"ecoshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc        *usecase.AuthUsecase
	debugUser bool // /debug/users を出すか（本番はfalse）
}

func NewAuthHandler(uc *usecase.AuthUsecase, debugUser bool) *AuthHandler {
	return &AuthHandler{uc: uc, debugUser: debugUser}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(r Routes) {
	r.Public.GET("/", h.hello)
	r.Public.GET("/signup", h.signupHint)
	r.Public.POST("/signup", h.signup)
	r.Public.GET("/login", h.loginHint)
	r.Public.POST("/login", h.login)

	r.Public.POST("/logout", h.logout, r.Auth...)
	r.Public.GET("/me", h.me, r.Auth...)

	if h.debugUser {
		r.Public.GET("/debug/users", h.debugUsers)
	}
}

func (h *AuthHandler) hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, World!")
}

func (h *AuthHandler) signupHint(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Use POST /signup with JSON {username, email, password}"})
}

func (h *AuthHandler) loginHint(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Use POST /login with JSON {email, password}"})
}

func (h *AuthHandler) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Signup(c.Request().Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.UserIDFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) me(c echo.Context) error {
	out, err := h.uc.Me(c.Request().Context(), middleware.UserIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) debugUsers(c echo.Context) error {
	out, err := h.uc.DebugUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
