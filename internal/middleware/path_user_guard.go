package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// /users/:user_id/* はトークンの本人だけ
func PathUserGuard(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := UserIDFrom(c)
			if userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			pathID, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil || pathID <= 0 {
				return c.JSON(http.StatusBadRequest, errorJSON("invalid "+param))
			}
			if pathID != userID {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
