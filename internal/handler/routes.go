package handler

import "github.com/labstack/echo/v4"

// ハンドラが登録先に使うルーター
type Routes struct {
	// 認証なし
	Public *echo.Echo
	// AuthJWT + TokenVersionGuard（ルート単位で付ける）
	Auth []echo.MiddlewareFunc
	// /users/:user_id（本人のみ）
	User *echo.Group
}
