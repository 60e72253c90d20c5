package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
)

// HandlerがそのままHTTPステータスとメッセージに変換するエラー
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// usecaseが使うロガー（gommonの*log.Loggerがそのまま満たす）
type Logger interface {
	Infoj(j log.JSON)
	Errorj(j log.JSON)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}
