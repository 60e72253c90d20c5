package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"ecoshop/internal/usecase"
)

// メッセージはそのまま400のレスポンスに出る
var (
	ErrMissingFields    = errors.New("Missing required fields")
	ErrInvalidEmail     = errors.New("Invalid email format")
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters")
	ErrUsernameTooLong  = errors.New("Username is too long")
	ErrEmailTooLong     = errors.New("Email is too long")
)

const (
	minPasswordLen = 8
	maxUsernameLen = 80
	maxEmailLen    = 120
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct{}

func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateSignup(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return ErrUsernameTooLong
	}
	if len(email) > maxEmailLen {
		return ErrEmailTooLong
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return ErrMissingFields
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
