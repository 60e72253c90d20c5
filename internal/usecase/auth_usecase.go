package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// 入力チェック（validatorパッケージが実装する）
type AuthValidator interface {
	ValidateSignup(ctx context.Context, username, email, password string) error
	ValidateLogin(ctx context.Context, email, password string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type PasswordVerifier interface {
	Verify(plain, hashed string) bool
}

// アクセストークン発行
type TokenIssuer interface {
	Issue(userID int64, tokenVersion int, now time.Time) (string, time.Time, error)
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AuthResult struct {
	Message string         `json:"message"`
	User    UserDTO        `json:"user"`
	Token   AccessTokenDTO `json:"token"`
}

type MeDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	validator AuthValidator
	hasher    PasswordHasher
	verifier  PasswordVerifier
	issuer    TokenIssuer
	clock     Clock
	log       Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	validator AuthValidator,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
	logger Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		validator: validator,
		hasher:    hasher,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
		log:       logger,
	}
}

func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := u.validator.ValidateSignup(ctx, in.Username, in.Email, in.Password); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exists, err := u.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return AuthResult{}, u.internal("signup lookup failed", err)
	}
	if exists {
		return AuthResult{}, NewHTTPError(http.StatusConflict, "Username or email already exists")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, u.internal("password hash failed", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    u.clock.Now(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		//同時登録でunique制約に当たった
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AuthResult{}, NewHTTPError(http.StatusConflict, "Username or email already exists")
		}
		return AuthResult{}, u.internal("create user failed", err)
	}

	u.log.Infoj(log.JSON{"msg": "user signed up", "user_id": user.ID})
	return u.issue("Signup successful", user)
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return AuthResult{}, u.internal("login lookup failed", err)
	}
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return AuthResult{}, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	return u.issue("Login successful", user)
}

// token_versionを上げて発行済みトークンを全部無効にする
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return u.internal("logout failed", err)
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (MeDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MeDTO{}, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return MeDTO{}, u.internal("me lookup failed", err)
	}
	return MeDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// 開発用のユーザー一覧
func (u *AuthUsecase) DebugUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, u.internal("list users failed", err)
	}
	out := make([]UserDTO, 0, len(users))
	for _, usr := range users {
		out = append(out, UserDTO{ID: usr.ID, Username: usr.Username, Email: usr.Email})
	}
	return out, nil
}

func (u *AuthUsecase) issue(message string, user *model.User) (AuthResult, error) {
	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.TokenVersion, now)
	if err != nil {
		return AuthResult{}, u.internal("issue token failed", err)
	}
	return AuthResult{
		Message: message,
		User:    UserDTO{ID: user.ID, Username: user.Username, Email: user.Email},
		Token: AccessTokenDTO{
			AccessToken: token,
			ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
		},
	}, nil
}

func (u *AuthUsecase) internal(msg string, err error) error {
	u.log.Errorj(log.JSON{"msg": msg, "error": err.Error()})
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
