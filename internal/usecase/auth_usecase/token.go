package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// JWTのclaimキー（middleware.AuthJWTと揃える）
const (
	ClaimSubject      = "sub"
	ClaimTokenVersion = "tv"
)

// HS256でアクセストークンを発行する
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access ttl must be positive")
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}, nil
}

func (i *JWTIssuer) Issue(userID int64, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		ClaimSubject:      strconv.FormatInt(userID, 10),
		ClaimTokenVersion: tokenVersion,
		"iat":             now.Unix(),
		"exp":             expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 現在の時間
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
