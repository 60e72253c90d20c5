package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type ProfileDTO struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Gender    *string   `json:"gender"`
	Mail      *string   `json:"mail"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileInput struct {
	FirstName *string
	LastName  *string
	Gender    *string
	Mail      *string
	Phone     *string
}

type ProfileUsecase struct {
	profiles repository.ProfileRepository
	ids      IDGenerator
	log      Logger
}

func NewProfileUsecase(profiles repository.ProfileRepository, ids IDGenerator, logger Logger) *ProfileUsecase {
	return &ProfileUsecase{profiles: profiles, ids: ids, log: logger}
}

// 無ければ空のプロフィールを作って返す
func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (ProfileDTO, error) {
	p, err := u.profiles.GetOrCreate(ctx, userID, u.ids.NewID())
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ProfileDTO{}, NewHTTPError(http.StatusNotFound, "User not found")
		}
		u.log.Errorj(log.JSON{"msg": "get profile failed", "user_id": userID, "error": err.Error()})
		return ProfileDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return toProfileDTO(p), nil
}

func (u *ProfileUsecase) Save(ctx context.Context, userID int64, in ProfileInput) error {
	if err := validateProfile(in); err != nil {
		return err
	}

	p := model.Profile{
		ID:        u.ids.NewID(),
		UserID:    userID,
		FirstName: trimPtr(in.FirstName),
		LastName:  trimPtr(in.LastName),
		Gender:    trimPtr(in.Gender),
		Mail:      trimPtr(in.Mail),
		Phone:     trimPtr(in.Phone),
	}
	if err := u.profiles.Upsert(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		u.log.Errorj(log.JSON{"msg": "save profile failed", "user_id": userID, "error": err.Error()})
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return nil
}

func validateProfile(in ProfileInput) error {
	if in.Gender != nil && len(strings.TrimSpace(*in.Gender)) > 10 {
		return NewHTTPError(http.StatusBadRequest, "gender is too long")
	}
	if in.Phone != nil && len(strings.TrimSpace(*in.Phone)) > 20 {
		return NewHTTPError(http.StatusBadRequest, "phone is too long")
	}
	for _, s := range []*string{in.FirstName, in.LastName, in.Mail} {
		if s != nil && len(strings.TrimSpace(*s)) > 255 {
			return NewHTTPError(http.StatusBadRequest, "field is too long")
		}
	}
	return nil
}

func toProfileDTO(p model.Profile) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		Mail:      p.Mail,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
