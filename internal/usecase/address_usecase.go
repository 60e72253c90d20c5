package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type AddressDTO struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type AddressInput struct {
	Label   string
	Name    string
	Phone   string
	Address string
}

type AddressUsecase struct {
	addresses repository.AddressRepository
	log       Logger
}

func NewAddressUsecase(addresses repository.AddressRepository, logger Logger) *AddressUsecase {
	return &AddressUsecase{addresses: addresses, log: logger}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, u.internal("list addresses failed", userID, err)
	}
	return lo.Map(list, func(a model.Address, _ int) AddressDTO {
		return toAddressDTO(a)
	}), nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressInput) (int64, error) {
	in = normalizeAddress(in)
	if err := validateAddress(in); err != nil {
		return 0, err
	}

	created, err := u.addresses.Create(ctx, model.Address{
		UserID:  userID,
		Label:   in.Label,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return 0, u.internal("create address failed", userID, err)
	}
	return created.ID, nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID, addressID int64, in AddressInput) error {
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	in = normalizeAddress(in)
	if err := validateAddress(in); err != nil {
		return err
	}

	//所有チェック（本人のみ）
	current, err := u.addresses.FindByIDForUser(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Address not found")
		}
		return u.internal("find address failed", userID, err)
	}

	current.Label = in.Label
	current.Name = in.Name
	current.Phone = in.Phone
	current.Address = in.Address
	if err := u.addresses.Update(ctx, current); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Address not found")
		}
		return u.internal("update address failed", userID, err)
	}
	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID, addressID int64) error {
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	err := u.addresses.Delete(ctx, addressID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "Address not found")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		//注文から参照されている住所は消せない
		return NewHTTPError(http.StatusConflict, "Address is used by an order")
	default:
		return u.internal("delete address failed", userID, err)
	}
}

func normalizeAddress(in AddressInput) AddressInput {
	return AddressInput{
		Label:   strings.TrimSpace(in.Label),
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
}

func validateAddress(in AddressInput) error {
	if in.Label == "" || in.Name == "" || in.Phone == "" || in.Address == "" {
		return NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	if len(in.Label) > 20 {
		return NewHTTPError(http.StatusBadRequest, "label is too long")
	}
	if len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "name is too long")
	}
	if len(in.Phone) > 20 {
		return NewHTTPError(http.StatusBadRequest, "phone is too long")
	}
	return nil
}

func toAddressDTO(a model.Address) AddressDTO {
	return AddressDTO{
		ID:      a.ID,
		Label:   a.Label,
		Name:    a.Name,
		Phone:   a.Phone,
		Address: a.Address,
	}
}

func (u *AddressUsecase) internal(msg string, userID int64, err error) error {
	u.log.Errorj(log.JSON{"msg": msg, "user_id": userID, "error": err.Error()})
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
