package repository

import (
	"context"
	"errors"
	"fmt"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) repo.ProfileRepository {
	return &profileGormRepository{db: db}
}

func (r *profileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

// 同時アクセスでも1件になるよう ON CONFLICT DO NOTHING で作ってから読み直す
func (r *profileGormRepository) GetOrCreate(ctx context.Context, userID int64, newID string) (model.Profile, error) {
	p := model.Profile{ID: newID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&p).Error
	if err != nil {
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return r.FindByUserID(ctx, userID)
}

func (r *profileGormRepository) Upsert(ctx context.Context, p model.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "gender", "mail", "phone", "updated_at"}),
		}).
		Create(&p).Error
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
