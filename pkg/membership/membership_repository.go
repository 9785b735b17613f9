// Package membership stores (user, recipe) membership sets. Favorites and the
// shopping cart share one implementation, selected by domain.MembershipKind.
package membership

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MembershipRepository interface {
		Add(ctx context.Context, kind domain.MembershipKind, userID, recipeID uuid.UUID) error
		Remove(ctx context.Context, kind domain.MembershipKind, userID, recipeID uuid.UUID) error
		RecipeIDs(ctx context.Context, kind domain.MembershipKind, userID uuid.UUID, recipeIDs []uuid.UUID) (view.IDSet, error)
	}

	membershipRepository struct {
		db *gorm.DB
	}
)

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Add inserts the pair. A second insert of the same pair is rejected by the
// unique index and reported as the kind's conflict error.
func (r *membershipRepository) Add(ctx context.Context, kind domain.MembershipKind, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrRecipeNotFound
		}

		row := entities.RecipeMembership{UserID: userID, RecipeID: recipeID}
		if err := tx.Table(kind.Table()).Create(&row).Error; err != nil {
			if utils.IsDuplicateKey(err) {
				return kind.ErrAlreadyPresent()
			}
			return err
		}
		return nil
	})
}

func (r *membershipRepository) Remove(ctx context.Context, kind domain.MembershipKind, userID, recipeID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.RecipeMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return kind.ErrAbsent()
	}
	return nil
}

// RecipeIDs returns which of recipeIDs are in the user's set.
func (r *membershipRepository) RecipeIDs(ctx context.Context, kind domain.MembershipKind, userID uuid.UUID, recipeIDs []uuid.UUID) (view.IDSet, error) {
	if len(recipeIDs) == 0 {
		return view.NewIDSet(), nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return view.NewIDSet(ids...), nil
}
