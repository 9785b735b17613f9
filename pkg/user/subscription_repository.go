package user

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
	SubscriptionRepository interface {
		Subscribe(ctx context.Context, subscriberID, followedID uuid.UUID) error
		Unsubscribe(ctx context.Context, subscriberID, followedID uuid.UUID) error
		FollowedIDs(ctx context.Context, subscriberID uuid.UUID, userIDs []uuid.UUID) (view.IDSet, error)
		GetSubscriptions(ctx context.Context, subscriberID uuid.UUID, page domain.PageRequest) ([]*entities.User, int64, error)
		GetRecipePreviews(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error)
		CountRecipes(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, subscriberID, followedID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.User{}).Where("id = ?", followedID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrUserNotFound
		}

		sub := entities.Subscription{SubscriberID: subscriberID, FollowedUserID: followedID}
		if err := tx.Create(&sub).Error; err != nil {
			if utils.IsDuplicateKey(err) {
				return domain.ErrAlreadySubscribed
			}
			return err
		}
		return nil
	})
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, subscriberID, followedID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND followed_user_id = ?", subscriberID, followedID).
		Delete(&entities.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

// FollowedIDs returns which of userIDs the subscriber follows.
func (r *subscriptionRepository) FollowedIDs(ctx context.Context, subscriberID uuid.UUID, userIDs []uuid.UUID) (view.IDSet, error) {
	if len(userIDs) == 0 {
		return view.NewIDSet(), nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("subscriber_id = ? AND followed_user_id IN ?", subscriberID, userIDs).
		Pluck("followed_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return view.NewIDSet(ids...), nil
}

func (r *subscriptionRepository) GetSubscriptions(ctx context.Context, subscriberID uuid.UUID, page domain.PageRequest) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.followed_user_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Offset(page.Offset()).
		Limit(page.Limit).
		Order("users.username asc").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

// GetRecipePreviews loads up to limit recipes per author; limit <= 0 loads all.
func (r *subscriptionRepository) GetRecipePreviews(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error) {
	out := make(map[uuid.UUID][]*entities.Recipe, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at desc").
		Order("id asc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		if limit > 0 && len(out[rec.AuthorID]) >= limit {
			continue
		}
		out[rec.AuthorID] = append(out[rec.AuthorID], rec)
	}
	return out, nil
}

func (r *subscriptionRepository) CountRecipes(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}
