package tag

import (
	"context"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cacheSize = 256

type (
	TagRepository interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id string) (*entities.Tag, error)
		GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Tag, error)
		Forget(ids ...uuid.UUID)
		CreateTags(ctx context.Context, tags []*entities.Tag) (int64, error)
	}

	tagRepository struct {
		db    *gorm.DB
		cache *lru.Cache
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	cache, _ := lru.New(cacheSize)
	return &tagRepository{db: db, cache: cache}
}

func (r *tagRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, id string) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagsByIDs returns the tags that exist among ids. Tags are reference
// data, so found rows are kept in an LRU cache.
func (r *tagRepository) GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Tag, error) {
	found := make(map[uuid.UUID]*entities.Tag, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if v, ok := r.cache.Get(id); ok {
			found[id] = v.(*entities.Tag)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		var rows []*entities.Tag
		if err := r.db.WithContext(ctx).Where("id IN ?", missing).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			r.cache.Add(row.ID, row)
			found[row.ID] = row
		}
	}

	tags := make([]*entities.Tag, 0, len(found))
	for _, id := range ids {
		if t, ok := found[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// Forget drops cached tags so the next lookup reads them from the store.
func (r *tagRepository) Forget(ids ...uuid.UUID) {
	for _, id := range ids {
		r.cache.Remove(id)
	}
}

// CreateTags inserts tags, skipping ones that clash with an existing row.
func (r *tagRepository) CreateTags(ctx context.Context, tags []*entities.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	return res.RowsAffected, res.Error
}
