package ingredient

import (
	"context"
	"unicode/utf8"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cacheSize = 1024

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Ingredient, error)
		Forget(ids ...uuid.UUID)
		CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) (int64, error)
	}

	ingredientRepository struct {
		db    *gorm.DB
		cache *lru.Cache
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	cache, _ := lru.New(cacheSize)
	return &ingredientRepository{db: db, cache: cache}
}

// GetIngredients lists ingredients whose name starts with namePrefix.
// The comparison is case sensitive on every dialect, which LIKE is not.
func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	query := r.db.WithContext(ctx)
	if namePrefix != "" {
		query = query.Where("substr(name, 1, ?) = ?", utf8.RuneCountInString(namePrefix), namePrefix)
	}
	if err := query.Order("name asc").Order("measurement_unit asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Ingredient, error) {
	found := make(map[uuid.UUID]*entities.Ingredient, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if v, ok := r.cache.Get(id); ok {
			found[id] = v.(*entities.Ingredient)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		var rows []*entities.Ingredient
		if err := r.db.WithContext(ctx).Where("id IN ?", missing).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			r.cache.Add(row.ID, row)
			found[row.ID] = row
		}
	}

	ingredients := make([]*entities.Ingredient, 0, len(found))
	for _, id := range ids {
		if i, ok := found[id]; ok {
			ingredients = append(ingredients, i)
		}
	}
	return ingredients, nil
}

func (r *ingredientRepository) Forget(ids ...uuid.UUID) {
	for _, id := range ids {
		r.cache.Remove(id)
	}
}

func (r *ingredientRepository) CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&ingredients, 500)
	return res.RowsAffected, res.Error
}
