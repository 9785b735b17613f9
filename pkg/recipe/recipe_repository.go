package recipe

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, draft domain.RecipeDraft) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, draft domain.RecipeDraft) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filters []Predicate, page domain.PageRequest) ([]*entities.Recipe, int64, error)
		GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipe stores the recipe row together with its ingredient amounts and
// tags. Either all rows are written or none.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, draft domain.RecipeDraft) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		return insertCollections(tx, recipe.ID, draft)
	})
}

// UpdateRecipe saves the scalar fields and replaces both collections.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, draft domain.RecipeDraft) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Select("name", "text", "image", "image_placeholder", "cooking_time", "updated_at").
			Updates(recipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeTag{}).Error; err != nil {
			return err
		}
		return insertCollections(tx, recipe.ID, draft)
	})
}

func insertCollections(tx *gorm.DB, recipeID uuid.UUID, draft domain.RecipeDraft) error {
	ingredients := make([]*entities.RecipeIngredient, 0, len(draft.Ingredients))
	for _, ia := range draft.Ingredients {
		ingredients = append(ingredients, &entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ia.IngredientID,
			Amount:       ia.Amount,
		})
	}
	if err := tx.Omit("Recipe", "Ingredient").Create(&ingredients).Error; err != nil {
		return err
	}

	tags := make([]*entities.RecipeTag, 0, len(draft.TagIDs))
	for _, id := range draft.TagIDs {
		tags = append(tags, &entities.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return tx.Omit("Recipe", "Tag").Create(&tags).Error
}

// DeleteRecipe removes the recipe and every row that references it.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{
			domain.MembershipFavorite.Table(),
			domain.MembershipShoppingCart.Table(),
		} {
			if err := tx.Table(table).Where("recipe_id = ?", id).Delete(&entities.RecipeMembership{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeTag{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.preloaded(ctx).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filters []Predicate, page domain.PageRequest) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := Apply(r.db.WithContext(ctx).Model(&entities.Recipe{}), filters).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := Apply(r.preloaded(ctx), filters).
		Order("recipes.name asc").
		Order("recipes.author_id asc").
		Order("recipes.id asc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetShoppingList sums the ingredient amounts of every recipe in the user's
// shopping cart, grouped by ingredient name and unit.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error) {
	var lines []domain.ShoppingListLine
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Order("ingredients.measurement_unit asc").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
