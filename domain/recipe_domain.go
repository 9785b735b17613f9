package domain

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	MaxNameLength       = 200
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000

	ShoppingListFileName = "shopping_cart.pdf"
)

var (
	MessageSuccessGetRecipes          = "success get recipes"
	MessageSuccessGetRecipeDetail     = "success get recipe detail"
	MessageSuccessCreateRecipe        = "recipe created successfully"
	MessageSuccessUpdateRecipe        = "recipe updated successfully"
	MessageSuccessDeleteRecipe        = "recipe deleted successfully"
	MessageSuccessAddFavorite         = "recipe added to favorites"
	MessageSuccessRemoveFavorite      = "recipe removed from favorites"
	MessageSuccessAddShoppingCart     = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart  = "recipe removed from shopping cart"
	MessageSuccessSendShoppingList    = "shopping list sent"
	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingList = "failed to download shopping list"
	MessageFailedSendShoppingList     = "failed to send shopping list"

	ErrRecipeNotFound           = newClassError(ErrNotFound, "recipe not found")
	ErrUnauthorizedRecipeAccess = newClassError(ErrForbidden, "only the author can change this recipe")
	ErrRecipeImageInvalid       = NewFieldError("image", "upload a valid image")
	ErrRecipeReferenceGone      = NewFieldError("ingredients", "a referenced tag or ingredient no longer exists")
)

// MembershipKind names a (user, recipe) membership set.
type MembershipKind string

const (
	MembershipFavorite     MembershipKind = "favorite"
	MembershipShoppingCart MembershipKind = "shopping_cart"
)

func (k MembershipKind) Table() string {
	switch k {
	case MembershipFavorite:
		return "favorites"
	case MembershipShoppingCart:
		return "shopping_cart_items"
	default:
		panic(fmt.Sprintf("unknown membership kind %q", string(k)))
	}
}

func (k MembershipKind) label() string {
	if k == MembershipFavorite {
		return "favorites"
	}
	return "shopping cart"
}

// ErrAlreadyPresent is returned when adding a recipe that is already in the set.
func (k MembershipKind) ErrAlreadyPresent() error {
	return newClassError(ErrConflict, "recipe is already in "+k.label())
}

// ErrAbsent is returned when removing a recipe that is not in the set.
func (k MembershipKind) ErrAbsent() error {
	return newClassError(ErrNotFound, "recipe is not in "+k.label())
}

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"min=1,max=32000"`
	}

	// RecipeRequest is the body of create, update and partial update.
	// Tags and ingredients are mandatory on every write.
	RecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image"`
		CookingTime int                       `json:"cooking_time" validate:"min=1,max=32000"`
		Tags        []string                  `json:"tags" validate:"required,min=1,unique,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeView struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserProfile                `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		ImagePlaceholder string                     `json:"image_placeholder,omitempty"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeMinified struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// ShoppingListLine is one (ingredient name, unit) group of the user's cart.
	ShoppingListLine struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)

func (l ShoppingListLine) String() string {
	return fmt.Sprintf("%s, %s, %d", l.Name, l.MeasurementUnit, l.Amount)
}

// RecipeDraft is a validated recipe write, ready to be persisted.
type RecipeDraft struct {
	Name        string
	Text        string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}
