// Package view assembles read shapes from entities. Every function here is
// pure: fields that depend on the requesting identity are derived from
// membership sets the caller loaded for this request.
package view

import (
	"sort"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
)

// IDSet holds the ids of rows the viewer has a relation to.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Context carries the viewer and the membership sets relevant to the rows
// being rendered. The zero value renders everything as seen anonymously.
type Context struct {
	Viewer     domain.Viewer
	Favorited  IDSet
	InCart     IDSet
	Subscribed IDSet
}

func IsFavorited(viewer domain.Viewer, recipeID uuid.UUID, favorited IDSet) bool {
	return viewer.IsAuthenticated && favorited.Has(recipeID)
}

func IsInShoppingCart(viewer domain.Viewer, recipeID uuid.UUID, inCart IDSet) bool {
	return viewer.IsAuthenticated && inCart.Has(recipeID)
}

func IsSubscribed(viewer domain.Viewer, userID uuid.UUID, subscribed IDSet) bool {
	return viewer.IsAuthenticated && viewer.ID != userID && subscribed.Has(userID)
}

func Tag(t *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func Ingredient(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func Profile(u *entities.User, ctx Context) domain.UserProfile {
	if u == nil {
		return domain.UserProfile{}
	}
	return domain.UserProfile{
		Email:        u.Email,
		ID:           u.ID.String(),
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: IsSubscribed(ctx.Viewer, u.ID, ctx.Subscribed),
	}
}

func Minified(r *entities.Recipe) domain.RecipeMinified {
	return domain.RecipeMinified{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// Recipe renders the full read shape. Tags and ingredients are ordered by name.
func Recipe(r *entities.Recipe, ctx Context) domain.RecipeView {
	tags := make([]domain.TagResponse, 0, len(r.Tags))
	for _, rt := range r.Tags {
		if rt.Tag != nil {
			tags = append(tags, Tag(rt.Tag))
		}
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		if ri.Ingredient == nil {
			continue
		}
		ingredients = append(ingredients, domain.RecipeIngredientResponse{
			ID:              ri.Ingredient.ID.String(),
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	sort.SliceStable(ingredients, func(i, j int) bool {
		if ingredients[i].Name != ingredients[j].Name {
			return ingredients[i].Name < ingredients[j].Name
		}
		return ingredients[i].MeasurementUnit < ingredients[j].MeasurementUnit
	})

	return domain.RecipeView{
		ID:               r.ID.String(),
		Tags:             tags,
		Author:           Profile(r.Author, ctx),
		Ingredients:      ingredients,
		IsFavorited:      IsFavorited(ctx.Viewer, r.ID, ctx.Favorited),
		IsInShoppingCart: IsInShoppingCart(ctx.Viewer, r.ID, ctx.InCart),
		Name:             r.Name,
		Image:            r.Image,
		ImagePlaceholder: r.ImagePlaceholder,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}
