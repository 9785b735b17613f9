package recipe

import (
	"fmt"

	"foodgram-backend/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Predicate narrows a recipe query.
type Predicate func(*gorm.DB) *gorm.DB

func Apply(db *gorm.DB, filters []Predicate) *gorm.DB {
	for _, f := range filters {
		db = f(db)
	}
	return db
}

// BuildFilters turns query parameters into predicates. Membership filters
// only apply to authenticated viewers and are ignored otherwise.
func BuildFilters(f domain.RecipeFilter, viewer domain.Viewer) ([]Predicate, error) {
	var filters []Predicate

	if len(f.Tags) > 0 {
		filters = append(filters, withTagSlugs(f.Tags))
	}

	if f.AuthorID != "" {
		authorID, err := uuid.Parse(f.AuthorID)
		if err != nil {
			return nil, domain.NewFieldError("author", "must be a valid UUID")
		}
		filters = append(filters, withAuthor(authorID))
	}

	if viewer.IsAuthenticated {
		if f.IsFavorited {
			filters = append(filters, inMembership(domain.MembershipFavorite, viewer.ID))
		}
		if f.IsInShoppingCart {
			filters = append(filters, inMembership(domain.MembershipShoppingCart, viewer.ID))
		}
	}

	return filters, nil
}

// withTagSlugs matches recipes carrying any of the slugs.
func withTagSlugs(slugs []string) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"recipes.id IN (SELECT recipe_tags.recipe_id FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)",
			slugs,
		)
	}
}

func withAuthor(authorID uuid.UUID) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.author_id = ?", authorID)
	}
}

func inMembership(kind domain.MembershipKind, userID uuid.UUID) Predicate {
	query := fmt.Sprintf("recipes.id IN (SELECT recipe_id FROM %s WHERE user_id = ?)", kind.Table())
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, userID)
	}
}
