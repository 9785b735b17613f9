package migration

import (
	"fmt"

	"foodgram-backend/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Models in dependency order; join and membership tables come after the
// tables they reference.
var models = []struct {
	name  string
	model any
}{
	{"user", &entities.User{}},
	{"subscription", &entities.Subscription{}},
	{"ingredient", &entities.Ingredient{}},
	{"tag", &entities.Tag{}},
	{"recipe", &entities.Recipe{}},
	{"recipe tag", &entities.RecipeTag{}},
	{"recipe ingredient", &entities.RecipeIngredient{}},
	{"favorite", &entities.Favorite{}},
	{"shopping cart", &entities.ShoppingCartItem{}},
}

func Migrate(db *gorm.DB) error {
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("migrating %s table: %w", m.name, err)
		}
	}

	log.Info("Database migration complete")
	return nil
}
