// Package testutil provides a migrated SQL store for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/entities"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a file-backed SQLite database in a temp dir and migrates it.
// A single connection serializes writers the way row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "foodgram.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  "not-a-real-hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTag(t *testing.T, db *gorm.DB, name, color string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: name, Color: color, Slug: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ing := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

type Amount struct {
	Ingredient *entities.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its tags and ingredient amounts directly.
func CreateRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, tags []*entities.Tag, amounts ...Amount) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        name + " text",
		Image:       "https://media.example/" + name + ".png",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(r).Error)
	for _, tag := range tags {
		require.NoError(t, db.Create(&entities.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error)
	}
	for _, a := range amounts {
		require.NoError(t, db.Create(&entities.RecipeIngredient{
			RecipeID:     r.ID,
			IngredientID: a.Ingredient.ID,
			Amount:       a.Amount,
		}).Error)
	}
	return r
}

func AddMembership(t *testing.T, db *gorm.DB, table string, userID, recipeID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Table(table).Create(&entities.RecipeMembership{UserID: userID, RecipeID: recipeID}).Error)
}
