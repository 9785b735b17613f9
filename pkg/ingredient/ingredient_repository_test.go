package ingredient

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ingredients []*entities.Ingredient) []string {
	out := make([]string, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, i.Name)
	}
	return out
}

func TestGetIngredientsByPrefix(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	testutil.CreateIngredient(t, db, "salt", "g")
	testutil.CreateIngredient(t, db, "Salt", "g")
	testutil.CreateIngredient(t, db, "salmon", "g")
	testutil.CreateIngredient(t, db, "sugar", "g")

	got, err := repo.GetIngredients(ctx, "sal")
	require.NoError(t, err)
	assert.Equal(t, []string{"salmon", "salt"}, names(got))

	got, err = repo.GetIngredients(ctx, "Sal")
	require.NoError(t, err)
	assert.Equal(t, []string{"Salt"}, names(got))

	got, err = repo.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestIngredientNameUnitIsUnique(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateIngredient(t, db, "salt", "g")

	err := db.Create(&entities.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error
	require.Error(t, err)

	require.NoError(t, db.Create(&entities.Ingredient{Name: "salt", MeasurementUnit: "pinch"}).Error)
}

func TestGetIngredientsByIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	salt := testutil.CreateIngredient(t, db, "salt", "g")
	milk := testutil.CreateIngredient(t, db, "milk", "ml")

	got, err := repo.GetIngredientsByIDs(ctx, []uuid.UUID{milk.ID, uuid.New(), salt.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "salt"}, names(got))

	// second lookup is served from the cache even if the row is gone
	require.NoError(t, db.Delete(&entities.Ingredient{}, "id = ?", milk.ID).Error)
	got, err = repo.GetIngredientsByIDs(ctx, []uuid.UUID{milk.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreateIngredientsSkipsExisting(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)
	testutil.CreateIngredient(t, db, "salt", "g")

	n, err := repo.CreateIngredients(context.Background(), []*entities.Ingredient{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "pepper", MeasurementUnit: "g"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGetIngredientNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIngredientService(NewIngredientRepository(db))

	_, err := svc.GetIngredient(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetIngredient(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
