// Package seed loads reference data (ingredients and tags) from files.
package seed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodgram-backend/entities"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRow struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// Run imports whichever files are given. Rows already present are skipped,
// so running it twice is harmless.
func Run(ctx context.Context, db *gorm.DB, ingredientsPath, tagsPath string) error {
	if ingredientsPath != "" {
		n, err := ImportIngredients(ctx, ingredient.NewIngredientRepository(db), ingredientsPath)
		if err != nil {
			return err
		}
		log.Infof("imported %d ingredients from %s", n, ingredientsPath)
	}
	if tagsPath != "" {
		n, err := ImportTags(ctx, tag.NewTagRepository(db), tagsPath)
		if err != nil {
			return err
		}
		log.Infof("imported %d tags from %s", n, tagsPath)
	}
	return nil
}

func ImportIngredients(ctx context.Context, repo ingredient.IngredientRepository, path string) (int64, error) {
	var rows []ingredientRow
	if err := readRows(path, &rows, func(rec map[string]string) {
		rows = append(rows, ingredientRow{Name: rec["name"], MeasurementUnit: rec["measurement_unit"]})
	}); err != nil {
		return 0, err
	}

	ingredients := make([]*entities.Ingredient, 0, len(rows))
	for i, r := range rows {
		name, unit := strings.TrimSpace(r.Name), strings.TrimSpace(r.MeasurementUnit)
		if name == "" || unit == "" {
			return 0, fmt.Errorf("%s: row %d: name and measurement_unit are required", path, i+1)
		}
		ingredients = append(ingredients, &entities.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return repo.CreateIngredients(ctx, ingredients)
}

func ImportTags(ctx context.Context, repo tag.TagRepository, path string) (int64, error) {
	var rows []tagRow
	if err := readRows(path, &rows, func(rec map[string]string) {
		rows = append(rows, tagRow{Name: rec["name"], Color: rec["color"], Slug: rec["slug"]})
	}); err != nil {
		return 0, err
	}

	tags := make([]*entities.Tag, 0, len(rows))
	for i, r := range rows {
		if r.Name == "" || r.Color == "" || r.Slug == "" {
			return 0, fmt.Errorf("%s: row %d: name, color and slug are required", path, i+1)
		}
		tags = append(tags, &entities.Tag{Name: r.Name, Color: strings.ToUpper(r.Color), Slug: r.Slug})
	}
	return repo.CreateTags(ctx, tags)
}

// readRows decodes a JSON array into dst, or feeds each CSV record (keyed by
// the header row) to add.
func readRows(path string, dst any, add func(map[string]string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.NewDecoder(f).Decode(dst); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		add(row)
	}
}
