package entities

import (
	"github.com/google/uuid"
)

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex:idx_tags_name" json:"name"`
	Color string    `gorm:"size:7;not null;uniqueIndex:idx_tags_color" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex:idx_tags_slug" json:"slug"`
}
