package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

// ensureID fills in a primary key before insert, so rows can be created
// without relying on a database-side uuid generator.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (ri *RecipeIngredient) BeforeCreate(_ *gorm.DB) error {
	ensureID(&ri.ID)
	return nil
}

func (rt *RecipeTag) BeforeCreate(_ *gorm.DB) error {
	ensureID(&rt.ID)
	return nil
}

func (m *RecipeMembership) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
