package models

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// slugAttempts bounds the regenerate-on-collision loop in CreateCategory.
// The random token space is only 36^3 per name, so a definitive error beats spinning.
const slugAttempts = 5

const slugBrand = "BigCorp"

var (
	ErrSlugConflict  = errors.New("category slug conflict: generated slugs exhausted under this parent")
	ErrCategoryCycle = errors.New("category cannot be its own ancestor")
)

// Category is one node of the catalog taxonomy. The same slug text may repeat
// under different parents; (slug, parent_id) is unique.
type Category struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"size:250;not null;index" json:"name"`
	ParentID  *uint      `gorm:"uniqueIndex:idx_categories_slug_parent" json:"parent_id"`
	Parent    *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Children  []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Slug      string     `gorm:"size:250;not null;uniqueIndex:idx_categories_slug_parent" json:"slug"`
	CreatedAt time.Time  `json:"created_at"`
}

func randSlugToken() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 3)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// CreateCategory inserts a category, deriving a slug when the caller supplied
// none: slugify(<random 3-char token> + "-BigCorp" + name). A generated slug
// that collides under the same parent is regenerated up to slugAttempts times;
// a caller-supplied slug is never touched and its collision is surfaced as-is.
func CreateCategory(db *gorm.DB, category *Category) error {
	if category.Slug != "" {
		if category.ParentID == nil {
			taken, err := rootSlugTaken(db, category.Slug)
			if err != nil {
				return err
			}
			if taken {
				return gorm.ErrDuplicatedKey
			}
		}
		return db.Create(category).Error
	}
	for attempt := 0; attempt < slugAttempts; attempt++ {
		category.Slug = slug.Make(randSlugToken() + "-" + slugBrand + category.Name)
		if category.ParentID == nil {
			taken, err := rootSlugTaken(db, category.Slug)
			if err != nil {
				return err
			}
			if taken {
				continue
			}
		}
		err := db.Create(category).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return ErrSlugConflict
}

// rootSlugTaken reports whether a root category already uses the slug. The
// unique index on (slug, parent_id) cannot cover root rows: NULL parent ids
// compare distinct, so two roots with the same slug would both insert.
func rootSlugTaken(db *gorm.DB, slugText string) (bool, error) {
	var count int64
	err := db.Model(&Category{}).
		Where("slug = ? AND parent_id IS NULL", slugText).
		Count(&count).Error
	return count > 0, err
}

// ValidateParent rejects a parent assignment that would make the category its
// own ancestor. Call before persisting any parent change.
func (cat *Category) ValidateParent(db *gorm.DB, parentID *uint) error {
	for parentID != nil {
		if *parentID == cat.ID {
			return ErrCategoryCycle
		}
		var parent Category
		if err := db.Select("id", "parent_id").First(&parent, *parentID).Error; err != nil {
			return err
		}
		parentID = parent.ParentID
	}
	return nil
}

// PathString walks the parent chain and renders the root→leaf breadcrumb,
// e.g. "Electronics > Audio > Headphones".
func (cat *Category) PathString(db *gorm.DB) (string, error) {
	names := []string{cat.Name}
	parentID := cat.ParentID
	for parentID != nil {
		var parent Category
		if err := db.First(&parent, *parentID).Error; err != nil {
			return "", err
		}
		names = append(names, parent.Name)
		parentID = parent.ParentID
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " > "), nil
}
