package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category is one node of a two-level tree: a main category has no parent,
// a subcategory points at a main category. Deeper nesting is rejected at
// write time.
type Category struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slug      string        `json:"slug" bson:"slug" validate:"required"`
	ParentID  bson.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Active    bool          `json:"active" bson:"active"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

func (c *Category) IsSubcategory() bool {
	return !c.ParentID.IsZero()
}

func (c *Category) SetTimestamps() {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id"`
	Active   *bool  `json:"active"`
}

func (req *CreateCategoryRequest) ToCategory() *Category {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	category := &Category{
		ID:     bson.NewObjectID(),
		Name:   req.Name,
		Slug:   slug,
		Active: true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}
	if id, err := bson.ObjectIDFromHex(req.ParentID); err == nil {
		category.ParentID = id
	}
	category.SetTimestamps()
	return category
}
