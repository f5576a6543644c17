package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product is a catalog entry. Products are mutated only through the admin
// surface; storefront reads treat them as immutable.
type Product struct {
	ID            bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string        `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Slug          string        `json:"slug" bson:"slug" validate:"required"`
	Description   string        `json:"description" bson:"description" validate:"max=2000"`
	Brand         string        `json:"brand" bson:"brand" validate:"required,min=2,max=100"`
	CategoryID    bson.ObjectID `json:"category_id" bson:"category_id,omitempty"`
	Price         float64       `json:"price" bson:"price" validate:"required,gt=0"`
	SalePrice     float64       `json:"sale_price,omitempty" bson:"sale_price,omitempty"`
	Images        []string      `json:"images" bson:"images" validate:"dive,url"`
	Sizes         []string      `json:"sizes" bson:"sizes"`
	Colors        []string      `json:"colors" bson:"colors"`
	InStock       bool          `json:"in_stock" bson:"in_stock"`
	StockQuantity int           `json:"stock_quantity" bson:"stock_quantity" validate:"gte=0"`
	Rating        float64       `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int           `json:"review_count" bson:"review_count" validate:"gte=0"`
	Tags          []string      `json:"tags" bson:"tags"`
	Featured      bool          `json:"featured" bson:"featured"`
	OnSale        bool          `json:"on_sale" bson:"on_sale"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// EffectivePrice is the sale price when one is set, the regular price
// otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

// HasValidSalePrice reports whether the sale price, if set, undercuts the
// regular price.
func (p *Product) HasValidSalePrice() bool {
	return p.SalePrice == 0 || p.SalePrice < p.Price
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required,min=2,max=200"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Brand         string   `json:"brand" binding:"required"`
	CategoryID    string   `json:"category_id"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	SalePrice     float64  `json:"sale_price"`
	Images        []string `json:"images"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
	Tags          []string `json:"tags"`
	Featured      bool     `json:"featured"`
	OnSale        bool     `json:"on_sale"`
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func (req *CreateProductRequest) ToProduct() *Product {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	product := &Product{
		ID:            bson.NewObjectID(),
		Name:          req.Name,
		Slug:          slug,
		Description:   req.Description,
		Brand:         req.Brand,
		Price:         req.Price,
		SalePrice:     req.SalePrice,
		Images:        req.Images,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		InStock:       req.StockQuantity > 0,
		StockQuantity: req.StockQuantity,
		Tags:          req.Tags,
		Featured:      req.Featured,
		OnSale:        req.OnSale,
	}
	if id, err := bson.ObjectIDFromHex(req.CategoryID); err == nil {
		product.CategoryID = id
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.SetTimestamps()
	return product
}

// ProductFilter narrows a catalog listing. All set fields must match.
type ProductFilter struct {
	CategoryID string
	Featured   *bool
	OnSale     *bool
	Search     string
	Page       int
	Limit      int
}
