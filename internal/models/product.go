package models

import (
	"strings"

	"oils-admin/internal/pricing"
)

const maxGalleryImages = 5

// ProductFAQ is a question shown on a product page.
type ProductFAQ struct {
	Question string `json:"question" bson:"question" binding:"required"`
	Answer   string `json:"answer" bson:"answer" binding:"required"`
}

// Variant is a size of a product with its own pricing.
type Variant struct {
	Size            string `json:"size" bson:"size" binding:"required"`
	pricing.Pricing `bson:",inline"`
	Stock           int `json:"stock" bson:"stock" binding:"gte=0"`
}

// Product is stored in both the products and comboProducts collections.
type Product struct {
	Base             `bson:",inline"`
	ProductName      string `json:"product_name" bson:"product_name" binding:"required"`
	Category         string `json:"category" bson:"category" binding:"required"`
	Size             string `json:"size" bson:"size" binding:"required"`
	ShortDescription string `json:"short_description,omitempty" bson:"short_description,omitempty"`
	LongDescription  string `json:"long_description,omitempty" bson:"long_description,omitempty"`
	Rating           string `json:"rating,omitempty" bson:"rating,omitempty"`
	pricing.Pricing  `bson:",inline"`
	MainImage        string       `json:"main_image,omitempty" bson:"main_image,omitempty"`
	OtherImages      []string     `json:"other_images,omitempty" bson:"other_images,omitempty" binding:"max=5"`
	Ingredients      string       `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Benefits         string       `json:"benefits,omitempty" bson:"benefits,omitempty"`
	StorageInfo      string       `json:"storage_info,omitempty" bson:"storage_info,omitempty"`
	Variants         []Variant    `json:"product_variants,omitempty" bson:"product_variants,omitempty" binding:"dive"`
	FAQs             []ProductFAQ `json:"product_faqs,omitempty" bson:"product_faqs,omitempty" binding:"dive"`
	IsActive         bool         `json:"is_active" bson:"is_active"`
}

// NewProduct returns the defaults applied before a create request is bound.
func NewProduct() *Product {
	return &Product{IsActive: true}
}

// Prepare trims input, derives every price pair and checks the rules the
// product form enforces. A body with a selling price but no discount keeps
// its selling price and gets the discount filled in.
func (p *Product) Prepare() error {
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.Category = strings.TrimSpace(p.Category)
	p.Size = strings.TrimSpace(p.Size)

	if p.ProductName == "" {
		return invalid("product_name", "product name is required")
	}
	if p.Category == "" {
		return invalid("category", "category is required")
	}
	if p.Size == "" {
		return invalid("size", "size is required")
	}
	if len(p.OtherImages) > maxGalleryImages {
		return invalid("other_images", "at most 5 gallery images are allowed")
	}

	p.Pricing = pricing.Derive(p.Pricing)
	if p.SellingMRP <= 0 {
		return invalid("selling_mrp", "pricing must produce a positive selling price")
	}
	for i := range p.Variants {
		p.Variants[i].Pricing = pricing.Derive(p.Variants[i].Pricing)
	}
	return nil
}

// Normalize back-fills discounts for records saved before discounts were stored.
func (p *Product) Normalize() {
	p.Pricing.Backfill()
	for i := range p.Variants {
		p.Variants[i].Pricing.Backfill()
	}
}

// ProductUpdate holds the fields a PATCH may change.
type ProductUpdate struct {
	ProductName      *string      `json:"product_name,omitempty"`
	Category         *string      `json:"category,omitempty"`
	Size             *string      `json:"size,omitempty"`
	ShortDescription *string      `json:"short_description,omitempty"`
	LongDescription  *string      `json:"long_description,omitempty"`
	Rating           *string      `json:"rating,omitempty"`
	ActualMRP        *float64     `json:"actual_mrp,omitempty" binding:"omitempty,gte=0"`
	Discount         *float64     `json:"discount,omitempty" binding:"omitempty,gte=0,lte=100"`
	MainImage        *string      `json:"main_image,omitempty"`
	OtherImages      []string     `json:"other_images,omitempty" binding:"omitempty,max=5"`
	Ingredients      *string      `json:"ingredients,omitempty"`
	Benefits         *string      `json:"benefits,omitempty"`
	StorageInfo      *string      `json:"storage_info,omitempty"`
	Variants         []Variant    `json:"product_variants,omitempty" binding:"omitempty,dive"`
	FAQs             []ProductFAQ `json:"product_faqs,omitempty" binding:"omitempty,dive"`
	IsActive         *bool        `json:"is_active,omitempty"`
}

// TouchesPricing reports whether the update changes the top-level price.
func (u *ProductUpdate) TouchesPricing() bool {
	return u.ActualMRP != nil || u.Discount != nil
}
