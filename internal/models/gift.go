package models

import (
	"strings"

	"oils-admin/internal/pricing"
)

// GiftProduct is a boxed gift set sold alongside the oils.
type GiftProduct struct {
	Base            `bson:",inline"`
	ProductName     string `json:"product_name" bson:"product_name" binding:"required"`
	Category        string `json:"category" bson:"category" binding:"required"`
	pricing.Pricing `bson:",inline"`
	Contents        string       `json:"contents,omitempty" bson:"contents,omitempty"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	Image           string       `json:"image,omitempty" bson:"image,omitempty"`
	OtherImages     []string     `json:"other_images,omitempty" bson:"other_images,omitempty" binding:"max=5"`
	FAQs            []ProductFAQ `json:"product_faqs,omitempty" bson:"product_faqs,omitempty" binding:"dive"`
	IsActive        bool         `json:"is_active" bson:"is_active"`
}

func NewGiftProduct() *GiftProduct {
	return &GiftProduct{IsActive: true}
}

func (g *GiftProduct) Prepare() error {
	g.ProductName = strings.TrimSpace(g.ProductName)
	g.Category = strings.TrimSpace(g.Category)

	if g.ProductName == "" {
		return invalid("product_name", "product name is required")
	}
	if g.Category == "" {
		return invalid("category", "category is required")
	}
	if g.ActualMRP <= 0 {
		return invalid("actual_mrp", "MRP must be greater than zero")
	}
	if len(g.OtherImages) > maxGalleryImages {
		return invalid("other_images", "at most 5 gallery images are allowed")
	}
	g.Pricing = pricing.Derive(g.Pricing)
	return nil
}

func (g *GiftProduct) Normalize() {
	g.Pricing.Backfill()
}

// GiftUpdate holds the fields a PATCH may change.
type GiftUpdate struct {
	ProductName *string      `json:"product_name,omitempty"`
	Category    *string      `json:"category,omitempty"`
	ActualMRP   *float64     `json:"actual_mrp,omitempty" binding:"omitempty,gt=0"`
	Discount    *float64     `json:"discount,omitempty" binding:"omitempty,gte=0,lte=100"`
	Contents    *string      `json:"contents,omitempty"`
	Description *string      `json:"description,omitempty"`
	Image       *string      `json:"image,omitempty"`
	OtherImages []string     `json:"other_images,omitempty" binding:"omitempty,max=5"`
	FAQs        []ProductFAQ `json:"product_faqs,omitempty" binding:"omitempty,dive"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

func (u *GiftUpdate) TouchesPricing() bool {
	return u.ActualMRP != nil || u.Discount != nil
}
