package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"oils-admin/internal/models"
	"oils-admin/internal/pricing"
)

// ProductHandler adds partial updates to the products and combo products
// collections, which share one document shape.
type ProductHandler struct {
	*Resource[models.Product]
}

func NewProductHandler(r *Resource[models.Product]) *ProductHandler {
	return &ProductHandler{Resource: r}
}

// PATCH /v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	updateMap := bson.M{}
	if err := setText(updateMap, "product_name", update.ProductName, true); err != nil {
		respondError(c, err, "update product")
		return
	}
	if err := setText(updateMap, "category", update.Category, true); err != nil {
		respondError(c, err, "update product")
		return
	}
	if err := setText(updateMap, "size", update.Size, true); err != nil {
		respondError(c, err, "update product")
		return
	}
	setText(updateMap, "short_description", update.ShortDescription, false)
	setText(updateMap, "long_description", update.LongDescription, false)
	setText(updateMap, "rating", update.Rating, false)
	setText(updateMap, "main_image", update.MainImage, false)
	setText(updateMap, "ingredients", update.Ingredients, false)
	setText(updateMap, "benefits", update.Benefits, false)
	setText(updateMap, "storage_info", update.StorageInfo, false)
	if update.OtherImages != nil {
		updateMap["other_images"] = update.OtherImages
	}
	if update.Variants != nil {
		for i := range update.Variants {
			update.Variants[i].Pricing = pricing.Derive(update.Variants[i].Pricing)
		}
		updateMap["product_variants"] = update.Variants
	}
	if update.FAQs != nil {
		updateMap["product_faqs"] = update.FAQs
	}
	if update.IsActive != nil {
		updateMap["is_active"] = *update.IsActive
	}

	if update.TouchesPricing() {
		current, err := h.Store.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "update product")
			return
		}
		p := reprice(current.Pricing, update.ActualMRP, update.Discount)
		if p.SellingMRP <= 0 {
			respondError(c, &models.ValidationError{Field: "selling_mrp", Message: "pricing must produce a positive selling price"}, "update product")
			return
		}
		setPricing(updateMap, p)
	}

	if len(updateMap) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no valid fields to update"})
		return
	}
	h.update(c, id, updateMap, "update product")
}

// GiftHandler adds partial updates to gift products.
type GiftHandler struct {
	*Resource[models.GiftProduct]
}

func NewGiftHandler(r *Resource[models.GiftProduct]) *GiftHandler {
	return &GiftHandler{Resource: r}
}

// PATCH /v1/gift-products/:id
func (h *GiftHandler) UpdateGift(c *gin.Context) {
	id := c.Param("id")
	var update models.GiftUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	updateMap := bson.M{}
	if err := setText(updateMap, "product_name", update.ProductName, true); err != nil {
		respondError(c, err, "update gift product")
		return
	}
	if err := setText(updateMap, "category", update.Category, true); err != nil {
		respondError(c, err, "update gift product")
		return
	}
	setText(updateMap, "contents", update.Contents, false)
	setText(updateMap, "description", update.Description, false)
	setText(updateMap, "image", update.Image, false)
	if update.OtherImages != nil {
		updateMap["other_images"] = update.OtherImages
	}
	if update.FAQs != nil {
		updateMap["product_faqs"] = update.FAQs
	}
	if update.IsActive != nil {
		updateMap["is_active"] = *update.IsActive
	}

	if update.TouchesPricing() {
		current, err := h.Store.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "update gift product")
			return
		}
		setPricing(updateMap, reprice(current.Pricing, update.ActualMRP, update.Discount))
	}

	if len(updateMap) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no valid fields to update"})
		return
	}
	h.update(c, id, updateMap, "update gift product")
}

// setText copies a trimmed optional string. Required fields may not be
// cleared.
func setText(m bson.M, field string, v *string, required bool) error {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if required && s == "" {
		return &models.ValidationError{Field: field, Message: field + " cannot be empty"}
	}
	m[field] = s
	return nil
}

// reprice merges the changed inputs into the stored price and recomputes
// the selling price.
func reprice(current pricing.Pricing, actual, discount *float64) pricing.Pricing {
	p := current
	if discount == nil {
		// Legacy records only stored the selling price.
		p.Backfill()
	}
	if actual != nil {
		p.ActualMRP = *actual
	}
	if discount != nil {
		p.Discount = *discount
	}
	p.Apply()
	return p
}

func setPricing(m bson.M, p pricing.Pricing) {
	m["actual_mrp"] = p.ActualMRP
	m["discount"] = p.Discount
	m["selling_mrp"] = p.SellingMRP
}
