package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oils-admin/internal/pricing"
)

type QuoteRequest struct {
	Actual   *float64 `form:"actual" binding:"required,gte=0"`
	Discount *float64 `form:"discount" binding:"omitempty,gte=0,lte=100"`
	Selling  *float64 `form:"selling" binding:"omitempty,gte=0"`
}

// GET /v1/pricing/quote?actual=&discount= or ?actual=&selling=
//
// Previews what the product forms will store. A discount wins when both
// are given.
func Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	p := pricing.Pricing{ActualMRP: *req.Actual}
	switch {
	case req.Discount != nil:
		p.Discount = *req.Discount
		p.Apply()
	case req.Selling != nil:
		p.SellingMRP = *req.Selling
		p.Discount = pricing.DiscountPercent(p.ActualMRP, p.SellingMRP)
	default:
		p.Apply()
	}
	c.JSON(http.StatusOK, p)
}
