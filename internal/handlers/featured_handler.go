package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"oils-admin/internal/models"
	"oils-admin/internal/repository"
)

// slotLimits caps how many references each storefront slot holds.
var slotLimits = map[string]int{
	models.SlotBestSellers:     4,
	models.SlotProductOfTheDay: 1,
}

type FeaturedRequest struct {
	Items []models.FeaturedRef `json:"items" binding:"dive"`
}

// FeaturedHandler stores the hand-picked best sellers and product of the day.
type FeaturedHandler struct {
	store repository.Store[models.Featured]
}

func NewFeaturedHandler(store repository.Store[models.Featured]) *FeaturedHandler {
	return &FeaturedHandler{store: store}
}

func (h *FeaturedHandler) find(c *gin.Context, slot string) (*models.Featured, error) {
	docs, _, err := h.store.List(c.Request.Context(), repository.ListQuery{
		Filters:  bson.M{"slot": slot},
		Sort:     bson.D{{Key: "updated_at", Value: -1}},
		PageSize: 1,
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

// Get returns the slot's selection; an unset slot is empty.
func (h *FeaturedHandler) Get(slot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := h.find(c, slot)
		if err != nil {
			respondError(c, err, "get "+slot)
			return
		}
		if doc == nil {
			doc = &models.Featured{Slot: slot}
		}
		if doc.Items == nil {
			doc.Items = []models.FeaturedRef{}
		}
		c.JSON(http.StatusOK, doc)
	}
}

// Put replaces the slot's selection.
func (h *FeaturedHandler) Put(slot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeaturedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if limit := slotLimits[slot]; len(req.Items) > limit {
			respondError(c, &models.ValidationError{Field: "items", Message: "too many items for " + slot}, "update "+slot)
			return
		}
		seen := make(map[string]bool, len(req.Items))
		for _, it := range req.Items {
			key := it.Source + "/" + it.RefID
			if seen[key] {
				respondError(c, &models.ValidationError{Field: "items", Message: "duplicate item " + it.RefID}, "update "+slot)
				return
			}
			seen[key] = true
		}
		if req.Items == nil {
			req.Items = []models.FeaturedRef{}
		}

		doc, err := h.find(c, slot)
		if err != nil {
			respondError(c, err, "update "+slot)
			return
		}
		if doc == nil {
			doc = &models.Featured{Slot: slot, Items: req.Items}
			if err := h.store.Create(c.Request.Context(), doc); err != nil {
				respondError(c, err, "update "+slot)
				return
			}
			c.JSON(http.StatusOK, doc)
			return
		}

		id := doc.ID.Hex()
		if err := h.store.Update(c.Request.Context(), id, bson.M{"items": req.Items}); err != nil {
			respondError(c, err, "update "+slot)
			return
		}
		updated, err := h.store.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "update "+slot)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
