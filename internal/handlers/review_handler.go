package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"oils-admin/internal/models"
)

// ReviewHandler moderates storefront reviews.
type ReviewHandler struct {
	*Resource[models.Review]
}

func NewReviewHandler(r *Resource[models.Review]) *ReviewHandler {
	return &ReviewHandler{Resource: r}
}

// POST /v1/reviews/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.update(c, c.Param("id"), bson.M{"approved": true}, "approve review")
}

// POST /v1/reviews/:id/disapprove
func (h *ReviewHandler) Disapprove(c *gin.Context) {
	h.update(c, c.Param("id"), bson.M{"approved": false}, "disapprove review")
}
