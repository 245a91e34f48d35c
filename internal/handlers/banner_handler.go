package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"oils-admin/internal/media"
	"oils-admin/internal/models"
)

// BannerHandler creates banners from an uploaded image and removes the image
// again when the banner is deleted.
type BannerHandler struct {
	*Resource[models.Banner]
	uploads *UploadHandler
}

func NewBannerHandler(r *Resource[models.Banner], uploads *UploadHandler) *BannerHandler {
	return &BannerHandler{Resource: r, uploads: uploads}
}

// POST /v1/banners (multipart: file, title, description)
func (h *BannerHandler) CreateBanner(c *gin.Context) {
	name, data, ok := h.uploads.readFile(c)
	if !ok {
		return
	}

	up, err := h.uploads.media.Upload(c.Request.Context(), name, data, "banners")
	if err != nil {
		respondError(c, err, "upload banner")
		return
	}
	if up.Kind != media.KindImage {
		h.destroy(c, up.PublicID)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "banners must be images"})
		return
	}

	banner := &models.Banner{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		ImageURL:    up.SecureURL,
		PublicID:    up.PublicID,
		IsActive:    true,
	}
	if err := h.Store.Create(c.Request.Context(), banner); err != nil {
		h.destroy(c, up.PublicID)
		respondError(c, err, "create banner")
		return
	}

	h.Invalidate(c.Request.Context(), "")
	c.JSON(http.StatusCreated, banner)
}

// DELETE /v1/banners/:id
func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	id := c.Param("id")
	banner, err := h.Store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete banner")
		return
	}
	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete banner")
		return
	}
	h.Invalidate(c.Request.Context(), id)

	ref := banner.PublicID
	if ref == "" {
		ref = banner.ImageURL
	}
	h.destroy(c, ref)

	c.JSON(http.StatusOK, SuccessResponse{Message: "banner deleted"})
}

// destroy is best effort: a leftover asset is only logged.
func (h *BannerHandler) destroy(c *gin.Context, ref string) {
	if ref == "" {
		return
	}
	if err := h.uploads.media.Destroy(c.Request.Context(), ref, media.KindImage); err != nil {
		log.Printf("⚠️ could not remove banner image %s: %v", ref, err)
	}
}
