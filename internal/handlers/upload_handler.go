package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"oils-admin/internal/media"
)

// Uploader is the part of media.Service the handlers use.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, folder string) (*media.Uploaded, error)
	Destroy(ctx context.Context, ref string, kind media.Kind) error
}

type UploadHandler struct {
	media    Uploader
	maxBytes int64
}

// NewUploadHandler rejects request bodies larger than maxBytes before
// reading them.
func NewUploadHandler(m Uploader, maxBytes int64) *UploadHandler {
	return &UploadHandler{media: m, maxBytes: maxBytes}
}

// POST /v1/uploads (multipart: file, folder)
func (h *UploadHandler) Upload(c *gin.Context) {
	name, data, ok := h.readFile(c)
	if !ok {
		return
	}

	up, err := h.media.Upload(c.Request.Context(), name, data, c.PostForm("folder"))
	if err != nil {
		respondError(c, err, "upload file")
		return
	}
	c.JSON(http.StatusCreated, up)
}

// readFile loads the "file" part, answering the request itself on failure.
func (h *UploadHandler) readFile(c *gin.Context) (string, []byte, bool) {
	if h.maxBytes > 0 {
		// Leave room for the other form fields.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit)})
			return "", nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return "", nil, false
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("file exceeds %d bytes", h.maxBytes)})
		return "", nil, false
	}

	data, err := readPart(header)
	if err != nil {
		respondError(c, err, "read upload")
		return "", nil, false
	}
	return header.Filename, data, true
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
