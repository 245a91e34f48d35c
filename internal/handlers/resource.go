package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"oils-admin/internal/cache"
	"oils-admin/internal/export"
	"oils-admin/internal/repository"
)

type preparer interface {
	Prepare() error
}

type normalizer interface {
	Normalize()
}

// ListResponse is the page envelope every list endpoint returns.
type ListResponse[T any] struct {
	Data       []*T  `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

type StatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Resource serves the standard endpoints for one collection. Documents that
// implement Prepare are validated before writes; those that implement
// Normalize are adjusted after reads.
type Resource[T any] struct {
	Name          string
	Store         repository.Store[T]
	Cache         cache.Store
	TTL           time.Duration
	New           func() *T
	SearchFields  []string
	Filters       []Filter
	ExportColumns []string
}

func (r *Resource[T]) listPrefix() string { return r.Name + ":list:" }
func (r *Resource[T]) itemKey(id string) string {
	return r.Name + ":item:" + id
}

func (r *Resource[T]) newDoc() *T {
	if r.New != nil {
		return r.New()
	}
	return new(T)
}

func normalize[T any](docs ...*T) {
	for _, d := range docs {
		if n, ok := any(d).(normalizer); ok {
			n.Normalize()
		}
	}
}

func prepare[T any](doc *T) error {
	if p, ok := any(doc).(preparer); ok {
		return p.Prepare()
	}
	return nil
}

// Invalidate drops cached pages and, when id is set, the cached item.
func (r *Resource[T]) Invalidate(ctx context.Context, id string) {
	if r.Cache == nil {
		return
	}
	if id != "" {
		if err := r.Cache.Delete(ctx, r.itemKey(id)); err != nil {
			log.Printf("⚠️ cache delete %s: %v", r.itemKey(id), err)
		}
	}
	if err := r.Cache.DeleteByPrefix(ctx, r.listPrefix()); err != nil {
		log.Printf("⚠️ cache invalidate %s: %v", r.listPrefix(), err)
	}
}

func (r *Resource[T]) cacheGet(ctx context.Context, key string, target any) bool {
	if r.Cache == nil {
		return false
	}
	found, err := cache.Unmarshal(ctx, r.Cache, key, target)
	if err != nil {
		log.Printf("⚠️ cache read %s: %v", key, err)
		return false
	}
	return found
}

func (r *Resource[T]) cacheSet(ctx context.Context, key string, value any) {
	if r.Cache == nil {
		return
	}
	if err := cache.Marshal(ctx, r.Cache, key, value, r.TTL); err != nil {
		log.Printf("⚠️ cache write %s: %v", key, err)
	}
}

// GET /v1/<name>
func (r *Resource[T]) List(c *gin.Context) {
	q, err := listQuery(c, r.SearchFields, r.Filters)
	if err != nil {
		badRequest(c, err)
		return
	}

	key := cacheKeyFor(r.listPrefix(), q)
	var cached ListResponse[T]
	if r.cacheGet(c.Request.Context(), key, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	docs, total, err := r.Store.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "list "+r.Name)
		return
	}
	normalize(docs...)

	resp := ListResponse[T]{
		Data:       docs,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}
	r.cacheSet(c.Request.Context(), key, resp)
	c.JSON(http.StatusOK, resp)
}

// GET /v1/<name>/:id
func (r *Resource[T]) Get(c *gin.Context) {
	id := c.Param("id")
	key := r.itemKey(id)

	var cached T
	if r.cacheGet(c.Request.Context(), key, &cached) {
		c.JSON(http.StatusOK, &cached)
		return
	}

	doc, err := r.Store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get "+r.Name)
		return
	}
	normalize(doc)

	r.cacheSet(c.Request.Context(), key, doc)
	c.JSON(http.StatusOK, doc)
}

// POST /v1/<name>
func (r *Resource[T]) Create(c *gin.Context) {
	doc := r.newDoc()
	if err := c.ShouldBindJSON(doc); err != nil {
		badRequest(c, err)
		return
	}
	if err := prepare(doc); err != nil {
		respondError(c, err, "create "+r.Name)
		return
	}

	if err := r.Store.Create(c.Request.Context(), doc); err != nil {
		respondError(c, err, "create "+r.Name)
		return
	}

	r.Invalidate(c.Request.Context(), "")
	c.JSON(http.StatusCreated, doc)
}

// PUT /v1/<name>/:id replaces every editable field.
func (r *Resource[T]) Replace(c *gin.Context) {
	id := c.Param("id")
	doc := r.newDoc()
	if err := c.ShouldBindJSON(doc); err != nil {
		badRequest(c, err)
		return
	}
	if err := prepare(doc); err != nil {
		respondError(c, err, "update "+r.Name)
		return
	}

	if err := r.Store.Replace(c.Request.Context(), id, doc); err != nil {
		respondError(c, err, "update "+r.Name)
		return
	}

	r.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, doc)
}

// DELETE /v1/<name>/:id
func (r *Resource[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := r.Store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete "+r.Name)
		return
	}

	r.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, SuccessResponse{Message: r.Name + " deleted"})
}

// PATCH /v1/<name>/:id/status
func (r *Resource[T]) SetStatus(c *gin.Context) {
	id := c.Param("id")
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r.update(c, id, bson.M{"is_active": *req.IsActive}, "update status")
}

// update applies fields and answers with the stored document.
func (r *Resource[T]) update(c *gin.Context, id string, fields bson.M, action string) {
	if err := r.Store.Update(c.Request.Context(), id, fields); err != nil {
		respondError(c, err, action)
		return
	}
	r.Invalidate(c.Request.Context(), id)

	doc, err := r.Store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, action)
		return
	}
	normalize(doc)
	c.JSON(http.StatusOK, doc)
}

// GET /v1/<name>/export.csv returns every matching record, unpaginated.
func (r *Resource[T]) Export(c *gin.Context) {
	q, err := listQuery(c, r.SearchFields, r.Filters)
	if err != nil {
		badRequest(c, err)
		return
	}
	q.Page, q.PageSize = 0, 0

	docs, _, err := r.Store.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "export "+r.Name)
		return
	}
	normalize(docs...)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, docs, r.ExportColumns); err != nil {
		respondError(c, err, "export "+r.Name)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", r.Name, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// RegisterReadOnly mounts list, export and get.
func (r *Resource[T]) RegisterReadOnly(g *gin.RouterGroup) {
	g.GET("", r.List)
	g.GET("/export.csv", r.Export)
	g.GET("/:id", r.Get)
}

// RegisterCRUD mounts the read-only routes plus create, replace, delete and
// the status toggle.
func (r *Resource[T]) RegisterCRUD(g *gin.RouterGroup) {
	r.RegisterReadOnly(g)
	g.POST("", r.Create)
	g.PUT("/:id", r.Replace)
	g.DELETE("/:id", r.Delete)
	g.PATCH("/:id/status", r.SetStatus)
}
