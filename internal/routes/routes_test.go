package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"oils-admin/internal/auth"
	"oils-admin/internal/cache"
	"oils-admin/internal/media"
)

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, name string, data []byte, folder string) (*media.Uploaded, error) {
	return &media.Uploaded{
		Hosted: media.Hosted{SecureURL: "https://cdn.test/" + folder + "/" + name, PublicID: folder + "/" + name, Bytes: len(data)},
		Kind:   media.KindImage,
	}, nil
}

func (stubUploader) Destroy(context.Context, string, media.Kind) error { return nil }

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewIssuer("routes-test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	mem := cache.NewMemory(time.Minute, 0)
	t.Cleanup(func() { mem.Close() })

	router := gin.New()
	require.NoError(t, RegisterRoutes(router, Deps{
		Cache:          mem,
		CacheTTL:       time.Minute,
		Media:          stubUploader{},
		UploadMaxBytes: 1 << 20,
		Issuer:         issuer,
		Credentials:    auth.Credentials{Username: "admin@gmail.com", Password: "letmein"},
	}))
	return &client{t: t, router: router}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *client) login() {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/v1/auth/login", map[string]string{"username": "admin@gmail.com", "password": "letmein"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	c.token = resp.Token
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestPublicRoutes(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	for _, path := range []string{"/v1/products", "/v1/bulk-orders/export.csv", "/v1/dashboard/summary", "/v1/featured/best-sellers"} {
		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, path, nil).Code, path)
	}

	rec = c.do(http.MethodPost, "/v1/auth/login", map[string]string{"username": "admin@gmail.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	c := newClient(t)
	c.login()

	rec := c.do(http.MethodPost, "/v1/products", map[string]any{
		"product_name": "Cold Pressed Coconut Oil",
		"category":     "Oils",
		"size":         "1L",
		"actual_mrp":   420,
		"discount":     15,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := body(t, rec)
	id := created["id"].(string)
	assert.Equal(t, 357.0, created["selling_mrp"])
	assert.Equal(t, true, created["is_active"])

	rec = c.do(http.MethodPatch, "/v1/products/"+id, map[string]any{"discount": 20})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 336.0, body(t, rec)["selling_mrp"])

	rec = c.do(http.MethodPatch, "/v1/products/"+id+"/status", map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/v1/products?active=false&q=coconut", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body(t, rec)["total"])

	// Combo products live in their own collection.
	rec = c.do(http.MethodGet, "/v1/combo-products", nil)
	assert.Equal(t, 0.0, body(t, rec)["total"])

	rec = c.do(http.MethodGet, "/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	counts := body(t, rec)["counts"].(map[string]any)
	assert.Equal(t, 1.0, counts["products"])

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/v1/products/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/v1/products/"+id, nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/v1/products/not-an-id", nil).Code)
}

func TestFeaturedAndQuoteRoutes(t *testing.T) {
	c := newClient(t)
	c.login()

	ref := primitive.NewObjectID().Hex()
	rec := c.do(http.MethodPut, "/v1/featured/product-of-the-day", map[string]any{
		"items": []map[string]string{{"ref_id": ref, "source": "comboProducts", "name": "Festive Combo"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/v1/featured/product-of-the-day", nil)
	items := body(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, ref, items[0].(map[string]any)["ref_id"])

	rec = c.do(http.MethodGet, "/v1/pricing/quote?actual=140&selling=120", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 14.0, body(t, rec)["discount"])
}

func TestReadOnlyResourcesRejectWrites(t *testing.T) {
	c := newClient(t)
	c.login()

	for _, path := range []string{"/v1/bulk-orders", "/v1/contact-messages", "/v1/contacts", "/v1/visitors"} {
		assert.Equal(t, http.StatusOK, c.do(http.MethodGet, path, nil).Code, path)
		assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, path, map[string]any{}).Code, path)
	}

	rec := c.do(http.MethodGet, "/v1/contacts/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id,name,email,phone_number,message,created_at\n", rec.Body.String())
}
