package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"oils-admin/internal/models"
	"oils-admin/internal/repository"
)

const latestItems = 3

// Counter is satisfied by every repository.Store.
type Counter interface {
	Count(ctx context.Context, filter bson.M) (int64, error)
}

type DashboardSummary struct {
	Counts       map[string]int64      `json:"counts"`
	Testimonials []*models.Testimonial `json:"latest_testimonials"`
	FAQs         []*models.FAQ         `json:"latest_faqs"`
	Banners      []*models.Banner      `json:"latest_banners"`
}

// DashboardHandler serves the landing screen of the dashboard.
type DashboardHandler struct {
	counters     map[string]Counter
	testimonials repository.Store[models.Testimonial]
	faqs         repository.Store[models.FAQ]
	banners      repository.Store[models.Banner]
}

func NewDashboardHandler(
	counters map[string]Counter,
	testimonials repository.Store[models.Testimonial],
	faqs repository.Store[models.FAQ],
	banners repository.Store[models.Banner],
) *DashboardHandler {
	return &DashboardHandler{counters: counters, testimonials: testimonials, faqs: faqs, banners: banners}
}

func latest[T any](ctx context.Context, s repository.Store[T]) ([]*T, error) {
	docs, _, err := s.List(ctx, repository.ListQuery{
		Sort:     bson.D{{Key: "created_at", Value: -1}},
		Page:     1,
		PageSize: latestItems,
	})
	return docs, err
}

// GET /v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	g, ctx := errgroup.WithContext(c.Request.Context())

	names := make([]string, 0, len(h.counters))
	for name := range h.counters {
		names = append(names, name)
	}
	counts := make([]int64, len(names))
	for i, name := range names {
		i, counter := i, h.counters[name]
		g.Go(func() error {
			n, err := counter.Count(ctx, nil)
			counts[i] = n
			return err
		})
	}

	var summary DashboardSummary
	g.Go(func() (err error) {
		summary.Testimonials, err = latest(ctx, h.testimonials)
		return err
	})
	g.Go(func() (err error) {
		summary.FAQs, err = latest(ctx, h.faqs)
		return err
	})
	g.Go(func() (err error) {
		summary.Banners, err = latest(ctx, h.banners)
		return err
	})

	if err := g.Wait(); err != nil {
		respondError(c, err, "load dashboard")
		return
	}

	summary.Counts = make(map[string]int64, len(names))
	for i, name := range names {
		summary.Counts[name] = counts[i]
	}
	c.JSON(http.StatusOK, summary)
}
