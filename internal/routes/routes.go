package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"oils-admin/internal/auth"
	"oils-admin/internal/cache"
	"oils-admin/internal/handlers"
	"oils-admin/internal/models"
	"oils-admin/internal/repository"
)

// Deps are the services the routes are built from.
type Deps struct {
	DB             *mongo.Database // nil selects in-memory stores
	Cache          cache.Store
	CacheTTL       time.Duration
	Media          handlers.Uploader
	UploadMaxBytes int64
	Issuer         *auth.Issuer
	Credentials    auth.Credentials
	CORSOrigins    []string
}

func resource[T any, P repository.Document[T]](d Deps, name, collection string, newDoc func() *T, search []string, filters ...handlers.Filter) *handlers.Resource[T] {
	return &handlers.Resource[T]{
		Name:         name,
		Store:        repository.Open[T, P](d.DB, collection),
		Cache:        d.Cache,
		TTL:          d.CacheTTL,
		New:          newDoc,
		SearchFields: search,
		Filters:      filters,
	}
}

func RegisterRoutes(router *gin.Engine, d Deps) error {
	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	router.Use(handlers.RequestID())
	corsConfig := cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handlers.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", handlers.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(d.CORSOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	category := handlers.TextFilter("category", "category")
	active := handlers.ActiveFilter
	price := handlers.PriceFilter

	products := resource[models.Product, *models.Product](d, "products", "products", models.NewProduct,
		[]string{"product_name", "category", "short_description"}, category, active, price)
	combos := resource[models.Product, *models.Product](d, "combo-products", "comboProducts", models.NewProduct,
		[]string{"product_name", "category", "short_description"}, category, active, price)
	gifts := resource[models.GiftProduct, *models.GiftProduct](d, "gift-products", "giftProducts", models.NewGiftProduct,
		[]string{"product_name", "category", "contents"}, category, active, price)
	blogs := resource[models.Blog, *models.Blog](d, "blogs", "blogs", models.NewBlog,
		[]string{"title", "category", "author"}, category, active)
	podcasts := resource[models.Podcast, *models.Podcast](d, "podcasts", "podcasts", models.NewPodcast,
		[]string{"title", "admin_name", "description"}, active)
	testimonials := resource[models.Testimonial, *models.Testimonial](d, "testimonials", "testimonials", models.NewTestimonial,
		[]string{"name", "location", "description"}, handlers.TextFilter("type", "type"), active)
	faqs := resource[models.FAQ, *models.FAQ](d, "faqs", "faqs", models.NewFAQ,
		[]string{"question", "answer", "category"}, category, active)
	banners := resource[models.Banner, *models.Banner](d, "banners", "banners", nil,
		[]string{"title", "description"}, active)
	slider := resource[models.SliderText, *models.SliderText](d, "slider", "slider", models.NewSliderText,
		[]string{"text"}, active)
	reviews := resource[models.Review, *models.Review](d, "reviews", "reviews", nil,
		[]string{"name", "email", "description"}, handlers.BoolFilter("approved", "approved"), handlers.TextFilter("product_id", "product_id"))

	bulkOrders := resource[models.BulkOrder, *models.BulkOrder](d, "bulk-orders", "bulkOrders", nil,
		[]string{"first_name", "email", "mobile_no", "company_name", "product_name"}, handlers.TextFilter("state", "state"))
	bulkOrders.ExportColumns = []string{"id", "first_name", "email", "mobile_no", "state", "product_name", "company_name", "message", "created_at"}
	contactMessages := resource[models.ContactMessage, *models.ContactMessage](d, "contact-messages", "contactMessages", nil,
		[]string{"first_name", "last_name", "email", "phone", "message"})
	contactMessages.ExportColumns = []string{"id", "first_name", "last_name", "email", "phone", "message", "created_at"}
	contacts := resource[models.Contact, *models.Contact](d, "contacts", "contacts", nil,
		[]string{"name", "email", "phone_number", "message"})
	contacts.ExportColumns = []string{"id", "name", "email", "phone_number", "message", "created_at"}
	visitors := resource[models.Visitor, *models.Visitor](d, "visitors", "users", nil,
		[]string{"name", "email", "phone"})
	visitors.ExportColumns = []string{
		"id", "name", "email", "phone",
		"userId", "userName", "userEmail", "userPhone",
		"orderId", "orderCreatedAt", "orderAmount", "delivered", "paymentMethod", "paymentStatus",
	}

	featured := handlers.NewFeaturedHandler(repository.Open[models.Featured, *models.Featured](d.DB, "featured"))
	uploads := handlers.NewUploadHandler(d.Media, d.UploadMaxBytes)
	productHandler := handlers.NewProductHandler(products)
	comboHandler := handlers.NewProductHandler(combos)
	giftHandler := handlers.NewGiftHandler(gifts)
	bannerHandler := handlers.NewBannerHandler(banners, uploads)
	reviewHandler := handlers.NewReviewHandler(reviews)
	authHandler := handlers.NewAuthHandler(d.Issuer, d.Credentials)
	dashboard := handlers.NewDashboardHandler(
		map[string]handlers.Counter{
			"products":         products.Store,
			"combo_products":   combos.Store,
			"gift_products":    gifts.Store,
			"blogs":            blogs.Store,
			"podcasts":         podcasts.Store,
			"testimonials":     testimonials.Store,
			"faqs":             faqs.Store,
			"banners":          banners.Store,
			"reviews":          reviews.Store,
			"bulk_orders":      bulkOrders.Store,
			"contact_messages": contactMessages.Store,
			"contacts":         contacts.Store,
			"visitors":         visitors.Store,
		},
		testimonials.Store, faqs.Store, banners.Store,
	)

	router.GET("/healthz", handlers.Health)

	v1 := router.Group("/v1")
	v1.POST("/auth/login", authHandler.Login)

	api := v1.Group("", auth.Middleware(d.Issuer))
	{
		g := api.Group("/products")
		productHandler.RegisterCRUD(g)
		g.PATCH("/:id", productHandler.UpdateProduct)

		g = api.Group("/combo-products")
		comboHandler.RegisterCRUD(g)
		g.PATCH("/:id", comboHandler.UpdateProduct)

		g = api.Group("/gift-products")
		giftHandler.RegisterCRUD(g)
		g.PATCH("/:id", giftHandler.UpdateGift)

		blogs.RegisterCRUD(api.Group("/blogs"))
		podcasts.RegisterCRUD(api.Group("/podcasts"))
		testimonials.RegisterCRUD(api.Group("/testimonials"))
		faqs.RegisterCRUD(api.Group("/faqs"))
		slider.RegisterCRUD(api.Group("/slider"))

		g = api.Group("/banners")
		bannerHandler.RegisterReadOnly(g)
		g.POST("", bannerHandler.CreateBanner)
		g.DELETE("/:id", bannerHandler.DeleteBanner)
		g.PATCH("/:id/status", bannerHandler.SetStatus)

		g = api.Group("/reviews")
		reviewHandler.RegisterReadOnly(g)
		g.DELETE("/:id", reviewHandler.Delete)
		g.POST("/:id/approve", reviewHandler.Approve)
		g.POST("/:id/disapprove", reviewHandler.Disapprove)

		bulkOrders.RegisterReadOnly(api.Group("/bulk-orders"))
		contactMessages.RegisterReadOnly(api.Group("/contact-messages"))
		contacts.RegisterReadOnly(api.Group("/contacts"))
		visitors.RegisterReadOnly(api.Group("/visitors"))

		api.GET("/featured/best-sellers", featured.Get(models.SlotBestSellers))
		api.PUT("/featured/best-sellers", featured.Put(models.SlotBestSellers))
		api.GET("/featured/product-of-the-day", featured.Get(models.SlotProductOfTheDay))
		api.PUT("/featured/product-of-the-day", featured.Put(models.SlotProductOfTheDay))

		api.GET("/dashboard/summary", dashboard.Summary)
		api.GET("/pricing/quote", handlers.Quote)
		api.POST("/uploads", uploads.Upload)
	}
	return nil
}
