package main

import (
	"log"
	"log/slog"
	"os"
	"trendscope/db"
	"trendscope/internal/cache"
	"trendscope/internal/handler"
	"trendscope/internal/model"
	"trendscope/internal/repository"
	"trendscope/pkg/tiktok"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.ConnectRedis(); err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	postRepo := repository.NewPostRepository(db.DB)
	metricRepo := repository.NewMetricRepository(db.DB)
	strategyRepo := repository.NewStrategyRepository(db.DB)
	savedRepo := repository.NewSavedRepository(db.DB)
	membershipRepo := repository.NewMembershipRepository(db.DB)
	accountRepo := repository.NewAccountRepository(db.DB)

	var trendCache handler.TrendCache = repository.NewTrendCacheRepository(db.DB)
	if db.Redis != nil {
		slog.Info("using Redis trend cache")
		trendCache = cache.NewRedisTrendCache(db.Redis)
	}

	importHandler := handler.NewImportHandler(importStore{posts: postRepo, metrics: metricRepo})
	postsHandler := handler.NewPostsHandler(postRepo, metricRepo, strategyRepo)
	trendsHandler := handler.NewTrendsHandler(postRepo, metricRepo, trendCache)
	savedHandler := handler.NewSavedHandler(savedRepo)
	analyticsHandler := handler.NewAnalyticsHandler(postRepo, metricRepo, strategyRepo)

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	oauthHandler := handler.NewOAuthHandler(accountRepo, tiktok.ConfigFromEnv(), frontendURL)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}))

	api := r.Group("/api", handler.TenantMiddleware(membershipRepo))
	api.POST("/import", importHandler.Import)
	api.GET("/posts", postsHandler.GetPosts)
	api.GET("/posts/:id", postsHandler.GetPost)
	api.PUT("/posts/:id/strategy", postsHandler.UpdateStrategy)
	api.GET("/trends/search", trendsHandler.Search)
	api.POST("/saved", savedHandler.Save)
	api.GET("/saved", savedHandler.List)
	api.DELETE("/saved/:id", savedHandler.Delete)
	api.GET("/analytics/strategies", analyticsHandler.GetStrategyBreakdown)

	r.GET("/oauth/tiktok/start", oauthHandler.Start)
	r.GET("/oauth/tiktok/callback", oauthHandler.Callback)
	r.GET("/health", postsHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// importStore bundles the two repositories the import flow writes to.
type importStore struct {
	posts   *repository.PostRepository
	metrics *repository.MetricRepository
}

func (s importStore) UpsertPosts(posts []model.Post) (map[string]string, error) {
	return s.posts.UpsertPosts(posts)
}

func (s importStore) UpsertMetrics(metrics []model.DailyMetric) error {
	return s.metrics.UpsertMetrics(metrics)
}
