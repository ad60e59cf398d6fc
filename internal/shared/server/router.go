package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"certverify-backend/internal/analyze"
	googleauth "certverify-backend/internal/auth"
	"certverify-backend/internal/certificates"
	"certverify-backend/internal/llm"
	"certverify-backend/internal/llm/openai"
	"certverify-backend/internal/shared/config"
	"certverify-backend/internal/shared/metrics"
	"certverify-backend/internal/shared/server/middleware"
	"certverify-backend/internal/shared/server/respond"
	"certverify-backend/internal/shared/storage/db"
	"certverify-backend/internal/shared/storage/object"
	localstore "certverify-backend/internal/shared/storage/object/local"
	s3store "certverify-backend/internal/shared/storage/object/s3"
	"certverify-backend/internal/users"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
	)

	// Dependencies
	store := buildObjectStore(cfg)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var certRepo certificates.Repo
	if sqlDB != nil {
		certRepo = &certificates.PGRepo{DB: sqlDB}
	} else {
		certRepo = certificates.NewMemoryRepo()
	}
	certSvc := &certificates.Service{Repo: certRepo, Store: store}
	certHandler := certificates.NewHandler(certSvc)

	var userRepo users.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
	}
	userSvc := users.NewService(userRepo)
	userHandler := users.NewHandler(userSvc)

	analyzeSvc := &analyze.Service{LLM: buildLLMClient(cfg)}
	analyzeHandler := analyze.NewHandler(analyzeSvc)

	googleAuthSvc := googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, userSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	googleAuthSvc.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	certHandler.RegisterRoutes(api)

	// Analysis calls paid inference, so it sits behind a tight token bucket.
	limited := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE": {Rate: 0.2, Burst: 3},
		},
		DefaultGroup: "ANALYZE",
	}))
	analyzeHandler.RegisterRoutes(limited)

	r.GET("/metrics", metrics.Handler())

	if cfg.ObjectStoreType == "local" && strings.Contains(cfg.PublicBaseURL, "/files") {
		r.Static("/files", cfg.LocalStoreDir)
	}

	return r
}

func buildObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to build s3 store, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL)
}

func buildLLMClient(cfg config.Config) llm.Client {
	if cfg.LLMProvider == "openai" {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			log.Printf("llm client not configured: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	}
	return llm.PlaceholderClient{}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
