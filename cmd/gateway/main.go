// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/econosage/gateway/internal/formula"
	"github.com/econosage/gateway/internal/llm"
	"github.com/econosage/gateway/internal/marketdata"
	"github.com/econosage/gateway/internal/query"
	"github.com/econosage/gateway/internal/session"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting EconoSage Gateway | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
	}

	ctx := context.Background()
	classifierClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Pipeline.ClassifierModel)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not create classifier client: %v", err)
	}
	explainerClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Pipeline.ExplainerModel)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not create explainer client: %v", err)
	}

	market := marketdata.NewManager(rdb,
		marketdata.NewStockPriceFetcher(),
		marketdata.NewCurrencyRateFetcher(),
		marketdata.NewInflationRateFetcher(),
		marketdata.NewTaxRateFetcher(),
	)

	classifier := query.NewClassifier(classifierClient, cfg.Pipeline.ClassifierModel, cfg.ClassifyTimeout())
	parser := query.NewParser(classifier, func(key string) bool {
		return formula.Supports(key) || market.Supports(key)
	})

	explainer := llm.NewExplainer(explainerClient, cfg.Pipeline.ExplainerModel)
	sessions := session.NewStore(rdb)
	respCache := llm.NewResponseCache(rdb)

	gatewayHandler := NewGatewayHandler(parser, market, explainer, sessions, respCache, cfg)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": buildInfo.Version})
	})
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/chat", gatewayHandler.HandleChat)
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Gateway is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
