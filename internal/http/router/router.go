package router

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garantbot/miniapp-backend/internal/config"
	"github.com/garantbot/miniapp-backend/internal/http/handlers"
	"github.com/garantbot/miniapp-backend/internal/http/middleware"
)

func SetupRouter(
	cfg *config.Config,
	accountHandler *handlers.AccountHandler,
	dealHandler *handlers.DealHandler,
	fundingHandler *handlers.FundingHandler,
	historyHandler *handlers.HistoryHandler,
	syncHandler *handlers.SyncHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Статика Mini App
	r.StaticFile("/", filepath.Join(cfg.WebAppPath, "index.html"))
	r.StaticFile("/index.html", filepath.Join(cfg.WebAppPath, "index.html"))
	r.StaticFile("/app.js", filepath.Join(cfg.WebAppPath, "app.js"))
	r.StaticFile("/styles.css", filepath.Join(cfg.WebAppPath, "styles.css"))
	r.StaticFile("/config.js", filepath.Join(cfg.WebAppPath, "config.js"))

	api := r.Group("/api")

	api.GET("/health", healthHandler.Health)

	// Чтение состояния
	api.POST("/user", accountHandler.GetBalance)
	api.POST("/deals", dealHandler.ListDeals)
	api.POST("/history", historyHandler.GetHistory)

	// Мутирующие действия под анти-спам лимитом
	mutating := api.Group("")
	mutating.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		mutating.POST("/topup", fundingHandler.CreateTopup)
		mutating.POST("/withdraw", fundingHandler.CreateWithdrawal)
		mutating.POST("/create-deal", dealHandler.CreateDeal)
		mutating.POST("/deal-action", dealHandler.DealAction)
	}

	// Доверенный импорт состояния от основного бота
	api.POST("/sync-data", syncHandler.SyncData)

	return r
}
