package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garantbot/miniapp-backend/internal/config"
	httpHandlers "github.com/garantbot/miniapp-backend/internal/http/handlers"
	httpRouter "github.com/garantbot/miniapp-backend/internal/http/router"
	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/service"
	"github.com/garantbot/miniapp-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Суммы в JSON отдаём числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true

	// Файловое хранилище снимков и реестр.
	snapshots, err := storage.NewSnapshotStorage(cfg.DataFile, cfg.BackupKeep)
	if err != nil {
		log.Fatalf("main: не удалось подготовить хранилище снимков: %v", err)
	}

	store := ledger.NewStore(snapshots, cfg.OperatorID, cfg.OperatorStartBalance)
	if err := store.Load(); err != nil {
		log.Fatalf("main: не удалось загрузить состояние: %v", err)
	}

	// Сервисы.
	accountService := service.NewAccountService(store)
	dealService := service.NewDealService(store, cfg.CommissionRate)
	fundingService := service.NewFundingService(store, cfg.MaxTopupAmount)
	historyService := service.NewHistoryService(store, cfg.CommissionRate)
	syncService := service.NewSyncService(store)

	// HTTP хэндлеры.
	accountHandler := httpHandlers.NewAccountHandler(accountService, cfg.TonWalletAddress)
	dealHandler := httpHandlers.NewDealHandler(dealService, cfg.BotUsername)
	fundingHandler := httpHandlers.NewFundingHandler(fundingService)
	historyHandler := httpHandlers.NewHistoryHandler(historyService)
	syncHandler := httpHandlers.NewSyncHandler(syncService)
	healthHandler := httpHandlers.NewHealthHandler(version)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, accountHandler, dealHandler, fundingHandler, historyHandler, syncHandler, healthHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.Infof("main: сервер запущен на порту %s", cfg.HTTPPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: ошибка http сервера: %v", err)
	}

	logger.Log.Info("main: сервер остановлен")
}
