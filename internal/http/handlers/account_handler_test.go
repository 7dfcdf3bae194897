package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/service"
	"github.com/garantbot/miniapp-backend/internal/storage"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func newHandlerStore(t *testing.T) *ledger.Store {
	t.Helper()
	snaps, err := storage.NewSnapshotStorage(filepath.Join(t.TempDir(), "bot_data.json"), 10)
	require.NoError(t, err)
	store := ledger.NewStore(snaps, 1, decimal.NewFromInt(7000))
	require.NoError(t, store.Load())
	return store
}

func TestAccountHandler_GetBalance_MissingUserID(t *testing.T) {
	store := newHandlerStore(t)
	handler := NewAccountHandler(service.NewAccountService(store), "UQoperatorWallet")

	r := gin.New()
	r.POST("/api/user", handler.GetBalance)

	req, _ := http.NewRequest("POST", "/api/user", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestAccountHandler_GetBalance_NewUser(t *testing.T) {
	store := newHandlerStore(t)
	handler := NewAccountHandler(service.NewAccountService(store), "UQoperatorWallet")

	r := gin.New()
	r.POST("/api/user", handler.GetBalance)

	req, _ := http.NewRequest("POST", "/api/user", bytes.NewBufferString(`{"user_id": 42}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Balance        json.Number `json:"balance"`
			Frozen         json.Number `json:"frozen"`
			Available      json.Number `json:"available"`
			DepositAddress string      `json:"deposit_address"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "0", resp.Data.Balance.String())
	assert.Equal(t, "UQoperatorWallet", resp.Data.DepositAddress)
}

func TestDealHandler_CreateDeal_InvalidBody(t *testing.T) {
	store := newHandlerStore(t)
	handler := NewDealHandler(service.NewDealService(store, decimal.NewFromFloat(0.05)), "garant_bot")

	r := gin.New()
	r.POST("/api/create-deal", handler.CreateDeal)

	req, _ := http.NewRequest("POST", "/api/create-deal", bytes.NewBufferString(`{"user_id": 10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDealHandler_CreateAndListDeals(t *testing.T) {
	store := newHandlerStore(t)
	dealService := service.NewDealService(store, decimal.NewFromFloat(0.05))
	handler := NewDealHandler(dealService, "garant_bot")

	r := gin.New()
	r.POST("/api/create-deal", handler.CreateDeal)
	r.POST("/api/deals", handler.ListDeals)

	// Создание buy сделки доступно без баланса.
	body := `{"user_id": 10, "type": "buy", "name": "редкий подарок", "amount": 100}`
	req, _ := http.NewRequest("POST", "/api/create-deal", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			DealID int64 `json:"deal_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, created.Success)
	assert.Equal(t, int64(1), created.Data.DealID)

	req, _ = http.NewRequest("POST", "/api/deals", bytes.NewBufferString(`{"user_id": 10}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Success bool `json:"success"`
		Data    struct {
			Deals []struct {
				ID     int64  `json:"id"`
				Status string `json:"status"`
				Link   string `json:"link"`
			} `json:"deals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data.Deals, 1)
	assert.Equal(t, "https://t.me/garant_bot?start=deal_1", listed.Data.Deals[0].Link)
}

func TestFundingHandler_CreateTopup_BusinessError(t *testing.T) {
	store := newHandlerStore(t)
	handler := NewFundingHandler(service.NewFundingService(store, decimal.NewFromInt(1000)))

	r := gin.New()
	r.POST("/api/topup", handler.CreateTopup)

	// Сумма превышает лимит на одну заявку.
	body := `{"user_id": 10, "amount": 1500, "tx_hash": "tx-1"}`
	req, _ := http.NewRequest("POST", "/api/topup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "некорректная сумма пополнения", resp.Message)
}
