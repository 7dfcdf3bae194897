package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/garantbot/miniapp-backend/internal/dto"
	"github.com/garantbot/miniapp-backend/internal/http/handlers/common"
	"github.com/garantbot/miniapp-backend/internal/service"
)

// DealHandler обслуживает создание сделок, действия над ними и список
// сделок пользователя.
type DealHandler struct {
	dealService *service.DealService
	botUsername string
}

// NewDealHandler создаёт обработчик сделок.
func NewDealHandler(dealService *service.DealService, botUsername string) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		botUsername: botUsername,
	}
}

// ListDeals обрабатывает POST /api/deals.
func (h *DealHandler) ListDeals(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "не указан user_id")
		return
	}

	deals := h.dealService.ListUserDeals(req.UserID)
	views := make([]dto.DealView, 0, len(deals))
	for _, deal := range deals {
		views = append(views, dto.DealView{
			Deal: deal,
			Link: h.dealLink(deal.ID),
		})
	}

	common.RespondData(c, dto.DealListData{Deals: views})
}

// CreateDeal обрабатывает POST /api/create-deal.
func (h *DealHandler) CreateDeal(c *gin.Context) {
	var req dto.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные параметры сделки")
		return
	}

	dealID, err := h.dealService.Create(req.UserID, req.Type, req.Name, req.Amount)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondData(c, dto.CreateDealData{DealID: dealID})
}

// DealAction обрабатывает POST /api/deal-action.
func (h *DealHandler) DealAction(c *gin.Context) {
	var req dto.DealActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные параметры действия")
		return
	}

	if err := h.dealService.ApplyAction(req.UserID, req.DealID, req.Action); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondMessage(c, "действие выполнено")
}

// dealLink строит deep-link для приглашения второй стороны в сделку.
func (h *DealHandler) dealLink(dealID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=deal_%d", h.botUsername, dealID)
}
