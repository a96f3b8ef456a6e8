package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/cfl/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReceiptHandler struct {
	receiptLogic *logic.ReceiptLogic
}

func NewReceiptHandler(db *gorm.DB) *ReceiptHandler {
	return &ReceiptHandler{
		receiptLogic: logic.NewReceiptLogic(db),
	}
}

// GetCampaignReceipts 获取活动的出资凭证列表
func (h *ReceiptHandler) GetCampaignReceipts(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	receipts, total, err := h.receiptLogic.GetCampaignReceipts(id, page, pageSize)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"receipts": ToReceiptResponseList(receipts),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// GetContributorReceipts 获取出资人持有的全部凭证
func (h *ReceiptHandler) GetContributorReceipts(c *gin.Context) {
	address := c.Param("address")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	receipts, total, err := h.receiptLogic.GetContributorReceipts(address, page, pageSize)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"receipts": ToReceiptResponseList(receipts),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}
