package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/cfl/internal/cache"
	"github.com/blues/cfl/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CallerHeader 主调方身份，由宿主网关注入
const CallerHeader = "X-Caller-Address"

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
	snapshotCache *cache.Cache
}

func NewCampaignHandler(db *gorm.DB, snapshotCache *cache.Cache) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: logic.NewCampaignLogic(db),
		snapshotCache: snapshotCache,
	}
}

// campaignId 解析路径中的活动ID
func campaignId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return 0, false
	}
	return id, true
}

// CreateCampaign 创建众筹活动（需要能力凭证）
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignLogic.CreateCampaign(
		c.GetHeader(CallerHeader),
		req.Title, req.Description, req.ImageURL,
		req.GoalAmount, req.DurationDays,
	)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", ToCampaignResponse(campaign))
}

// Contribute 出资
func (h *CampaignHandler) Contribute(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := h.campaignLogic.Contribute(id, c.GetHeader(CallerHeader), req.Amount)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	h.snapshotCache.InvalidateCampaign(c.Request.Context(), id)
	SuccessResponse(c, http.StatusCreated, "出资成功", ToReceiptResponse(receipt))
}

// Withdraw 创建者提现
func (h *CampaignHandler) Withdraw(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	amount, err := h.campaignLogic.Withdraw(id, c.GetHeader(CallerHeader))
	if err != nil {
		RejectResponse(c, err)
		return
	}

	h.snapshotCache.InvalidateCampaign(c.Request.Context(), id)
	SuccessResponse(c, http.StatusOK, "提现成功", WithdrawResponse{
		CampaignId: id,
		Amount:     amount,
	})
}

// RefundTrigger 开启退款
func (h *CampaignHandler) RefundTrigger(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	if err := h.campaignLogic.RefundTrigger(id); err != nil {
		RejectResponse(c, err)
		return
	}

	h.snapshotCache.InvalidateCampaign(c.Request.Context(), id)
	SuccessResponse(c, http.StatusOK, "退款已开启", nil)
}

// ClaimRefund 出资人领取退款
func (h *CampaignHandler) ClaimRefund(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req ClaimRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.campaignLogic.ClaimRefund(id, req.ReceiptId, c.GetHeader(CallerHeader))
	if err != nil {
		RejectResponse(c, err)
		return
	}

	h.snapshotCache.InvalidateCampaign(c.Request.Context(), id)
	SuccessResponse(c, http.StatusOK, "退款领取成功", ToRefundRecordResponse(record))
}

// EmergencyCancel 管理员取消活动（需要能力凭证）
func (h *CampaignHandler) EmergencyCancel(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	campaign, err := h.campaignLogic.EmergencyCancel(id)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	h.snapshotCache.InvalidateCampaign(c.Request.Context(), id)
	SuccessResponse(c, http.StatusOK, "活动已取消", ToCampaignResponse(campaign))
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	creator := c.Query("creator")
	activeOnly := c.Query("active") == "true"
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	campaigns, total, err := h.campaignLogic.GetCampaigns(creator, activeOnly, page, pageSize)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": ToCampaignResponseList(campaigns),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// GetCampaign 获取活动详情（完整字段快照）
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	if cached, hit := h.snapshotCache.GetCampaign(c.Request.Context(), id); hit {
		SuccessResponse(c, http.StatusOK, "", ToCampaignResponse(cached))
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	h.snapshotCache.SetCampaign(c.Request.Context(), campaign)
	SuccessResponse(c, http.StatusOK, "", ToCampaignResponse(campaign))
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	stats, err := h.campaignLogic.GetCampaignStats(id)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// 只读访问器，每个都是活动记录单个字段的纯投影

// GetActive 活动是否进行中
func (h *CampaignHandler) GetActive(c *gin.Context) {
	h.field(c, func(campaign CampaignResponse) gin.H {
		return gin.H{"active": campaign.Active}
	})
}

// GetRaisedAmount 已筹金额
func (h *CampaignHandler) GetRaisedAmount(c *gin.Context) {
	h.field(c, func(campaign CampaignResponse) gin.H {
		return gin.H{"raisedAmount": campaign.RaisedAmount}
	})
}

// GetGoalAmount 目标金额
func (h *CampaignHandler) GetGoalAmount(c *gin.Context) {
	h.field(c, func(campaign CampaignResponse) gin.H {
		return gin.H{"goalAmount": campaign.GoalAmount}
	})
}

// GetEndTime 截止时间
func (h *CampaignHandler) GetEndTime(c *gin.Context) {
	h.field(c, func(campaign CampaignResponse) gin.H {
		return gin.H{"endTime": campaign.EndTime}
	})
}

// GetCreator 创建者地址
func (h *CampaignHandler) GetCreator(c *gin.Context) {
	h.field(c, func(campaign CampaignResponse) gin.H {
		return gin.H{"creator": campaign.Creator}
	})
}

// GetBalance 托管余额
func (h *CampaignHandler) GetBalance(c *gin.Context) {
	h.field(c, func(campaign CampaignResponse) gin.H {
		return gin.H{"balance": campaign.Balance}
	})
}

// field 字段投影的公共逻辑
func (h *CampaignHandler) field(c *gin.Context, project func(CampaignResponse) gin.H) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", project(ToCampaignResponse(campaign)))
}
