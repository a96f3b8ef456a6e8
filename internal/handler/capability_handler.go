package handler

import (
	"net/http"

	"github.com/blues/cfl/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CapabilityHeader 能力凭证Token，持有即授权
const CapabilityHeader = "X-Capability-Token"

type CapabilityHandler struct {
	capabilityLogic *logic.CapabilityLogic
}

func NewCapabilityHandler(db *gorm.DB) *CapabilityHandler {
	return &CapabilityHandler{
		capabilityLogic: logic.NewCapabilityLogic(db),
	}
}

// Transfer 持有者将能力凭证转移给新地址，返回换发的新Token
func (h *CapabilityHandler) Transfer(c *gin.Context) {
	var req TransferCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	capability, err := h.capabilityLogic.Transfer(c.GetHeader(CapabilityHeader), req.NewHolder)
	if err != nil {
		RejectResponse(c, err)
		return
	}

	// 新Token只在这里返回一次
	SuccessResponse(c, http.StatusOK, "能力凭证已转移", gin.H{
		"holder": capability.HolderAddress,
		"token":  capability.Token,
	})
}
