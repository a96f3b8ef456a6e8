package handler

import (
	"errors"
	"net/http"

	"github.com/blues/cfl/internal/logic"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// RejectResponse 状态机拒绝响应，携带稳定错误码
func RejectResponse(c *gin.Context, err error) {
	c.JSON(statusOf(err), Response{
		Success: false,
		Code:    logic.CodeOf(err),
		Message: err.Error(),
		Data:    nil,
	})
}

// statusOf 拒绝原因到HTTP状态码的映射
func statusOf(err error) int {
	switch {
	case errors.Is(err, logic.ErrInvalidGoal),
		errors.Is(err, logic.ErrInvalidDuration),
		errors.Is(err, logic.ErrZeroContribution),
		errors.Is(err, logic.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, logic.ErrNotCreator),
		errors.Is(err, logic.ErrNotContributor):
		return http.StatusForbidden
	case errors.Is(err, logic.ErrCampaignNotFound),
		errors.Is(err, logic.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrCampaignClosed),
		errors.Is(err, logic.ErrCampaignStillActive),
		errors.Is(err, logic.ErrGoalNotReached),
		errors.Is(err, logic.ErrNothingToWithdraw),
		errors.Is(err, logic.ErrWithdrawalNotAllowed),
		errors.Is(err, logic.ErrAlreadyRefunded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
