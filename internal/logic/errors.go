package logic

import (
	"errors"
)

// 状态机的全部拒绝原因。每个错误对应一次前置条件违反，
// 整个事务回滚，不产生任何副作用。
var (
	ErrInvalidGoal          = errors.New("目标金额必须大于0")
	ErrInvalidDuration      = errors.New("众筹期限不能为负")
	ErrCampaignClosed       = errors.New("众筹活动已关闭，无法接受出资")
	ErrZeroContribution     = errors.New("出资金额必须大于0")
	ErrNotCreator           = errors.New("只有创建者可以提现")
	ErrCampaignStillActive  = errors.New("众筹活动尚未结束")
	ErrGoalNotReached       = errors.New("未达到目标金额，无法提现")
	ErrNothingToWithdraw    = errors.New("托管余额为零")
	ErrWithdrawalNotAllowed = errors.New("已达到目标金额，不允许退款")
	ErrUnauthorized         = errors.New("缺少有效的管理能力凭证")
	ErrInvalidAddress       = errors.New("无效的地址格式")
	ErrCampaignNotFound     = errors.New("众筹活动不存在")
	ErrReceiptNotFound      = errors.New("出资凭证不存在")
	ErrNotContributor       = errors.New("只有凭证持有者可以领取退款")
	ErrAlreadyRefunded      = errors.New("该凭证已领取过退款")
)

// CodeOf 返回错误对应的稳定错误码，供API层使用
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidGoal):
		return "INVALID_GOAL"
	case errors.Is(err, ErrInvalidDuration):
		return "INVALID_DURATION"
	case errors.Is(err, ErrCampaignClosed):
		return "CAMPAIGN_CLOSED"
	case errors.Is(err, ErrZeroContribution):
		return "ZERO_CONTRIBUTION"
	case errors.Is(err, ErrNotCreator):
		return "NOT_CREATOR"
	case errors.Is(err, ErrCampaignStillActive):
		return "CAMPAIGN_STILL_ACTIVE"
	case errors.Is(err, ErrGoalNotReached):
		return "GOAL_NOT_REACHED"
	case errors.Is(err, ErrNothingToWithdraw):
		return "NOTHING_TO_WITHDRAW"
	case errors.Is(err, ErrWithdrawalNotAllowed):
		return "WITHDRAWAL_NOT_ALLOWED"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidAddress):
		return "INVALID_ADDRESS"
	case errors.Is(err, ErrCampaignNotFound):
		return "CAMPAIGN_NOT_FOUND"
	case errors.Is(err, ErrReceiptNotFound):
		return "RECEIPT_NOT_FOUND"
	case errors.Is(err, ErrNotContributor):
		return "NOT_CONTRIBUTOR"
	case errors.Is(err, ErrAlreadyRefunded):
		return "ALREADY_REFUNDED"
	default:
		return "INTERNAL_ERROR"
	}
}
