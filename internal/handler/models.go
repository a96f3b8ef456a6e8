package handler

import (
	"time"

	"github.com/blues/cfl/internal/model"
)

// 请求模型

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	GoalAmount   int64  `json:"goal_amount"`
	DurationDays int64  `json:"duration_days" binding:"min=0"`
}

// ContributeRequest 出资请求
type ContributeRequest struct {
	Amount int64 `json:"amount"`
}

// ClaimRefundRequest 领取退款请求
type ClaimRefundRequest struct {
	ReceiptId int64 `json:"receipt_id" binding:"required"`
}

// TransferCapabilityRequest 转移能力凭证请求
type TransferCapabilityRequest struct {
	NewHolder string `json:"new_holder" binding:"required"`
}

// 响应模型

// CampaignResponse 活动响应模型，即活动记录的完整字段快照
type CampaignResponse struct {
	Id           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	Creator      string    `json:"creator"`
	GoalAmount   int64     `json:"goalAmount"`
	RaisedAmount int64     `json:"raisedAmount"`
	Balance      int64     `json:"balance"`
	Active       bool      `json:"active"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ReceiptResponse 出资凭证响应模型
type ReceiptResponse struct {
	Id            int64     `json:"id"`
	Serial        string    `json:"serial"`
	CampaignId    int64     `json:"campaignId"`
	Contributor   string    `json:"contributor"`
	Amount        int64     `json:"amount"`
	ContributedAt time.Time `json:"contributedAt"`
	Refunded      bool      `json:"refunded"`
}

// WithdrawResponse 提现响应
type WithdrawResponse struct {
	CampaignId int64 `json:"campaignId"`
	Amount     int64 `json:"amount"`
}

// RefundRecordResponse 退款记录响应模型
type RefundRecordResponse struct {
	Id          int64     `json:"id"`
	CampaignId  int64     `json:"campaignId"`
	ReceiptId   int64     `json:"receiptId"`
	Contributor string    `json:"contributor"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// 转换函数

// ToCampaignResponse 将数据库模型转换为响应模型
func ToCampaignResponse(campaign *model.CampaignModel) CampaignResponse {
	return CampaignResponse{
		Id:           campaign.Id,
		Title:        campaign.Title,
		Description:  campaign.Description,
		ImageURL:     campaign.ImageURL,
		Creator:      campaign.CreatorAddress,
		GoalAmount:   campaign.GoalAmount,
		RaisedAmount: campaign.RaisedAmount,
		Balance:      campaign.Balance,
		Active:       campaign.Active,
		StartTime:    campaign.StartTime,
		EndTime:      campaign.EndTime,
		CreatedAt:    campaign.CreatedAt,
		UpdatedAt:    campaign.UpdatedAt,
	}
}

// ToCampaignResponseList 将数据库模型列表转换为响应模型列表
func ToCampaignResponseList(campaigns []model.CampaignModel) []CampaignResponse {
	result := make([]CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		result[i] = ToCampaignResponse(&campaign)
	}
	return result
}

// ToReceiptResponse 将出资凭证数据库模型转换为响应模型
func ToReceiptResponse(receipt *model.ContributionReceiptModel) ReceiptResponse {
	return ReceiptResponse{
		Id:            receipt.Id,
		Serial:        receipt.Serial,
		CampaignId:    receipt.CampaignId,
		Contributor:   receipt.ContributorAddress,
		Amount:        receipt.Amount,
		ContributedAt: receipt.ContributedAt,
		Refunded:      receipt.Refunded,
	}
}

// ToReceiptResponseList 将出资凭证数据库模型列表转换为响应模型列表
func ToReceiptResponseList(receipts []model.ContributionReceiptModel) []ReceiptResponse {
	result := make([]ReceiptResponse, len(receipts))
	for i, receipt := range receipts {
		result[i] = ToReceiptResponse(&receipt)
	}
	return result
}

// ToRefundRecordResponse 将退款记录数据库模型转换为响应模型
func ToRefundRecordResponse(record *model.RefundRecordModel) RefundRecordResponse {
	return RefundRecordResponse{
		Id:          record.Id,
		CampaignId:  record.CampaignId,
		ReceiptId:   record.ReceiptId,
		Contributor: record.ContributorAddress,
		Amount:      record.Amount,
		CreatedAt:   record.CreatedAt,
	}
}
