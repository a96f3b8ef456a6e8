package model

import (
	"time"
)

// RefundRecordModel 退款记录，按凭证领取，每张凭证最多一条
type RefundRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId         int64  `json:"campaign_id" gorm:"not null;index"`
	ReceiptId          int64  `json:"receipt_id" gorm:"not null;uniqueIndex"`
	ContributorAddress string `json:"contributor_address" gorm:"not null"`
	Amount             int64  `json:"amount" gorm:"not null"`
}

// TableName 自定义表名
func (RefundRecordModel) TableName() string {
	return "refund_record"
}
