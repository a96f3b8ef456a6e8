package model

import (
	"time"
)

// ContributionReceiptModel 出资凭证
//
// 每笔成功的出资铸造一张凭证，归出资人所有；铸造后金额和时间不再变更，
// 同一出资人多次出资持有多张凭证，金额永不合并。
type ContributionReceiptModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Serial             string    `json:"serial" gorm:"uniqueIndex;not null"`
	CampaignId         int64     `json:"campaign_id" gorm:"not null;index"`
	ContributorAddress string    `json:"contributor_address" gorm:"not null;index"`
	Amount             int64     `json:"amount" gorm:"not null"`
	ContributedAt      time.Time `json:"contributed_at" gorm:"not null"`

	// 退款领取后置true，防止同一凭证重复领取
	Refunded bool `json:"refunded" gorm:"default:false"`
}

// TableName 自定义表名
func (ContributionReceiptModel) TableName() string {
	return "contribution_receipt"
}
