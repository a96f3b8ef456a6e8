package model

import (
	"time"
)

// WithdrawalRecordModel 提现记录，每次成功提现写一条
type WithdrawalRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId     int64  `json:"campaign_id" gorm:"not null;index"`
	CreatorAddress string `json:"creator_address" gorm:"not null"`
	Amount         int64  `json:"amount" gorm:"not null"`
}

// TableName 自定义表名
func (WithdrawalRecordModel) TableName() string {
	return "withdrawal_record"
}
