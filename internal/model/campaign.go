package model

import (
	"time"
)

// CampaignModel 众筹活动模型
//
// Balance 是托管余额：已筹集但尚未提现/退款的部分。任何操作提交后
// Balance = RaisedAmount - 已提现 - 已退款。
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url"`

	// 众筹信息
	GoalAmount   int64 `json:"goal_amount" gorm:"not null"`
	RaisedAmount int64 `json:"raised_amount" gorm:"default:0"`
	Balance      int64 `json:"balance" gorm:"default:0"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 状态：一旦变为false永远不会回到true
	Active bool `json:"active" gorm:"default:true"`

	// 创建者信息
	CreatorAddress string `json:"creator_address" gorm:"not null;index"`
}

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}

// GoalReached 是否已达到目标金额
func (c *CampaignModel) GoalReached() bool {
	return c.RaisedAmount >= c.GoalAmount
}

// Expired 是否已过结束时间
func (c *CampaignModel) Expired(now time.Time) bool {
	return now.After(c.EndTime)
}
