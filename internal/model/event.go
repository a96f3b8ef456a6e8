package model

import (
	"time"
)

// 事件类型
const (
	EventCampaignCreated     = "CampaignCreated"
	EventCampaignContributed = "CampaignContributed"
	EventCampaignRefundOpen  = "CampaignRefundOpen"
)

// EventModel 事件发件箱记录
//
// 与状态变更在同一事务内写入，由后台任务异步推送到NATS；
// 推送成功后置Processed，推送失败下个周期重试。
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventType  string `json:"event_type" gorm:"not null;index"`
	CampaignId int64  `json:"campaign_id" gorm:"not null;index"`
	Data       string `json:"data" gorm:"type:text"`
	Processed  bool   `json:"processed" gorm:"default:false;index"`
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
