package logic

import (
	"encoding/json"
	"fmt"

	"github.com/blues/cfl/internal/model"
	"gorm.io/gorm"
)

// EventLogic 事件发件箱业务逻辑
type EventLogic struct {
	db *gorm.DB
}

// NewEventLogic 创建事件业务逻辑
func NewEventLogic(db *gorm.DB) *EventLogic {
	return &EventLogic{db: db}
}

// appendEvent 在给定事务内追加一条发件箱记录，与状态变更一起提交
func appendEvent(tx *gorm.DB, eventType string, campaignId int64, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化事件数据失败: %w", err)
	}

	event := model.EventModel{
		EventType:  eventType,
		CampaignId: campaignId,
		Data:       string(data),
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("创建事件记录失败: %w", err)
	}
	return nil
}

// GetUnprocessedEvents 获取未推送的事件
func (e *EventLogic) GetUnprocessedEvents(limit int) ([]model.EventModel, error) {
	var events []model.EventModel
	if err := e.db.Where("processed = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("获取未推送事件失败: %w", err)
	}

	return events, nil
}

// MarkProcessed 标记事件已推送
func (e *EventLogic) MarkProcessed(id int64) error {
	if err := e.db.Model(&model.EventModel{}).Where("id = ?", id).Update("processed", true).Error; err != nil {
		return fmt.Errorf("更新事件推送状态失败: %w", err)
	}

	return nil
}

// GetEvents 获取事件列表
func (e *EventLogic) GetEvents(campaignId int64, eventType string, page, pageSize int) ([]model.EventModel, int64, error) {
	var events []model.EventModel
	var total int64

	// 构建查询条件
	query := e.db.Model(&model.EventModel{})
	if campaignId > 0 {
		query = query.Where("campaign_id = ?", campaignId)
	}
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取事件总数失败: %w", err)
	}

	// 分页查询
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("获取事件列表失败: %w", err)
	}

	return events, total, nil
}
