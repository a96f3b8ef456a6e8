package task

import (
	"errors"
	"time"

	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/logger"
	"github.com/blues/cfl/internal/logic"
	"github.com/blues/cfl/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignExpiryJob 活动过期扫描任务
//
// 找出已过截止时间、未达标且仍有托管余额的活动，逐个应用退款开启。
// 调度器只是另一个调用方，前置条件与手动触发完全一致。
type CampaignExpiryJob struct {
	db            *gorm.DB
	campaignLogic *logic.CampaignLogic
	config        *config.Config
}

// NewCampaignExpiryJob 创建活动过期扫描任务
func NewCampaignExpiryJob(db *gorm.DB, cfg *config.Config) *CampaignExpiryJob {
	return &CampaignExpiryJob{
		db:            db,
		campaignLogic: logic.NewCampaignLogic(db),
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignExpiryJob) GetName() string {
	return "campaign_expiry_sweeper"
}

// GetSchedule 获取调度配置
func (j *CampaignExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.ExpiryInterval) * time.Second)
}

// Execute 执行任务
func (j *CampaignExpiryJob) Execute() {
	now := time.Now()

	var campaigns []model.CampaignModel
	err := j.db.Where("active = ? AND end_time < ? AND raised_amount < goal_amount AND balance > 0",
		true, now).Find(&campaigns).Error
	if err != nil {
		logger.Error("Failed to fetch expired campaigns: %v", err)
		return
	}
	if len(campaigns) == 0 {
		return
	}

	triggeredCount := 0
	for _, campaign := range campaigns {
		if err := j.campaignLogic.RefundTrigger(campaign.Id); err != nil {
			// 扫描和触发之间状态可能已经变化，按前置条件拒绝属正常
			if errors.Is(err, logic.ErrCampaignStillActive) ||
				errors.Is(err, logic.ErrWithdrawalNotAllowed) ||
				errors.Is(err, logic.ErrNothingToWithdraw) {
				continue
			}
			logger.Error("Failed to trigger refund for campaign %d: %v", campaign.Id, err)
			continue
		}

		logger.Info("Opened refund for expired campaign %d (raised %d / goal %d)",
			campaign.Id, campaign.RaisedAmount, campaign.GoalAmount)
		triggeredCount++
	}

	logger.Info("Campaign expiry sweep completed. Opened refund for %d campaigns", triggeredCount)
}
