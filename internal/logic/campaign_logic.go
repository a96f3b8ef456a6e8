package logic

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blues/cfl/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// campaignLocks 进程级的活动互斥锁注册表，按活动ID取锁。
// 包级共享，handler和后台任务各自持有的CampaignLogic用的是同一组锁。
var campaignLocks sync.Map // campaignId -> *sync.Mutex

// CampaignLogic 众筹活动状态机
//
// 所有写操作在持有该活动的互斥锁期间执行，同一活动的并发请求被串行化，
// 不同活动完全并行；锁内再包一个数据库事务保证原子提交。
type CampaignLogic struct {
	db *gorm.DB
}

// NewCampaignLogic 创建众筹活动业务逻辑
func NewCampaignLogic(db *gorm.DB) *CampaignLogic {
	return &CampaignLogic{db: db}
}

// lockCampaign 获取活动级互斥锁
func (l *CampaignLogic) lockCampaign(id int64) *sync.Mutex {
	v, _ := campaignLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// CreateCampaign 创建众筹活动
//
// 能力校验在路由层完成；这里只校验业务前置条件。
func (l *CampaignLogic) CreateCampaign(creator, title, description, imageURL string, goalAmount, durationDays int64) (*model.CampaignModel, error) {
	creatorAddr, err := NormalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	if goalAmount <= 0 {
		return nil, ErrInvalidGoal
	}
	if durationDays < 0 {
		return nil, ErrInvalidDuration
	}

	now := time.Now()
	campaign := model.CampaignModel{
		Title:          title,
		Description:    description,
		ImageURL:       imageURL,
		GoalAmount:     goalAmount,
		RaisedAmount:   0,
		Balance:        0,
		StartTime:      now,
		EndTime:        now.Add(time.Duration(durationDays) * 24 * time.Hour),
		Active:         true,
		CreatorAddress: creatorAddr,
	}

	// 开始事务
	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&campaign).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("创建众筹活动失败: %w", err)
	}

	if err := appendEvent(tx, model.EventCampaignCreated, campaign.Id, map[string]interface{}{
		"campaign_id": campaign.Id,
		"creator":     campaign.CreatorAddress,
		"goal_amount": campaign.GoalAmount,
		"end_time":    campaign.EndTime,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &campaign, nil
}

// Contribute 接受一笔出资
//
// 原子效果：累加raised、并入托管余额、铸造出资凭证、写入事件；
// 越过目标金额的那笔出资全额接受，随后活动立即关闭。
func (l *CampaignLogic) Contribute(campaignId int64, contributor string, amount int64) (*model.ContributionReceiptModel, error) {
	contributorAddr, err := NormalizeAddress(contributor)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrZeroContribution
	}

	mu := l.lockCampaign(campaignId)
	mu.Lock()
	defer mu.Unlock()

	campaign, err := l.GetCampaign(campaignId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !campaign.Active || campaign.Expired(now) {
		return nil, ErrCampaignClosed
	}

	newRaised := campaign.RaisedAmount + amount
	stillActive := newRaised < campaign.GoalAmount

	receipt := model.ContributionReceiptModel{
		Serial:             uuid.NewString(),
		CampaignId:         campaign.Id,
		ContributorAddress: contributorAddr,
		Amount:             amount,
		ContributedAt:      now,
	}

	// 开始事务
	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(campaign).Updates(map[string]interface{}{
		"raised_amount": gorm.Expr("raised_amount + ?", amount),
		"balance":       gorm.Expr("balance + ?", amount),
		"active":        stillActive,
	}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("更新众筹金额失败: %w", err)
	}

	if err := tx.Create(&receipt).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("铸造出资凭证失败: %w", err)
	}

	if err := appendEvent(tx, model.EventCampaignContributed, campaign.Id, map[string]interface{}{
		"campaign_id":    campaign.Id,
		"contributor":    contributorAddr,
		"amount":         amount,
		"raised_amount":  newRaised,
		"active":         stillActive,
		"contributed_at": now,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &receipt, nil
}

// Withdraw 创建者提取全部托管余额
//
// 仅在活动关闭且达到目标金额时允许；提现后raised清零，
// 活动记录永久保留作为历史凭据。
func (l *CampaignLogic) Withdraw(campaignId int64, caller string) (int64, error) {
	callerAddr, err := NormalizeAddress(caller)
	if err != nil {
		return 0, err
	}

	mu := l.lockCampaign(campaignId)
	mu.Lock()
	defer mu.Unlock()

	campaign, err := l.GetCampaign(campaignId)
	if err != nil {
		return 0, err
	}

	if campaign.CreatorAddress != callerAddr {
		return 0, ErrNotCreator
	}
	if campaign.Active {
		return 0, ErrCampaignStillActive
	}
	// 提现会把raised清零，空余额的判断必须先于达标判断
	if campaign.Balance <= 0 {
		return 0, ErrNothingToWithdraw
	}
	if !campaign.GoalReached() {
		return 0, ErrGoalNotReached
	}

	payout := campaign.Balance

	// 开始事务
	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(campaign).Updates(map[string]interface{}{
		"balance":       0,
		"raised_amount": 0,
	}).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("提现失败: %w", err)
	}

	record := model.WithdrawalRecordModel{
		CampaignId:     campaign.Id,
		CreatorAddress: callerAddr,
		Amount:         payout,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("创建提现记录失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	return payout, nil
}

// RefundTrigger 截止后未达标时开启退款
//
// 只把活动标记为关闭，资金仍留在托管余额中，由出资人按凭证领取。
func (l *CampaignLogic) RefundTrigger(campaignId int64) error {
	mu := l.lockCampaign(campaignId)
	mu.Lock()
	defer mu.Unlock()

	campaign, err := l.GetCampaign(campaignId)
	if err != nil {
		return err
	}

	now := time.Now()
	if !campaign.Expired(now) {
		return ErrCampaignStillActive
	}
	if campaign.GoalReached() {
		return ErrWithdrawalNotAllowed
	}
	if campaign.Balance <= 0 {
		return ErrNothingToWithdraw
	}

	// 开始事务
	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(campaign).Update("active", false).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("开启退款失败: %w", err)
	}

	if err := appendEvent(tx, model.EventCampaignRefundOpen, campaign.Id, map[string]interface{}{
		"campaign_id":   campaign.Id,
		"raised_amount": campaign.RaisedAmount,
		"goal_amount":   campaign.GoalAmount,
	}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// ClaimRefund 出资人按凭证领取退款
//
// 前提是活动已因未达标关闭；每张凭证只能领取一次，
// 领取金额严格等于凭证上记录的出资金额。
func (l *CampaignLogic) ClaimRefund(campaignId, receiptId int64, caller string) (*model.RefundRecordModel, error) {
	callerAddr, err := NormalizeAddress(caller)
	if err != nil {
		return nil, err
	}

	mu := l.lockCampaign(campaignId)
	mu.Lock()
	defer mu.Unlock()

	campaign, err := l.GetCampaign(campaignId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !campaign.Expired(now) || campaign.Active {
		return nil, ErrCampaignStillActive
	}
	if campaign.GoalReached() {
		return nil, ErrWithdrawalNotAllowed
	}

	var receipt model.ContributionReceiptModel
	if err := l.db.Where("id = ? AND campaign_id = ?", receiptId, campaignId).First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("查询出资凭证失败: %w", err)
	}

	if receipt.ContributorAddress != callerAddr {
		return nil, ErrNotContributor
	}
	if receipt.Refunded {
		return nil, ErrAlreadyRefunded
	}
	if campaign.Balance < receipt.Amount {
		return nil, ErrNothingToWithdraw
	}

	record := model.RefundRecordModel{
		CampaignId:         campaign.Id,
		ReceiptId:          receipt.Id,
		ContributorAddress: callerAddr,
		Amount:             receipt.Amount,
	}

	// 开始事务
	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(campaign).Update("balance", gorm.Expr("balance - ?", receipt.Amount)).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("扣减托管余额失败: %w", err)
	}

	if err := tx.Model(&receipt).Update("refunded", true).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("更新凭证状态失败: %w", err)
	}

	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("创建退款记录失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// EmergencyCancel 管理员熔断：无条件关闭活动
//
// 没有任何活动状态前置条件，重复调用幂等。未达标时资金
// 仍可走退款流程，达标时创建者仍可提现。
func (l *CampaignLogic) EmergencyCancel(campaignId int64) (*model.CampaignModel, error) {
	mu := l.lockCampaign(campaignId)
	mu.Lock()
	defer mu.Unlock()

	campaign, err := l.GetCampaign(campaignId)
	if err != nil {
		return nil, err
	}

	if campaign.Active {
		if err := l.db.Model(campaign).Update("active", false).Error; err != nil {
			return nil, fmt.Errorf("取消众筹活动失败: %w", err)
		}
		campaign.Active = false
	}

	return campaign, nil
}

// GetCampaign 获取活动详情
func (l *CampaignLogic) GetCampaign(id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("获取众筹活动失败: %w", err)
	}

	return &campaign, nil
}

// GetCampaigns 获取活动列表
func (l *CampaignLogic) GetCampaigns(creator string, activeOnly bool, page, pageSize int) ([]model.CampaignModel, int64, error) {
	var campaigns []model.CampaignModel
	var total int64

	query := l.db.Model(&model.CampaignModel{})
	if creator != "" {
		creatorAddr, err := NormalizeAddress(creator)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("creator_address = ?", creatorAddr)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动列表失败: %w", err)
	}

	return campaigns, total, nil
}

// GetCampaignStats 获取活动统计信息
func (l *CampaignLogic) GetCampaignStats(id int64) (map[string]interface{}, error) {
	campaign, err := l.GetCampaign(id)
	if err != nil {
		return nil, err
	}

	var contributionCount int64
	if err := l.db.Model(&model.ContributionReceiptModel{}).
		Where("campaign_id = ?", id).
		Count(&contributionCount).Error; err != nil {
		return nil, fmt.Errorf("获取出资笔数失败: %w", err)
	}

	var contributorCount int64
	if err := l.db.Model(&model.ContributionReceiptModel{}).
		Where("campaign_id = ?", id).
		Distinct("contributor_address").
		Count(&contributorCount).Error; err != nil {
		return nil, fmt.Errorf("获取出资人数失败: %w", err)
	}

	// 计算完成百分比
	completionPercentage := float64(0)
	if campaign.GoalAmount > 0 {
		completionPercentage = float64(campaign.RaisedAmount) / float64(campaign.GoalAmount) * 100
	}

	// 计算剩余时间
	remainingTime := time.Duration(0)
	if campaign.Active && time.Now().Before(campaign.EndTime) {
		remainingTime = time.Until(campaign.EndTime)
	}

	return map[string]interface{}{
		"campaign_id":           campaign.Id,
		"raised_amount":         campaign.RaisedAmount,
		"goal_amount":           campaign.GoalAmount,
		"balance":               campaign.Balance,
		"completion_percentage": completionPercentage,
		"contributor_count":     contributorCount,
		"contribution_count":    contributionCount,
		"remaining_time":        remainingTime.String(),
		"active":                campaign.Active,
	}, nil
}
