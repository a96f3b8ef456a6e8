package logic

import (
	"errors"
	"fmt"

	"github.com/blues/cfl/internal/model"
	"gorm.io/gorm"
)

// ReceiptLogic 出资凭证查询逻辑，凭证本身只在Contribute中铸造
type ReceiptLogic struct {
	db *gorm.DB
}

// NewReceiptLogic 创建出资凭证业务逻辑
func NewReceiptLogic(db *gorm.DB) *ReceiptLogic {
	return &ReceiptLogic{db: db}
}

// GetReceipt 获取单张凭证
func (r *ReceiptLogic) GetReceipt(id int64) (*model.ContributionReceiptModel, error) {
	var receipt model.ContributionReceiptModel
	if err := r.db.First(&receipt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("获取出资凭证失败: %w", err)
	}

	return &receipt, nil
}

// GetCampaignReceipts 获取活动的出资凭证列表
func (r *ReceiptLogic) GetCampaignReceipts(campaignId int64, page, pageSize int) ([]model.ContributionReceiptModel, int64, error) {
	var receipts []model.ContributionReceiptModel
	var total int64

	if err := r.db.Model(&model.ContributionReceiptModel{}).Where("campaign_id = ?", campaignId).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取凭证总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.Where("campaign_id = ?", campaignId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&receipts).Error; err != nil {
		return nil, 0, fmt.Errorf("获取凭证列表失败: %w", err)
	}

	return receipts, total, nil
}

// GetContributorReceipts 获取出资人持有的全部凭证
func (r *ReceiptLogic) GetContributorReceipts(contributor string, page, pageSize int) ([]model.ContributionReceiptModel, int64, error) {
	contributorAddr, err := NormalizeAddress(contributor)
	if err != nil {
		return nil, 0, err
	}

	var receipts []model.ContributionReceiptModel
	var total int64

	if err := r.db.Model(&model.ContributionReceiptModel{}).Where("contributor_address = ?", contributorAddr).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取凭证总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.Where("contributor_address = ?", contributorAddr).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&receipts).Error; err != nil {
		return nil, 0, fmt.Errorf("获取凭证列表失败: %w", err)
	}

	return receipts, total, nil
}
