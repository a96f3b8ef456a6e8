package logic

import (
	"errors"
	"fmt"

	"github.com/blues/cfl/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CapabilityLogic 管理能力凭证业务逻辑
//
// 凭证在启动时铸造且仅铸造一枚；之后的授权检查只比对Token是否持有，
// 不做任何基于身份数据的角色判断。
type CapabilityLogic struct {
	db *gorm.DB
}

// NewCapabilityLogic 创建能力凭证业务逻辑
func NewCapabilityLogic(db *gorm.DB) *CapabilityLogic {
	return &CapabilityLogic{db: db}
}

// Bootstrap 铸造能力凭证并交给部署者
//
// 幂等：已存在凭证时直接返回现有记录，created为false。
func (c *CapabilityLogic) Bootstrap(holderAddress string) (*model.AdminCapabilityModel, bool, error) {
	var existing model.AdminCapabilityModel
	err := c.db.First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("查询能力凭证失败: %w", err)
	}

	holder, err := NormalizeAddress(holderAddress)
	if err != nil {
		return nil, false, err
	}

	capability := model.AdminCapabilityModel{
		Token:         uuid.NewString(),
		HolderAddress: holder,
	}
	if err := c.db.Create(&capability).Error; err != nil {
		return nil, false, fmt.Errorf("铸造能力凭证失败: %w", err)
	}

	return &capability, true, nil
}

// Verify 校验请求携带的Token是否为当前有效凭证
func (c *CapabilityLogic) Verify(token string) (*model.AdminCapabilityModel, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	var capability model.AdminCapabilityModel
	if err := c.db.Where("token = ?", token).First(&capability).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("查询能力凭证失败: %w", err)
	}

	return &capability, nil
}

// Transfer 持有者将凭证转移给新地址
//
// 转移即换发：旧Token立即失效，新Token只返回一次。
func (c *CapabilityLogic) Transfer(token, newHolderAddress string) (*model.AdminCapabilityModel, error) {
	capability, err := c.Verify(token)
	if err != nil {
		return nil, err
	}

	holder, err := NormalizeAddress(newHolderAddress)
	if err != nil {
		return nil, err
	}

	capability.Token = uuid.NewString()
	capability.HolderAddress = holder
	if err := c.db.Model(&model.AdminCapabilityModel{}).Where("id = ?", capability.Id).Updates(map[string]interface{}{
		"token":          capability.Token,
		"holder_address": capability.HolderAddress,
	}).Error; err != nil {
		return nil, fmt.Errorf("转移能力凭证失败: %w", err)
	}

	return capability, nil
}
