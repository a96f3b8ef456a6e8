package model

import (
	"time"
)

// AdminCapabilityModel 管理能力凭证
//
// 系统启动时铸造且仅铸造一枚，授权方式是持有而非身份比对：
// 请求携带正确的Token即视为持有者。持有者可以转移给新地址。
type AdminCapabilityModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Token         string `json:"-" gorm:"uniqueIndex;not null"`
	HolderAddress string `json:"holder_address" gorm:"not null"`
}

// TableName 自定义表名
func (AdminCapabilityModel) TableName() string {
	return "admin_capability"
}
