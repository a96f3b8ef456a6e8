package logic

import (
	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress 校验并规范化地址为EIP-55校验和格式
//
// 创建者、出资人、能力凭证持有者的地址都经过这里，保证同一地址
// 不会因大小写差异被当作两个身份。
func NormalizeAddress(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(addr).Hex(), nil
}
