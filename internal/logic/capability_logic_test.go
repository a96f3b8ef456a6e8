package logic_test

import (
	"testing"

	"github.com/blues/cfl/internal/logic"
	"github.com/blues/cfl/internal/model"
	"github.com/stretchr/testify/require"
)

func TestBootstrapMintsOnce(t *testing.T) {
	db := newTestDB(t)
	l := logic.NewCapabilityLogic(db)

	capability, created, err := l.Bootstrap(creatorAddr)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, capability.Token)

	// 再次启动不会铸造第二枚
	again, created, err := l.Bootstrap(otherAddr)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, capability.Token, again.Token)

	var count int64
	require.NoError(t, db.Model(&model.AdminCapabilityModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestVerify(t *testing.T) {
	db := newTestDB(t)
	l := logic.NewCapabilityLogic(db)

	capability, _, err := l.Bootstrap(creatorAddr)
	require.NoError(t, err)

	got, err := l.Verify(capability.Token)
	require.NoError(t, err)
	require.Equal(t, capability.Id, got.Id)

	_, err = l.Verify("")
	require.ErrorIs(t, err, logic.ErrUnauthorized)

	_, err = l.Verify("forged-token")
	require.ErrorIs(t, err, logic.ErrUnauthorized)
}

func TestTransferRotatesToken(t *testing.T) {
	db := newTestDB(t)
	l := logic.NewCapabilityLogic(db)

	capability, _, err := l.Bootstrap(creatorAddr)
	require.NoError(t, err)
	oldToken := capability.Token

	transferred, err := l.Transfer(oldToken, otherAddr)
	require.NoError(t, err)
	require.NotEqual(t, oldToken, transferred.Token)

	// 旧Token随转移作废，新Token生效
	_, err = l.Verify(oldToken)
	require.ErrorIs(t, err, logic.ErrUnauthorized)

	got, err := l.Verify(transferred.Token)
	require.NoError(t, err)
	require.Equal(t, transferred.HolderAddress, got.HolderAddress)
}

func TestTransferRequiresPossession(t *testing.T) {
	db := newTestDB(t)
	l := logic.NewCapabilityLogic(db)

	_, _, err := l.Bootstrap(creatorAddr)
	require.NoError(t, err)

	_, err = l.Transfer("wrong-token", otherAddr)
	require.ErrorIs(t, err, logic.ErrUnauthorized)
}
