package event

import (
	"testing"

	"github.com/blues/cfl/internal/model"
	"github.com/stretchr/testify/require"
)

func TestSubjectSuffix(t *testing.T) {
	// 主题后缀是事件类型去掉Campaign前缀后的小写形式
	require.Equal(t, "created", subjectSuffix(model.EventCampaignCreated))
	require.Equal(t, "contributed", subjectSuffix(model.EventCampaignContributed))
	require.Equal(t, "refundopen", subjectSuffix(model.EventCampaignRefundOpen))
}
