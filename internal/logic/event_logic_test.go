package logic_test

import (
	"encoding/json"
	"testing"

	"github.com/blues/cfl/internal/logic"
	"github.com/blues/cfl/internal/model"
	"github.com/stretchr/testify/require"
)

func TestOutboxFlow(t *testing.T) {
	db := newTestDB(t)
	campaignLogic := logic.NewCampaignLogic(db)
	eventLogic := logic.NewEventLogic(db)

	campaign, err := campaignLogic.CreateCampaign(creatorAddr, "目标1000", "", "", 1000, 1)
	require.NoError(t, err)
	_, err = campaignLogic.Contribute(campaign.Id, contributorAddr, 600)
	require.NoError(t, err)

	// 创建和出资各留下一条未推送事件
	events, err := eventLogic.GetUnprocessedEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, model.EventCampaignCreated, events[0].EventType)
	require.Equal(t, model.EventCampaignContributed, events[1].EventType)

	// 出资事件携带状态快照
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(events[1].Data), &payload))
	require.EqualValues(t, 600, payload["raised_amount"])
	require.Equal(t, true, payload["active"])

	// 推送后不再出现在未推送列表
	require.NoError(t, eventLogic.MarkProcessed(events[0].Id))
	events, err = eventLogic.GetUnprocessedEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.EventCampaignContributed, events[0].EventType)
}

func TestGetEventsFiltered(t *testing.T) {
	db := newTestDB(t)
	campaignLogic := logic.NewCampaignLogic(db)
	eventLogic := logic.NewEventLogic(db)

	campaign, err := campaignLogic.CreateCampaign(creatorAddr, "目标1000", "", "", 1000, 1)
	require.NoError(t, err)
	_, err = campaignLogic.Contribute(campaign.Id, contributorAddr, 100)
	require.NoError(t, err)

	events, total, err := eventLogic.GetEvents(campaign.Id, model.EventCampaignContributed, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	require.Equal(t, campaign.Id, events[0].CampaignId)
}
