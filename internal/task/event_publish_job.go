package task

import (
	"sync"
	"time"

	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/event"
	"github.com/blues/cfl/internal/logger"
	"github.com/blues/cfl/internal/logic"
	"github.com/blues/cfl/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

const eventBatchSize = 200

// EventPublishJob 事件分发任务
//
// 周期性取出未推送的发件箱记录，通过协程池并发推送到NATS，
// 成功后标记Processed；失败的记录留在发件箱等下个周期重试。
type EventPublishJob struct {
	eventLogic *logic.EventLogic
	config     *config.Config
	publisher  *event.Publisher
}

// NewEventPublishJob 创建事件分发任务
func NewEventPublishJob(db *gorm.DB, cfg *config.Config, publisher *event.Publisher) *EventPublishJob {
	return &EventPublishJob{
		eventLogic: logic.NewEventLogic(db),
		config:     cfg,
		publisher:  publisher,
	}
}

// GetName 获取任务名称
func (j *EventPublishJob) GetName() string {
	return "event_outbox_publisher"
}

// GetSchedule 获取调度配置
func (j *EventPublishJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.EventInterval) * time.Second)
}

// Execute 执行任务
func (j *EventPublishJob) Execute() {
	events, err := j.eventLogic.GetUnprocessedEvents(eventBatchSize)
	if err != nil {
		logger.Error("Failed to fetch unprocessed events: %v", err)
		return
	}
	if len(events) == 0 {
		return
	}

	workerCount := j.config.Task.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		logger.Error("Failed to create worker pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range events {
		ev := events[i]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			j.publish(&ev)
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit event %d to pool: %v", ev.Id, err)
		}
	}
	wg.Wait()

	logger.Info("Event publish task completed. Dispatched %d events", len(events))
}

// publish 推送单条事件并标记
func (j *EventPublishJob) publish(ev *model.EventModel) {
	if err := j.publisher.Publish(ev); err != nil {
		// 留在发件箱，下个周期重试
		logger.Warn("Failed to publish event %d (%s): %v", ev.Id, ev.EventType, err)
		return
	}

	if err := j.eventLogic.MarkProcessed(ev.Id); err != nil {
		logger.Error("Failed to mark event %d processed: %v", ev.Id, err)
	}
}
