package task

import (
	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/event"
	"github.com/blues/cfl/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 后台任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	publisher *event.Publisher
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, publisher *event.Publisher, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		publisher: publisher,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, publisher *event.Publisher, cfg *config.Config) *Manager {
	manager := NewManager(db, publisher, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 事件发件箱分发任务；NATS未连接时跳过
	if m.publisher != nil {
		m.registerJob(NewEventPublishJob(m.db, m.config, m.publisher))
	}

	// 活动过期扫描任务
	m.registerJob(NewCampaignExpiryJob(m.db, m.config))
}

// registerJob 注册单个任务
func (m *Manager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
