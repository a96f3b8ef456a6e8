package event

import (
	"fmt"
	"strings"

	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/model"
	"github.com/nats-io/nats.go"
)

// Publisher NATS事件发布器
//
// 发布是尽力而为的通知，不被核心读取；发布失败只影响发件箱的
// Processed标记，已提交的账本状态不受任何影响。
type Publisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

// Init 连接NATS
func Init(cfg config.NatsConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("crowdfund-ledger"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &Publisher{
		nc:            nc,
		subjectPrefix: cfg.SubjectPrefix,
	}, nil
}

// Publish 发布一条发件箱事件，主题为 <prefix>.<事件类型小写>
func (p *Publisher) Publish(event *model.EventModel) error {
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, subjectSuffix(event.EventType))
	return p.nc.Publish(subject, []byte(event.Data))
}

// Close 关闭连接
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// subjectSuffix CampaignCreated -> created
func subjectSuffix(eventType string) string {
	s := strings.TrimPrefix(eventType, "Campaign")
	return strings.ToLower(s)
}
