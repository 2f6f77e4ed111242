package statsync

import (
	"context"
	"encoding/json"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/dmarroquin/creatorstats-backend/pkg/pubsub"
)

// NoticePublisher emits sync completion notices on the configured topic.
type NoticePublisher struct {
	client *pubsub.Client
}

// NewNoticePublisher wraps the shared pubsub client.
func NewNoticePublisher(client *pubsub.Client) (*NoticePublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	return &NoticePublisher{client: client}, nil
}

// PublishSyncNotice sends one notice and waits for server acknowledgement.
func (p *NoticePublisher) PublishSyncNotice(ctx context.Context, notice Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode sync notice: %w", err)
	}

	publisher := p.client.SyncNoticePublisher()
	if publisher == nil {
		return fmt.Errorf("sync notice topic not configured")
	}

	result := publisher.Publish(ctx, &gcppubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"batchId": notice.BatchID},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish sync notice: %w", err)
	}
	return nil
}
