package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/clock"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-scheduler/pkg/metrics"
	"github.com/google/uuid"
)

const (
	NotificationExchange = "notification_topic"

	publishAttempts = 3
	publishBackoff  = 200 * time.Millisecond
	serviceName     = "ride-scheduler"
)

type publisher interface {
	DeclareExchange(ctx context.Context, name, kind string) error
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// NotificationProducer delivers scheduler notifications to the notification service
// through the notification_topic exchange.
type NotificationProducer struct {
	client publisher
	clock  clock.Clock
}

func NewNotificationProducer(client publisher, clk clock.Clock) *NotificationProducer {
	return &NotificationProducer{
		client: client,
		clock:  clk,
	}
}

// Setup declares the exchange the producer publishes to.
func (p *NotificationProducer) Setup(ctx context.Context) error {
	const op = "NotificationProducer.Setup"
	if err := p.client.DeclareExchange(ctx, NotificationExchange, "topic"); err != nil {
		ctx = wrap.WithAction(ctx, "declare_exchange")
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// SendToUser publishes n for userID with routing key notification.user.<user_id>.
func (p *NotificationProducer) SendToUser(ctx context.Context, userID uuid.UUID, n models.Notification) error {
	const op = "NotificationProducer.SendToUser"
	ctx = wrap.WithUserID(ctx, userID.String())

	if n == nil || userID == uuid.Nil {
		ctx = wrap.WithAction(ctx, types.ActionNotifyUser)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrInvalidNotification))
	}

	body, err := json.Marshal(models.NewNotificationMessage(userID, n, p.clock.Now()))
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_notification")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	key := RoutingKey(userID)
	err = retry(ctx, publishAttempts, publishBackoff, func() error {
		return p.client.Publish(ctx, NotificationExchange, key, body)
	})
	metrics.RecordRabbitMQPublish(serviceName, NotificationExchange, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionNotifyUser)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrFailedToPublish, err))
	}

	return nil
}

// RoutingKey returns the key notifications for userID are published with.
func RoutingKey(userID uuid.UUID) string {
	return fmt.Sprintf("notification.user.%s", userID)
}
