package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/google/uuid"
)

type ScheduledRideEventRepo struct {
	db Querier
}

func NewScheduledRideEventRepo(db Querier) *ScheduledRideEventRepo {
	return &ScheduledRideEventRepo{db: db}
}

// CreateEvent appends an entry to the booking's history.
func (r *ScheduledRideEventRepo) CreateEvent(ctx context.Context, scheduledRideID uuid.UUID, eventType types.ScheduledRideEvent, eventData any) error {
	const op = "ScheduledRideEventRepo.CreateEvent"

	data, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("%s: marshal event data: %w", op, err)
	}

	query := `INSERT INTO scheduled_ride_events (scheduled_ride_id, event_type, event_data)
			  VALUES ($1, $2, $3);`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, scheduledRideID, eventType.String(), json.RawMessage(data)); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
