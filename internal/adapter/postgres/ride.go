package postgres

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-scheduler/pkg/postgres"
)

type RideRequestRepo struct {
	db Querier
}

func NewRideRequestRepo(db Querier) *RideRequestRepo {
	return &RideRequestRepo{db: db}
}

// Create inserts a live ride request. It joins the transaction carried by ctx, if any.
func (r *RideRequestRepo) Create(ctx context.Context, ride *models.RideRequest) error {
	const op = "RideRequestRepo.Create"
	query := `
		INSERT INTO ride_requests (
			id, rider_id, driver_id,
			pickup_address, pickup_latitude, pickup_longitude,
			drop_address, drop_latitude, drop_longitude,
			distance_km, estimated_price, payment_method,
			seats, status, scheduled_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`

	_, err := TxorDB(ctx, r.db).Exec(ctx, query,
		ride.ID, ride.RiderID, ride.DriverID,
		ride.Pickup.Address, ride.Pickup.Latitude, ride.Pickup.Longitude,
		ride.Dropoff.Address, ride.Dropoff.Latitude, ride.Dropoff.Longitude,
		ride.DistanceKm, ride.EstimatedPrice, ride.PaymentMethod,
		ride.Seats, ride.Status, ride.ScheduledAt, ride.Notes, ride.CreatedAt,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		if postgres.IsForeignKeyViolation(err) {
			return wrap.Error(ctx, fmt.Errorf("%s: unknown rider or driver: %w", op, err))
		}
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
