package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/geo"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

type DriverRepo struct {
	db Querier
}

func NewDriverRepo(db Querier) *DriverRepo {
	return &DriverRepo{
		db: db,
	}
}

// AvailableDrivers returns online approved drivers with a known location and the given
// vehicle type, prefiltered by a bounding box around pickup. The box is wider than the
// radius circle, the exact distance is checked by the caller.
func (r *DriverRepo) AvailableDrivers(ctx context.Context, vehicleType types.VehicleType, pickup models.Location, radiusKm float64) ([]models.Driver, error) {
	const op = "DriverRepo.AvailableDrivers"
	query := `
		SELECT d.id, d.user_id, d.name, d.is_online, d.approval_status, d.vehicle_type,
		       d.current_latitude, d.current_longitude
		FROM drivers d
		WHERE d.is_online = true
		  AND d.approval_status = $1
		  AND d.vehicle_type = $2
		  AND d.current_latitude IS NOT NULL
		  AND d.current_longitude IS NOT NULL
		  AND d.current_latitude BETWEEN $3 AND $4
		  AND d.current_longitude BETWEEN $5 AND $6
		ORDER BY d.id;`

	minLat, maxLat, minLon, maxLon := boundingBox(pickup, radiusKm)
	rows, err := TxorDB(ctx, r.db).Query(ctx, query,
		types.ApprovalApproved,
		vehicleType,
		minLat, maxLat,
		minLon, maxLon,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Name, &d.IsOnline, &d.Approval, &d.VehicleType,
			&d.Latitude, &d.Longitude,
		); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w", op, err))
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return drivers, nil
}

// boundingBox returns lat/lon bounds that contain every point within radiusKm of center.
// Near the poles the longitude span is left open.
func boundingBox(center models.Location, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	angular := radiusKm / geo.EarthRadiusKm
	dLat := angular * 180 / math.Pi
	minLat, maxLat = center.Latitude-dLat, center.Latitude+dLat

	ratio := math.Sin(angular) / math.Cos(center.Latitude*math.Pi/180)
	if maxLat >= 90 || minLat <= -90 || ratio >= 1 {
		return minLat, maxLat, -180, 180
	}
	dLon := math.Asin(ratio) * 180 / math.Pi
	return minLat, maxLat, center.Longitude - dLon, center.Longitude + dLon
}
