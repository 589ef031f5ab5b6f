package matching

import (
	"context"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
)

// DriverDirectory lists drivers that could serve a pickup. Implementations may
// prefilter by area, the matcher checks availability and distance itself.
type DriverDirectory interface {
	AvailableDrivers(ctx context.Context, vehicleType types.VehicleType, pickup models.Location, radiusKm float64) ([]models.Driver, error)
}
