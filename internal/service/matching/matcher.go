package matching

import (
	"context"
	"fmt"
	"slices"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/geo"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
	wrap "github.com/Temutjin2k/ride-scheduler/pkg/logger/wrapper"
)

// MatchRadiusKm is the largest pickup distance a driver can be matched at.
const MatchRadiusKm = 5.0

type Matcher struct {
	drivers DriverDirectory
	logger  logger.Logger
}

func NewMatcher(drivers DriverDirectory, logger logger.Logger) *Matcher {
	return &Matcher{
		drivers: drivers,
		logger:  logger,
	}
}

// FindNearest returns the closest available driver with the requested vehicle type
// within MatchRadiusKm of pickup, or nil if there is none. Ties go to the lower driver id.
// The driver is not reserved.
func (m *Matcher) FindNearest(ctx context.Context, pickup models.Location, vehicleType types.VehicleType) (*models.DriverWithDistance, error) {
	const op = "Matcher.FindNearest"

	drivers, err := m.drivers.AvailableDrivers(ctx, vehicleType, pickup, MatchRadiusKm)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	candidates := Candidates(drivers, pickup, vehicleType, MatchRadiusKm)
	m.logger.Debug(ctx, "matching candidates", "vehicle_type", vehicleType.String(), "fetched", len(drivers), "in_radius", len(candidates))

	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

// Candidates keeps the drivers available for vehicleType within radiusKm of pickup
// and sorts them by distance, then by driver id.
func Candidates(drivers []models.Driver, pickup models.Location, vehicleType types.VehicleType, radiusKm float64) []models.DriverWithDistance {
	var out []models.DriverWithDistance
	for _, d := range drivers {
		if !d.Available(vehicleType) {
			continue
		}
		dist := geo.Distance(pickup.Latitude, pickup.Longitude, *d.Latitude, *d.Longitude)
		if dist > radiusKm {
			continue
		}
		out = append(out, models.DriverWithDistance{Driver: d, DistanceKm: dist})
	}

	slices.SortFunc(out, func(a, b models.DriverWithDistance) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return slices.Compare(a.ID[:], b.ID[:])
		}
	})
	return out
}
