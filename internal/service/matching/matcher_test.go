package matching

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/models"
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/geo"
	"github.com/Temutjin2k/ride-scheduler/pkg/logger"
)

var pickup = models.Location{Latitude: 31.5204, Longitude: 74.3587, Address: "Mall Road"}

type fakeDirectory struct {
	drivers []models.Driver
	err     error
}

func (f *fakeDirectory) AvailableDrivers(_ context.Context, _ types.VehicleType, _ models.Location, _ float64) ([]models.Driver, error) {
	return f.drivers, f.err
}

// driverAt places an online approved car driver km kilometres north of pickup.
func driverAt(km float64) models.Driver {
	lat := pickup.Latitude + km/geo.EarthRadiusKm*180/math.Pi
	lon := pickup.Longitude
	return models.Driver{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Name:        "driver",
		IsOnline:    true,
		Approval:    types.ApprovalApproved,
		VehicleType: types.VehicleCar,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}

func TestMatcher_FindNearest(t *testing.T) {
	far, near, edge := driverAt(4.9), driverAt(3.0), driverAt(4.99)
	m := NewMatcher(&fakeDirectory{drivers: []models.Driver{far, near, edge}}, logger.Discard())

	got, err := m.FindNearest(context.Background(), pickup, types.VehicleCar)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, near.ID, got.ID)
	assert.InDelta(t, 3.0, got.DistanceKm, 1e-6)
}

func TestMatcher_NothingInRadius(t *testing.T) {
	m := NewMatcher(&fakeDirectory{drivers: []models.Driver{driverAt(5.1), driverAt(12)}}, logger.Discard())

	got, err := m.FindNearest(context.Background(), pickup, types.VehicleCar)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMatcher_DirectoryError(t *testing.T) {
	boom := errors.New("connection reset")
	m := NewMatcher(&fakeDirectory{err: boom}, logger.Discard())

	got, err := m.FindNearest(context.Background(), pickup, types.VehicleCar)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestCandidates(t *testing.T) {
	offline := driverAt(1)
	offline.IsOnline = false

	unapproved := driverAt(1)
	unapproved.Approval = types.ApprovalPending

	noLocation := driverAt(1)
	noLocation.Latitude = nil

	wrongVehicle := driverAt(1)
	wrongVehicle.VehicleType = types.VehicleBike

	outside := driverAt(5.1)
	ok := driverAt(2)

	tests := []struct {
		name    string
		drivers []models.Driver
		want    []uuid.UUID
	}{
		{name: "empty", drivers: nil, want: nil},
		{name: "offline skipped", drivers: []models.Driver{offline, ok}, want: []uuid.UUID{ok.ID}},
		{name: "unapproved skipped", drivers: []models.Driver{unapproved, ok}, want: []uuid.UUID{ok.ID}},
		{name: "no location skipped", drivers: []models.Driver{noLocation, ok}, want: []uuid.UUID{ok.ID}},
		{name: "other vehicle skipped", drivers: []models.Driver{wrongVehicle, ok}, want: []uuid.UUID{ok.ID}},
		{name: "outside radius skipped", drivers: []models.Driver{outside, ok}, want: []uuid.UUID{ok.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.drivers, pickup, types.VehicleCar, MatchRadiusKm)
			var ids []uuid.UUID
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCandidates_TieBrokenByID(t *testing.T) {
	a, b := driverAt(2), driverAt(2)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

	got := Candidates([]models.Driver{a, b}, pickup, types.VehicleCar, MatchRadiusKm)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestCandidates_SortedByDistance(t *testing.T) {
	drivers := []models.Driver{driverAt(4), driverAt(0.5), driverAt(2.5), driverAt(1)}
	got := Candidates(drivers, pickup, types.VehicleCar, MatchRadiusKm)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
}
