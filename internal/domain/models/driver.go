package models

import (
	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/google/uuid"
)

// Driver is a read-only snapshot of a driver as seen by the scheduler.
type Driver struct {
	ID          uuid.UUID
	UserID      uuid.UUID // account that receives notifications and owns the ride request
	Name        string    // display name shown to the rider
	IsOnline    bool
	Approval    types.ApprovalStatus
	VehicleType types.VehicleType
	Latitude    *float64 // nil until the driver reports a location
	Longitude   *float64
}

// HasLocation reports whether the driver reported coordinates.
func (d *Driver) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// Available reports whether the driver may be offered a booking of the given vehicle type.
func (d *Driver) Available(vehicleType types.VehicleType) bool {
	return d.IsOnline &&
		d.Approval == types.ApprovalApproved &&
		d.HasLocation() &&
		d.VehicleType == vehicleType
}

// DriverWithDistance is a driver together with its distance to a pickup point.
type DriverWithDistance struct {
	Driver
	DistanceKm float64
}
