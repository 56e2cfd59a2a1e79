// Package physics provides the force models for the tethered vehicle.
//
// Each model implements [dynamo.Model], supplying the acceleration handed
// to the integrator and the force breakdown sampled after the run:
//
//   - [Vehicle]: thrust against drag, bearing friction and tether
//     resistance, with mass lost in proportion to delivered impulse
//   - [PointMass]: constant force against quadratic drag, optionally
//     decaying after a cutoff time
//
// Parameter sets implement [dynamo.Configurable] for runtime adjustment.
//
// # Units
//
// Time is in milliseconds, velocity in m/s, force in N and mass in grams,
// so F/m is an acceleration in (m/s)/ms.
//
//	veh, err := physics.NewVehicle(physics.DefaultVehicleParams(), src, 3000)
//	if err != nil {
//	    return err
//	}
//	a := veh.Acceleration(t, v)
package physics
