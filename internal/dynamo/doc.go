// Package dynamo provides the core primitives shared by the integrators,
// force models and the simulation driver.
//
// The package defines:
//
//   - [Derivative]: right-hand side of a scalar ODE dy/dx = f(x, y)
//   - [Integrator]: fixed-grid integrator turning a derivative into a trace
//   - [Model]: force model supplying the acceleration and force breakdown
//   - [Phased]: models whose derivative switches at a cutoff time
//   - [Forces]: every force component acting on the vehicle at one instant
//   - [Sample]: one grid point of a completed run (t, v, x and forces)
//
// # Example
//
//	veh, _ := physics.NewVehicle(params, src, cfg.EndTime)
//	s := sim.New(veh, integrators.NewRK4())
//	result, _ := s.Run(ctx, cfg)
//
// # Thread Safety
//
// Every value in this package is either immutable or owned by exactly one
// run. A loaded thrust series may be shared read-only between runs.
package dynamo
