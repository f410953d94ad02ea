// Package driver runs a simulation headlessly at fixed cadences.
//
// The physics tick and the population cull are two independent periodic
// tasks on one [Scheduler]. The scheduler runs on a virtual clock, so a run
// of ten simulated minutes completes as fast as the CPU allows and always
// produces the same event order:
//
//	s, _ := sim.New(sim.DefaultConfig())
//	loop := driver.New(s)
//	res, err := loop.Run(ctx, driver.DefaultConfig())
//
// # Cancellation
//
// Run checks its context before every event and returns the partial result
// together with ctx.Err(). Events are never interrupted midway, so every
// tick in the result was fully applied.
package driver
