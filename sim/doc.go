// Package sim provides the core discrete-event simulation engine for greencloud-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - cloudlet.go: Cloudlet lifecycle (created → submitted → in execution → success | failed)
//   - event.go: Event types that drive the simulation (VmCreate, CloudletArrival, ProcessTick, ...)
//   - simulator.go: The event loop, processing ticks and energy sampling
//
// # Architecture
//
// A Simulator is a self-contained simulation context. It owns:
//   - EventQueue: pending events ordered by (fire time, insertion sequence)
//   - Datacenter: hosts, their PEs and provisioners, and the VMs admitted to them
//   - Broker: VM and cloudlet submission, placement, and collection of results
//   - EnergyMeter: per-host energy integrated once per processing tick
//
// Simulated time only moves when an event is dispatched. Every processing tick
// first charges energy for the elapsed interval, then advances each VM's
// cloudlets, then schedules the next tick at the earliest estimated completion.
//
// # Key Interfaces
//
// The extension points are small interfaces, composed into Config:
//   - PlacementPolicy: order cloudlets and pick a VM for each (deadline-aware, fcfs, sjf, round-robin)
//   - AllocationPolicy: order candidate hosts for VM admission (most-free, first-fit)
//   - CloudletScheduler: divide a VM's MIPS among its cloudlets (time-shared, space-shared)
//   - PowerModel: map host utilization to watts (linear)
//
// Setting Config.Trace records every VM admission and cloudlet placement,
// with the estimated finish time on each candidate VM, into package trace.
package sim
