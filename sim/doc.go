// Package sim provides the core cache-simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the replay kernel:
//   - request.go: Request record, operations, and the stream abstraction
//   - object_table.go: Handle-addressed arena and chained hash table
//   - engine.go: The get/put/delete state machine and admission loop
//
// # Architecture
//
// The sim package holds the single-cache engine; supporting pieces live in
// sub-packages:
//   - sim/tier/: Multi-tier hierarchies (miss propagation, promotion, sweeps)
//   - sim/trace/: Binary trace record codecs, readers, writers, file streams
//   - sim/workload/: Deterministic synthetic request streams
//
// Eviction policies resolve by name through a registry (policy.go). Builtins
// register in init(); an embedding application registers external policies
// with RegisterPolicy before calling CreateCache.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - EvictionPolicy: OnAdmit / OnAccess / EvictCandidate / OnRemove over handles
//   - RequestStream: lazy request sequences, restartable via ResettableStream
//
// Engines are single-threaded with no internal locking; exclusivity is a
// caller contract. Parallelism happens at the sweep level, one independent
// engine per goroutine with zero shared mutable state.
package sim
