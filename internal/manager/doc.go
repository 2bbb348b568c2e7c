// Package manager provides the model registry, the per-model lifecycle and the
// backend contract. It is structured into small files by concern:
//
//   - registry.go: Registry type, constructors, Create/Get/Remove.
//   - config.go: RegistryConfig and package defaults.
//   - types.go: State, Result and Example.
//   - state.go: lifecycle predicates and the legal transition set.
//   - model.go: Model handle (Add, Train, Predict, Describe).
//   - buffer.go: append-only training buffer.
//   - backend.go: Backend, Fitted, InfoProvider and Factory contracts.
//   - errors.go: error types and helpers (IsModelNotFound, IsNotReady, ...).
//   - ops.go: name-keyed helpers used by host surfaces.
//   - status_report.go: List and per-state counts.
//   - infocache.go: LRU of backend diagnostics per fitted model.
//   - events.go, eventpub_*.go: lifecycle event publishing.
//   - metrics.go: Prometheus collectors.
//
// Lifecycle: created -> training (first row) -> ready (successful fit), and any
// live state -> removed. Ready models accept no further rows.
//
// Locking: the Registry map is guarded by an RWMutex; each Model has its own
// mutex covering state, buffer and the whole of a fit. Concurrent Train calls
// on one model share a single fit via singleflight. Fitted models are
// immutable, so predictions run outside the model lock.
package manager
