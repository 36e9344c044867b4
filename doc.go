// Package pipewright answers multimedia pipeline questions: whether two
// media capability descriptions can negotiate, whether a gst-launch style
// pipeline description is well formed and linkable, and what happens when
// such a pipeline runs.
//
// # Architecture
//
// Pipewright is organized as a stack of narrow layers:
//
//	┌─────────────────────────────────────┐
//	│           Gateway (HTTP)            │  JSON tool surface,
//	│   caps, elements, pipelines, docs   │  websocket status stream
//	└─────────────────────────────────────┘
//	           ↓ orchestrates
//	┌─────────────────────────────────────┐
//	│        Pipeline Registry            │  Lifecycle, state machine,
//	│    (create, run, pause, stop)       │  monitor goroutines
//	└─────────────────────────────────────┘
//	           ↓ executes via
//	┌─────────────────────────────────────┐
//	│        Execution Engine             │  Simulated engine included,
//	│      (build, start, poll)           │  real engines pluggable
//	└─────────────────────────────────────┘
//	           ↓ built from
//	┌─────────────────────────────────────┐
//	│    Launch Parser + Negotiation      │  Descriptions, diagnostics,
//	│      (caps, element registry)       │  converter suggestions
//	└─────────────────────────────────────┘
//
// # Core Packages
//
//   - caps: capability descriptions (media type plus constrained fields)
//     with parsing, serialization, and intersection semantics
//   - element: element metadata, pad templates, and the element registry
//   - negotiate: caps compatibility checks and converter suggestions
//   - launch: gst-launch style description parsing and validation
//   - pipeline: concurrent instance registry with a strict state machine
//   - simengine: wall-clock simulated execution engine
//   - dot: Graphviz DOT export for pipeline topologies
//   - docs: element documentation fetching with cache and retry
//   - recipes: curated pipeline descriptions for common tasks
//   - gateway: the HTTP and websocket surface over all of the above
//
// # Negotiation Model
//
// Caps compatibility is decided by intersection. Two caps are compatible
// when at least one structure pair with matching media types has a
// non-empty field intersection. A plain check never consults the element
// registry; converter suggestions are a separate, explicitly requested
// step that searches registered converter elements able to accept the
// upstream caps and produce the downstream caps.
//
// # Pipeline Lifecycle
//
// Instances move through built, running, paused, and the terminal states
// stopped, error, and completed. Every transition is validated, published
// to NATS when configured, and reflected in Prometheus metrics. A single
// monitor goroutine per instance owns its engine handle after start, so
// engine implementations never see concurrent calls for one handle.
package pipewright
