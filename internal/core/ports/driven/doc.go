// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ModelStore: Model document persistence
//   - RunStore: Resolution run persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ModelSource: Local model files. Without it, Load is unavailable.
//   - ModelFetcher: External namespaces. Without it, FetchExternal is unavailable.
//
// Name resolution itself never calls a driven port.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
