// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a reconciliation run:
//
//   - RegistryClient: Fetches and creates registry records
//   - CorpusSource: Lists and reads files of the document tree
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Normaliser: Extracts titles and declared links from document content.
//     Without it, the graph carries documents but no cross references.
//   - RunStore: Persists run history. Without it, reports are not kept.
//   - CorpusWatcher: Change notification for the watch command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
