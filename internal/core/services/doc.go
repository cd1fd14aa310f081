// Package services implements the driving ports.
//
// ResolverService is the pure part: it builds an import index and a symbol
// table per document and rewrites type references to fully qualified names
// without touching any adapter. WorkspaceService and SettingsService wrap it
// with the driven ports for storage, fetching and configuration.
package services
