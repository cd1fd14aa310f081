// Package connectors holds the adapters that read model documents from
// places the user owns. Each connector implements driven.ModelSource.
//
// The filesystem connector loads *.json files from a file or directory and
// watches them for changes.
package connectors
