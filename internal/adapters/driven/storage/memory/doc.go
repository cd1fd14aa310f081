// Package memory provides in-memory implementations of driven port interfaces.
// They back tests and one-shot CLI invocations that do not persist anything.
package memory
