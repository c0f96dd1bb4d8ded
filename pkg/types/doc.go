// Package types defines the entity graph model, the state machine
// definitions, the Store interface, and the standard errors shared by
// every onto component.
package types
