// Package mocks provides hand-written test doubles for the store and auth
// interfaces. Each mock has function fields for per-test behavior and a
// map-backed default implementation for the common cases.
package mocks
