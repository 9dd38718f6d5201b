// Package store defines the persistence interfaces and shared persistence
// errors. Implementations live under internal/platform.
package store
