// Package store defines the persistence interfaces and shared error
// vocabulary for the catalog. Implementations live under
// internal/platform/postgres; services depend only on the interfaces
// defined here.
package store
