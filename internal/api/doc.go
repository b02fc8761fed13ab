// Package api contains the HTTP handlers, request/response models, and
// error mapping for the catalog and ingestion job endpoints. Handlers
// translate between the HTTP surface and the service layer; they never
// touch storage directly.
package api
