// Package service contains the application's business logic: the
// ingestion pipeline that pulls candidates from the external catalog
// into the store, the tag resolver that is safe under concurrent runs,
// the read-only catalog queries, and the job-status facade over the
// task runner. Services depend on store interfaces and are wired
// explicitly at startup.
package service
