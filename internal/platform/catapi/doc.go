// Package catapi implements the client for the external cat image
// catalog. It pulls bounded batches of candidate records with breed
// temperament data and downloads individual image payloads. The two
// operations fail independently: a batch fetch failure is fatal to an
// ingestion run, a single download failure is not.
package catapi
