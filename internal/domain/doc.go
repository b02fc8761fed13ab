// Package domain defines the core business entities of the catalog:
// assets (downloaded images), tags (normalized temperament labels), and
// the candidate records fetched from the external source. Entities carry
// their own validation; persistence lives in the store layer.
package domain
