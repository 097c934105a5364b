// Package model defines the records served by the query API: institutional
// trades, instrument metadata and sector reports.
//
// The JSON tags on each type are the wire shape of the corresponding
// endpoint. Decimal amounts are encoded as JSON strings to keep precision.
package model
