// Package id generates time-sortable identifiers for transaction records.
package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs are lexicographically sortable by
// generation time, so transaction references sort in the order they were
// created even within the same millisecond.
func New() string { return ulid.Make().String() }
