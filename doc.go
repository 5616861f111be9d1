// Package tradebook tracks a single trading account: its cash balance, its
// share holdings and its append-only transaction history.
//
// Account state is derived: cash and holdings are recomputed by replaying the
// transaction log up to an as-of instant, so every read query can look at the
// account as it was at any point in time. Share prices come from an injected
// PriceOracle; the package ships a fixed-table oracle for reference and tests.
package tradebook
