// Package costbasis computes the FIFO cost basis of crypto assets from the
// raw records of exchange and wallet connectors.
//
// The computation runs in two pure stages:
//   - BuildLedgerEvents projects raw transactions and transfers onto the
//     time-ordered ledger of a single asset, dropping what cannot be
//     accounted for.
//   - ComputeSnapshot replays a ledger through a FIFO lot queue and marks the
//     open lots against a current price and balance.
//
// AccountingSystem ties both stages to a set of records and marks, and
// computes the snapshots of every asset concurrently. Records are persisted
// as JSON Lines (see DecodeTransactions and DecodeTransfers) and can be
// extracted from exchange exports with a Mapping.
//
// Quantities and money are exact decimals: a lot is discarded only when its
// remaining quantity falls under 1e-12.
package costbasis
