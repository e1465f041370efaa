/*
Package ledger implements the money-movement engine: transfer, deposit,
withdrawal and reversal, each executed as one all-or-nothing unit of work
against the ledger store.

Every operation follows the same shape:

	// validate invariants before touching storage
	// open a unit of work
	//   lock the involved wallet rows (deterministic order)
	//   re-check funds under the lock
	//   write the transaction row, move the balances
	// commit, then invalidate the read-side caches

Two-wallet operations acquire their row locks in ascending user-id order
so that opposite-direction transfers between the same pair of users can
never deadlock. Balances are only ever mutated through relative SQL
updates executed while the lock is held.
*/
package ledger
