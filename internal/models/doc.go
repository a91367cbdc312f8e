// Package models defines the core domain records of the expense ledger.
//
// # Records
//
//   - Member, Group: who shares expenses
//   - Expense, Split: who paid for something and how it is divided
//   - BalanceTransfer: settlements and member-removal redistributions
//   - Balance, SettlementInstruction: derived outputs of the ledger engine
//   - Settings: display preferences (currency, local user)
//
// # Design Principles
//
// 1. **Plain data**: records carry no behavior beyond small lookup helpers; all
// ledger arithmetic lives in the calculator package.
// 2. **IDs over pointers**: relationships are expressed with ID strings.
// 3. **Derived values are never stored**: balances are recomputed from the
// expense history on every request.
//
// # Legacy records
//
// Older data recorded settlements and redistributions as expenses flagged with
// IsSettlement or IsRedistribution. Those records remain valid input and are
// folded literally; new code writes BalanceTransfer records instead.
// BalanceTransfer.AsExpense produces the same flagged shape for listings, with
// splits carrying the transfer's own signs.
package models
