// Package models defines the core domain models of the savings-group ledger.
//
// # Models
//
//   - Group: a savings group with its collection schedule, rates and fund settings
//   - Member: a group member with family size and outstanding loan
//   - Period: one collection cycle; exactly one is OPEN per group
//   - MemberContribution: what one member owes and has paid in one period
//   - CashAllocation: one payment event and its hand/bank split
//   - CashMovement: money leaving the group (expenses, loan disbursements)
//
// # Design Principles
//
//  1. **Fixed buckets**: dues and payments are named struct fields, never maps,
//     so the payment priority order is part of the type
//  2. **Tagged late-fee rules**: one Go type per rule kind; invalid mixes cannot be built
//  3. **IDs over pointers**: relationships are ID strings, as in the storage layer
//  4. **Versions**: records that are updated concurrently carry a Version used
//     for optimistic checks by the store
//
// All monetary values are decimal.Decimal rounded to two places.
package models
