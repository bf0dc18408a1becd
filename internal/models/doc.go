// Package models defines the domain models for settleup.
//
// # Models
//
//   - Bill: a shared expense with priced items and a resolved participant list
//   - Item: a line on a bill, split evenly or by explicit shares
//   - Participant: a person on one bill; exactly one is the payer
//   - Group: a reusable member list that can own bills
//   - Settlement: a transfer a caller chose to record as paid
//
// Amounts are money.Money minor units throughout. Models are validated at the
// boundary (Validate) before they reach storage or the calculator, so nothing
// downstream inspects loosely typed input.
package models
