// Package models defines the core domain models for moneytravel.
//
// # Entities
//
// Every entity except User belongs to exactly one Trip:
//   - Trip: a named container for one travel event
//   - Wallet: a participant's purse, whose balance is derived
//   - Transaction: an expense or an income (a "return"), optionally shared
//   - Exchange: a currency conversion that injects funds into one or all wallets
//   - Category and PaymentMethod: tags used for reporting
//
// # Design Principles
//
// 1. **Canonical shape**: these types are the only in-memory representation. Wire and
// storage names (snake_case) are translated at the boundaries (pkg/api, storage/sqlstore).
// 2. **Relationships by ID**: wallets, payers and targets are referenced by ID strings.
// 3. **Explicit unions**: an exchange target is either one wallet or every eligible wallet,
// never a magic string.
// 4. **Validate before I/O**: every input type has a Validate method that runs before any
// persistence call.
package models
