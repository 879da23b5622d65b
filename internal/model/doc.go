// Package model defines the records kept by gestion and the error taxonomy
// shared by every layer.
//
// # Records
//
//   - Client: a customer; only the name is required
//   - Product: a priced item with a non-negative stock count
//   - Sale: an immutable fact linking an optional client and product to a
//     quantity and the total charged at the time it was recorded
//
// Sale references are pointers because deleting a client or product clears
// them. A Sale keeps its quantity, unit price and total forever.
//
// # Money
//
// Prices and totals are decimal.Decimal values. They are stored as canonical
// decimal text and rendered with FormatMoney, never through float64.
package model
