// Package store provides SQLite-backed storage for clients, products and
// sales.
//
// The store owns:
//   - Schema: clients, products and sales tables (schema.sql), created
//     idempotently on every Open
//   - Connection lifecycle: one *sql.DB with a single connection, released
//     by Close
//   - Transactions: RunInTx commits every effect of a unit of work or none
//   - Error classification: driver failures meaning the database cannot be
//     used (locked, missing, read-only, full) become STORAGE_UNAVAILABLE
//
// # Referential Actions
//
// sales.client_id and sales.product_id are declared ON DELETE SET NULL.
// Sales are history and are never deleted along with what they reference.
//
// # Lazy Listings
//
// Pages turns a keyset query (WHERE id > ? ORDER BY id LIMIT ?) into an
// iter.Seq2. No connection is held between pages, so a consumer may call
// back into the store while iterating.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce the sales references
//   - _txlock=immediate: transactions take the write lock at BEGIN
package store
