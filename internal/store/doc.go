// Package store provides the SQLite-backed catalogue.
//
// Store implements model.BookService and model.AuthorService. Filter text
// passed to FindBooks is compiled by package querysql and executed as a
// parameterised statement; literal values never enter the SQL text.
//
// # Case-insensitive matching
//
// The driver registers fold_upper, a deterministic SQL function applying
// NFC normalisation and Unicode upper-casing. Compiled statements wrap every
// column in it and compare against values folded the same way, so matching
// works for non-ASCII text where SQLite's built-in UPPER does not.
//
// # Deterministic Query Results
//
// Every listing orders by primary key with COLLATE BINARY, so the same data
// always yields the same sequence.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
