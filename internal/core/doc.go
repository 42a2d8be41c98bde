// Package core runs the album ingestion pipeline end to end.
//
// The package sequences the lower layers and holds no state of its own. It
// can be driven by the albumctl CLI or by tests without modification.
//
// # Pipeline
//
// A seed run moves one dataset from the object store into the albums table:
//
//  1. [Service.Seed] loads the dataset, either straight from S3 or through a
//     local copy fetched first
//  2. With Reseed set the table is dropped and recreated, otherwise it is
//     created if missing
//  3. Every row is mapped and validated before the database is touched
//  4. All records are inserted in one transaction; any failure rolls the
//     whole batch back and names the offending row
//
// [Service.Acquire] is the step before that: it downloads the raw dataset
// over HTTP and can copy it to the object store for later runs.
//
// # Run IDs
//
// Each run carries an ID in its context (see the logging package), so every
// log line of one ingestion can be correlated. A caller-supplied ID is kept.
//
// # Error Handling
//
// Pipeline errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference:
//
//   - XFER001-XFER003, LOC001: object store and download failures
//   - PARSE001-PARSE002: malformed or unreadable dataset files
//   - VAL001: rows rejected before persistence
//   - DB001-DB007, SCH001: database errors and schema mismatches
package core
