// Package importer reads vocabulary and conjugation rows from spreadsheet
// (.xlsx) and CSV files for bulk import. It only parses; persistence goes
// through the same services the HTTP API uses.
package importer
