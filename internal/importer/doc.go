// Package importer provides the spreadsheet import reconciliation engine.
//
// This package is the heart of the sales tracker, containing all import
// logic independent of any UI or transport layer. It can be used by web
// handlers, CLI tools, or tests without modification.
//
// # Pipeline
//
// An import runs as a single linear pipeline:
//
//  1. ParseWorkbook reads the first worksheet of an uploaded workbook into a
//     Sheet (header row plus data rows).
//  2. Service.Analyze validates the required headers once, then walks every
//     data row independently: it resolves the target development and unit,
//     normalizes each cell against its field descriptor, and diffs the
//     normalized values against the stored unit.
//  3. The caller reviews the resulting ImportResult (valid rows, row errors,
//     warnings, summary counts) and submits the accepted rows to
//     Service.Commit.
//  4. Commit re-resolves each unit at apply time, replaces its stored state,
//     and writes one audit entry per unit plus one batch summary entry.
//
// # Field Descriptors
//
// Spreadsheet columns map to unit fields through a fixed, ordered list of
// typed descriptors (see UnitFields). Each descriptor carries the column
// header, the semantic kind (text, number, date, boolean, enum, price) and
// getter/setter closures over *domain.Unit. Only columns present in the
// uploaded sheet are ever considered; a column absent from the sheet never
// touches the stored value.
//
// # Error Handling
//
// Row-level failures never escape Analyze or Commit: they are captured into
// the result objects as structured RowError values (entity not found,
// invalid enum, bad value) or commit failure messages. The only operation
// that returns an error to the caller is ParseWorkbook, when the upload is
// not a readable workbook at all.
package importer
