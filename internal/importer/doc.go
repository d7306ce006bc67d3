// Package importer reads vocabulary lists into catalog items.
//
// Spreadsheets (xlsx, csv) carry term, reading, meaning and category in
// columns A to D. Legacy JSON files are the list format of the earlier
// application, with per-item SM-2 progress that can be attached to one user.
package importer
