// Package sheet reads tabular artwork metadata from spreadsheets.
//
// OpenDocument (.ods), Office Open XML (.xlsx, .xlsm) and delimited text
// (.csv, .tsv) files are read into a Table: the first non-blank row is the
// header, fully blank rows are dropped, and numeric cells keep their number
// alongside the text.
package sheet
