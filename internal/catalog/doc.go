// Package catalog normalizes tabular artwork metadata into the JSON catalog
// consumed by the study-room front end.
//
// Every row of the input sheet becomes one Artwork. Multi-valued cells
// (period, subject, technique) are split on ";", ",", "/" or "|"; the year is
// parsed best-effort and left null when it is not an integer. A sheet missing
// any required column is rejected before anything is written.
package catalog
