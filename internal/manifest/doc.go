// Package manifest persists the optional thumbnail ledger in SQLite.
//
// The ledger records, per destination file, the SHA-256 of the source it was
// rendered from and the width/quality used, so a mirror run can regenerate
// thumbnails whose source content changed without a newer timestamp. It also
// keeps a history of mirror runs for `artref thumbs history`.
package manifest
