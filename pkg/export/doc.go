// Package export turns a run result into reports and re-importable
// configuration, and writes them to a file, a snappy-compressed file or an
// S3 bucket.
package export
