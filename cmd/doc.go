// Package cmd implements the command-line interface of binser. It provides a
// hierarchical command structure for benchmarking codecs and working with
// binser archives.
//
// The package is organized into several subpackages:
//
//   - bench: Compares encode/decode speed and payload size of all codecs
//   - file: Writes and reads binser archives (write, read)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set through environment variables with the BINSER_
// prefix (e.g. BINSER_CODEC=sonic), or in a .env / .env.local file.
//
// See binser -help for a list of all commands.
package cmd
