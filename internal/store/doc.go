// Package store provides file-based persistence for the client's local state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking, and every write goes through a temp file and rename so a
// crash never leaves a half-written file. Stored files live under the
// configured home directory (default ~/.vtruck).
//
// The package includes stores for:
//   - The login session (SessionFileStore), optionally sealed with a passphrase
//   - Loads kept on this device (DraftFileStore)
//   - Small preferences such as language and selected vehicle (PreferenceFileStore)
package store
