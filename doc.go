// Package filelog provides an embeddable, leveled logger that persists lines
// to local files with buffering and rotation, independent of any OS logging
// facility.
//
// Features:
//   - Ordered levels (Error, Warning, Info, Verbose) with a None threshold that disables output
//   - In-memory buffering drained on a size threshold, a periodic tick or an explicit Flush
//   - Rotation on file size or file age, whichever is reached first
//   - Timestamp file names under per-day directories: <base>/<YYYYMMDD>/<YYYYMMDDHHMMSS>.log
//   - Renaming and truncating the active file at runtime
//   - Retention by total size, file count and free disk space
//   - Optional console mirror with per-level colors
//   - TOML configuration with hot reload
//   - Thread-safe operations; logging never returns errors to the caller
//
// Each line has the form
//
//	ALIAS:[YYYY-MM-DD HH:MM:SS][LEVEL] | MESSAGE | [file line function goroutine]
//
// where the goroutine label is omitted on the main goroutine.
package filelog
