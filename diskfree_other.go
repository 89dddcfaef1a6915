//go:build !(linux || darwin || freebsd || openbsd)

package filelog

import "github.com/cockroachdb/errors"

// getDiskFreeSpace is not implemented on this platform; the free space
// limit is skipped.
func getDiskFreeSpace(path string) (int64, error) {
	return 0, errors.Newf("disk free space unavailable for %s on this platform", path)
}
