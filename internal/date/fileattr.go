package date

import (
	"errors"
	"fmt"
	"time"

	"github.com/djherbis/times"
)

// ErrBirthTimeUnavailable is returned when the filesystem does not record
// file creation time. Modification time is never substituted.
var ErrBirthTimeUnavailable = errors.New("file creation time is not available on this platform or filesystem")

// FromFileAttributes returns the creation (birth) time of the file at path.
//
// Availability depends on the OS and filesystem: Windows and macOS always
// record it, Linux only through statx on filesystems that store it.
func FromFileAttributes(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if !ts.HasBirthTime() {
		return time.Time{}, ErrBirthTimeUnavailable
	}

	return ts.BirthTime(), nil
}
