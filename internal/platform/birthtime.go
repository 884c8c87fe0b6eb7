package platform

import (
	"os"
	"time"
)

// BirthTimeSupported reports whether this platform can report file birth times at all.
// Even when true, individual filesystems may not record one.
func BirthTimeSupported() bool {
	return birthTimeSupported
}

// BirthTime returns the creation time of the file at path.
// The boolean is false when the platform or filesystem does not record one;
// callers then fall back to the modification time and must label it as such.
func BirthTime(path string, info os.FileInfo) (time.Time, bool) {
	return birthTime(path, info)
}
