//go:build !linux && !darwin && !freebsd && !windows

package platform

import (
	"os"
	"time"
)

const birthTimeSupported = false

func birthTime(string, os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
