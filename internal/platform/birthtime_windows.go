//go:build windows

package platform

import (
	"os"
	"syscall"
	"time"
)

const birthTimeSupported = true

func birthTime(_ string, info os.FileInfo) (time.Time, bool) {
	if info == nil {
		return time.Time{}, false
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), true
}
