//go:build darwin || freebsd

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
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	sec, nsec := st.Birthtimespec.Unix()
	if sec <= 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, nsec), true
}
