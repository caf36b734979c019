//go:build linux

package platform

import (
	"golang.org/x/sys/unix"

	"litecamera/internal/text"
)

func version() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "Linux"
	}
	return "Linux " + text.Normalize(unix.ByteSliceToString(uts.Version[:]))
}
