//go:build darwin

package platform

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func version() string {
	release, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		release = ""
	}
	return otherLabel(runtime.GOOS, runtime.GOARCH, release)
}
