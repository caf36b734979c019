//go:build !linux && !windows && !darwin

package platform

import "runtime"

func version() string {
	return otherLabel(runtime.GOOS, runtime.GOARCH, "")
}
