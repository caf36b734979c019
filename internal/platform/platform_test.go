package platform

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	v := Version()
	if v == "" {
		t.Fatal("Version() が空です")
	}

	switch runtime.GOOS {
	case "linux":
		if !strings.HasPrefix(v, "Linux") {
			t.Errorf("Linux環境では\"Linux\"で始まるはずです: %q", v)
		}
	case "windows":
		if !strings.HasPrefix(v, "Windows") {
			t.Errorf("Windows環境では\"Windows\"で始まるはずです: %q", v)
		}
	}
}

func TestWindowsLabel(t *testing.T) {
	testCases := []struct {
		major, minor uint32
		want         string
	}{
		{10, 0, "Windows 10+"},
		{6, 3, "Windows 8"},
		{6, 2, "Windows 8"},
		{6, 1, "Windows 7"},
		{6, 0, "Windows "},
		{5, 1, "Windows "},
	}

	for _, tc := range testCases {
		if got := windowsLabel(tc.major, tc.minor); got != tc.want {
			t.Errorf("windowsLabel(%d, %d) = %q, want %q", tc.major, tc.minor, got, tc.want)
		}
	}
}

func TestOtherLabel(t *testing.T) {
	if got := otherLabel("darwin", "arm64", "14.4"); got != "macOS 14.4" {
		t.Errorf("otherLabel(darwin) = %q", got)
	}
	if got := otherLabel("freebsd", "amd64", ""); got != "freebsd amd64" {
		t.Errorf("otherLabel(freebsd) = %q", got)
	}
}
