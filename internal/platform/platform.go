// Package platform はホストOSの名前とバージョンを返す
package platform

import "fmt"

// Version はホストOSを表す文字列を返す
// 例: "Linux #1 SMP PREEMPT_DYNAMIC ...", "Windows 10+", "macOS 14.4"
func Version() string {
	return version()
}

// windowsLabel はWindowsのメジャー・マイナー番号から表示名を作る
// 10以降は"10+"、6.2以降は"8"、6.1以降は"7"、それより前は番号を付けない
func windowsLabel(major, minor uint32) string {
	switch {
	case major >= 10:
		return "Windows 10+"
	case major > 6 || (major == 6 && minor >= 2):
		return "Windows 8"
	case major == 6 && minor >= 1:
		return "Windows 7"
	default:
		return "Windows "
	}
}

// otherLabel はLinux/Windows以外のOS向けの表示名を作る
func otherLabel(goos, goarch, release string) string {
	name := goos
	if goos == "darwin" {
		name = "macOS"
	}
	if release != "" {
		return fmt.Sprintf("%s %s", name, release)
	}
	return fmt.Sprintf("%s %s", name, goarch)
}
