//go:build windows

package platform

import (
	"golang.org/x/sys/windows"

	"litecamera/internal/text"
)

func version() string {
	info := windows.RtlGetVersion()
	label := windowsLabel(info.MajorVersion, info.MinorVersion)

	// サービスパック名はワイド文字列で返される
	if csd := text.DecodeWide(info.CsdVersion[:]); csd != "" {
		return label + " " + csd
	}
	return label
}
