// Package text はプラットフォーム由来の文字列をUTF-8に揃える
package text

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// DecodeWide はUTF-16（ワイド文字列）をUTF-8に変換する
// 終端のNULがあればそこで打ち切る
func DecodeWide(wide []uint16) string {
	for i, c := range wide {
		if c == 0 {
			wide = wide[:i]
			break
		}
	}
	if len(wide) == 0 {
		return ""
	}

	raw := make([]byte, len(wide)*2)
	for i, c := range wide {
		binary.LittleEndian.PutUint16(raw[i*2:], c)
	}

	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	// 不正なサロゲートはデコーダがU+FFFDに置換するためエラーにはならない
	out, _ := decoder.Bytes(raw)
	return Normalize(string(out))
}

// Normalize は文字列を正規化されたUTF-8にする
// 不正なバイト列はU+FFFDに置き換え、NFCで合成する
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "�")
	return norm.NFC.String(s)
}

// NormalizeAll はスライスの各要素をNormalizeする
func NormalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, Normalize(s))
	}
	return out
}
