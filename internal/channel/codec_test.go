package channel

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEncodeValue_WireFormat(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		want  []byte
	}{
		{"null", Null(), []byte{0}},
		{"true", Bool(true), []byte{1}},
		{"false", Bool(false), []byte{2}},
		{"int32", Int(1280), []byte{3, 0x00, 0x05, 0x00, 0x00}},
		{"負のint32", Int(-1), []byte{3, 0xff, 0xff, 0xff, 0xff}},
		{"int64", Int(math.MaxInt32 + 1), []byte{4, 0x00, 0x00, 0x00, 0x80, 0, 0, 0, 0}},
		{"string", String("YUY2"), []byte{7, 4, 'Y', 'U', 'Y', '2'}},
		{"bytes", Bytes([]byte{9, 8, 7}), []byte{8, 3, 9, 8, 7}},
		{"空のlist", List(), []byte{12, 0}},
		{"list", List(Int(2)), []byte{12, 1, 3, 2, 0, 0, 0}},
		{"map", MapValue(NewMap().Set("w", Int(1))), []byte{13, 1, 7, 1, 'w', 3, 1, 0, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := EncodeValue(tc.value)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("EncodeValue(%s) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestEncodeValue_SizePrefix(t *testing.T) {
	testCases := []struct {
		name   string
		size   int
		prefix []byte
	}{
		{"1バイト", 253, []byte{8, 253}},
		{"uint16", 254, []byte{8, 254, 254, 0}},
		{"uint16上限", 0xffff, []byte{8, 254, 0xff, 0xff}},
		{"uint32", 0x10000, []byte{8, 255, 0x00, 0x00, 0x01, 0x00}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := EncodeValue(Bytes(make([]byte, tc.size)))
			if !bytes.HasPrefix(encoded, tc.prefix) {
				t.Fatalf("prefix = %v, want %v", encoded[:len(tc.prefix)], tc.prefix)
			}
			if len(encoded) != len(tc.prefix)+tc.size {
				t.Errorf("length = %d, want %d", len(encoded), len(tc.prefix)+tc.size)
			}

			decoded, err := DecodeValue(encoded)
			if err != nil {
				t.Fatalf("DecodeValue failed: %v", err)
			}
			if decoded.Len() != 0 {
				t.Errorf("bytes値のLenは0のはずです: %d", decoded.Len())
			}
			raw, _ := decoded.AsBytes()
			if len(raw) != tc.size {
				t.Errorf("decoded size = %d, want %d", len(raw), tc.size)
			}
		})
	}
}

func TestDecodeValue_NestedFrame(t *testing.T) {
	frame := NewMap().
		Set("width", Int(1920)).
		Set("height", Int(1080)).
		Set("data", Bytes([]byte{1, 2, 3, 4, 5, 6}))
	original := List(MapValue(frame), String("カメラ"), Null(), Bool(true), Int(math.MinInt64))

	decoded, err := DecodeValue(EncodeValue(original))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("decoded = %s, want %s", decoded, original)
	}

	first, _ := decoded.Index(0)
	m, ok := first.AsMap()
	if !ok {
		t.Fatalf("先頭要素がマップではありません: %s", first.Kind())
	}
	if got := m.Keys(); strings.Join(got, ",") != "width,height,data" {
		t.Errorf("キーの順序が保持されていません: %v", got)
	}
}

func TestDecodeValue_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"空入力", []byte{}, ErrTruncated},
		{"int32が短い", []byte{3, 1, 2}, ErrTruncated},
		{"stringが短い", []byte{7, 5, 'a'}, ErrTruncated},
		{"listサイズが過大", []byte{12, 200, 0}, ErrTruncated},
		{"double", []byte{6, 0, 0, 0, 0, 0, 0, 0, 0}, ErrUnsupportedType},
		{"巨大整数", []byte{5, 1, '1'}, ErrUnsupportedType},
		{"int32リスト", []byte{9, 0}, ErrUnsupportedType},
		{"不明なタグ", []byte{99}, ErrUnsupportedType},
		{"数値キーのマップ", []byte{13, 1, 3, 1, 0, 0, 0, 0}, ErrUnsupportedType},
		{"末尾の余分なバイト", []byte{0, 0}, ErrTrailingBytes},
		{"uint32サイズのstringが過大", []byte{7, 255, 0xff, 0xff, 0xff, 0xff, 'a'}, ErrTruncated},
		{"uint32サイズのlistが過大", []byte{12, 255, 0xff, 0xff, 0xff, 0xff, 0}, ErrTruncated},
		{"uint16サイズのbytesが過大", []byte{8, 254, 0x00, 0x01, 1, 2}, ErrTruncated},
		{"uint32サイズが途中で切れる", []byte{7, 255, 1, 0}, ErrTruncated},
		{"入れ子が深すぎる", nestedLists(maxDepth + 1), ErrUnsupportedType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeValue(tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeValue_BytesAreCopied(t *testing.T) {
	encoded := EncodeValue(Bytes([]byte{1, 2, 3}))
	decoded, err := DecodeValue(encoded)
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}

	encoded[2] = 0xff
	raw, _ := decoded.AsBytes()
	if raw[0] != 1 {
		t.Error("デコード結果が入力バッファを共有しています")
	}
}

func TestValue_Accessors(t *testing.T) {
	v := String("x")
	if _, ok := v.AsInt(); ok {
		t.Error("string値からintが取り出せてはいけません")
	}
	if _, ok := v.Index(0); ok {
		t.Error("string値にIndexは使えません")
	}
	if _, ok := v.Lookup("x"); ok {
		t.Error("string値にLookupは使えません")
	}

	list := List(Int(1))
	if _, ok := list.Index(1); ok {
		t.Error("範囲外のIndexはfalseのはずです")
	}
	if _, ok := list.Index(-1); ok {
		t.Error("負のIndexはfalseのはずです")
	}

	var zero Value
	if !zero.IsNull() {
		t.Error("ゼロ値はnullのはずです")
	}
}

// nestedLists は要素1つのリストをdepth段入れ子にしたエンコード済みデータを返す
func nestedLists(depth int) []byte {
	data := bytes.Repeat([]byte{tagList, 1}, depth)
	return append(data, tagNull)
}

func TestDecodeValue_Nesting(t *testing.T) {
	v, err := DecodeValue(nestedLists(maxDepth))
	if err != nil {
		t.Fatalf("上限ちょうどの入れ子はデコードできるはずです: %v", err)
	}
	for i := 0; i < maxDepth; i++ {
		var ok bool
		if v, ok = v.Index(0); !ok {
			t.Fatalf("%d段目の要素がありません", i)
		}
	}
	if !v.IsNull() {
		t.Errorf("最深部の値 = %s, want null", v)
	}

	// 兄弟要素の入れ子は深さに加算されない
	siblings := append([]byte{tagList, 2}, nestedLists(maxDepth-1)...)
	siblings = append(siblings, nestedLists(maxDepth-1)...)
	if _, err := DecodeValue(siblings); err != nil {
		t.Errorf("兄弟要素のデコードに失敗: %v", err)
	}

	// マップの値も深さに数える
	deepMap := append([]byte{tagMap, 1, tagString, 1, 'k'}, nestedLists(maxDepth)...)
	if _, err := DecodeValue(deepMap); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}

	// 巨大な入れ子でもスタックを使い切らずにエラーになる
	call := append(EncodeValue(String("open")), nestedLists(1<<20)...)
	if _, err := DecodeMethodCall(call); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("DecodeMethodCall err = %v, want ErrUnsupportedType", err)
	}
}
