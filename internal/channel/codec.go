package channel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// 標準メッセージコーデックの型タグ
const (
	tagNull      byte = 0
	tagTrue      byte = 1
	tagFalse     byte = 2
	tagInt32     byte = 3
	tagInt64     byte = 4
	tagLargeInt  byte = 5
	tagFloat64   byte = 6
	tagString    byte = 7
	tagUint8List byte = 8
	tagInt32List byte = 9
	tagInt64List byte = 10
	tagFloatList byte = 11
	tagList      byte = 12
	tagMap       byte = 13
	tagFloat32s  byte = 14
)

var (
	// ErrUnsupportedType は扱えない型タグを受信した場合のエラー
	ErrUnsupportedType = errors.New("サポートされていない値の型")
	// ErrTruncated は入力が途中で終わっている場合のエラー
	ErrTruncated = errors.New("メッセージが途中で切れています")
	// ErrTrailingBytes は値の後ろに余分なバイトがある場合のエラー
	ErrTrailingBytes = errors.New("メッセージの末尾に余分なデータがあります")
)

// maxDepth はリスト・マップの入れ子の上限
const maxDepth = 64

// EncodeValue は値を標準メッセージコーデックの形式でエンコードする
func EncodeValue(v Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.Bytes()
}

// DecodeValue は標準メッセージコーデックの形式から値を1つデコードする
// 入力全体がちょうど1つの値でなければエラーを返す
func DecodeValue(data []byte) (Value, error) {
	r := &reader{data: data}
	v, err := r.readValue()
	if err != nil {
		return Value{}, err
	}
	if r.remaining() > 0 {
		return Value{}, fmt.Errorf("%w: %dバイト", ErrTrailingBytes, r.remaining())
	}
	return v, nil
}

func writeValue(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindNull:
		buf.WriteByte(tagNull)
	case KindBool:
		if v.b {
			buf.WriteByte(tagTrue)
		} else {
			buf.WriteByte(tagFalse)
		}
	case KindInt:
		if v.i >= math.MinInt32 && v.i <= math.MaxInt32 {
			buf.WriteByte(tagInt32)
			_ = binary.Write(buf, binary.LittleEndian, int32(v.i))
		} else {
			buf.WriteByte(tagInt64)
			_ = binary.Write(buf, binary.LittleEndian, v.i)
		}
	case KindString:
		buf.WriteByte(tagString)
		writeSize(buf, len(v.s))
		buf.WriteString(v.s)
	case KindBytes:
		buf.WriteByte(tagUint8List)
		writeSize(buf, len(v.raw))
		buf.Write(v.raw)
	case KindList:
		buf.WriteByte(tagList)
		writeSize(buf, len(v.list))
		for _, item := range v.list {
			writeValue(buf, item)
		}
	case KindMap:
		buf.WriteByte(tagMap)
		writeSize(buf, v.m.Len())
		v.m.Range(func(key string, value Value) bool {
			writeValue(buf, String(key))
			writeValue(buf, value)
			return true
		})
	}
}

// writeSize はサイズを可変長で書き込む
// 254未満は1バイト、0xffff以下は254+uint16、それ以上は255+uint32
func writeSize(buf *bytes.Buffer, size int) {
	switch {
	case size < 254:
		buf.WriteByte(byte(size))
	case size <= math.MaxUint16:
		buf.WriteByte(254)
		_ = binary.Write(buf, binary.LittleEndian, uint16(size))
	default:
		buf.WriteByte(255)
		_ = binary.Write(buf, binary.LittleEndian, uint32(size))
	}
}

// reader はバイト列から順に読み出す
type reader struct {
	data  []byte
	pos   int
	depth int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, ErrTruncated
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) readSize() (int, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	var size uint64
	switch b {
	case 254:
		raw, err := r.readN(2)
		if err != nil {
			return 0, err
		}
		size = uint64(binary.LittleEndian.Uint16(raw))
	case 255:
		raw, err := r.readN(4)
		if err != nil {
			return 0, err
		}
		size = uint64(binary.LittleEndian.Uint32(raw))
	default:
		size = uint64(b)
	}
	// どの型も1単位あたり最低1バイトなので、残りより大きいサイズは不正
	if size > uint64(r.remaining()) {
		return 0, fmt.Errorf("%w: サイズ %d, 残り %dバイト", ErrTruncated, size, r.remaining())
	}
	return int(size), nil
}

// enter は入れ子を1段深くする。上限を超えるとエラーを返す
func (r *reader) enter() error {
	if r.depth >= maxDepth {
		return fmt.Errorf("%w: 入れ子が%d段を超えています", ErrUnsupportedType, maxDepth)
	}
	r.depth++
	return nil
}

func (r *reader) readValue() (Value, error) {
	tag, err := r.readByte()
	if err != nil {
		return Value{}, err
	}

	switch tag {
	case tagNull:
		return Null(), nil
	case tagTrue:
		return Bool(true), nil
	case tagFalse:
		return Bool(false), nil
	case tagInt32:
		raw, err := r.readN(4)
		if err != nil {
			return Value{}, err
		}
		return Int(int64(int32(binary.LittleEndian.Uint32(raw)))), nil
	case tagInt64:
		raw, err := r.readN(8)
		if err != nil {
			return Value{}, err
		}
		return Int(int64(binary.LittleEndian.Uint64(raw))), nil
	case tagString:
		size, err := r.readSize()
		if err != nil {
			return Value{}, err
		}
		raw, err := r.readN(size)
		if err != nil {
			return Value{}, err
		}
		return String(string(raw)), nil
	case tagUint8List:
		size, err := r.readSize()
		if err != nil {
			return Value{}, err
		}
		raw, err := r.readN(size)
		if err != nil {
			return Value{}, err
		}
		// 入力バッファと共有しないようコピーする
		out := make([]byte, len(raw))
		copy(out, raw)
		return Bytes(out), nil
	case tagList:
		size, err := r.readSize()
		if err != nil {
			return Value{}, err
		}
		if err := r.enter(); err != nil {
			return Value{}, err
		}
		defer func() { r.depth-- }()
		items := make([]Value, 0, size)
		for i := 0; i < size; i++ {
			item, err := r.readValue()
			if err != nil {
				return Value{}, fmt.Errorf("リスト要素 %d: %w", i, err)
			}
			items = append(items, item)
		}
		return List(items...), nil
	case tagMap:
		size, err := r.readSize()
		if err != nil {
			return Value{}, err
		}
		if size*2 > r.remaining() {
			return Value{}, ErrTruncated
		}
		if err := r.enter(); err != nil {
			return Value{}, err
		}
		defer func() { r.depth-- }()
		m := NewMap()
		for i := 0; i < size; i++ {
			key, err := r.readValue()
			if err != nil {
				return Value{}, fmt.Errorf("マップキー %d: %w", i, err)
			}
			keyStr, ok := key.AsString()
			if !ok {
				return Value{}, fmt.Errorf("%w: マップキーが %s です", ErrUnsupportedType, key.Kind())
			}
			value, err := r.readValue()
			if err != nil {
				return Value{}, fmt.Errorf("マップ値 %q: %w", keyStr, err)
			}
			m.Set(keyStr, value)
		}
		return MapValue(m), nil
	case tagLargeInt, tagFloat64, tagInt32List, tagInt64List, tagFloatList, tagFloat32s:
		return Value{}, fmt.Errorf("%w: tag %d", ErrUnsupportedType, tag)
	default:
		return Value{}, fmt.Errorf("%w: 不明なtag %d", ErrUnsupportedType, tag)
	}
}
