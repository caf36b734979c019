package channel

import (
	"fmt"
	"strings"
)

// Kind はValueが保持する値の種類を表す
type Kind int

const (
	KindNull   Kind = iota // null
	KindBool               // 真偽値
	KindInt                // 符号付き整数
	KindString             // UTF-8文字列
	KindBytes              // 生のバイト列
	KindList               // 順序付きリスト
	KindMap                // 文字列キーのマップ
)

// String はKindの表示名を返す
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value はメソッドチャンネル上でやり取りされる動的型の値
// ゼロ値はnullを表す
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
	raw  []byte
	list []Value
	m    *Map
}

// Null はnull値を返す
func Null() Value { return Value{} }

// Bool は真偽値を返す
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int は整数値を返す
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// String は文字列値を返す
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes はバイト列値を返す（コピーはしない）
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindBytes, raw: b}
}

// List はリスト値を返す
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// MapValue はマップ値を返す
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Strings は文字列のスライスからリスト値を作成する
func Strings(items []string) Value {
	values := make([]Value, 0, len(items))
	for _, s := range items {
		values = append(values, String(s))
	}
	return List(values...)
}

// Kind は値の種類を返す
func (v Value) Kind() Kind { return v.kind }

// IsNull は値がnullかどうかを返す
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool は真偽値を取り出す
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt は整数値を取り出す
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsString は文字列を取り出す
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBytes はバイト列を取り出す
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.raw, true
}

// AsList はリストの要素を取り出す
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// AsMap はマップを取り出す
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Len はリストまたはマップの要素数を返す。それ以外は0
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.m.Len()
	default:
		return 0
	}
}

// Index はリストのi番目の要素を返す
// リストでない場合や範囲外の場合はfalseを返す
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// Lookup はマップからキーに対応する値を返す
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	return v.m.Get(key)
}

// Equal は2つの値が等しいかを比較する
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindString:
		return v.s == other.s
	case KindBytes:
		return string(v.raw) == string(other.raw)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.equal(other.m)
	}
	return false
}

// String はデバッグ用の表現を返す
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(v.raw))
	case KindList:
		parts := make([]string, 0, len(v.list))
		for _, item := range v.list {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, 0, v.m.Len())
		v.m.Range(func(key string, value Value) bool {
			parts = append(parts, fmt.Sprintf("%q: %s", key, value.String()))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return v.kind.String()
}

// Map は挿入順を保持する文字列キーのマップ
// エンコード結果を決定的にするため順序を保持する
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap は空のMapを作成する
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set はキーに値を設定する。既存キーの場合は順序を変えずに上書きする
func (m *Map) Set(key string, value Value) *Map {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get はキーに対応する値を返す
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	value, ok := m.values[key]
	return value, ok
}

// Len は要素数を返す
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys は挿入順のキー一覧を返す
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range は挿入順に要素を走査する。fnがfalseを返すと終了する
func (m *Map) Range(fn func(key string, value Value) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

func (m *Map) equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil || other == nil {
		return true
	}
	for key, value := range m.values {
		otherValue, ok := other.values[key]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}
	return true
}
