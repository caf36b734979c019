package channel

import (
	"bytes"
	"errors"
	"fmt"
)

// 封筒の先頭バイト
const (
	envelopeSuccess byte = 0
	envelopeError   byte = 1
)

// ErrInvalidEnvelope は応答封筒の形式が不正な場合のエラー
var ErrInvalidEnvelope = errors.New("応答の形式が不正です")

// MethodCall はメソッド名と引数からなる1回の呼び出し
type MethodCall struct {
	Method string
	Args   Value
}

// ResponseKind は応答の種類を表す
type ResponseKind int

const (
	ResponseSuccess        ResponseKind = iota // 成功
	ResponseError                              // エラー
	ResponseNotImplemented                     // 未実装メソッド
)

// Response はメソッド呼び出しに対する唯一の応答
type Response struct {
	Kind    ResponseKind
	Result  Value  // 成功時の戻り値
	Code    string // エラーコード
	Message string // エラーメッセージ
	Details Value  // エラーの詳細（任意）
}

// Success は成功応答を作成する
func Success(result Value) Response {
	return Response{Kind: ResponseSuccess, Result: result}
}

// Error はエラー応答を作成する
func Error(code, message string) Response {
	return Response{Kind: ResponseError, Code: code, Message: message}
}

// NotImplemented は未実装応答を作成する
func NotImplemented() Response {
	return Response{Kind: ResponseNotImplemented}
}

// IsError はエラー応答かどうかを返す
func (r Response) IsError() bool { return r.Kind == ResponseError }

// String はデバッグ用の表現を返す
func (r Response) String() string {
	switch r.Kind {
	case ResponseSuccess:
		return "success(" + r.Result.String() + ")"
	case ResponseError:
		return fmt.Sprintf("error(%s: %s)", r.Code, r.Message)
	default:
		return "notImplemented"
	}
}

// MethodHandler はメソッドチャンネルの呼び出しを処理する
type MethodHandler interface {
	HandleMethodCall(call MethodCall) Response
}

// MethodHandlerFunc は関数をMethodHandlerとして扱うためのアダプタ
type MethodHandlerFunc func(call MethodCall) Response

// HandleMethodCall はfを呼び出す
func (f MethodHandlerFunc) HandleMethodCall(call MethodCall) Response {
	return f(call)
}

// EncodeMethodCall はメソッド呼び出しをエンコードする
func EncodeMethodCall(call MethodCall) []byte {
	var buf bytes.Buffer
	writeValue(&buf, String(call.Method))
	writeValue(&buf, call.Args)
	return buf.Bytes()
}

// DecodeMethodCall はエンコードされたメソッド呼び出しをデコードする
func DecodeMethodCall(data []byte) (MethodCall, error) {
	r := &reader{data: data}

	name, err := r.readValue()
	if err != nil {
		return MethodCall{}, fmt.Errorf("メソッド名のデコードに失敗: %w", err)
	}
	method, ok := name.AsString()
	if !ok {
		return MethodCall{}, fmt.Errorf("%w: メソッド名が %s です", ErrUnsupportedType, name.Kind())
	}

	args, err := r.readValue()
	if err != nil {
		return MethodCall{}, fmt.Errorf("引数のデコードに失敗: %w", err)
	}
	if r.remaining() > 0 {
		return MethodCall{}, fmt.Errorf("%w: %dバイト", ErrTrailingBytes, r.remaining())
	}

	return MethodCall{Method: method, Args: args}, nil
}

// EncodeEnvelope は応答を封筒形式にエンコードする
// 未実装応答は空の返信になる
func EncodeEnvelope(resp Response) []byte {
	var buf bytes.Buffer
	switch resp.Kind {
	case ResponseSuccess:
		buf.WriteByte(envelopeSuccess)
		writeValue(&buf, resp.Result)
	case ResponseError:
		buf.WriteByte(envelopeError)
		writeValue(&buf, String(resp.Code))
		if resp.Message == "" {
			writeValue(&buf, Null())
		} else {
			writeValue(&buf, String(resp.Message))
		}
		writeValue(&buf, resp.Details)
	case ResponseNotImplemented:
		return []byte{}
	}
	return buf.Bytes()
}

// DecodeEnvelope は封筒形式の応答をデコードする
func DecodeEnvelope(data []byte) (Response, error) {
	if len(data) == 0 {
		return NotImplemented(), nil
	}

	r := &reader{data: data}
	head, _ := r.readByte()

	var resp Response
	switch head {
	case envelopeSuccess:
		result, err := r.readValue()
		if err != nil {
			return Response{}, fmt.Errorf("戻り値のデコードに失敗: %w", err)
		}
		resp = Success(result)
	case envelopeError:
		code, err := r.readValue()
		if err != nil {
			return Response{}, fmt.Errorf("エラーコードのデコードに失敗: %w", err)
		}
		codeStr, ok := code.AsString()
		if !ok {
			return Response{}, fmt.Errorf("%w: エラーコードが %s です", ErrInvalidEnvelope, code.Kind())
		}
		message, err := r.readValue()
		if err != nil {
			return Response{}, fmt.Errorf("エラーメッセージのデコードに失敗: %w", err)
		}
		messageStr, _ := message.AsString()
		details, err := r.readValue()
		if err != nil {
			return Response{}, fmt.Errorf("エラー詳細のデコードに失敗: %w", err)
		}
		resp = Response{Kind: ResponseError, Code: codeStr, Message: messageStr, Details: details}
	default:
		return Response{}, fmt.Errorf("%w: 先頭バイト %d", ErrInvalidEnvelope, head)
	}

	if r.remaining() > 0 {
		return Response{}, fmt.Errorf("%w: %dバイト", ErrTrailingBytes, r.remaining())
	}
	return resp, nil
}
