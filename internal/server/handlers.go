package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"litecamera/internal/channel"
)

// maxMessageSize はメソッド呼び出し1回の最大サイズ（フレームデータを含む）
const maxMessageSize = 64 << 20

// ErrorResponse はHTTPレベルのエラー応答
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse は /api/status の応答
type StatusResponse struct {
	Status    string    `json:"status"`
	Channels  []string  `json:"channels"`
	Backend   string    `json:"backend"`
	SessionID string    `json:"session_id"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 開発用ホストのためオリジンは制限しない
	CheckOrigin: func(r *http.Request) bool { return true },
}

func errorJSON(c *gin.Context, status int, code, message string, err error) {
	resp := ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// handleHealth はヘルスチェックエンドポイント
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleStatus はステータス確認エンドポイント
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:    "running",
		Channels:  s.registrar.Channels(),
		Backend:   s.info.Backend,
		SessionID: s.info.SessionID,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp: time.Now(),
	})
}

// lookupChannel はURLのチャンネル名からプラグインを探す
func (s *Server) lookupChannel(c *gin.Context) (channel.Plugin, bool) {
	name := c.Param("name")
	plugin, ok := s.registrar.Lookup(name)
	if !ok {
		errorJSON(c, http.StatusNotFound, "channel_not_found", "指定されたチャンネルが見つかりません: "+name, nil)
		return nil, false
	}
	return plugin, true
}

// handleChannelCall は本文のメソッド呼び出しを処理し、応答封筒を返す
func (s *Server) handleChannelCall(c *gin.Context) {
	plugin, ok := s.lookupChannel(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxMessageSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorJSON(c, http.StatusRequestEntityTooLarge, "message_too_large", "メッセージが大きすぎます", err)
			return
		}
		errorJSON(c, http.StatusBadRequest, "invalid_body", "本文の読み込みに失敗しました", err)
		return
	}

	call, err := channel.DecodeMethodCall(body)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_method_call", "メソッド呼び出しのデコードに失敗しました", err)
		return
	}

	resp := plugin.HandleMethodCall(call)
	c.Data(http.StatusOK, "application/octet-stream", channel.EncodeEnvelope(resp))
}

// handleChannelWebSocket はWebSocket上でメソッド呼び出しを順番に処理する
func (s *Server) handleChannelWebSocket(c *gin.Context) {
	plugin, ok := s.lookupChannel(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocketのアップグレードに失敗しました", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()
	conn.SetReadLimit(maxMessageSize)

	logger := s.logger.With("channel", c.Param("name"), "request_id", c.GetString("request_id"))
	logger.Info("WebSocket接続を開始しました", "remote", c.Request.RemoteAddr)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("WebSocketの読み込みに失敗しました", "error", err)
			}
			return
		}

		if messageType != websocket.BinaryMessage {
			logger.Warn("バイナリ以外のメッセージは無視します", "type", messageType)
			continue
		}

		call, err := channel.DecodeMethodCall(data)
		if err != nil {
			logger.Warn("メソッド呼び出しのデコードに失敗しました", "error", err)
			msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "invalid method call")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}

		resp := plugin.HandleMethodCall(call)
		if err := conn.WriteMessage(websocket.BinaryMessage, channel.EncodeEnvelope(resp)); err != nil {
			logger.Warn("WebSocketの書き込みに失敗しました", "error", err)
			return
		}
	}
}
