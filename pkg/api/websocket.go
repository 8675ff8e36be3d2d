package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/decker502/pvzcore/pkg/metrics"
)

const (
	// MaxWSConnections 观察者连接总数上限
	MaxWSConnections = 64

	// DefaultBroadcastInterval 快照推送间隔（每秒 10 次）
	DefaultBroadcastInterval = 100 * time.Millisecond

	writeWait = 2 * time.Second
)

// wsMessage 推送给观察者的消息
type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// WebSocketHub 管理观察者连接并定期推送快照
type WebSocketHub struct {
	source   SnapshotSource
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	// 同一连接同时只能有一个写入者
	writeMu sync.Mutex
}

// NewWebSocketHub 创建推送中心
// allowOrigin 为 nil 时只接受无 Origin 或本机来源的连接
func NewWebSocketHub(source SnapshotSource, m *metrics.Metrics, allowOrigin func(origin string) bool) *WebSocketHub {
	if allowOrigin == nil {
		allowOrigin = IsLocalOrigin
	}
	h := &WebSocketHub{
		source:  source,
		metrics: m,
		clients: make(map[*websocket.Conn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowOrigin(origin) {
				return true
			}
			log.Printf("[API] WebSocket connection rejected from origin: %s", origin)
			return false
		},
	}
	return h
}

// ClientCount 当前连接数
func (h *WebSocketHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWebSocket 处理 /ws 连接
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= MaxWSConnections {
		if h.metrics != nil {
			h.metrics.RecordConnectionRejected("ws_limit")
		}
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] WebSocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnected()
	}
	log.Printf("[API] Observer connected from %s (%d total)", GetClientIP(r), count)

	// 新连接立即收到一份快照
	h.send(conn, h.encodeSnapshot())

	// 观察者只读，读循环只用于发现连接关闭
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// remove 移除并关闭连接，重复调用无副作用
func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	conn.Close()
	if h.metrics != nil {
		h.metrics.WSDisconnected()
	}
	log.Printf("[API] Observer disconnected (%d remaining)", count)
}

func (h *WebSocketHub) encodeSnapshot() []byte {
	data, err := json.Marshal(wsMessage{Event: "state", Data: h.source.Snapshot()})
	if err != nil {
		log.Printf("[API] Failed to encode snapshot: %v", err)
		return nil
	}
	return data
}

// send 向单个连接写入消息，失败时移除连接
func (h *WebSocketHub) send(conn *websocket.Conn, message []byte) {
	if message == nil {
		return
	}
	h.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteMessage(websocket.TextMessage, message)
	h.writeMu.Unlock()
	if err != nil {
		h.remove(conn)
		return
	}
	if h.metrics != nil {
		h.metrics.WSMessageSent()
	}
}

// BroadcastSnapshot 向所有连接推送一次快照
// 没有连接时不生成快照
func (h *WebSocketHub) BroadcastSnapshot() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	if len(conns) == 0 {
		return
	}
	message := h.encodeSnapshot()
	for _, conn := range conns {
		h.send(conn, message)
	}
}

// Run 按 interval 周期推送快照，直到 ctx 结束；结束时关闭所有连接
func (h *WebSocketHub) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.BroadcastSnapshot()
		}
	}
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.remove(conn)
	}
}
