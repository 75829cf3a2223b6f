package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/config"
	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/session"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// Message types on the game socket.
const (
	MsgState      = "state"
	MsgEvent      = "event"
	MsgCallTool   = "call_tool"
	MsgToolResult = "tool_result"
	MsgError      = "error"
)

// WSMessage is one frame in either direction.
type WSMessage struct {
	Type      string     `json:"type"`
	GameID    string     `json:"game_id,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Tool      string     `json:"tool,omitempty"`
	Args      tools.Args `json:"args,omitempty"`
	Code      rules.Code `json:"code,omitempty"`
	Error     string     `json:"error,omitempty"`
	Data      any        `json:"data,omitempty"`
}

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

type gameFrame struct {
	gameID  string
	payload []byte
}

type directFrame struct {
	client  *wsClient
	payload []byte
}

// Hub fans engine events out to every socket watching a game. It subscribes
// to a game when the first socket for it arrives and detaches when the last
// one leaves.
type Hub struct {
	cfg      config.WebSocketConfig
	games    *session.Manager
	registry *tools.Registry
	auth     *Authenticator
	logger   *zap.Logger
	upgrader websocket.Upgrader

	clients    map[string]map[*wsClient]bool
	detach     map[string]func()
	broadcast  chan gameFrame
	direct     chan directFrame
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

// NewHub creates a hub. Run must be started before sockets are served.
func NewHub(cfg config.WebSocketConfig, games *session.Manager, registry *tools.Registry, auth *Authenticator, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	h := &Hub{
		cfg:        cfg,
		games:      games,
		registry:   registry,
		auth:       auth,
		logger:     logger,
		clients:    make(map[string]map[*wsClient]bool),
		detach:     make(map[string]func()),
		broadcast:  make(chan gameFrame, 256),
		direct:     make(chan directFrame),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.logger.Warn("websocket origin rejected", zap.String("origin", origin))
	return false
}

// Run owns the client registry until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for gameID, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
				if stop := h.detach[gameID]; stop != nil {
					stop()
				}
			}
			h.clients = make(map[string]map[*wsClient]bool)
			h.detach = make(map[string]func())
			return

		case c := <-h.register:
			if h.clients[c.gameID] == nil {
				stop, err := h.games.Subscribe(ctx, c.gameID, h.forward(c.gameID))
				if err != nil {
					h.logger.Warn("failed to subscribe to game", zap.String("game_id", c.gameID), zap.Error(err))
					close(c.send)
					continue
				}
				h.clients[c.gameID] = make(map[*wsClient]bool)
				h.detach[c.gameID] = stop
			}
			h.clients[c.gameID][c] = true
			h.logger.Debug("websocket client registered", zap.String("game_id", c.gameID))

		case c := <-h.unregister:
			if h.drop(c) {
				h.logger.Debug("websocket client unregistered", zap.String("game_id", c.gameID))
			}

		case frame := <-h.direct:
			if h.clients[frame.client.gameID][frame.client] {
				select {
				case frame.client.send <- frame.payload:
				default:
				}
			}

		case frame := <-h.broadcast:
			for c := range h.clients[frame.gameID] {
				select {
				case c.send <- frame.payload:
				default:
					h.logger.Warn("websocket client too slow, dropping", zap.String("game_id", frame.gameID))
					h.drop(c)
				}
			}
		}
	}
}

// drop closes c and detaches its game once no client watches it. It reports
// whether c was registered. Only Run calls it.
func (h *Hub) drop(c *wsClient) bool {
	clients := h.clients[c.gameID]
	if _, ok := clients[c]; !ok {
		return false
	}
	delete(clients, c)
	if len(clients) == 0 {
		if stop := h.detach[c.gameID]; stop != nil {
			stop()
		}
		delete(h.detach, c.gameID)
		delete(h.clients, c.gameID)
	}
	close(c.send)
	return true
}

// watching reports how many games have a live subscription.
func (h *Hub) watching() int {
	return len(h.detach)
}

// forward is the engine listener for one game. It runs inside the game's
// critical section, so it never blocks.
func (h *Hub) forward(gameID string) rules.Listener {
	return func(evt rules.Event) {
		payload, err := json.Marshal(WSMessage{Type: MsgEvent, GameID: gameID, Data: evt})
		if err != nil {
			return
		}
		select {
		case h.broadcast <- gameFrame{gameID: gameID, payload: payload}:
		default:
			h.logger.Warn("websocket broadcast queue full, dropping event",
				zap.String("game_id", gameID),
				zap.String("event", string(evt.Type)),
			)
		}
	}
}

// ServeHTTP upgrades GET /ws/games/{id}. With auth enabled the token comes
// from the Authorization header or the token query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if h.auth.Enabled() {
		token := r.Header.Get("Authorization")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if err := h.auth.Verify(token); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	var state any
	if err := h.games.View(r.Context(), gameID, func(g *game.Game) error {
		state = g.Snapshot()
		return nil
	}); err != nil {
		if rules.CodeOf(err) == rules.CodeNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load game", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, 256), gameID: gameID}
	if hello, err := json.Marshal(WSMessage{Type: MsgState, GameID: gameID, Data: state}); err == nil {
		c.send <- hello
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go h.writePump(c)
	go h.readPump(c)
}

// Handler serves the hub behind CORS.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws/games/{id}", h)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := cors.New(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

func (h *Hub) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * h.cfg.PingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * h.cfg.PingInterval))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.String("game_id", c.gameID), zap.Error(err))
			}
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.reply(c, WSMessage{Type: MsgError, Code: tools.CodeInvalidArgument, Error: "message must be JSON"})
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (h *Hub) handleMessage(c *wsClient, msg WSMessage) {
	switch msg.Type {
	case MsgCallTool:
		out, err := h.registry.Dispatch(context.Background(), h.games, c.gameID, msg.Tool, msg.Args)
		if err != nil {
			h.reply(c, WSMessage{Type: MsgError, RequestID: msg.RequestID, Code: rules.CodeOf(err), Error: err.Error()})
			return
		}
		h.reply(c, WSMessage{Type: MsgToolResult, GameID: c.gameID, RequestID: msg.RequestID, Tool: msg.Tool, Data: out})
	default:
		h.reply(c, WSMessage{Type: MsgError, RequestID: msg.RequestID, Code: tools.CodeInvalidArgument,
			Error: "unknown message type " + msg.Type})
	}
}

// reply hands a direct answer to the hub, which owns c.send.
func (h *Hub) reply(c *wsClient, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.direct <- directFrame{client: c, payload: payload}:
	case <-h.done:
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartWebSocketServer serves the hub on cfg.Address until ctx is done.
func StartWebSocketServer(ctx context.Context, cfg config.WebSocketConfig, hub *Hub, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting WebSocket server", zap.String("address", cfg.Address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
