package serve

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Time allowed to write message to the client
	writeWait  = 10 * time.Second
	pingPeriod = 10 * time.Second
)

// StatusMessage is the JSON payload pushed to websocket clients.
type StatusMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// StatusHub is a status sink broadcasting each status text to connected
// websocket clients. New clients immediately receive the latest message.
// Slow clients skip intermediate messages.
type StatusHub struct {
	upgrader websocket.Upgrader
	cs       map[chan StatusMessage]bool
	addc     chan chan StatusMessage
	delc     chan chan StatusMessage
	msgs     chan StatusMessage
}

func NewStatusHub() *StatusHub {
	h := &StatusHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		cs:   make(map[chan StatusMessage]bool),
		addc: make(chan chan StatusMessage),
		delc: make(chan chan StatusMessage),
		msgs: make(chan StatusMessage),
	}
	go func() {
		var last *StatusMessage
		for {
			select {
			case c := <-h.addc:
				h.cs[c] = true
				if last != nil {
					offer(c, *last)
				}
			case c := <-h.delc:
				delete(h.cs, c)
			case m := <-h.msgs:
				last = &m
				for c := range h.cs {
					offer(c, m)
				}
			}
		}
	}()
	return h
}

// offer replaces any undelivered message in c with m.
func offer(c chan StatusMessage, m StatusMessage) {
	select {
	case c <- m:
		return
	default:
	}
	select {
	case <-c:
	default:
	}
	c <- m
}

func (h *StatusHub) Info(text string) {
	h.msgs <- StatusMessage{Level: "info", Text: text}
}

func (h *StatusHub) Error(text string) {
	h.msgs <- StatusMessage{Level: "error", Text: text}
}

func (h *StatusHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.WithField("addr", r.RemoteAddr).Errorf("Websocket handshake failed for status stream: %v", err)
		}
		return
	}
	go h.serve(ws)
}

func (h *StatusHub) serve(ws *websocket.Conn) {
	clog := log.WithField("addr", ws.RemoteAddr())
	clog.Info("connected to status socket")
	closed := make(chan bool)
	defer func() {
		ws.Close()
		clog.Info("disconnected from status socket")
	}()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	c := make(chan StatusMessage, 1)
	h.addc <- c
	defer func() { h.delc <- c }()

	// Even though we don't care about incoming messages, we need to read from
	// the socket in order to process control messages.
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case m := <-c:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(m); err != nil {
				return
			}
		case <-pingTicker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
