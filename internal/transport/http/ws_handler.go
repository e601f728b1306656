package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"hackathon-portal/internal/app"
	"github.com/gorilla/websocket"
)

// countdownInterval drives the screen refresh pushes for timed sessions. The
// countdown itself is always recomputed from wall-clock time at render.
const countdownInterval = 15 * time.Second

// WSHandler serves the participant surface over a websocket: every inbound
// message triggers a fresh render and a screen push, and timed sessions get
// periodic countdown refreshes.
type WSHandler struct {
	service  *app.PortalService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PortalService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type wsLoginPayload struct {
	Username string `json:"username"`
}

type wsSubmitPayload struct {
	ProblemID int    `json:"problemId"`
	Solution  string `json:"solution"`
}

type sessionPayload struct {
	Token string `json:"token"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the render loop for one connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})
	tickerRunning := false

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// A connection may resume an existing session by sending its token.
	token := r.URL.Query().Get("token")
	if token != "" {
		h.pushScreen(r, send, token)
	} else {
		send <- outboundMessage[any]{Type: "screen", Payload: app.Screen{Kind: app.ScreenLogin}}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "login":
			var payload wsLoginPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid login payload"}}
				continue
			}
			session, err := h.service.LoginParticipant(r.Context(), payload.Username)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			token = session.Token
			send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{Token: token}}
			h.pushScreen(r, send, token)
			if !session.HackathonEnd.IsZero() && !tickerRunning {
				tickerRunning = true
				go h.countdownLoop(r, send, closeSignals, tickerDone, token)
			}
		case "submit":
			var payload wsSubmitPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid submit payload"}}
				continue
			}
			screen, err := h.service.SubmitSolution(r.Context(), token, payload.ProblemID, payload.Solution)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "screen", Payload: screen}
		case "refresh":
			h.pushScreen(r, send, token)
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	if tickerRunning {
		<-tickerDone
	}
	close(send)
	<-writerDone
}

func (h *WSHandler) pushScreen(r *http.Request, send chan<- outboundMessage[any], token string) {
	screen, err := h.service.Render(r.Context(), token)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return
	}
	send <- outboundMessage[any]{Type: "screen", Payload: screen}
}

func (h *WSHandler) countdownLoop(r *http.Request, send chan<- outboundMessage[any], closeSignals <-chan struct{}, done chan<- struct{}, token string) {
	defer close(done)
	ticker := time.NewTicker(countdownInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			screen, err := h.service.Render(r.Context(), token)
			if err != nil {
				continue
			}
			select {
			case send <- outboundMessage[any]{Type: "screen", Payload: screen}:
			case <-closeSignals:
				return
			}
			// No further pushes needed once the session left the timed flow.
			if screen.Kind != app.ScreenProblem {
				return
			}
		case <-closeSignals:
			return
		}
	}
}
