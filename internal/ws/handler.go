package ws

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/card-combat-backend/internal/hub"
	"github.com/DoyleJ11/card-combat-backend/internal/lobby"
	"github.com/DoyleJ11/card-combat-backend/internal/types"
)

const (
	writeTimeout     = 3 * time.Second
	outboxSize       = 32
	maxMonsterKeyLen = 256
	maxCodeLen       = 8
)

// Handler upgrades the connection and runs its message loop. Each connection
// is one logical stream: the reader handles every inbound frame to completion
// before the next, and a writer goroutine drains the outbox in FIFO order.
// Malformed or unknown frames are dropped silently; nothing a client sends can
// terminate its own connection.
func Handler(h *hub.Hub, reg *Registry, logger *zap.Logger, originPatterns []string) http.HandlerFunc {
	log := logger.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		reg.add(clientID, conn)
		defer reg.remove(clientID)

		outbox := make(chan []byte, outboxSize)

		// Writer goroutine. The outbox is never closed from this side: the
		// lobby may still hold a reference until a Leave is processed.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case payload, ok := <-outbox:
					if !ok {
						return
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					err := conn.Write(ctx, websocket.MessageText, payload)
					cancel()
					if err != nil {
						return
					}
				}
			}
		}()

		var lb *lobby.Lobby

		// Disconnect is an implicit leave.
		defer func() {
			if lb != nil {
				lb.Send(lobby.Leave{ClientID: clientID})
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close or otherwise, the deferred Leave runs either way.
				if s := websocket.CloseStatus(err); s != websocket.StatusNormalClosure && s != websocket.StatusGoingAway {
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				continue // liveness over correctness: drop and stay open
			}

			switch cm.Type {
			case "create":
				if lb != nil {
					continue
				}
				created := createLobby(h)
				if created == nil {
					continue
				}
				lb = bindLobby(h, created, lobby.Join{
					ClientID: clientID,
					Name:     displayName(cm.Name, clientID),
					Outbox:   outbox,
					Reply:    types.EvtCreated,
				})

			case "join":
				if lb != nil {
					continue
				}
				code := NormalizeCode(cm.Code)
				if code == "" {
					continue
				}
				joined := ensureLobby(h, code)
				if joined == nil {
					continue
				}
				lb = bindLobby(h, joined, lobby.Join{
					ClientID: clientID,
					Name:     displayName(cm.Name, clientID),
					Outbox:   outbox,
					Reply:    types.EvtJoined,
				})

			case "leave":
				if lb == nil {
					continue
				}
				lb.Send(lobby.Leave{ClientID: clientID})
				lb = nil

			default:
				if lb == nil {
					continue
				}
				cmd, ok := toCommand(cm)
				if !ok {
					continue
				}
				lb.Send(lobby.FromClient{ClientID: clientID, Cmd: cmd})
			}
		}
	}
}

// bindLobby seats the player in lb, confirmed via the join's Ready channel.
// A lobby can empty out and shut down between hub lookup and the join being
// applied; when that happens the join is re-sent to a fresh lobby for the
// same code so the connection never ends up bound to a dead lobby.
func bindLobby(h *hub.Hub, lb *lobby.Lobby, join lobby.Join) *lobby.Lobby {
	for {
		ready := make(chan struct{})
		join.Ready = ready
		lb.Send(join)
		select {
		case <-ready:
			return lb
		case <-lb.Done():
			// Done and Ready can both be closed if the lobby shut down just
			// after seating us; a seated join must not be retried.
			select {
			case <-ready:
				return lb
			default:
			}
		}
		lb = ensureLobby(h, lb.Code())
		if lb == nil {
			return nil
		}
	}
}

func createLobby(h *hub.Hub) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.CreateLobby{Reply: reply}
	return <-reply
}

func ensureLobby(h *hub.Hub, code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.EnsureLobby{Code: code, Reply: reply}
	return <-reply
}

func displayName(name, clientID string) string {
	if name != "" {
		return name
	}
	return lobby.DefaultName(clientID)
}

// NormalizeCode uppercases, strips non-alphanumerics, and truncates. An empty
// result means the code was garbage and the message is a no-op.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) > maxCodeLen {
		code = code[:maxCodeLen]
	}
	return code
}

// toCommand validates one inbound frame into a lobby command. Out-of-range
// fields are clamped; anything unsalvageable rejects the whole message.
func toCommand(m types.ClientMessage) (lobby.Command, bool) {
	switch m.Type {
	case "start":
		return lobby.Start{}, true

	case "setMonster":
		key := strings.TrimSpace(m.Key)
		if key == "" {
			return nil, false
		}
		if r := []rune(key); len(r) > maxMonsterKeyLen {
			key = string(r[:maxMonsterKeyLen])
		}
		return lobby.SetMonster{Key: key}, true

	case "damageMonster":
		amount := clampAmount(m.Amount)
		if amount <= 0 {
			return nil, false
		}
		return lobby.DamageMonster{Amount: amount, Suit: m.Suit}, true

	case "healPlayer":
		amount := clampAmount(m.Amount)
		if amount <= 0 {
			return nil, false
		}
		return lobby.HealPlayer{TargetID: m.ID, Amount: amount}, true

	case "heartHealRequest":
		return lobby.HeartHealRequest{Amount: clampAmount(m.Amount), Count: m.Count}, true

	case "jackpotContribute":
		amount := clampAmount(m.Amount)
		if amount <= 0 {
			return nil, false
		}
		return lobby.JackpotContribute{Amount: amount}, true

	case "sharePrize":
		return lobby.SharePrize{Amount: clampAmount(m.Amount), Targets: m.Targets}, true

	case "prizeParticles":
		return lobby.PrizeParticles{}, true

	case "playerPos":
		if m.X == nil || math.IsNaN(*m.X) || math.IsInf(*m.X, 0) {
			return nil, false
		}
		x := *m.X
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		return lobby.PlayerPos{X: x}, true

	case "getStats":
		return lobby.GetStats{}, true

	case "debugSetHealth":
		if math.IsNaN(m.Health) || math.IsInf(m.Health, 0) {
			return nil, false
		}
		return lobby.DebugSetHealth{Health: m.Health}, true

	case "jokerAttackRequest":
		return lobby.JokerAttackRequest{}, true

	case "debugAwardJackpot":
		return lobby.DebugAwardJackpot{}, true

	case "slashAttackOverlay":
		return lobby.SlashAttackOverlay{}, true

	default:
		return nil, false
	}
}

func clampAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
