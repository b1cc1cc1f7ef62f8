package hub

import (
	"context"
	"crypto/rand"
	"math/big"

	"go.uber.org/zap"

	"github.com/DoyleJ11/card-combat-backend/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

// CreateLobby generates a fresh code that is unique against the live keyspace
// and creates the lobby for it.
type CreateLobby struct {
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// EnsureLobby returns the lobby for Code, creating it if absent. Join and
// create race tolerantly through this: joining an unknown code creates it.
type EnsureLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type CountLobbies struct {
	Reply chan int
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg()  {}
func (GetLobby) isHubMsg()     {}
func (EnsureLobby) isHubMsg()  {}
func (RemoveLobby) isHubMsg()  {}
func (CountLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg()  {}

// Hub owns the lobby table. A single goroutine serializes all access, so code
// generation and lookup can never race with lobby creation or removal.
type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		log:     logger.Named("hub"),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// LobbyCount reports the number of live lobbies.
func (h *Hub) LobbyCount() int {
	reply := make(chan int, 1)
	select {
	case h.inbox <- CountLobbies{Reply: reply}:
		return <-reply
	case <-h.ctx.Done():
		return 0
	}
}

// Shutdown stops every lobby and then the hub itself.
func (h *Hub) Shutdown() {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				code, err := h.freshCode()
				if err != nil {
					h.log.Error("generate code", zap.Error(err))
					msg.Reply <- nil
					break
				}
				msg.Reply <- h.ensure(code)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // may be nil

			case EnsureLobby:
				msg.Reply <- h.ensure(msg.Code)

			case RemoveLobby:
				// A removal can arrive after ensure has already replaced the
				// emptied lobby; only a closed lobby may be dropped.
				if lb := h.lobbies[msg.Code]; lb != nil && lb.Closed() {
					delete(h.lobbies, msg.Code)
				}

			case CountLobbies:
				msg.Reply <- len(h.lobbies)

			case ShutdownHub:
				for _, lb := range h.lobbies {
					lb.Stop()
				}
				clear(h.lobbies)
				h.cancel()
				return
			}
		}
	}
}

// ensure returns the live lobby for code, replacing one that has already shut
// down (a join can race the last leave).
func (h *Hub) ensure(code string) *lobby.Lobby {
	if lb := h.lobbies[code]; lb != nil && !lb.Closed() {
		return lb
	}
	lb := lobby.NewLobby(h.ctx, lobby.Config{
		Code:   code,
		Logger: h.log,
		OnEmpty: func(c string) {
			select {
			case h.inbox <- RemoveLobby{Code: c}:
			case <-h.ctx.Done():
			}
		},
	})
	h.lobbies[code] = lb
	h.log.Info("lobby created", zap.String("code", code))
	return lb
}

// codeAlphabet avoids easily-confused characters (no I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// freshCode draws codes until one misses the live keyspace. The keyspace is
// large enough that collisions are negligible, but uniqueness is still
// asserted before use.
func (h *Hub) freshCode() (string, error) {
	for {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		if lb := h.lobbies[code]; lb == nil || lb.Closed() {
			return code, nil
		}
		h.log.Warn("code collision, regenerating", zap.String("code", code))
	}
}

func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[num.Int64()]
	}
	return string(code), nil
}
