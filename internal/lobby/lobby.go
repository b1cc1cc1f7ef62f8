package lobby

import (
	"context"
	"encoding/json"
	rand "math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/card-combat-backend/internal/game"
	"github.com/DoyleJ11/card-combat-backend/internal/types"
)

type Msg interface{ isLobbyMsg() }

// Join registers a client with the lobby. Reply selects the confirmation
// event (created vs joined) unicast back to the new player. Ready, when
// non-nil, is closed once the join has been applied; a sender that instead
// observes Done knows the lobby shut down without seating the player.
type Join struct {
	ClientID string
	Name     string
	Outbox   chan []byte
	Reply    types.EventType
	Ready    chan struct{}
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

// FromClient carries one validated command from a bound connection.
type FromClient struct {
	ClientID string
	Cmd      Command
}

func (FromClient) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// View reflects internal state without data races; used by tests.
type View struct {
	Code       string
	Started    bool
	OwnerID    string
	Jackpot    float64
	MonsterKey string
	Players    []game.PlayerState
	NumClients int
}

type Config struct {
	Code    string
	Logger  *zap.Logger
	OnEmpty func(code string) // called when the last player leaves
	Rand    *rand.Rand        // optional; tests inject a seeded source
}

// Lobby is a single game room. One goroutine owns all of its state and
// processes each message to completion, so no two handlers ever mutate the
// same lobby concurrently.
type Lobby struct {
	inbox    chan Msg
	code     string
	started  bool
	ownerID  string
	jackpot  float64
	monster  string
	players  []*game.PlayerState // join order
	outboxes map[string]chan []byte
	boards   map[string]*game.Board
	rng      *rand.Rand
	log      *zap.Logger
	onEmpty  func(code string)
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewLobby(parent context.Context, cfg Config) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Lobby{
		inbox:    make(chan Msg, 64),
		code:     cfg.Code,
		jackpot:  game.JackpotBase,
		outboxes: make(map[string]chan []byte),
		boards:   make(map[string]*game.Board),
		rng:      rng,
		log:      logger.With(zap.String("lobby", cfg.Code)),
		onEmpty:  cfg.OnEmpty,
		ctx:      ctx,
		cancel:   cancel,
	}
	go l.loop()
	return l
}

func (l *Lobby) Code() string { return l.code }

// Send delivers m to the lobby goroutine, giving up if the lobby has shut
// down so callers never block on a dead lobby.
func (l *Lobby) Send(m Msg) {
	select {
	case l.inbox <- m:
	case <-l.ctx.Done():
	}
}

// Closed reports whether the lobby has stopped accepting messages.
func (l *Lobby) Closed() bool { return l.ctx.Err() != nil }

// Done is closed when the lobby shuts down.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

func (l *Lobby) Stop() { l.cancel() }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.handleJoin(msg)

			case Leave:
				if l.handleLeave(msg.ClientID) {
					l.shutdown()
					return
				}

			case FromClient:
				if p := l.player(msg.ClientID); p != nil {
					l.apply(p, msg.Cmd)
				}

			case GetState:
				players := make([]game.PlayerState, len(l.players))
				for i, p := range l.players {
					players[i] = *p
				}
				msg.Reply <- View{
					Code:       l.code,
					Started:    l.started,
					OwnerID:    l.ownerID,
					Jackpot:    l.jackpot,
					MonsterKey: l.monster,
					Players:    players,
					NumClients: len(l.outboxes),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.outboxes {
		close(ch)
		delete(l.outboxes, id)
	}
	l.cancel()
}

func (l *Lobby) handleJoin(msg Join) {
	l.players = append(l.players, game.NewPlayerState(msg.ClientID, msg.Name))
	l.outboxes[msg.ClientID] = msg.Outbox
	if l.ownerID == "" {
		l.ownerID = msg.ClientID
	}

	you := types.You{ID: msg.ClientID, Name: msg.Name}
	if msg.Reply == types.EvtCreated {
		l.unicast(msg.ClientID, types.Created{Type: types.EvtCreated, Code: l.code, You: you})
	} else {
		l.unicast(msg.ClientID, types.Joined{Type: types.EvtJoined, Code: l.code, You: you})
	}
	l.unicast(msg.ClientID, types.JackpotState{Type: types.EvtJackpotState, Code: l.code, Jackpot: l.jackpot})

	l.broadcastRoster()
	l.broadcastHealth()
	l.log.Info("player joined", zap.String("player", msg.ClientID), zap.Int("players", len(l.players)))

	if msg.Ready != nil {
		close(msg.Ready)
	}
}

// handleLeave removes the player and reports whether the lobby is now empty.
func (l *Lobby) handleLeave(clientID string) (empty bool) {
	idx := -1
	for i, p := range l.players {
		if p.ID == clientID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	l.players = append(l.players[:idx], l.players[idx+1:]...)
	delete(l.outboxes, clientID)

	if len(l.players) == 0 {
		l.log.Info("lobby empty, closing")
		if l.onEmpty != nil {
			l.onEmpty(l.code)
		}
		return true
	}

	l.broadcastRoster()
	l.broadcastHealth()
	l.log.Info("player left", zap.String("player", clientID), zap.Int("players", len(l.players)))
	return false
}

func (l *Lobby) apply(p *game.PlayerState, cmd Command) {
	switch c := cmd.(type) {
	case Start:
		l.started = true
		l.broadcast(types.Started{Type: types.EvtStarted, Code: l.code})

	case SetMonster:
		l.monster = c.Key
		l.board(c.Key)
		l.broadcast(types.MonsterSet{Type: types.EvtMonsterSet, Code: l.code, Key: c.Key})

	case DamageMonster:
		if c.Amount <= 0 {
			return
		}
		l.broadcast(types.DamageMonster{Type: types.EvtDamageMonster, Code: l.code, By: p.ID, Amount: c.Amount, Suit: c.Suit})
		if l.monster == "" {
			return
		}
		b := l.board(l.monster)
		b.Add(p.ID, c.Amount)
		l.broadcast(types.LeaderboardUpdate{
			Type: types.EvtLeaderboardUpdate,
			Code: l.code,
			Key:  l.monster,
			Top:  wireEntries(b.TopN(10, l.nameOf)),
			By:   p.ID,
			Rank: b.Rank(p.ID),
		})

	case HealPlayer:
		if c.Amount <= 0 {
			return
		}
		target := c.TargetID
		if target == "" {
			target = p.ID
		}
		if tp := l.player(target); tp != nil {
			tp.Heal(c.Amount)
		}
		l.broadcast(types.HealPlayer{Type: types.EvtHealPlayer, Code: l.code, By: p.ID, ID: target, Amount: c.Amount})
		l.broadcastHealth()

	case HeartHealRequest:
		n := len(l.players)
		if n == 0 {
			return
		}
		count := c.Count
		if count < 1 {
			count = 1
		}
		if count > n {
			count = n
		}
		// Selection only: the follow-up heal arrives as ordinary healPlayer
		// messages, so hp is untouched here.
		targets := l.randomPlayerIDs(1 + l.rng.IntN(count))
		l.broadcast(types.HeartHeal{Type: types.EvtHeartHeal, Code: l.code, By: p.ID, Amount: c.Amount, Targets: targets})

	case JackpotContribute:
		if c.Amount <= 0 {
			return
		}
		l.jackpot = game.Round2(l.jackpot + c.Amount)
		l.broadcast(types.JackpotUpdate{Type: types.EvtJackpotUpdate, Code: l.code, By: p.ID, Delta: c.Amount, Jackpot: l.jackpot})

	case SharePrize:
		for _, id := range c.Targets {
			if _, ok := l.outboxes[id]; ok {
				l.unicast(id, types.SharedPrize{Type: types.EvtSharedPrize, Code: l.code, From: p.ID, Amount: c.Amount})
			}
		}

	case PrizeParticles:
		l.broadcast(types.PrizeParticles{Type: types.EvtPrizeParticles, Code: l.code, By: p.ID})

	case PlayerPos:
		p.X = c.X
		l.broadcast(types.PlayerPos{Type: types.EvtPlayerPos, Code: l.code, ID: p.ID, X: c.X})

	case GetStats:
		key := l.activeKey()
		var top []game.Entry
		if b, ok := l.boards[key]; ok {
			top = b.TopN(10, l.nameOf)
		}
		l.unicast(p.ID, types.Stats{Type: types.EvtStats, Code: l.code, Key: key, Top: wireEntries(top)})

	case DebugSetHealth:
		if p.ID != l.ownerID {
			return
		}
		l.broadcast(types.SetMonsterHealth{Type: types.EvtSetMonsterHealth, Code: l.code, Health: c.Health})

	case JokerAttackRequest:
		n := len(l.players)
		if n == 0 {
			return
		}
		damage := float64(1 + l.rng.IntN(5))
		targets := l.randomPlayerIDs(1 + l.rng.IntN(n))
		for _, id := range targets {
			if tp := l.player(id); tp != nil {
				tp.Damage(damage)
			}
		}
		l.broadcast(types.JokerAttack{Type: types.EvtJokerAttack, Code: l.code, By: p.ID, Damage: damage, Targets: targets})
		l.broadcastHealth()

	case DebugAwardJackpot:
		if p.ID != l.ownerID {
			return
		}
		key := l.activeKey()
		allocs := game.Award(l.jackpot, l.board(key), l.nameOf)
		l.broadcast(types.JackpotAward{Type: types.EvtJackpotAward, Code: l.code, Total: l.jackpot, Allocations: wireAllocations(allocs)})
		l.jackpot = game.JackpotBase
		l.boards[key] = game.NewBoard()
		l.log.Info("jackpot awarded", zap.String("monster", key), zap.Int("contributors", len(allocs)))

	case SlashAttackOverlay:
		l.broadcast(types.SlashAttackOverlay{Type: types.EvtSlashAttackOverlay, Code: l.code, By: p.ID})
	}
}

func (l *Lobby) player(id string) *game.PlayerState {
	for _, p := range l.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// board returns the accumulator for key, creating it if needed.
func (l *Lobby) board(key string) *game.Board {
	b, ok := l.boards[key]
	if !ok {
		b = game.NewBoard()
		l.boards[key] = b
	}
	return b
}

// activeKey is the board stats and awards read: the current monster, or the
// default bucket when none is set.
func (l *Lobby) activeKey() string {
	if l.monster != "" {
		return l.monster
	}
	return game.DefaultMonsterKey
}

// nameOf resolves a player's current display name; departed players fall back
// to the derived default.
func (l *Lobby) nameOf(id string) string {
	if p := l.player(id); p != nil {
		return p.Name
	}
	return DefaultName(id)
}

// randomPlayerIDs returns size distinct player ids chosen uniformly.
func (l *Lobby) randomPlayerIDs(size int) []string {
	ids := make([]string, len(l.players))
	for i, p := range l.players {
		ids[i] = p.ID
	}
	l.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if size > len(ids) {
		size = len(ids)
	}
	return ids[:size]
}

// broadcastRoster recomputes seats and sends the roster to everyone.
func (l *Lobby) broadcastRoster() {
	game.RecomputeSeats(l.players)
	players := make([]types.RosterPlayer, len(l.players))
	for i, p := range l.players {
		players[i] = types.RosterPlayer{ID: p.ID, Name: p.Name, X: p.X, HP: p.HP}
	}
	l.broadcast(types.Roster{Type: types.EvtRoster, Code: l.code, Players: players, OwnerID: l.ownerID})
}

func (l *Lobby) broadcastHealth() {
	players := make([]types.PlayerHealth, len(l.players))
	for i, p := range l.players {
		players[i] = types.PlayerHealth{ID: p.ID, HP: p.HP}
	}
	l.broadcast(types.HealthSync{Type: types.EvtHealthSync, Code: l.code, Players: players})
}

// broadcast serializes v once and hands it to every outbox. Delivery is
// best-effort at-most-once: a full outbox is skipped, no retry, no queueing.
// Clients resync from the next roster/health snapshot.
func (l *Lobby) broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		l.log.Error("marshal broadcast", zap.Error(err))
		return
	}
	for id, ch := range l.outboxes {
		select {
		case ch <- payload:
		default:
			l.log.Debug("outbox full, skipping", zap.String("player", id))
		}
	}
}

func (l *Lobby) unicast(clientID string, v any) {
	ch, ok := l.outboxes[clientID]
	if !ok {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		l.log.Error("marshal unicast", zap.Error(err))
		return
	}
	select {
	case ch <- payload:
	default:
		l.log.Debug("outbox full, skipping", zap.String("player", clientID))
	}
}

func wireEntries(entries []game.Entry) []types.LeaderboardEntry {
	out := make([]types.LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = types.LeaderboardEntry{ID: e.ID, Name: e.Name, Damage: e.Damage}
	}
	return out
}

func wireAllocations(allocs []game.Allocation) []types.JackpotAllocation {
	out := make([]types.JackpotAllocation, len(allocs))
	for i, a := range allocs {
		out[i] = types.JackpotAllocation{ID: a.ID, Name: a.Name, Amount: a.Amount}
	}
	return out
}

// DefaultName derives the display name used when a client supplies none.
func DefaultName(id string) string {
	short := id
	if len(short) > 4 {
		short = short[:4]
	}
	return "Player-" + strings.ToUpper(short)
}
