package types

// EventType is a server->client message type. Events go over the wire as flat
// JSON objects with a "type" discriminator plus the payload fields.
type EventType string

const (
	EvtCreated            EventType = "created"
	EvtJoined             EventType = "joined"
	EvtJackpotState       EventType = "jackpotState"
	EvtRoster             EventType = "roster"
	EvtStarted            EventType = "started"
	EvtMonsterSet         EventType = "monsterSet"
	EvtDamageMonster      EventType = "damageMonster"
	EvtLeaderboardUpdate  EventType = "leaderboardUpdate"
	EvtHealPlayer         EventType = "healPlayer"
	EvtHealthSync         EventType = "healthSync"
	EvtHeartHeal          EventType = "heartHeal"
	EvtSharedPrize        EventType = "sharedPrize"
	EvtJackpotUpdate      EventType = "jackpotUpdate"
	EvtPrizeParticles     EventType = "prizeParticles"
	EvtPlayerPos          EventType = "playerPos"
	EvtStats              EventType = "stats"
	EvtSetMonsterHealth   EventType = "setMonsterHealth"
	EvtJackpotAward       EventType = "jackpotAward"
	EvtJokerAttack        EventType = "jokerAttack"
	EvtSlashAttackOverlay EventType = "slashAttackOverlay"
)

// ClientMessage is the superset of all inbound fields. Clients send flat JSON
// with a required "type"; each type reads only the fields it needs. X is a
// pointer so an absent position can be told apart from 0.
type ClientMessage struct {
	Type    string   `json:"type"`
	Name    string   `json:"name,omitempty"`
	Code    string   `json:"code,omitempty"`
	Key     string   `json:"key,omitempty"`
	ID      string   `json:"id,omitempty"`
	Amount  float64  `json:"amount,omitempty"`
	Count   int      `json:"count,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Health  float64  `json:"health,omitempty"`
	Suit    string   `json:"suit,omitempty"`
	Targets []string `json:"targets,omitempty"`
}

// You identifies the receiving player in create/join confirmations.
type You struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Created struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
	You  You       `json:"you"`
}

type Joined struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
	You  You       `json:"you"`
}

type JackpotState struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	Jackpot float64   `json:"jackpot"`
}

type RosterPlayer struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	HP   float64 `json:"hp"`
}

type Roster struct {
	Type    EventType      `json:"type"`
	Code    string         `json:"code"`
	Players []RosterPlayer `json:"players"`
	OwnerID string         `json:"ownerId"`
}

type Started struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
}

type MonsterSet struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
	Key  string    `json:"key"`
}

type DamageMonster struct {
	Type   EventType `json:"type"`
	Code   string    `json:"code"`
	By     string    `json:"by"`
	Amount float64   `json:"amount"`
	Suit   string    `json:"suit,omitempty"`
}

type LeaderboardEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Damage float64 `json:"damage"`
}

type LeaderboardUpdate struct {
	Type EventType          `json:"type"`
	Code string             `json:"code"`
	Key  string             `json:"key"`
	Top  []LeaderboardEntry `json:"top"`
	By   string             `json:"by"`
	Rank int                `json:"rank"`
}

type HealPlayer struct {
	Type   EventType `json:"type"`
	Code   string    `json:"code"`
	By     string    `json:"by"`
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
}

type PlayerHealth struct {
	ID string  `json:"id"`
	HP float64 `json:"hp"`
}

type HealthSync struct {
	Type    EventType      `json:"type"`
	Code    string         `json:"code"`
	Players []PlayerHealth `json:"players"`
}

type HeartHeal struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	By      string    `json:"by"`
	Amount  float64   `json:"amount"`
	Targets []string  `json:"targets"`
}

type SharedPrize struct {
	Type   EventType `json:"type"`
	Code   string    `json:"code"`
	From   string    `json:"from"`
	Amount float64   `json:"amount"`
}

type JackpotUpdate struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	By      string    `json:"by"`
	Delta   float64   `json:"delta"`
	Jackpot float64   `json:"jackpot"`
}

type PrizeParticles struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
	By   string    `json:"by"`
}

type PlayerPos struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
	ID   string    `json:"id"`
	X    float64   `json:"x"`
}

type Stats struct {
	Type EventType          `json:"type"`
	Code string             `json:"code"`
	Key  string             `json:"key"`
	Top  []LeaderboardEntry `json:"top"`
}

type SetMonsterHealth struct {
	Type   EventType `json:"type"`
	Code   string    `json:"code"`
	Health float64   `json:"health"`
}

type JackpotAllocation struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type JackpotAward struct {
	Type        EventType           `json:"type"`
	Code        string              `json:"code"`
	Total       float64             `json:"total"`
	Allocations []JackpotAllocation `json:"allocations"`
}

type JokerAttack struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	By      string    `json:"by"`
	Damage  float64   `json:"damage"`
	Targets []string  `json:"targets"`
}

type SlashAttackOverlay struct {
	Type EventType `json:"type"`
	Code string    `json:"code"`
	By   string    `json:"by"`
}
