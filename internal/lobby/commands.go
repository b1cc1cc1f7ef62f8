package lobby

// Command is the closed set of in-lobby actions a bound client can take. The
// ws boundary parses and validates raw frames into exactly one of these;
// malformed or unknown frames never reach the lobby.
type Command interface{ isCommand() }

type Start struct{}

type SetMonster struct{ Key string }

type DamageMonster struct {
	Amount float64
	Suit   string
}

type HealPlayer struct {
	TargetID string // empty targets the sender
	Amount   float64
}

type HeartHealRequest struct {
	Amount float64
	Count  int
}

type JackpotContribute struct{ Amount float64 }

type SharePrize struct {
	Amount  float64
	Targets []string
}

type PrizeParticles struct{}

type PlayerPos struct{ X float64 }

type GetStats struct{}

type DebugSetHealth struct{ Health float64 }

type JokerAttackRequest struct{}

type DebugAwardJackpot struct{}

type SlashAttackOverlay struct{}

func (Start) isCommand()              {}
func (SetMonster) isCommand()         {}
func (DamageMonster) isCommand()      {}
func (HealPlayer) isCommand()         {}
func (HeartHealRequest) isCommand()   {}
func (JackpotContribute) isCommand()  {}
func (SharePrize) isCommand()         {}
func (PrizeParticles) isCommand()     {}
func (PlayerPos) isCommand()          {}
func (GetStats) isCommand()           {}
func (DebugSetHealth) isCommand()     {}
func (JokerAttackRequest) isCommand() {}
func (DebugAwardJackpot) isCommand()  {}
func (SlashAttackOverlay) isCommand() {}
