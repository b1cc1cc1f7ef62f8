package game

const (
	MaxHP    = 50.0
	DefaultX = 0.5
)

// PlayerState is the per-player state held by a lobby. X is the normalized
// horizontal seat position in [0,1]; HP is clamped to [0, MaxHP].
type PlayerState struct {
	ID   string
	Name string
	X    float64
	HP   float64
}

func NewPlayerState(id, name string) *PlayerState {
	return &PlayerState{ID: id, Name: name, X: DefaultX, HP: MaxHP}
}

// Heal raises HP by amount, capped at MaxHP. Non-positive amounts are ignored.
func (p *PlayerState) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	p.HP += amount
	if p.HP > MaxHP {
		p.HP = MaxHP
	}
}

// Damage lowers HP by amount, floored at 0. Non-positive amounts are ignored.
func (p *PlayerState) Damage(amount float64) {
	if amount <= 0 {
		return
	}
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
}
