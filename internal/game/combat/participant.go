// Package combat resolves PvE encounters and PvP duels.
//
// An encounter is resolved in a single synchronous call. All randomness is
// drawn from the dice.Source passed in, in a fixed order, so a seeded source
// replays the same encounter.
package combat

import (
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/monster"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
	"github.com/cory-johannsen/legend/internal/game/status"
)

// Range is an inclusive [Min, Max] stat range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Avg returns the integer mean of the range.
func (r Range) Avg() int { return (r.Min + r.Max) / 2 }

// Flat returns the degenerate range [v, v].
func Flat(v int) Range { return Range{Min: v, Max: v} }

// Participant is the capability shared by every combatant variant.
type Participant interface {
	DisplayName() string
	CurrentHP() int
	Alive() bool
	DamageRange(magic bool) Range
	DefenseRange(magic bool) Range
}

// Snapshot is the encounter-long view of a character. It is never mutated;
// live HP and MP are tracked by Player.
type Snapshot struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level"`
	Class        string `json:"class"`
	HP           int    `json:"hp"`
	MaxHP        int    `json:"max_hp"`
	MP           int    `json:"mp"`
	MaxMP        int    `json:"max_mp"`
	Attack       Range  `json:"attack"`
	Magic        Range  `json:"magic"`
	Defense      Range  `json:"defense"`
	MagicDefense Range  `json:"magic_defense"`
	Luck         int    `json:"luck"`
}

// MagicUser reports whether basic attacks deal magic damage.
func (s Snapshot) MagicUser() bool { return s.Class == skill.ClassMage }

// Player is the mutable state of a character during one encounter.
type Player struct {
	Snapshot
	HPNow  int
	MPNow  int
	Mods   effect.Modifiers
	Status status.Set
}

// NewPlayer starts a player from the snapshot's current HP and MP.
func NewPlayer(s Snapshot, mods effect.Modifiers) *Player {
	return &Player{Snapshot: s, HPNow: clamp(s.HP, s.MaxHP), MPNow: clamp(s.MP, s.MaxMP), Mods: mods}
}

func (p *Player) DisplayName() string { return p.Name }
func (p *Player) CurrentHP() int      { return p.HPNow }
func (p *Player) Alive() bool         { return p.HPNow > 0 }

func (p *Player) DamageRange(magic bool) Range {
	if magic {
		return p.Magic
	}
	return p.Attack
}

func (p *Player) DefenseRange(magic bool) Range {
	if magic {
		return p.MagicDefense
	}
	return p.Defense
}

// Damage removes n HP, clamping at zero.
func (p *Player) Damage(n int) { p.HPNow = max(0, p.HPNow-n) }

// Heal restores up to n HP, capped at MaxHP.
func (p *Player) Heal(n int) { p.HPNow = min(p.MaxHP, p.HPNow+n) }

// RestoreMP restores up to n MP, capped at MaxMP.
func (p *Player) RestoreMP(n int) { p.MPNow = min(p.MaxMP, p.MPNow+n) }

// Monster is one spawned opponent. Dead monsters stay in the roster.
type Monster struct {
	Index        int
	TemplateID   string
	Name         string
	Tier         quality.Tier
	HP           int
	MaxHP        int
	Attack       int
	Defense      int
	MagicDefense int
	Exp          int
	Gold         int
	Boss         bool
	MagicDamage  bool
	Effects      effect.Modifiers
	Status       status.Set

	tmpl *monster.Template
}

// NewMonster spawns tmpl at tier, scaling its stats by the tier's multiplier.
func NewMonster(index int, tmpl *monster.Template, tier quality.Tier, tiers *quality.Table) *Monster {
	st := tmpl.Scale(tiers.StatMultiplier(tier))
	return &Monster{
		Index:        index,
		TemplateID:   tmpl.ID,
		Name:         tmpl.Name,
		Tier:         tier,
		HP:           st.HP,
		MaxHP:        st.HP,
		Attack:       st.Attack,
		Defense:      st.Defense,
		MagicDefense: st.MagicDefense,
		Exp:          st.Exp,
		Gold:         st.Gold,
		Boss:         tmpl.Boss,
		MagicDamage:  tmpl.MagicAttacker(),
		Effects:      tmpl.Effects,
		tmpl:         tmpl,
	}
}

func (m *Monster) DisplayName() string { return m.Name }
func (m *Monster) CurrentHP() int      { return m.HP }
func (m *Monster) Alive() bool         { return m.HP > 0 }

func (m *Monster) DamageRange(bool) Range { return Flat(m.Attack) }

func (m *Monster) DefenseRange(magic bool) Range {
	if magic {
		return Flat(m.MagicDefense)
	}
	return Flat(m.Defense)
}

// Damage removes n HP, clamping at zero, and reports whether this killed it.
// Statuses are cleared on death.
func (m *Monster) Damage(n int) bool {
	if m.HP <= 0 {
		return false
	}
	m.HP = max(0, m.HP-n)
	if m.HP == 0 {
		m.Status.Clear()
		return true
	}
	return false
}

// Summon is a player-controlled companion. It outlives a single encounter;
// the caller carries it between calls.
type Summon struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Living  bool   `json:"alive"`
}

func (s *Summon) DisplayName() string { return s.Name }
func (s *Summon) CurrentHP() int      { return s.HP }
func (s *Summon) Alive() bool         { return s != nil && s.Living && s.HP > 0 }

func (s *Summon) DamageRange(bool) Range  { return Flat(s.Attack) }
func (s *Summon) DefenseRange(bool) Range { return Flat(s.Defense) }

// Damage removes n HP and reports whether this killed the summon.
func (s *Summon) Damage(n int) bool {
	s.HP = max(0, s.HP-n)
	if s.HP == 0 && s.Living {
		s.Living = false
		return true
	}
	return false
}

func clamp(v, hi int) int { return max(0, min(v, hi)) }

var (
	_ Participant = (*Player)(nil)
	_ Participant = (*Monster)(nil)
	_ Participant = (*Summon)(nil)
)
