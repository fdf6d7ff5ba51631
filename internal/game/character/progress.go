package character

import "math"

// ExpToNext returns the experience needed to advance from level.
func ExpToNext(level int) int {
	return int(float64(level) * 100 * math.Pow(1.1, float64(level-1)))
}

// LevelUp records one level gained.
type LevelUp struct {
	Level  int
	Growth Growth
}

// Raise applies level-ups until c reaches level, keeping c.Exp.
func (c *Character) Raise(level int) []LevelUp {
	var ups []LevelUp
	for c.Level < level {
		ups = append(ups, c.levelUp())
	}
	return ups
}

// GainExp adds exp and applies every level it pays for. A level-up restores
// HP and MP to their new maximums.
//
// Precondition: exp >= 0.
// Postcondition: c.Exp < ExpToNext(c.Level).
func (c *Character) GainExp(exp int) []LevelUp {
	c.Exp += exp
	var ups []LevelUp
	for c.Exp >= ExpToNext(c.Level) {
		c.Exp -= ExpToNext(c.Level)
		ups = append(ups, c.levelUp())
	}
	return ups
}

func (c *Character) levelUp() LevelUp {
	c.Level++
	g := GrowthFor(c.Class)
	c.MaxHP += g.HP
	c.MaxMP += g.MP
	c.Attack += g.Attack
	c.Magic += g.Magic
	c.Defense += g.Defense
	c.MagicDefense += g.MagicDefense
	c.HP, c.MP = c.MaxHP, c.MaxMP
	return LevelUp{Level: c.Level, Growth: g}
}
