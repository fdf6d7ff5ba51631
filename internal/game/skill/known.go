package skill

// Proficiency growth constants.
const (
	ProficiencyPerUse   = 10
	ProficiencyPerLevel = 1000
	MaxLevel            = 3
)

// Known is a skill a character has learned.
type Known struct {
	Def         *Def
	Level       int
	Proficiency int
}

// EffectiveLevel returns Level, treating anything below 1 as 1.
func (k Known) EffectiveLevel() int {
	return max(1, k.Level)
}

// Train records uses of the skill. Every ProficiencyPerLevel points convert
// into a level until MaxLevel; proficiency keeps accumulating at the cap.
//
// Postcondition: returned Level <= MaxLevel (unless it already exceeded it).
func (k Known) Train(uses int) Known {
	k.Proficiency += uses * ProficiencyPerUse
	for k.Proficiency >= ProficiencyPerLevel && k.Level < MaxLevel {
		k.Proficiency -= ProficiencyPerLevel
		k.Level++
	}
	return k
}
