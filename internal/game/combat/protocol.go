package combat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/legend/internal/game/quality"
)

// Status line kinds.
const (
	KindInit   = "COMBAT_INIT"
	KindStatus = "COMBAT_STATUS"
)

const summonPrefix = "SUMMON:"

// ErrMalformedStatus is returned when a status line cannot be parsed.
var ErrMalformedStatus = errors.New("malformed status line")

// StatusLine is the machine-readable encounter snapshot emitted at the start
// and after every round.
//
// Wire form:
//
//	KIND|hp/maxhp|mp/maxmp|#<idx><name>[<tier>]:hp/maxhp|...[|SUMMON:<name>:hp/maxhp]
type StatusLine struct {
	Kind     string
	HP       int
	MaxHP    int
	MP       int
	MaxMP    int
	Monsters []MonsterStatus
	Summon   *SummonStatus
}

// MonsterStatus is one monster segment.
type MonsterStatus struct {
	Index int
	Name  string
	Tier  quality.Tier
	HP    int
	MaxHP int
}

// SummonStatus is the optional trailing summon segment.
type SummonStatus struct {
	Name  string
	HP    int
	MaxHP int
}

// IsStatusLine reports whether a log line is a status line.
func IsStatusLine(line string) bool {
	return strings.HasPrefix(line, KindInit+"|") || strings.HasPrefix(line, KindStatus+"|")
}

func (s StatusLine) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d/%d|%d/%d", s.Kind, max(0, s.HP), s.MaxHP, max(0, s.MP), s.MaxMP)
	for _, m := range s.Monsters {
		fmt.Fprintf(&b, "|#%d%s[%s]:%d/%d", m.Index, m.Name, m.Tier, max(0, m.HP), m.MaxHP)
	}
	if s.Summon != nil {
		fmt.Fprintf(&b, "|%s%s:%d/%d", summonPrefix, s.Summon.Name, max(0, s.Summon.HP), s.Summon.MaxHP)
	}
	return b.String()
}

// ParseStatusLine parses the wire form produced by StatusLine.String.
func ParseStatusLine(line string) (StatusLine, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 3 || (parts[0] != KindInit && parts[0] != KindStatus) {
		return StatusLine{}, fmt.Errorf("%w: %q", ErrMalformedStatus, line)
	}
	s := StatusLine{Kind: parts[0]}
	var err error
	if s.HP, s.MaxHP, err = parsePair(parts[1]); err != nil {
		return StatusLine{}, err
	}
	if s.MP, s.MaxMP, err = parsePair(parts[2]); err != nil {
		return StatusLine{}, err
	}
	for _, seg := range parts[3:] {
		if strings.HasPrefix(seg, summonPrefix) {
			sum, err := parseSummon(strings.TrimPrefix(seg, summonPrefix))
			if err != nil {
				return StatusLine{}, err
			}
			s.Summon = &sum
			continue
		}
		m, err := parseMonster(seg)
		if err != nil {
			return StatusLine{}, err
		}
		s.Monsters = append(s.Monsters, m)
	}
	return s, nil
}

func parsePair(seg string) (int, int, error) {
	a, b, ok := strings.Cut(seg, "/")
	if !ok {
		return 0, 0, fmt.Errorf("%w: segment %q", ErrMalformedStatus, seg)
	}
	x, err1 := strconv.Atoi(a)
	y, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%w: segment %q", ErrMalformedStatus, seg)
	}
	return x, y, nil
}

func parseMonster(seg string) (MonsterStatus, error) {
	bad := fmt.Errorf("%w: monster segment %q", ErrMalformedStatus, seg)
	if !strings.HasPrefix(seg, "#") {
		return MonsterStatus{}, bad
	}
	rest := seg[1:]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	open := strings.LastIndex(rest, "[")
	closing := strings.LastIndex(rest, "]:")
	if digits == 0 || open < digits || closing < open {
		return MonsterStatus{}, bad
	}
	idx, _ := strconv.Atoi(rest[:digits])
	hp, maxHP, err := parsePair(rest[closing+2:])
	if err != nil {
		return MonsterStatus{}, err
	}
	return MonsterStatus{
		Index: idx,
		Name:  rest[digits:open],
		Tier:  quality.Tier(rest[open+1 : closing]),
		HP:    hp,
		MaxHP: maxHP,
	}, nil
}

func parseSummon(seg string) (SummonStatus, error) {
	i := strings.LastIndex(seg, ":")
	if i < 0 {
		return SummonStatus{}, fmt.Errorf("%w: summon segment %q", ErrMalformedStatus, seg)
	}
	hp, maxHP, err := parsePair(seg[i+1:])
	if err != nil {
		return SummonStatus{}, err
	}
	return SummonStatus{Name: seg[:i], HP: hp, MaxHP: maxHP}, nil
}
