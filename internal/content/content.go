// Package content loads the static game data (items, sets, monsters, skills,
// drop groups and the quality table) from YAML and cross-checks references.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/legend/internal/game/item"
	"github.com/cory-johannsen/legend/internal/game/loot"
	"github.com/cory-johannsen/legend/internal/game/monster"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

// Sentinel lookup errors.
var (
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownMonster = errors.New("unknown monster")
	ErrUnknownSkill   = errors.New("unknown skill")
)

// Kinds of content. Each kind is read from <dir>/<kind>.yaml and from every
// .yaml file under <dir>/<kind>/; each file holds a YAML sequence.
const (
	KindItems      = "items"
	KindSets       = "sets"
	KindMonsters   = "monsters"
	KindSkills     = "skills"
	KindDropGroups = "drop_groups"
	// KindQuality is optional; the stock table is used when absent.
	KindQuality = "quality"
)

// Registry is the validated, cross-referenced game content.
type Registry struct {
	Items    *item.Registry
	Tiers    *quality.Table
	Groups   map[string]*loot.Group
	monsters map[string]*monster.Template
	skills   map[string]*skill.Def
}

// Load reads and validates every content kind under dir.
//
// Postcondition: returns an error describing every invalid definition and
// every dangling reference, or a fully cross-checked Registry.
func Load(dir string) (*Registry, error) {
	items, err := loadKind[item.Def](dir, KindItems)
	if err != nil {
		return nil, err
	}
	sets, err := loadKind[item.SetDef](dir, KindSets)
	if err != nil {
		return nil, err
	}
	monsters, err := loadKind[monster.Template](dir, KindMonsters)
	if err != nil {
		return nil, err
	}
	skills, err := loadKind[skill.Def](dir, KindSkills)
	if err != nil {
		return nil, err
	}
	groups, err := loadKind[loot.Group](dir, KindDropGroups)
	if err != nil {
		return nil, err
	}
	tierDefs, err := loadKind[quality.Def](dir, KindQuality)
	if err != nil {
		return nil, err
	}
	return Build(Source{
		Items: items, Sets: sets, Monsters: monsters, Skills: skills, Groups: groups, Tiers: tierDefs,
	})
}

// Source is unvalidated content, as decoded.
type Source struct {
	Items    []*item.Def
	Sets     []*item.SetDef
	Monsters []*monster.Template
	Skills   []*skill.Def
	Groups   []*loot.Group
	// Tiers falls back to quality.DefaultDefs when empty.
	Tiers []*quality.Def
}

// Build validates src and indexes it into a Registry.
func Build(src Source) (*Registry, error) {
	var errs []error
	r := &Registry{
		Items:    item.NewRegistry(),
		Groups:   make(map[string]*loot.Group),
		monsters: make(map[string]*monster.Template),
		skills:   make(map[string]*skill.Def),
	}

	defs := quality.DefaultDefs()
	if len(src.Tiers) > 0 {
		defs = defs[:0]
		for _, d := range src.Tiers {
			defs = append(defs, *d)
		}
	}
	tiers, err := quality.NewTable(defs)
	if err != nil {
		errs = append(errs, err)
	}
	r.Tiers = tiers

	for _, s := range src.Sets {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := r.Items.RegisterSet(s); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range src.Items {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := r.Items.Register(d); err != nil {
			errs = append(errs, err)
			continue
		}
		if d.SetID != "" {
			if _, ok := r.Items.Set(d.SetID); !ok {
				errs = append(errs, fmt.Errorf("item %q: unknown set %q", d.ID, d.SetID))
			}
		}
	}
	for _, g := range src.Groups {
		if err := g.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.Groups[g.ID]; dup {
			errs = append(errs, fmt.Errorf("drop group %q defined twice", g.ID))
			continue
		}
		r.Groups[g.ID] = g
		errs = append(errs, r.checkEntries("drop group "+g.ID, g.Drops)...)
	}
	for _, m := range src.Monsters {
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.monsters[m.ID]; dup {
			errs = append(errs, fmt.Errorf("monster %q defined twice", m.ID))
			continue
		}
		r.monsters[m.ID] = m
		errs = append(errs, r.checkEntries("monster "+m.ID, m.Drops)...)
		for _, gid := range m.DropGroups {
			if _, ok := r.Groups[gid]; !ok {
				errs = append(errs, fmt.Errorf("monster %q: unknown drop group %q", m.ID, gid))
			}
		}
	}
	for _, s := range src.Skills {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.skills[s.ID]; dup {
			errs = append(errs, fmt.Errorf("skill %q defined twice", s.ID))
			continue
		}
		r.skills[s.ID] = s
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return r, nil
}

func (r *Registry) checkEntries(owner string, entries []loot.Entry) []error {
	var errs []error
	for _, e := range entries {
		if _, ok := r.Items.Item(e.Item); !ok {
			errs = append(errs, fmt.Errorf("%s: drop %q: %w", owner, e.Item, ErrUnknownItem))
		}
	}
	return errs
}

// Monster returns the template with the given ID.
func (r *Registry) Monster(id string) (*monster.Template, error) {
	m, ok := r.monsters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMonster, id)
	}
	return m, nil
}

// Monsters returns every monster template sorted by ID.
func (r *Registry) Monsters() []*monster.Template {
	out := make([]*monster.Template, 0, len(r.monsters))
	for _, m := range r.monsters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Skill returns the skill with the given ID.
func (r *Registry) Skill(id string) (*skill.Def, error) {
	s, ok := r.skills[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, id)
	}
	return s, nil
}

// ClassSkills returns the skills of class sorted by level requirement, then
// ID.
func (r *Registry) ClassSkills(class string) []*skill.Def {
	var out []*skill.Def
	for _, s := range r.skills {
		if s.Class == class {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LevelReq != out[j].LevelReq {
			return out[i].LevelReq < out[j].LevelReq
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Item returns the item with the given ID.
func (r *Registry) Item(id string) (*item.Def, error) {
	d, ok := r.Items.Item(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return d, nil
}

// loadKind decodes <dir>/<kind>.yaml and <dir>/<kind>/*.yaml in name order.
// Missing files are not an error.
func loadKind[T any](dir, kind string) ([]*T, error) {
	var paths []string
	single := filepath.Join(dir, kind+".yaml")
	if _, err := os.Stat(single); err == nil {
		paths = append(paths, single)
	}
	sub := filepath.Join(dir, kind)
	entries, err := os.ReadDir(sub)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s dir %q: %w", kind, sub, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(sub, e.Name()))
	}

	var out []*T
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var batch []*T
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}
