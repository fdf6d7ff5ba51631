package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/combat"
)

// Manager owns one sandboxed LState holding every loaded skill hook.
//
// An LState is single-threaded, so calls are serialized on mu. Each call runs
// under a fresh instruction budget.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
	logger    *zap.Logger
}

var _ combat.SkillScripts = (*Manager)(nil)

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{instLimit: normalizeLimit(instLimit), logger: logger}
}

// Load creates a fresh VM, registers the engine.* modules, then executes
// every *.lua file in scriptDir in lexicographic order. On success the new VM
// replaces any previously loaded one.
//
// Postcondition: on error the previous VM is left in place.
func (m *Manager) Load(scriptDir string) error {
	L := NewSandboxedState(m.instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
	}
	m.L = L
	m.logger.Info("skill scripts loaded", zap.String("dir", scriptDir), zap.Int("files", len(files)))
	return nil
}

// Close releases the VM. Later calls behave as if nothing was loaded.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}

// Missing returns the hooks that are not defined as Lua functions, in input
// order.
func (m *Manager) Missing(hooks []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, h := range hooks {
		if m.L == nil || m.L.GetGlobal(h).Type() != lua.LTFunction {
			out = append(out, h)
		}
	}
	return out
}

// CallHook calls the named global function and returns its first result.
// It returns (LNil, nil) when nothing is loaded or the hook is undefined.
// Lua runtime errors, including an exhausted instruction budget, are logged
// at Warn level and never propagated.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callLocked(hook, args...), nil
}

func (m *Manager) callLocked(hook string, args ...lua.LValue) lua.LValue {
	if m.L == nil {
		m.logger.Info("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil
	}
	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	ctx, cancel := newCountingContext(m.instLimit)
	defer cancel()
	m.L.SetContext(ctx)
	defer m.L.RemoveContext()

	if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret
}

// SkillBonus calls hook with a ctx table built from in and returns its
// numeric result floored to an int. Non-numeric and non-finite results
// count as 0.
func (m *Manager) SkillBonus(hook string, in combat.ScriptInput) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return 0
	}

	ctx := m.L.NewTable()
	ctx.RawSetString("skill_id", lua.LString(in.SkillID))
	ctx.RawSetString("level", lua.LNumber(in.Level))
	ctx.RawSetString("power", lua.LNumber(in.Power))
	ctx.RawSetString("target_hp", lua.LNumber(in.TargetHP))
	ctx.RawSetString("target_defense", lua.LNumber(in.TargetDefense))

	ret := m.callLocked(hook, ctx)
	n, ok := ret.(lua.LNumber)
	if !ok {
		if ret != lua.LNil {
			m.logger.Warn("scripting: hook returned a non-number",
				zap.String("hook", hook), zap.String("type", ret.Type().String()))
		}
		return 0
	}
	f := math.Floor(float64(n))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
