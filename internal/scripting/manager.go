package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// GlobalScope is the reserved scope for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no scope VM is found.
const GlobalScope = "__global__"

// UnitInfo is a snapshot of a unit passed to Lua callbacks.
type UnitInfo struct {
	UID       string
	Name      string
	Type      string
	Side      string
	Health    int
	MaxHealth int
	Attack    int
	X         int
	Y         int
}

type vm struct {
	L      *lua.LState
	cancel func()
	limit  int
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// CallHook is serialized by a single mutex; GopherLua states are not safe for
// concurrent use.
type Manager struct {
	mu     sync.Mutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetUnit   func(uid string) *UnitInfo
	EnemiesOf func(uid string) []*UnitInfo
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: any previous VM for scope is closed and replaced.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal creates the fallback VM shared by every scope.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	cancel()

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.L.Close()
	}
	m.vms[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	return nil
}

// CallHook calls the named Lua global function in scope's VM, falling back to
// the global VM when either the scope or the hook is missing there. Each call runs under a fresh instruction budget. Returns
// (LNil, nil) when the hook or VM is missing; Lua runtime errors are logged at
// Warn and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	if v == nil {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil && scope != GlobalScope {
		if g, ok := m.vms[GlobalScope]; ok && g != v {
			v = g
			fn = v.L.GetGlobal(hook)
		}
	}
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := ResetBudget(v.L, v.limit)
	defer cancel()

	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.L.Close()
		delete(m.vms, key)
	}
}
