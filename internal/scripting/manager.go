package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
)

// globalZoneID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no zone VM is found.
const globalZoneID = "__global__"

// ChooseActionHook is the Lua global a tactic script defines to pick an action.
const ChooseActionHook = "choose_action"

// Choice actions a tactic script may return.
const (
	ChoiceAbility = "ability"
	ChoiceDefend  = "defend"
	ChoicePass    = "pass"
	ChoiceFlee    = "flee"
)

// CombatantInfo is a snapshot of a combatant's state passed to Lua hooks.
type CombatantInfo struct {
	ID        string
	Name      string
	Side      string
	Life      int
	MaxLife   int
	Mana      int
	MaxMana   int
	Type      string
	Statuses  []string
	Abilities []string
}

// Choice is the action a tactic script picked.
type Choice struct {
	// Action is one of the Choice* constants; empty means ChoiceAbility.
	Action  string
	Ability string
	Target  string
}

// zone is one loaded VM and its per-call instruction limit.
type zone struct {
	L     *lua.LState
	limit int
	mu    sync.Mutex
}

// Manager owns one sandboxed LState per zone and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all LoadZone calls complete.
// Each zone's LState is single-threaded; a per-zone lock serializes calls to
// the same zone while allowing different zones to run concurrently.
type Manager struct {
	mu     sync.RWMutex
	zones  map[string]*zone
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty zone map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		zones:  make(map[string]*zone),
		roller: roller,
		logger: logger,
	}
}

// LoadZone creates a sandboxed VM for zoneID, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: zoneID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Zone VM is registered; returns error on Lua load failure.
func (m *Manager) LoadZone(zoneID, scriptDir string, instLimit int) error {
	return m.loadInto(zoneID, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM for shared tactic scripts accessible
// as a CallHook fallback from any zone.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalZoneID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L := NewSandboxedState()
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
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
		if err := Limited(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.zones[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.zones[key] = &zone{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Debug("scripting: zone loaded", zap.String("zone", key), zap.Int("files", len(luaFiles)))
	return nil
}

// lookup returns zoneID's VM, or the global VM, or nil.
func (m *Manager) lookup(zoneID string) *zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if z, ok := m.zones[zoneID]; ok {
		return z
	}
	return m.zones[globalZoneID]
}

// call invokes hook in zoneID's VM. found is false when no VM or no such
// global function exists.
func (m *Manager) call(zoneID, hook string, args ...lua.LValue) (ret lua.LValue, found bool, err error) {
	z := m.lookup(zoneID)
	if z == nil {
		m.logger.Info("scripting: no VM for zone",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
		)
		return lua.LNil, false, nil
	}
	z.mu.Lock()
	defer z.mu.Unlock()

	L := z.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, false, nil
	}
	err = Limited(L, z.limit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		return lua.LNil, true, err
	}
	ret = L.Get(-1)
	L.Pop(1)
	return ret, true, nil
}

// CallHook calls the named Lua global function in zoneID's VM. If the zone has
// no VM, the __global__ VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors are logged at Warn
// level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(zoneID, hook string, args ...lua.LValue) (lua.LValue, error) {
	ret, _, err := m.call(zoneID, hook, args...)
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	return ret, nil
}

// ChooseAction calls choose_action(actor, opponents, allies) in zoneID's VM.
// The hook returns nil to defer to the engine, an ability id string, or a
// table {action=, ability=, target=}.
//
// Postcondition: ok is false when the hook is missing or returned nil;
// err is non-nil on a Lua runtime error or an unusable return value.
func (m *Manager) ChooseAction(zoneID string, actor CombatantInfo, opponents, allies []CombatantInfo) (Choice, bool, error) {
	z := m.lookup(zoneID)
	if z == nil {
		return Choice{}, false, nil
	}
	L := z.L
	z.mu.Lock()
	args := []lua.LValue{combatantTable(L, actor), combatantList(L, opponents), combatantList(L, allies)}
	z.mu.Unlock()

	ret, found, err := m.call(zoneID, ChooseActionHook, args...)
	if err != nil {
		return Choice{}, false, fmt.Errorf("scripting: %s in %q: %w", ChooseActionHook, zoneID, err)
	}
	if !found {
		return Choice{}, false, nil
	}
	switch v := ret.(type) {
	case *lua.LNilType:
		return Choice{}, false, nil
	case lua.LString:
		return Choice{Action: ChoiceAbility, Ability: string(v)}, true, nil
	case *lua.LTable:
		c := Choice{
			Action:  lua.LVAsString(v.RawGetString("action")),
			Ability: lua.LVAsString(v.RawGetString("ability")),
			Target:  lua.LVAsString(v.RawGetString("target")),
		}
		if c.Action == "" {
			c.Action = ChoiceAbility
		}
		return c, true, nil
	default:
		return Choice{}, false, fmt.Errorf("scripting: %s in %q returned %s", ChooseActionHook, zoneID, ret.Type())
	}
}

// Close releases every VM. The Manager may be reused after loading zones again.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, z := range m.zones {
		z.mu.Lock()
		z.L.Close()
		z.mu.Unlock()
		delete(m.zones, key)
	}
}

// combatantTable converts c into the Lua table tactic scripts receive:
// {id, name, side, life, max_life, mana, max_mana, type, statuses, abilities}.
func combatantTable(L *lua.LState, c CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("side", lua.LString(c.Side))
	t.RawSetString("life", lua.LNumber(c.Life))
	t.RawSetString("max_life", lua.LNumber(c.MaxLife))
	t.RawSetString("mana", lua.LNumber(c.Mana))
	t.RawSetString("max_mana", lua.LNumber(c.MaxMana))
	t.RawSetString("type", lua.LString(c.Type))
	t.RawSetString("statuses", stringList(L, c.Statuses))
	t.RawSetString("abilities", stringList(L, c.Abilities))
	return t
}

func combatantList(L *lua.LState, cs []CombatantInfo) *lua.LTable {
	t := L.NewTable()
	for _, c := range cs {
		t.Append(combatantTable(L, c))
	}
	return t
}

func stringList(L *lua.LState, ss []string) *lua.LTable {
	t := L.NewTable()
	for _, s := range ss {
		t.Append(lua.LString(s))
	}
	return t
}
