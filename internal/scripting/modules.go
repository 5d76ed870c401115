package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log, engine.dice, and engine.unit
// tables into L.
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "unit", m.unitModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logFn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		sum := 0
		for _, d := range res.Dice {
			sum += d
		}
		t := L.NewTable()
		L.SetField(t, "dice", lua.LNumber(sum))
		L.SetField(t, "modifier", lua.LNumber(res.Modifier))
		L.SetField(t, "total", lua.LNumber(res.Total()))
		L.Push(t)
		return 1
	}))
	return mod
}

func (m *Manager) unitModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		if m.GetUnit == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetUnit(uid)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(unitTable(L, info))
		return 1
	}))
	L.SetField(mod, "enemies", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		out := L.NewTable()
		if m.EnemiesOf != nil {
			for _, info := range m.EnemiesOf(uid) {
				out.Append(unitTable(L, info))
			}
		}
		L.Push(out)
		return 1
	}))
	return mod
}

func unitTable(L *lua.LState, info *UnitInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "uid", lua.LString(info.UID))
	L.SetField(t, "name", lua.LString(info.Name))
	L.SetField(t, "type", lua.LString(info.Type))
	L.SetField(t, "side", lua.LString(info.Side))
	L.SetField(t, "health", lua.LNumber(info.Health))
	L.SetField(t, "max_health", lua.LNumber(info.MaxHealth))
	L.SetField(t, "attack", lua.LNumber(info.Attack))
	L.SetField(t, "x", lua.LNumber(info.X))
	L.SetField(t, "y", lua.LNumber(info.Y))
	return t
}
