package theme

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// LoadLua runs the Lua script at path and converts the table it returns into
// a Theme.
func LoadLua(path string) (*Theme, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	t, err := ParseLua(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseLua runs src and converts its result. The script must return a table:
//
//	return {
//	  name = "Night",
//	  kind = "dark",
//	  colors = { ["editor.background"] = "#101010" },
//	}
//
// Only the base, table, string and math libraries are available.
func ParseLua(src string) (t *Theme, err error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// Each Open* call leaves its module table on the stack.
	L.SetTop(0)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: lua panic: %v", ErrInvalidTheme, r)
		}
	}()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTheme, err)
	}
	if L.GetTop() < 1 {
		return nil, fmt.Errorf("%w: script must return a table, got nothing", ErrInvalidTheme)
	}
	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: script must return a table, got %s", ErrInvalidTheme, L.Get(-1).Type())
	}

	kind, err := ParseKind(lua.LVAsString(tbl.RawGetString("kind")))
	if err != nil {
		return nil, err
	}
	t = &Theme{
		Name:   lua.LVAsString(tbl.RawGetString("name")),
		Kind:   kind,
		Colors: make(map[Key]string),
	}
	if t.Name == "" {
		t.Name = "Custom " + kind.String()
	}

	switch colors := tbl.RawGetString("colors").(type) {
	case *lua.LTable:
		var bad error
		colors.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			vs, vok := v.(lua.LString)
			if !kok || !vok {
				if bad == nil {
					bad = fmt.Errorf("%w: colors must map strings to strings", ErrInvalidTheme)
				}
				return
			}
			t.Colors[Key(ks)] = string(vs)
		})
		if bad != nil {
			return nil, bad
		}
	case *lua.LNilType:
	default:
		return nil, fmt.Errorf("%w: colors must be a table", ErrInvalidTheme)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
