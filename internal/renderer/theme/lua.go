package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linelight/internal/renderer/core"
)

// DefaultLuaTimeout bounds how long a theme script may run.
const DefaultLuaTimeout = 2 * time.Second

// ErrNoThemeTable is returned when a theme script does not return a table.
var ErrNoThemeTable = errors.New("theme: script must return a table")

// LoadLuaFile runs a Lua theme script and converts the table it returns.
func LoadLuaFile(ctx context.Context, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file %s: %w", path, err)
	}
	return ParseLua(ctx, path, string(data))
}

// ParseLua runs a theme script in a restricted Lua state. The script
// returns a table with the same keys as the TOML format, and may use the
// helpers rgb(r, g, b) and blend(a, b, amount) to compute colors.
//
//	local bg = rgb(30, 30, 30)
//	return {
//	  name = "Dim",
//	  background = bg,
//	  line_highlight = blend(bg, "#FFFFFF", 0.1),
//	}
func ParseLua(ctx context.Context, source, code string) (*Theme, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultLuaTimeout)
		defer cancel()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("rgb", L.NewFunction(luaRGB))
	L.SetGlobal("blend", L.NewFunction(luaBlend))
	L.SetContext(ctx)

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, &ParseError{Path: source, Message: ErrNoThemeTable.Error(), Err: ErrNoThemeTable}
	}
	L.Pop(1)

	f := themeFile{
		Name:          tableString(tbl, "name"),
		Background:    tableString(tbl, "background"),
		Foreground:    tableString(tbl, "foreground"),
		Selection:     tableString(tbl, "selection"),
		Cursor:        tableString(tbl, "cursor"),
		LineHighlight: tableString(tbl, "line_highlight"),
	}
	if n, ok := tbl.RawGetString("line_highlight_alpha").(lua.LNumber); ok {
		a := int(n)
		f.LineHighlightAlpha = &a
	}
	return f.toTheme(source)
}

func tableString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// luaRGB implements rgb(r, g, b) -> "#RRGGBB".
func luaRGB(L *lua.LState) int {
	r := L.CheckInt(1)
	g := L.CheckInt(2)
	b := L.CheckInt(3)
	for i, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			L.ArgError(i+1, "component out of range 0-255")
			return 0
		}
	}
	L.Push(lua.LString(core.ColorFromRGB(uint8(r), uint8(g), uint8(b)).String()))
	return 1
}

// luaBlend implements blend(a, b, amount) -> "#RRGGBB", mixing in Lab space.
func luaBlend(L *lua.LState) int {
	a, err := core.ColorFromHex(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	b, err := core.ColorFromHex(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	amount := float64(L.CheckNumber(3))
	L.Push(lua.LString(a.BlendLab(b, amount).String()))
	return 1
}
