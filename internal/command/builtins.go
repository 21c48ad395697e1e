package command

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	pluginlua "github.com/dshills/peppered/internal/plugin/lua"
)

// RegisterCoreBuiltins wires the small set of builtin commands every
// running editor needs regardless of host integration: buffer
// read/write, client messaging, and quitting.
func RegisterCoreBuiltins(vm *VM) {
	vm.Register("print", func(host Host, args []string, _ map[string]string) (string, error) {
		for _, a := range args {
			host.Print(a)
		}
		return "", nil
	})

	vm.Register("buffer-text", func(host Host, _ []string, _ map[string]string) (string, error) {
		return host.CurrentBufferText()
	})

	vm.Register("buffer-set", func(host Host, args []string, _ map[string]string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("buffer-set: expected 1 argument, got %d", len(args))
		}
		return "", host.SetCurrentBufferText(args[0])
	})

	vm.Register("quit", func(host Host, _ []string, flags map[string]string) (string, error) {
		_, all := flags["all"]
		host.Quit(all)
		return "", nil
	})
}

// RegisterLuaBuiltin gives the sandboxed Lua runtime a concrete command
// VM entry point: `lua "<code>"` runs code in state and returns its
// last result as a string, `lua-call name [args...]` calls a previously
// defined global Lua function. Every Lua access goes through the
// executor so calls stay serialized onto whatever goroutine owns the
// gopher-lua state, since LState itself is not goroutine-safe.
func RegisterLuaBuiltin(vm *VM, exec *pluginlua.Executor) {
	vm.Register("lua", func(_ Host, args []string, _ map[string]string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("lua: expected 1 argument (code), got %d", len(args))
		}
		var result string
		err := exec.Execute(context.Background(), func(L *lua.LState) error {
			top := L.GetTop()
			if err := L.DoString(args[0]); err != nil {
				return err
			}
			if L.GetTop() > top {
				result = L.ToStringMeta(L.Get(-1)).String()
				L.Pop(1)
			}
			return nil
		})
		return result, err
	})

	vm.Register("lua-call", func(_ Host, args []string, _ map[string]string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("lua-call: expected a function name")
		}
		var result string
		err := exec.Execute(context.Background(), func(L *lua.LState) error {
			fn := L.GetGlobal(args[0])
			if fn == lua.LNil {
				return fmt.Errorf("lua-call: function %q not found", args[0])
			}
			L.Push(fn)
			for _, a := range args[1:] {
				L.Push(lua.LString(a))
			}
			if err := L.PCall(len(args)-1, 1, nil); err != nil {
				return err
			}
			result = L.ToStringMeta(L.Get(-1)).String()
			L.Pop(1)
			return nil
		})
		return result, err
	})
}
