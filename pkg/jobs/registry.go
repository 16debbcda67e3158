package jobs

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// Func is the unit of work the executor dispatches. Arguments are bound at
// submission time; the return value or error resolves the task's handle.
type Func func(args ...any) (any, error)

type registry struct {
	mu     sync.RWMutex
	byName map[string]Func
	names  map[uintptr]string
}

var reg = &registry{
	byName: make(map[string]Func),
	names:  make(map[uintptr]string),
}

// Register makes fn addressable by name. Registration is required for
// functions that run on remote worker daemons: the client sends the name and
// the daemon resolves it against its own registry, so both binaries must
// register the same functions.
func Register(name string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("cannot register nil job: %s", name)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.byName[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}
	reg.byName[name] = fn
	reg.names[reflect.ValueOf(fn).Pointer()] = name
	return nil
}

func Get(name string) (Func, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	fn, exists := reg.byName[name]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", name)
	}
	return fn, nil
}

func List() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.byName))
	for name := range reg.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NameOf reverse-resolves a registered function to its name.
func NameOf(fn Func) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	name, ok := reg.names[reflect.ValueOf(fn).Pointer()]
	return name, ok
}

// FuncName returns a human-readable name for fn, used to tag submissions in
// logs. Registered names win; otherwise the runtime symbol name is used.
func FuncName(fn Func) string {
	if name, ok := NameOf(fn); ok {
		return name
	}
	if sym := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); sym != nil {
		name := sym.Name()
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		return name
	}
	return "anonymous"
}
