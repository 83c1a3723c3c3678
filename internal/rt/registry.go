// Package rt provides the runtime function registry. Each runtime package
// registers its functions from init(), so importing rt/all assembles the
// full symbol table without any package knowing about the others.
package rt

import (
	"fmt"
	"sort"
	"sync"

	glog "github.com/skiff-os/crt/internal/log"
	"github.com/skiff-os/crt/internal/machine"
	"go.uber.org/zap"
)

// InvokeFunc is the signature of a runtime function. Arguments arrive as
// typed values; pointer arguments are guest addresses into m.
type InvokeFunc func(m *machine.Machine, args []Value) (Value, error)

// Def describes one registered runtime function.
type Def struct {
	Name     string   // C symbol name (e.g. "strlen", "__ctype_b_loc")
	Aliases  []string // alternative symbol names (e.g. "fopen64")
	Invoke   InvokeFunc
	Category string // for logging: "str", "ctype", "libm", ...
}

// Registry maps symbol names to runtime functions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Def

	// OnCall, when set, observes every dispatched call.
	OnCall func(category, name, detail string)
}

// DefaultRegistry is the global registry populated by init() functions.
var DefaultRegistry = NewRegistry()

// Debug enables verbose registration and call logging.
var Debug = false

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds a definition under its name and all aliases.
func (r *Registry) Register(def Def) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs[def.Name] = &def
	for _, alias := range def.Aliases {
		r.defs[alias] = &def
	}

	if Debug && glog.L != nil {
		glog.L.Debug("registered",
			zap.String("cat", def.Category),
			zap.String("fn", def.Name),
			zap.Strings("aliases", def.Aliases),
		)
	}
}

// RegisterFunc is a convenience method to register a simple function.
func (r *Registry) RegisterFunc(category, name string, fn InvokeFunc, aliases ...string) {
	r.Register(Def{
		Name:     name,
		Aliases:  aliases,
		Invoke:   fn,
		Category: category,
	})
}

// Lookup returns the definition registered under name, if any.
func (r *Registry) Lookup(name string) (*Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Call dispatches a runtime function by symbol name.
func (r *Registry) Call(m *machine.Machine, name string, args ...Value) (Value, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return None(), fmt.Errorf("unknown runtime function %q", name)
	}
	if def.Invoke == nil {
		return None(), fmt.Errorf("%q is host-boundary only", name)
	}
	return def.Invoke(m, args)
}

// Log calls the OnCall callback and logs via zap. This is the primary way
// runtime functions report their activity.
func (r *Registry) Log(category, name, detail string) {
	r.mu.RLock()
	cb := r.OnCall
	r.mu.RUnlock()

	if cb != nil {
		cb(category, name, detail)
	}
	if glog.L != nil {
		glog.L.Trace(category, name, detail)
	}
}

// Count returns the number of registered functions, aliases excluded.
func (r *Registry) Count() int {
	return len(r.List())
}

// List returns the registered primary names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	names := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}

// Categories returns primary names grouped by category, each group sorted.
func (r *Registry) Categories() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	out := make(map[string][]string)
	for _, def := range r.defs {
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		out[def.Category] = append(out[def.Category], def.Name)
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// Convenience functions for the default registry

// Register adds a definition to the default registry.
func Register(def Def) {
	DefaultRegistry.Register(def)
}

// RegisterFunc adds a simple function to the default registry.
func RegisterFunc(category, name string, fn InvokeFunc, aliases ...string) {
	DefaultRegistry.RegisterFunc(category, name, fn, aliases...)
}

// Call dispatches through the default registry.
func Call(m *machine.Machine, name string, args ...Value) (Value, error) {
	return DefaultRegistry.Call(m, name, args...)
}

// Helper functions for runtime packages

// FormatHex formats a value as a hex string.
func FormatHex(v uint64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("0x%x", v)
}

// FormatPtr formats a name=value pair.
func FormatPtr(name string, val uint64) string {
	return name + "=" + FormatHex(val)
}

// FormatPtrPair formats two name=value pairs.
func FormatPtrPair(name1 string, val1 uint64, name2 string, val2 uint64) string {
	if name2 == "" {
		return FormatPtr(name1, val1)
	}
	return FormatPtr(name1, val1) + " " + FormatPtr(name2, val2)
}
