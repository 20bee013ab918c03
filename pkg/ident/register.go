package ident

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// nextID tracks the last allocated dynamic identifier.
// Dynamic identifiers start after maxBuiltin (999).
var (
	dynamicMu    sync.RWMutex
	nextID       = maxBuiltin
	dynamicDefs  = make(map[ID]Definition)
	dynamicNames = make(map[string]ID)
)

// Register registers an extension identifier and returns its ID.
// Backends that need a meaning outside the built-in vocabulary call this
// at init() time. Registering the same name twice returns the same ID;
// registering it with a different class or arity is an error.
func Register(name string, class Class, arity int) (ID, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return Invalid, fmt.Errorf("identifier name is required")
	}
	if _, ok := builtinNames[upper]; ok {
		return Invalid, fmt.Errorf("identifier %s is built in", upper)
	}
	switch {
	case class == ClassConstant && arity != 0:
		return Invalid, fmt.Errorf("constant %s cannot have arity %d", upper, arity)
	case class == ClassOperator && (arity < 1 || arity > 2):
		return Invalid, fmt.Errorf("operator %s must have arity 1 or 2, got %d", upper, arity)
	case class == ClassFunction && arity < 1:
		return Invalid, fmt.Errorf("function %s must have arity >= 1, got %d", upper, arity)
	}

	dynamicMu.Lock()
	defer dynamicMu.Unlock()

	if id, ok := dynamicNames[upper]; ok {
		def := dynamicDefs[id]
		if def.Class != class || def.Arity != arity {
			return Invalid, fmt.Errorf("identifier %s already registered as %s/%d", upper, def.Class, def.Arity)
		}
		return id, nil
	}

	nextID++
	id := nextID
	dynamicDefs[id] = Definition{Name: upper, Class: class, Arity: arity}
	dynamicNames[upper] = id
	return id, nil
}

// MustRegister is like Register but panics on error.
func MustRegister(name string, class Class, arity int) ID {
	id, err := Register(name, class, arity)
	if err != nil {
		panic(err)
	}
	return id
}

func dynamicInfo(id ID) (Definition, bool) {
	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	def, ok := dynamicDefs[id]
	return def, ok
}

func lookupDynamic(upper string) (ID, bool) {
	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	id, ok := dynamicNames[upper]
	return id, ok
}

// IsDynamic returns true if the identifier was registered at runtime.
func IsDynamic(id ID) bool {
	return id > maxBuiltin
}

// All returns every known identifier, built-ins first, then dynamic ones in
// registration order.
func All() []ID {
	ids := Builtins()

	dynamicMu.RLock()
	dyn := make([]ID, 0, len(dynamicDefs))
	for id := range dynamicDefs {
		dyn = append(dyn, id)
	}
	dynamicMu.RUnlock()

	sort.Slice(dyn, func(i, j int) bool { return dyn[i] < dyn[j] })
	return append(ids, dyn...)
}
