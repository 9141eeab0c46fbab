package env

// Env is one lexical scope. Scopes form a chain through outer that ends at
// the global scope. Closures hold an *Env, so a scope lives as long as the
// longest of its call frame and any function that captured it.
type Env struct {
	outer *Env

	values map[string]any
}

func New() *Env {
	return &Env{values: make(map[string]any), outer: nil}
}

func NewChild(outer *Env) *Env {
	return &Env{values: make(map[string]any), outer: outer}
}

func (e *Env) Define(name string, value any) {
	e.values[name] = value
}

// Assign updates the nearest scope that defines name.
func (e *Env) Assign(name string, value any) bool {
	_, ok := e.values[name]
	if !ok {
		if e.outer != nil {
			return e.outer.Assign(name, value)
		}

		return false
	}

	e.values[name] = value
	return true
}

func (e *Env) Get(name string) (any, bool) {
	val, ok := e.values[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}

	return val, ok
}

// Ancestor walks exactly distance links outward.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance; i++ {
		env = env.outer
	}

	return env
}

// GetAt reads name from the scope distance links out, without searching.
func (e *Env) GetAt(distance int, name string) (any, bool) {
	val, ok := e.Ancestor(distance).values[name]
	return val, ok
}

func (e *Env) AssignAt(distance int, name string, value any) {
	e.Ancestor(distance).values[name] = value
}
