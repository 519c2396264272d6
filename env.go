package sciexpr

// Env maps variable names to values. There is no scoping: calculus sampling
// sets the variable it varies directly in the Env it is given. An Env is not
// safe for concurrent use.
type Env struct {
	names map[string]float64
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{names: make(map[string]float64)}
}

// ConstEnv creates an environment holding only the named constants. The
// parser uses it to resolve the points and bounds of diff and integrate.
func ConstEnv() *Env {
	env := NewEnv()
	for k, v := range constants {
		env.names[k] = v
	}
	return env
}

// Set sets the value of a variable. Returns env for chaining.
func (env *Env) Set(name string, value float64) *Env {
	env.names[name] = value
	return env
}

// Lookup returns the value of a variable and whether it is defined.
func (env *Env) Lookup(name string) (float64, bool) {
	v, ok := env.names[name]
	return v, ok
}

// Delete removes a variable.
func (env *Env) Delete(name string) {
	delete(env.names, name)
}

// Clone creates a copy of env that can be modified independently.
func (env *Env) Clone() *Env {
	n := &Env{names: make(map[string]float64, len(env.names))}
	for k, v := range env.names {
		n.names[k] = v
	}
	return n
}

// Names returns the sorted names of the defined variables.
func (env *Env) Names() []string {
	names := make([]string, 0, len(env.names))
	for k := range env.names {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
