package violet

// DefineFunc declares tasks on a registry. It plays the role of a task
// definition file's entry point.
type DefineFunc func(r *Registry) error

// Load returns f itself, so a DefineFunc can be used wherever a definition
// loader is expected.
func (f DefineFunc) Load() (DefineFunc, error) {
	return f, nil
}

// Define runs define against r and freezes the registry settings afterwards,
// whether or not define succeeded.
func Define(r *Registry, define DefineFunc) error {
	defer r.Freeze()
	if define == nil {
		return nil
	}
	return define(r)
}
