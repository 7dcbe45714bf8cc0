package beangen

// Inspect returns root followed by every type reachable through its
// superclass chain and its implemented interfaces, depth first. A type
// reached along several paths is returned once.
func Inspect(root *TypeDescriptor) []*TypeDescriptor {
	var order []*TypeDescriptor
	visited := make(map[string]bool)

	var walk func(t *TypeDescriptor)
	walk = func(t *TypeDescriptor) {
		if t == nil || visited[t.ID()] {
			return
		}
		visited[t.ID()] = true
		order = append(order, t)

		walk(t.Superclass)
		for _, iface := range t.Interfaces {
			walk(iface)
		}
	}
	walk(root)

	return order
}

// MethodSet returns every method declared across the hierarchy of root, in
// Inspect order
func MethodSet(root *TypeDescriptor) []*MethodSignature {
	var methods []*MethodSignature
	for _, t := range Inspect(root) {
		methods = append(methods, t.Methods...)
	}
	return methods
}
