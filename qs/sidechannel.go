package qs

// sideChannel tracks containers on the active encoding path by identity,
// per spec.md §4.11. A fresh chain is created per top-level root key
// (encode.go), since sibling root keys can never be cyclic with each
// other. Enter/Exit are called around a frame's descent into a container
// child, giving stack-discipline cycle detection without recursion depth
// limits on the channel itself.
type sideChannel struct {
	active map[any]bool
}

func newSideChannel() *sideChannel {
	return &sideChannel{active: make(map[any]bool)}
}

// enter reports whether container may be entered: false means it is
// already on the active path, a hard CyclicValue failure.
func (c *sideChannel) enter(container any) bool {
	if container == nil {
		return true
	}
	if c.active[container] {
		return false
	}
	c.active[container] = true
	return true
}

// exit removes container from the active path on frame completion.
func (c *sideChannel) exit(container any) {
	if container == nil {
		return
	}
	delete(c.active, container)
}
