package threadcomm

// Reduce combines every team member's x via combine (assumed associative
// and commutative; the caller supplies it rather than the communicator
// fixing one operation, per spec §4.3) and returns the combined value to
// every member. It costs three barriers: one to publish every member's
// value, one to publish the combined result, and one so every member
// has read that result before the mailbox can be reused.
func Reduce[T any](c *Communicator, x T, combine func(a, b T) T) T {
	s := c.shared

	s.mailMu.Lock()
	slots, _ := s.mailValue.([]any)
	if slots == nil {
		slots = make([]any, s.n)
		s.mailValue = slots
	}
	slots[c.tid] = x
	s.mailMu.Unlock()

	c.Barrier()

	var result T
	if c.tid == 0 {
		s.mailMu.Lock()
		slots := s.mailValue.([]any)
		result = slots[0].(T)
		for i := 1; i < s.n; i++ {
			result = combine(result, slots[i].(T))
		}
		s.mailValue = result
		s.mailMu.Unlock()
	}

	c.Barrier()

	s.mailMu.Lock()
	out := s.mailValue.(T)
	s.mailMu.Unlock()

	// Keeps a fast member from racing into the next collective and
	// overwriting mailValue before a slow member has read this result.
	c.Barrier()

	return out
}

// Broadcast publishes the value supplied by the team member whose Tid()
// equals root and returns it on every member, including root itself.
// The root need not be 0.
func Broadcast[T any](c *Communicator, x T, root int) T {
	s := c.shared

	if c.tid == root {
		s.mailMu.Lock()
		s.mailValue = x
		s.mailMu.Unlock()
	}

	c.Barrier()

	s.mailMu.Lock()
	out := s.mailValue.(T)
	s.mailMu.Unlock()

	// A second barrier keeps a fast member from racing ahead into a
	// subsequent collective (which would overwrite mailValue) before a
	// slow member has read this broadcast's value.
	c.Barrier()

	return out
}
