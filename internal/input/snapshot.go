package input

// ControllerSnapshot captures one pad's button latch and shift register.
type ControllerSnapshot struct {
	Buttons uint8
	Strobe  bool
	Shift   uint8
}

func (c *Controller) Snapshot() ControllerSnapshot {
	return ControllerSnapshot{Buttons: c.buttons, Strobe: c.strobe, Shift: c.shift}
}

func (c *Controller) Restore(s ControllerSnapshot) {
	c.buttons, c.strobe, c.shift = s.Buttons, s.Strobe, s.Shift
}

// Snapshot captures both standard controller ports.
type Snapshot struct {
	Controller1 ControllerSnapshot
	Controller2 ControllerSnapshot
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Controller1: s.Controller1.Snapshot(),
		Controller2: s.Controller2.Snapshot(),
	}
}

func (s *State) Restore(snap Snapshot) {
	s.Controller1.Restore(snap.Controller1)
	s.Controller2.Restore(snap.Controller2)
}
