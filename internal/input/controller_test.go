package input

import "testing"

func TestStrobeReadsButtonARepeatedly(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1) // strobe high

	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("read %d: expected button A bit while strobed, got %d", i, got)
		}
	}
}

func TestShiftOrder(t *testing.T) {
	c := New()
	c.SetButtons([8]bool{true, false, true, false, false, false, false, true}) // A, Select, Right
	c.Write(1)
	c.Write(0) // latch

	want := []uint8{1, 0, 1, 0, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Errorf("bit %d: got %d want %d", i, got, w)
		}
	}
}

func TestNinthReadReturnsOne(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	if got := c.Read(); got != 1 {
		t.Errorf("expected 1 past the 8th read, got %d", got)
	}
}

func TestStateOpenBusBit6(t *testing.T) {
	s := NewState()
	s.Write(0x4016, 0)
	if got := s.Read(0x4016); got&0x40 != 0 {
		t.Error("expected $4016 reads to carry plain data, no bit 6")
	}
	if got := s.Read(0x4017); got&0x40 == 0 {
		t.Error("expected bit 6 set on $4017 reads")
	}
}

func TestStateStrobesBothControllers(t *testing.T) {
	s := NewState()
	s.Controller1.SetButton(ButtonB, true)
	s.Controller2.SetButton(ButtonStart, true)
	s.Write(0x4016, 1)
	s.Write(0x4016, 0)

	if got := s.Read(0x4016) & 1; got != 0 {
		t.Errorf("expected controller 1 bit 0 (A) clear, got %d", got)
	}
	bit := s.Read(0x4017) & 1
	_ = bit // Start is bit 3, first read is bit 0 (A) which is clear
	if got := bit; got != 0 {
		t.Errorf("expected controller 2 first bit (A) clear, got %d", got)
	}
}
