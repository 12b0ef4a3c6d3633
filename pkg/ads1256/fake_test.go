package ads1256

import (
	"io"
	"testing"
	"time"
)

// fakeBus is a scripted SerialBus. Written bytes are captured grouped by
// chip select frame; reads are served from a FIFO of queued responses.
type fakeBus struct {
	csLow  bool
	cur    []byte
	frames [][]byte

	reads [][]byte

	// drdy reports the line level for the nth ReadDRDY call (1-based);
	// true means low (ready). Defaults to always ready.
	drdy      func(call int) bool
	drdyCalls int

	resets []bool
	closed int
}

func newFakeBus() *fakeBus {
	return &fakeBus{drdy: func(int) bool { return true }}
}

func (f *fakeBus) WriteBytes(p []byte) error {
	f.cur = append(f.cur, p...)
	return nil
}

func (f *fakeBus) ReadBytes(p []byte) error {
	if len(f.reads) == 0 {
		return io.ErrUnexpectedEOF
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	if len(r) != len(p) {
		return io.ErrShortBuffer
	}
	copy(p, r)
	return nil
}

func (f *fakeBus) SetCS(high bool) error {
	if high && f.csLow {
		f.frames = append(f.frames, f.cur)
		f.cur = nil
	}
	f.csLow = !high
	return nil
}

func (f *fakeBus) SetReset(high bool) error {
	f.resets = append(f.resets, high)
	return nil
}

func (f *fakeBus) ReadDRDY() (bool, error) {
	f.drdyCalls++
	return f.drdy(f.drdyCalls), nil
}

func (f *fakeBus) Close() error {
	f.closed++
	return nil
}

func (f *fakeBus) queueRead(b ...byte) {
	f.reads = append(f.reads, b)
}

// muxWrites extracts the payload of every MUX register write, in order.
func (f *fakeBus) muxWrites() []byte {
	var muxes []byte
	for _, fr := range f.frames {
		if len(fr) == 3 && fr[0] == CMDWREG|RegMUX {
			muxes = append(muxes, fr[2])
		}
	}
	return muxes
}

// countFrames counts chip select frames whose first byte is cmd.
func (f *fakeBus) countFrames(cmd byte) int {
	n := 0
	for _, fr := range f.frames {
		if len(fr) > 0 && fr[0] == cmd {
			n++
		}
	}
	return n
}

// fakeClock stands in for the wall clock; sleeping advances it.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestADC() (*ADS1256, *fakeBus, *fakeClock) {
	bus := newFakeBus()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	adc := New(bus)
	adc.now = clk.now
	adc.sleep = clk.sleep
	return adc, bus, clk
}

func initTestADC(t *testing.T) (*ADS1256, *fakeBus, *fakeClock) {
	t.Helper()
	adc, bus, clk := newTestADC()
	bus.queueRead(ChipID << 4) // STATUS read during chip identification
	if err := adc.Initialize(DefaultConfig()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return adc, bus, clk
}
