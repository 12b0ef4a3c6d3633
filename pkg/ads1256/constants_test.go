package ads1256

import (
	"testing"
	"time"
)

func TestDataRate(t *testing.T) {
	t.Run("RegisterBytes", func(t *testing.T) {
		// chip calibration constants, pinned to the datasheet table
		cases := []struct {
			rate DataRate
			want byte
		}{
			{DR30000SPS, 0xF0},
			{DR1000SPS, 0xA1},
			{DR100SPS, 0x82},
			{DR10SPS, 0x23},
			{DR2p5SPS, 0x03},
		}
		for _, c := range cases {
			if got := c.rate.Byte(); got != c.want {
				t.Errorf("rate %v: expected 0x%02X, got 0x%02X", c.rate.SPS(), c.want, got)
			}
		}
	})

	t.Run("InvalidFallsBackToSlowest", func(t *testing.T) {
		if got := DataRate(200).Byte(); got != 0x03 {
			t.Errorf("expected 0x03, got 0x%02X", got)
		}
		if got := DataRate(200).SPS(); got != 2.5 {
			t.Errorf("expected 2.5, got %v", got)
		}
	})

	t.Run("DataRateFor", func(t *testing.T) {
		r, ok := DataRateFor(7500)
		if !ok || r != DR7500SPS {
			t.Errorf("expected DR7500SPS, got %v ok=%t", r, ok)
		}
		r, ok = DataRateFor(2.5)
		if !ok || r != DR2p5SPS {
			t.Errorf("expected DR2p5SPS, got %v ok=%t", r, ok)
		}
		if _, ok = DataRateFor(1234); ok {
			t.Error("expected no match for 1234 SPS")
		}
	})
}

func TestGain(t *testing.T) {
	t.Run("Factors", func(t *testing.T) {
		want := map[Gain]float64{
			Gain1: 1, Gain2: 2, Gain4: 4, Gain8: 8,
			Gain16: 16, Gain32: 32, Gain64: 64,
		}
		for g, f := range want {
			if g.Factor() != f {
				t.Errorf("gain %d: expected factor %v, got %v", g, f, g.Factor())
			}
		}
	})

	t.Run("InvalidFactorIsUnity", func(t *testing.T) {
		if Gain(7).Factor() != 1 {
			t.Errorf("expected 1, got %v", Gain(7).Factor())
		}
	})

	t.Run("GainFor", func(t *testing.T) {
		g, ok := GainFor(32)
		if !ok || g != Gain32 {
			t.Errorf("expected Gain32, got %v ok=%t", g, ok)
		}
		if _, ok = GainFor(3); ok {
			t.Error("expected no gain for factor 3")
		}
	})
}

func TestMuxValue(t *testing.T) {
	t.Run("SingleEnded", func(t *testing.T) {
		for ch := 0; ch < 8; ch++ {
			mux, ok := muxValue(SingleEnded, ch)
			if !ok {
				t.Fatalf("channel %d unexpectedly invalid", ch)
			}
			if want := byte(ch)<<4 | muxAINCOM; mux != want {
				t.Errorf("channel %d: expected 0x%02X, got 0x%02X", ch, want, mux)
			}
		}
	})

	t.Run("Differential", func(t *testing.T) {
		want := []byte{0x01, 0x23, 0x45, 0x67}
		for pair := 0; pair < 4; pair++ {
			mux, ok := muxValue(Differential, pair)
			if !ok {
				t.Fatalf("pair %d unexpectedly invalid", pair)
			}
			if mux != want[pair] {
				t.Errorf("pair %d: expected 0x%02X, got 0x%02X", pair, want[pair], mux)
			}
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		if _, ok := muxValue(SingleEnded, 8); ok {
			t.Error("channel 8 should be invalid single-ended")
		}
		if _, ok := muxValue(SingleEnded, -1); ok {
			t.Error("channel -1 should be invalid")
		}
		if _, ok := muxValue(Differential, 4); ok {
			t.Error("pair 4 should be invalid differential")
		}
	})
}

func TestScanModeChannels(t *testing.T) {
	if SingleEnded.Channels() != 8 {
		t.Errorf("expected 8, got %d", SingleEnded.Channels())
	}
	if Differential.Channels() != 4 {
		t.Errorf("expected 4, got %d", Differential.Channels())
	}
}

func TestDRDYDeadline(t *testing.T) {
	t.Run("FloorAtFastRates", func(t *testing.T) {
		if d := drdyDeadlineFor(DR30000SPS); d != 5*time.Millisecond {
			t.Errorf("expected 5ms floor, got %v", d)
		}
	})

	t.Run("ScalesWithPeriod", func(t *testing.T) {
		// four conversion periods at 2.5 SPS
		if d := drdyDeadlineFor(DR2p5SPS); d != 1600*time.Millisecond {
			t.Errorf("expected 1.6s, got %v", d)
		}
	})
}
