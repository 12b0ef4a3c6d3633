package ads1256

import (
	"testing"
	"time"
)

func TestMetricsStatus(t *testing.T) {
	cases := []struct {
		name       string
		samples    uint64
		efficiency float64
		want       string
	}{
		{"NoData", 0, 0, "no data yet"},
		{"NoDataHighEfficiency", 0, 99, "no data yet"},
		{"Excellent", 10, 95, "excellent"},
		{"ExcellentBoundary", 10, 85.1, "excellent"},
		{"Good", 10, 85, "good"},
		{"Fair", 10, 60, "fair"},
		{"Poor", 10, 50, "poor"},
		{"VeryPoor", 10, 3, "poor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Metrics{TotalSamples: tc.samples, EfficiencyPercent: tc.efficiency}
			if got := m.Status(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPerformanceReportNoSamples(t *testing.T) {
	adc, _, clk := initTestADC(t)
	adc.BeginMonitoring(DR1000SPS)
	clk.sleep(time.Second)

	m := adc.PerformanceReport()
	if m.TotalSamples != 0 {
		t.Errorf("expected no samples, got %d", m.TotalSamples)
	}
	if m.EfficiencyPercent != 0 {
		t.Errorf("expected zero efficiency, got %v", m.EfficiencyPercent)
	}
	if m.Status() != "no data yet" {
		t.Errorf("expected %q, got %q", "no data yet", m.Status())
	}
	if m.Elapsed < time.Second {
		t.Errorf("expected elapsed >= 1s, got %v", m.Elapsed)
	}
}

func TestMonitoringCounts(t *testing.T) {
	adc, bus, _ := initTestADC(t)
	adc.BeginMonitoring(DR1000SPS)

	for i := 0; i < 8; i++ {
		bus.queueRead(0x00, 0x00, 0x01)
	}
	if _, err := adc.ScanChannels([]int{0, 1, 2, 3}, SettlingFast); err != nil {
		t.Fatalf("ScanChannels: %v", err)
	}
	if _, err := adc.ScanChannels([]int{0, 1, 2, 3}, SettlingFast); err != nil {
		t.Fatalf("ScanChannels: %v", err)
	}

	m := adc.PerformanceReport()
	if m.TotalSamples != 8 {
		t.Errorf("expected 8 samples, got %d", m.TotalSamples)
	}
	if m.TotalScans != 2 {
		t.Errorf("expected 2 scans, got %d", m.TotalScans)
	}
	if m.EfficiencyPercent <= 0 {
		t.Errorf("expected positive efficiency, got %v", m.EfficiencyPercent)
	}

	// scans after StopMonitoring do not move the counters
	adc.StopMonitoring()
	bus.queueRead(0x00, 0x00, 0x01)
	if _, err := adc.ScanChannels([]int{0}, SettlingFast); err != nil {
		t.Fatalf("ScanChannels: %v", err)
	}
	if m = adc.PerformanceReport(); m.TotalSamples != 8 {
		t.Errorf("expected counters frozen at 8, got %d", m.TotalSamples)
	}
}

func TestMonitoringReset(t *testing.T) {
	adc, bus, _ := initTestADC(t)
	adc.BeginMonitoring(DR1000SPS)
	bus.queueRead(0x00, 0x00, 0x01)
	if _, err := adc.ScanChannels([]int{0}, SettlingFast); err != nil {
		t.Fatalf("ScanChannels: %v", err)
	}

	adc.BeginMonitoring(DR100SPS)
	m := adc.PerformanceReport()
	if m.TotalSamples != 0 || m.TotalScans != 0 {
		t.Errorf("expected counters reset, got %d samples / %d scans",
			m.TotalSamples, m.TotalScans)
	}
	if m.TheoreticalSPSPerChannel != 100 {
		t.Errorf("expected theoretical rate 100, got %v", m.TheoreticalSPSPerChannel)
	}
}

func TestEfficiencyAsymptote(t *testing.T) {
	adc, _, clk := newTestADC()
	adc.BeginMonitoring(DR100SPS)

	// one channel sampled at exactly the theoretical rate: 10 ms apart
	for i := 0; i < 50; i++ {
		clk.sleep(10 * time.Millisecond)
		adc.mu.Lock()
		adc.recordSamples(1, 1)
		adc.mu.Unlock()
	}

	m := adc.PerformanceReport()
	if m.EfficiencyPercent < 99.5 || m.EfficiencyPercent > 100.5 {
		t.Errorf("expected efficiency near 100%%, got %v", m.EfficiencyPercent)
	}
	if m.Status() != "excellent" {
		t.Errorf("expected %q, got %q", "excellent", m.Status())
	}

	// half the theoretical rate settles near 50%
	adc.BeginMonitoring(DR100SPS)
	for i := 0; i < 50; i++ {
		clk.sleep(20 * time.Millisecond)
		adc.mu.Lock()
		adc.recordSamples(1, 1)
		adc.mu.Unlock()
	}
	m = adc.PerformanceReport()
	if m.EfficiencyPercent < 49.5 || m.EfficiencyPercent > 50.5 {
		t.Errorf("expected efficiency near 50%%, got %v", m.EfficiencyPercent)
	}
}

func TestPerformanceReportDoesNotMutate(t *testing.T) {
	adc, bus, clk := initTestADC(t)
	adc.BeginMonitoring(DR1000SPS)
	bus.queueRead(0x00, 0x00, 0x01)
	if _, err := adc.ScanChannels([]int{0}, SettlingFast); err != nil {
		t.Fatalf("ScanChannels: %v", err)
	}

	stored := adc.perf
	clk.sleep(time.Minute)
	_ = adc.PerformanceReport()

	if adc.perf != stored {
		t.Error("report mutated the stored metrics")
	}
}
