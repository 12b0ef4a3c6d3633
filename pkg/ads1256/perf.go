package ads1256

import "time"

// Metrics aggregates achieved throughput against the theoretical maximum
// for the configured data rate. All fields are reset by BeginMonitoring
// and live only for the life of the handle.
type Metrics struct {
	StartTime time.Time
	Elapsed   time.Duration

	TotalSamples uint64
	TotalScans   uint64

	TheoreticalSPSPerChannel float64
	ActualSPSTotal           float64
	ActualSPSPerChannel      float64

	// EfficiencyPercent = ActualSPSPerChannel / TheoreticalSPSPerChannel * 100
	EfficiencyPercent float64
}

// Status classifies the efficiency. Thresholds: > 85 excellent, > 70 good,
// > 50 fair, otherwise poor.
func (m Metrics) Status() string {
	switch {
	case m.TotalSamples == 0:
		return "no data yet"
	case m.EfficiencyPercent > 85:
		return "excellent"
	case m.EfficiencyPercent > 70:
		return "good"
	case m.EfficiencyPercent > 50:
		return "fair"
	default:
		return "poor"
	}
}

// BeginMonitoring resets the performance counters and records the start
// time. The theoretical per-channel rate comes from the data rate's SPS
// table. Scans recorded before this call are forgotten.
func (adc *ADS1256) BeginMonitoring(rate DataRate) {
	adc.mu.Lock()
	adc.perf = Metrics{
		StartTime:                adc.now(),
		TheoreticalSPSPerChannel: rate.SPS(),
	}
	adc.monitoring = true
	adc.mu.Unlock()
}

// StopMonitoring freezes the counters; Report remains available.
func (adc *ADS1256) StopMonitoring() {
	adc.mu.Lock()
	adc.monitoring = false
	adc.mu.Unlock()
}

// recordSamples folds one scan operation into the counters. channelsPerScan
// is the number of distinct slots the scan covered, used for the
// per-channel rate. Callers hold mu.
func (adc *ADS1256) recordSamples(samples, channelsPerScan int) {
	if !adc.monitoring || samples == 0 {
		return
	}

	adc.perf.TotalSamples += uint64(samples)
	adc.perf.TotalScans++

	elapsed := adc.now().Sub(adc.perf.StartTime)
	adc.perf.Elapsed = elapsed
	if elapsed <= 0 || adc.perf.TheoreticalSPSPerChannel <= 0 {
		return
	}

	adc.perf.ActualSPSTotal = float64(adc.perf.TotalSamples) / elapsed.Seconds()
	adc.perf.ActualSPSPerChannel = adc.perf.ActualSPSTotal / float64(channelsPerScan)
	adc.perf.EfficiencyPercent = adc.perf.ActualSPSPerChannel /
		adc.perf.TheoreticalSPSPerChannel * 100
}

// PerformanceReport returns a snapshot of the metrics with the
// time-derived fields refreshed. The stored state is not modified.
func (adc *ADS1256) PerformanceReport() Metrics {
	adc.mu.Lock()
	m := adc.perf
	now := adc.now()
	adc.mu.Unlock()

	if m.StartTime.IsZero() {
		return m
	}
	m.Elapsed = now.Sub(m.StartTime)

	if m.TotalSamples == 0 || m.Elapsed <= 0 || m.TheoreticalSPSPerChannel <= 0 {
		m.EfficiencyPercent = 0
		return m
	}

	m.ActualSPSTotal = float64(m.TotalSamples) / m.Elapsed.Seconds()
	avgChannelsPerScan := float64(m.TotalSamples) / float64(m.TotalScans)
	m.ActualSPSPerChannel = m.ActualSPSTotal / avgChannelsPerScan
	m.EfficiencyPercent = m.ActualSPSPerChannel / m.TheoreticalSPSPerChannel * 100
	return m
}
