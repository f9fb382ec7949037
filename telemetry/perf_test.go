package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseField)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseClassify)
		time.Sleep(200 * time.Microsecond)
		if d := pc.EndFrame(); d <= 0 {
			t.Errorf("EndFrame() = %v, want positive duration", d)
		}
	}

	stats := pc.Stats()

	if stats.Frames != 5 {
		t.Errorf("Frames = %d, want 5", stats.Frames)
	}
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if stats.MinFrameDuration > stats.AvgFrameDuration || stats.AvgFrameDuration > stats.MaxFrameDuration {
		t.Errorf("expected min <= avg <= max, got %v, %v, %v",
			stats.MinFrameDuration, stats.AvgFrameDuration, stats.MaxFrameDuration)
	}
	if stats.P95FrameDuration < stats.MinFrameDuration || stats.P95FrameDuration > stats.MaxFrameDuration {
		t.Errorf("p95 %v outside [%v, %v]", stats.P95FrameDuration, stats.MinFrameDuration, stats.MaxFrameDuration)
	}

	if _, ok := stats.PhaseAvg[PhaseField]; !ok {
		t.Error("expected field phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseClassify]; !ok {
		t.Error("expected classify phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseVertices]; ok {
		t.Error("vertices phase never ran but was tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseField)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.Frames != 5 {
		t.Errorf("Frames = %d, want window size 5", stats.Frames)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_SingleSampleHasNoSpread(t *testing.T) {
	pc := NewPerfCollector(0)
	pc.StartFrame()
	pc.EndFrame()

	stats := pc.Stats()
	if stats.StdFrameDuration != 0 {
		t.Errorf("StdFrameDuration = %v, want 0 for one sample", stats.StdFrameDuration)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgFrameDuration: 1500 * time.Microsecond,
		PhasePct:         map[string]float64{PhaseField: 60, PhaseClassify: 30, PhaseVertices: 10},
		FramesPerSecond:  666,
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgFrameUS != 1500 {
		t.Errorf("unexpected row header fields: %+v", row)
	}
	if row.FieldPct != 60 || row.ClassifyPct != 30 || row.VerticesPct != 10 {
		t.Errorf("unexpected phase percentages: %+v", row)
	}
}
