package telemetry

import (
	"math"
	"testing"
)

func TestCollector_WindowTicks(t *testing.T) {
	c := NewCollector(10, 1.0/60)
	if c.WindowDurationTicks() != 600 {
		t.Errorf("expected 600 ticks per window, got %d", c.WindowDurationTicks())
	}
	if c.ShouldFlush(599) {
		t.Error("expected no flush before the window ends")
	}
	if !c.ShouldFlush(600) {
		t.Error("expected flush at the window boundary")
	}
}

func TestCollector_TinyWindow(t *testing.T) {
	c := NewCollector(0, 1.0/60)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("expected window clamped to 1 tick, got %d", c.WindowDurationTicks())
	}
}

func TestCollector_Flush(t *testing.T) {
	c := NewCollector(1, 0.5)

	c.Record(FrameSample{Speed: 1, Hover: 0.2, Turn: 0.1, Agitation: 0.4, Mode: ModeFollowing, TrailEmitted: 2, Clicked: true, Hit: true})
	c.Record(FrameSample{Speed: 3, Hover: 0.4, Turn: 0.3, Agitation: 2.6, Mode: ModeBurst, TrailEmitted: 2, BubblesEmitted: 7, BurstStarted: true, Clicked: true})

	stats := c.Flush(2)

	if stats.WindowEndTick != 2 {
		t.Errorf("expected window end 2, got %d", stats.WindowEndTick)
	}
	if stats.SimTimeSec != 1 {
		t.Errorf("expected sim time 1s, got %v", stats.SimTimeSec)
	}
	if math.Abs(stats.SpeedMean-2) > 1e-6 {
		t.Errorf("expected speed mean 2, got %v", stats.SpeedMean)
	}
	if stats.SpeedMax != 3 {
		t.Errorf("expected speed max 3, got %v", stats.SpeedMax)
	}
	if math.Abs(stats.AgitationMax-2.6) > 1e-5 {
		t.Errorf("expected agitation max 2.6, got %v", stats.AgitationMax)
	}
	if stats.Bursts != 1 || stats.Clicks != 2 || stats.Hits != 1 {
		t.Errorf("expected 1 burst, 2 clicks, 1 hit, got %d, %d, %d", stats.Bursts, stats.Clicks, stats.Hits)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", stats.HitRate)
	}
	if stats.TrailEmitted != 4 || stats.BubblesEmitted != 7 {
		t.Errorf("expected 4 trail and 7 bubbles, got %d and %d", stats.TrailEmitted, stats.BubblesEmitted)
	}
	if stats.FollowingPct != 50 || stats.BurstPct != 50 || stats.WanderingPct != 0 {
		t.Errorf("expected 50/50 following/burst split, got %+v", stats)
	}
}

func TestCollector_FlushResets(t *testing.T) {
	c := NewCollector(1, 0.5)
	c.Record(FrameSample{Speed: 5, Clicked: true, DoubleClick: true})
	first := c.Flush(2)
	if first.DoubleClicks != 1 {
		t.Errorf("expected 1 double click, got %d", first.DoubleClicks)
	}

	second := c.Flush(4)
	if second.Clicks != 0 || second.DoubleClicks != 0 || second.SpeedMean != 0 {
		t.Errorf("expected empty window after flush, got %+v", second)
	}
	if second.WindowStartTick != 2 {
		t.Errorf("expected window start 2, got %d", second.WindowStartTick)
	}
	if c.ShouldFlush(5) {
		t.Error("expected window to restart at the last flush")
	}
}
