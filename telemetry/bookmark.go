package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/squid/systems"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFrenzy       BookmarkType = "frenzy"
	BookmarkCalm         BookmarkType = "calm"
	BookmarkLongChase    BookmarkType = "long_chase"
	BookmarkSharpshooter BookmarkType = "sharpshooter"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run from window stats.
type BookmarkDetector struct {
	history *systems.Ring[WindowStats]

	// State tracking
	recentAgitationPeak float64 // peak mean agitation since the last calm
	chaseWindows        int     // consecutive windows spent mostly following
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{history: systems.NewRing(historySize, WindowStats{})}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.history.Written() > 0 {
		// Frenzy: agitation > 2x rolling average
		if b := bd.checkFrenzy(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Calm: agitation dropped below 30% of the recent peak
		if b := bd.checkCalm(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Long chase: following for most of 3 windows in a row
	if b := bd.checkLongChase(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Sharpshooter: nearly every click landed on the creature
	if b := bd.checkSharpshooter(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.history.Push(stats)

	if stats.AgitationMean > bd.recentAgitationPeak {
		bd.recentAgitationPeak = stats.AgitationMean
	}

	return bookmarks
}

// recent returns the windows held in history, in slot order.
func (bd *BookmarkDetector) recent() []WindowStats {
	n := min(bd.history.Written(), uint64(bd.history.Cap()))
	return bd.history.Slots()[:n]
}

func (bd *BookmarkDetector) checkFrenzy(stats WindowStats) *Bookmark {
	history := bd.recent()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.AgitationMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.AgitationMean > avg*2.0 && stats.AgitationMean > 1.0 {
		return &Bookmark{
			Type:        BookmarkFrenzy,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Agitation %.2f is %.1fx average (%.2f)", stats.AgitationMean, stats.AgitationMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCalm(stats WindowStats) *Bookmark {
	if bd.recentAgitationPeak < 1.0 {
		return nil
	}

	if stats.AgitationMean < bd.recentAgitationPeak*0.3 {
		oldPeak := bd.recentAgitationPeak
		// Reset the peak after triggering
		bd.recentAgitationPeak = stats.AgitationMean

		return &Bookmark{
			Type:        BookmarkCalm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Agitation settled from %.2f to %.2f", oldPeak, stats.AgitationMean),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkLongChase(stats WindowStats) *Bookmark {
	if stats.FollowingPct+stats.HoveringPct < 80 {
		bd.chaseWindows = 0
		return nil
	}

	bd.chaseWindows++
	if bd.chaseWindows == 3 { // trigger exactly once per streak
		return &Bookmark{
			Type:        BookmarkLongChase,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Creature tracked the pointer for 3 windows (mean speed %.2f)", stats.SpeedMean),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSharpshooter(stats WindowStats) *Bookmark {
	if stats.Clicks < 5 || stats.HitRate < 0.8 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSharpshooter,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d clicks hit the creature", stats.Hits, stats.Clicks),
	}
}
