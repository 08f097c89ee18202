package preview

import "math"

const (
	// StyleBreakPoint is the container width under which the compact layout
	// applies.
	StyleBreakPoint = 450
	// MaxFitWidth is the largest width embeds are resized to. Wider results
	// leave embeds at their natural size.
	MaxFitWidth = 639
)

// Layout describes the container an embed is displayed in.
type Layout struct {
	ContainerWidth int
	// Side is set for narrow side-column containers.
	Side bool
	// InRepeatRow is set when the embed sits in a repeat row, which
	// reserves room for the remove column.
	InRepeatRow bool
}

// FitWidth computes the width an embed should be resized to. It reports
// false when the embed should keep its size.
func FitWidth(l Layout) (int, bool) {
	if l.ContainerWidth <= 0 {
		return 0, false
	}
	tableW := l.ContainerWidth
	small := l.Side
	smallest := false
	if StyleBreakPoint > tableW {
		small = true
		smallest = StyleBreakPoint-62 > tableW
	}
	if !small {
		tableW = int(math.Round(float64(l.ContainerWidth) * 0.82 * 0.97))
	}

	width := tableW - 30
	if small && !l.Side && !smallest {
		width -= 75
	}
	if width > MaxFitWidth {
		return 0, false
	}
	if l.InRepeatRow && !small {
		width -= 91
		if 785 > tableW {
			width -= 15
		}
	}
	return width, true
}

// FitSize scales an embed of w x h to the fitted width, keeping its aspect
// ratio.
func FitSize(l Layout, w, h int) (int, int, bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	width, ok := FitWidth(l)
	if !ok {
		return w, h, false
	}
	return width, int(math.Round(float64(width*h) / float64(w))), true
}
