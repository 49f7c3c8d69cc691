package thumborpath

import "math"

// CenteredCrop computes the crop rectangle (left, top, right, bottom) keeping the
// requested aspect ratio around Options.Center.
//
// It returns nil when the centered crop does not apply: one of OriginalWidth,
// OriginalHeight or Center is missing, neither Width nor Height is set,
// or the aspect ratios already match.
func CenteredCrop(o Options) ([]int, error) {
	if o.OriginalWidth == nil || o.OriginalHeight == nil || o.Center == nil || !o.hasSize() {
		return nil, nil
	}
	if len(o.Center) != 2 {
		return nil, ErrInvalidCenter
	}
	ow, oh := *o.OriginalWidth, *o.OriginalHeight
	if ow <= 0 || oh <= 0 {
		return nil, ErrInvalidOriginalSize
	}
	cx, cy := o.Center[0], o.Center[1]

	// zero means proportional, which carries no ratio of its own,
	// so an explicit zero defaults to the original size like a missing one.
	// thumbor clients only default a missing size here.
	w, h := abs(intValue(o.Width)), abs(intValue(o.Height))
	if w == 0 {
		w = ow
	}
	if h == 0 {
		h = oh
	}
	newRatio := float64(w) / float64(h)
	originalRatio := float64(ow) / float64(oh)

	switch {
	case newRatio > originalRatio:
		// wider than the original, crop vertically
		top, bottom := centerSpan(cy, round(float64(ow)/newRatio), oh)
		return []int{0, top, ow, bottom}, nil
	case newRatio < originalRatio:
		// taller than the original, crop horizontally
		left, right := centerSpan(cx, round(float64(oh)*newRatio), ow)
		return []int{left, 0, right, oh}, nil
	}
	return nil, nil
}

// centerSpan places a span of size around center, shifted back inside [0, limit].
// size < limit whenever the ratios differ, so only one bound can overflow.
func centerSpan(center float64, size, limit int) (start, end int) {
	start = round(center - float64(size)*0.5)
	end = start + size
	if start < 0 {
		start, end = 0, size
	} else if end > limit {
		start, end = limit-size, limit
	}
	return
}

func round(f float64) int {
	return int(math.Round(f))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
