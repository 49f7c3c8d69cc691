package thumborpath

const (
	// TrimByTopLeft trim by top-left keyword
	TrimByTopLeft = "top-left"
	// TrimByBottomRight trim by bottom-right keyword
	TrimByBottomRight = "bottom-right"
	// HAlignLeft horizontal align left keyword
	HAlignLeft = "left"
	// HAlignCenter horizontal align center keyword, the default
	HAlignCenter = "center"
	// HAlignRight horizontal align right keyword
	HAlignRight = "right"
	// VAlignTop vertical align top keyword
	VAlignTop = "top"
	// VAlignMiddle vertical align middle keyword, the default
	VAlignMiddle = "middle"
	// VAlignBottom vertical align bottom keyword
	VAlignBottom = "bottom"
)

// Options thumbor request options.
// Pointer fields distinguish "not supplied" from an explicit zero.
type Options struct {
	Image             string    `json:"image,omitempty"`
	Debug             bool      `json:"debug,omitempty"`
	Meta              bool      `json:"meta,omitempty"`
	Trim              bool      `json:"trim,omitempty"`
	TrimBy            string    `json:"trim_by,omitempty"`
	TrimTolerance     *int      `json:"trim_tolerance,omitempty"`
	Crop              []int     `json:"crop,omitempty"`
	FitIn             bool      `json:"fit_in,omitempty"`
	AdaptiveFitIn     bool      `json:"adaptive_fit_in,omitempty"`
	FullFitIn         bool      `json:"full_fit_in,omitempty"`
	AdaptiveFullFitIn bool      `json:"adaptive_full_fit_in,omitempty"`
	Width             *int      `json:"width,omitempty"`
	Height            *int      `json:"height,omitempty"`
	Flip              bool      `json:"flip,omitempty"`
	Flop              bool      `json:"flop,omitempty"`
	HAlign            string    `json:"halign,omitempty"`
	VAlign            string    `json:"valign,omitempty"`
	Smart             bool      `json:"smart,omitempty"`
	Filters           []string  `json:"filters,omitempty"`
	OriginalWidth     *int      `json:"original_width,omitempty"`
	OriginalHeight    *int      `json:"original_height,omitempty"`
	Center            []float64 `json:"center,omitempty"`
	Old               bool      `json:"old,omitempty"`
}

// Int returns a pointer to n, for the optional integer fields of Options
func Int(n int) *int {
	return &n
}

func (o Options) fitIn() bool {
	return o.FitIn || o.AdaptiveFitIn || o.FullFitIn || o.AdaptiveFullFitIn
}

func (o Options) hasSize() bool {
	return o.Width != nil || o.Height != nil
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
