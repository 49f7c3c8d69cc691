package cascade

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/cshum/thumborurl/thumborpath"
)

var (
	// ErrUnknownFilter filter name not in the filter table
	ErrUnknownFilter = thumborpath.NewError("unknown filter", http.StatusBadRequest)
	// ErrInvalidFilterArgs wrong number of filter arguments
	ErrInvalidFilterArgs = thumborpath.NewError("invalid filter arguments", http.StatusBadRequest)
)

// FilterFunc formats a filter call from its arguments
type FilterFunc func(args ...any) (string, error)

// filters thumbor filters by name
var filters = map[string]FilterFunc{
	"autojpg":          arity("autojpg", 0, 1),
	"background_color": arity("background_color", 1, 1),
	"blur":             arity("blur", 1, 2),
	"brightness":       arity("brightness", 1, 1),
	"contrast":         arity("contrast", 1, 1),
	"convolution":      arity("convolution", 3, 3),
	"cover":            arity("cover", 0, 0),
	"equalize":         arity("equalize", 0, 0),
	"extract_focal":    arity("extract_focal", 0, 0),
	"fill":             arity("fill", 1, 2),
	"focal":            arity("focal", 1, 1),
	"format":           arity("format", 1, 1),
	"grayscale":        arity("grayscale", 0, 0),
	"max_age":          arity("max_age", 1, 1),
	"max_bytes":        arity("max_bytes", 1, 1),
	"no_upscale":       arity("no_upscale", 0, 0),
	"noise":            arity("noise", 1, 2),
	"proportion":       arity("proportion", 1, 1),
	"quality":          arity("quality", 1, 1),
	"red_eye":          arity("red_eye", 0, 0),
	"rgb":              arity("rgb", 3, 3),
	"rotate":           arity("rotate", 1, 1),
	"round_corner":     arity("round_corner", 4, 5),
	"saturation":       arity("saturation", 1, 1),
	"sharpen":          arity("sharpen", 3, 3),
	"stretch":          arity("stretch", 0, 0),
	"strip_exif":       arity("strip_exif", 0, 0),
	"strip_icc":        arity("strip_icc", 0, 0),
	"upscale":          arity("upscale", 0, 0),
	"watermark":        arity("watermark", 4, 6),
}

// Filters known filter names, sorted
func Filters() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatFilter formats the call of a known filter, e.g. quality(20)
func FormatFilter(name string, args ...any) (string, error) {
	fn, ok := filters[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	return fn(args...)
}

func arity(name string, lo, hi int) FilterFunc {
	return func(args ...any) (string, error) {
		if len(args) < lo || len(args) > hi {
			return "", fmt.Errorf("%w: %s takes %d to %d, got %d", ErrInvalidFilterArgs, name, lo, hi, len(args))
		}
		strs := make([]string, len(args))
		for i, arg := range args {
			strs[i] = escapeArg(arg)
		}
		return name + "(" + strings.Join(strs, ",") + ")", nil
	}
}

// escapeArg query escapes URL arguments so they survive as a single path segment
func escapeArg(arg any) string {
	s := fmt.Sprint(arg)
	if _, ok := arg.(string); ok && (strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")) {
		return url.QueryEscape(s)
	}
	return s
}
