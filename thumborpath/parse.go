package thumborpath

import (
	"regexp"
	"strconv"
	"strings"
)

var pathRegex = regexp.MustCompile(
	"^/*" +
		// signature, URL-safe base64 of a SHA1 HMAC
		"((unsafe/)|([A-Za-z0-9-_]{27}=)/)?" +
		// path
		"(.+)?",
)

var optionsRegex = regexp.MustCompile(
	"^" +
		// debug
		"(debug/)?" +
		// trim
		"(trim(:(top-left|bottom-right))?(:(\\d+))?/)?" +
		// meta
		"(meta/)?" +
		// crop
		"((\\d+)x(\\d+):(\\d+)x(\\d+)/)?" +
		// fit-in modes
		"(fit-in/)?" +
		"(adaptive-fit-in/)?" +
		"(full-fit-in/)?" +
		"(adaptive-full-fit-in/)?" +
		// dimensions
		"((\\-?)(\\d+)x(\\-?)(\\d+)/)?" +
		// halign
		"((left|right|center)/)?" +
		// valign
		"((top|bottom|middle)/)?" +
		// smart
		"(smart/)?" +
		// filters and image
		"(.+)?",
)

// Parse Options from a modern thumbor URL path, signed, unsafe or bare.
// Returns the signature if any, without verifying it.
// Negative dimensions come back as Flip/Flop with unsigned Width/Height.
func Parse(path string) (o Options, signature string) {
	match := pathRegex.FindStringSubmatch(path)
	if len(match) < 5 {
		return
	}
	if match[2] == "" {
		signature = match[3]
	}
	match = optionsRegex.FindStringSubmatch(match[4])
	if len(match) == 0 {
		return
	}
	index := 1
	o.Debug = match[index] != ""
	index++
	if match[index] != "" {
		o.Trim = true
		o.TrimBy = match[index+2]
		if s := match[index+4]; s != "" {
			n, _ := strconv.Atoi(s)
			o.TrimTolerance = Int(n)
		}
	}
	index += 5
	o.Meta = match[index] != ""
	index++
	if match[index] != "" {
		o.Crop = make([]int, 4)
		for i := range o.Crop {
			o.Crop[i], _ = strconv.Atoi(match[index+1+i])
		}
	}
	index += 5
	o.FitIn = match[index] != ""
	o.AdaptiveFitIn = match[index+1] != ""
	o.FullFitIn = match[index+2] != ""
	o.AdaptiveFullFitIn = match[index+3] != ""
	index += 4
	if match[index] != "" {
		o.Flip = match[index+1] != ""
		o.Width = parseInt(match[index+2])
		o.Flop = match[index+3] != ""
		o.Height = parseInt(match[index+4])
	}
	index += 5
	if match[index] != "" {
		o.HAlign = match[index+1]
	}
	index += 2
	if match[index] != "" {
		o.VAlign = match[index+1]
	}
	index += 2
	o.Smart = match[index] != ""
	index++
	if match[index] != "" {
		o.Filters, o.Image = parseFilters(match[index])
	}
	return
}

func parseInt(s string) *int {
	n, _ := strconv.Atoi(s)
	return Int(n)
}

func parseFilters(str string) (filters []string, path string) {
	if !strings.HasPrefix(str, "filters:") {
		return nil, str
	}
	str = str[len("filters:"):]
	var s strings.Builder
	var depth int
	var done bool
	for idx, ch := range str {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ':':
			if depth == 0 {
				filters = append(filters, s.String())
				s.Reset()
				continue
			}
		case '/':
			if depth == 0 {
				path = str[idx+1:]
				done = true
			}
		}
		if done {
			break
		}
		s.WriteRune(ch)
	}
	if s.Len() > 0 {
		filters = append(filters, s.String())
	}
	return
}
