package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cshum/thumborurl/thumborpath"
)

func errInvalidParam(name string) error {
	return thumborpath.NewError("invalid "+name, http.StatusBadRequest)
}

// optionsFromQuery maps query parameters named after the Options JSON fields.
// Booleans accept an empty value as true, crop and center are comma separated
// and filters may repeat.
func optionsFromQuery(q url.Values) (o thumborpath.Options, err error) {
	o.Image = q.Get("image")
	o.TrimBy = q.Get("trim_by")
	o.HAlign = q.Get("halign")
	o.VAlign = q.Get("valign")
	o.Filters = q["filters"]

	for name, dst := range map[string]*bool{
		"debug":                &o.Debug,
		"meta":                 &o.Meta,
		"trim":                 &o.Trim,
		"fit_in":               &o.FitIn,
		"adaptive_fit_in":      &o.AdaptiveFitIn,
		"full_fit_in":          &o.FullFitIn,
		"adaptive_full_fit_in": &o.AdaptiveFullFitIn,
		"flip":                 &o.Flip,
		"flop":                 &o.Flop,
		"smart":                &o.Smart,
		"old":                  &o.Old,
	} {
		if *dst, err = queryBool(q, name); err != nil {
			return
		}
	}
	for name, dst := range map[string]**int{
		"trim_tolerance":  &o.TrimTolerance,
		"width":           &o.Width,
		"height":          &o.Height,
		"original_width":  &o.OriginalWidth,
		"original_height": &o.OriginalHeight,
	} {
		if *dst, err = queryInt(q, name); err != nil {
			return
		}
	}
	if v := q.Get("crop"); v != "" {
		for _, s := range strings.Split(v, ",") {
			n, e := strconv.Atoi(strings.TrimSpace(s))
			if e != nil {
				return o, errInvalidParam("crop")
			}
			o.Crop = append(o.Crop, n)
		}
	}
	if v := q.Get("center"); v != "" {
		for _, s := range strings.Split(v, ",") {
			f, e := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if e != nil {
				return o, errInvalidParam("center")
			}
			o.Center = append(o.Center, f)
		}
	}
	return
}

func queryBool(q url.Values, name string) (bool, error) {
	if !q.Has(name) {
		return false, nil
	}
	v := q.Get(name)
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errInvalidParam(name)
	}
	return b, nil
}

func queryInt(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errInvalidParam(name)
	}
	return &n, nil
}
