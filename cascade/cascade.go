// Package cascade provides a chainable builder of thumbor URLs.
//
//	url, err := cascade.New(key, "my.domain.com/some/image/url.jpg").
//		Width(300).Height(200).
//		Filter("quality", 20).
//		Generate()
package cascade

import (
	"slices"

	"github.com/cshum/thumborurl/thumborpath"
)

// Cascade accumulates thumbor options for one image.
// The first error encountered is kept and returned by Generate.
type Cascade struct {
	key     string
	options thumborpath.Options
	err     error
}

// New create Cascade for image signed with key, unsafe if key is empty
func New(key, image string) *Cascade {
	return &Cascade{
		key:     key,
		options: thumborpath.Options{Image: image},
	}
}

func (c *Cascade) Meta() *Cascade {
	c.options.Meta = true
	return c
}

func (c *Cascade) Debug() *Cascade {
	c.options.Debug = true
	return c
}

func (c *Cascade) Smart() *Cascade {
	c.options.Smart = true
	return c
}

func (c *Cascade) Trim() *Cascade {
	c.options.Trim = true
	return c
}

// TrimBy trim from direction top-left or bottom-right, with optional tolerance
func (c *Cascade) TrimBy(direction string, tolerance ...int) *Cascade {
	c.options.Trim = true
	c.options.TrimBy = direction
	if len(tolerance) > 0 {
		c.options.TrimTolerance = thumborpath.Int(tolerance[0])
	}
	return c
}

// Crop manual crop left, top, right, bottom.
// Anything but 4 values is ignored when generating.
func (c *Cascade) Crop(values ...int) *Cascade {
	c.options.Crop = slices.Clone(values)
	return c
}

func (c *Cascade) FitIn() *Cascade {
	c.options.FitIn = true
	return c
}

func (c *Cascade) AdaptiveFitIn() *Cascade {
	c.options.AdaptiveFitIn = true
	return c
}

func (c *Cascade) FullFitIn() *Cascade {
	c.options.FullFitIn = true
	return c
}

func (c *Cascade) AdaptiveFullFitIn() *Cascade {
	c.options.AdaptiveFullFitIn = true
	return c
}

func (c *Cascade) Width(width int) *Cascade {
	c.options.Width = thumborpath.Int(width)
	return c
}

func (c *Cascade) Height(height int) *Cascade {
	c.options.Height = thumborpath.Int(height)
	return c
}

func (c *Cascade) Flip() *Cascade {
	c.options.Flip = true
	return c
}

func (c *Cascade) Flop() *Cascade {
	c.options.Flop = true
	return c
}

func (c *Cascade) HAlign(align string) *Cascade {
	c.options.HAlign = align
	return c
}

func (c *Cascade) VAlign(align string) *Cascade {
	c.options.VAlign = align
	return c
}

func (c *Cascade) OriginalWidth(width int) *Cascade {
	c.options.OriginalWidth = thumborpath.Int(width)
	return c
}

func (c *Cascade) OriginalHeight(height int) *Cascade {
	c.options.OriginalHeight = thumborpath.Int(height)
	return c
}

// OriginalSize dimensions of the source image, for Center
func (c *Cascade) OriginalSize(width, height int) *Cascade {
	return c.OriginalWidth(width).OriginalHeight(height)
}

// Center focal point the crop is centered on,
// requires both original width and height
func (c *Cascade) Center(x, y float64) *Cascade {
	c.options.Center = []float64{x, y}
	return c
}

// Old use the legacy encrypted URL scheme
func (c *Cascade) Old() *Cascade {
	c.options.Old = true
	return c
}

// Filter append a filter from the filter table, e.g. Filter("quality", 20)
func (c *Cascade) Filter(name string, args ...any) *Cascade {
	if c.err != nil {
		return c
	}
	f, err := FormatFilter(name, args...)
	if err != nil {
		c.err = err
		return c
	}
	c.options.Filters = append(c.options.Filters, f)
	return c
}

// Options copy of the accumulated options
func (c *Cascade) Options() thumborpath.Options {
	o := c.options
	o.Crop = slices.Clone(o.Crop)
	o.Center = slices.Clone(o.Center)
	o.Filters = slices.Clone(o.Filters)
	return o
}

// Err first error encountered while building
func (c *Cascade) Err() error {
	return c.err
}

// Generate the thumbor URL path
func (c *Cascade) Generate() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	o := c.Options()
	if o.Old {
		var enc *thumborpath.LegacyEncrypter
		if c.key != "" {
			var err error
			if enc, err = thumborpath.NewLegacyEncrypter(c.key); err != nil {
				return "", err
			}
		}
		return thumborpath.GenerateLegacy(o, enc)
	}
	return thumborpath.Generate(o, thumborpath.NewDefaultSigner(c.key))
}
