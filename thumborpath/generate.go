package thumborpath

import (
	"fmt"
	"strconv"
	"strings"
)

// GeneratePath generate the canonical thumbor path of Options,
// with the image MD5 hash as the final segment if withHash.
// The image itself is never part of the canonical path.
func GeneratePath(o Options, withHash bool) (string, error) {
	if o.Image == "" {
		return "", ErrImageRequired
	}
	crop, err := CenteredCrop(o)
	if err != nil {
		return "", err
	}
	// a crop of any length other than 4 is ignored, not rejected
	if crop == nil && len(o.Crop) == 4 {
		crop = o.Crop
	}
	if o.fitIn() && !o.hasSize() {
		return "", ErrFitInSize
	}
	var parts []string
	if o.Debug {
		parts = append(parts, "debug")
	}
	if o.Trim || o.TrimBy != "" || o.TrimTolerance != nil {
		trims := []string{"trim"}
		if o.TrimBy != "" {
			if o.TrimBy != TrimByTopLeft && o.TrimBy != TrimByBottomRight {
				return "", ErrInvalidTrim
			}
			trims = append(trims, o.TrimBy)
		}
		if o.TrimTolerance != nil {
			if *o.TrimTolerance < 0 {
				return "", ErrInvalidTrim
			}
			trims = append(trims, strconv.Itoa(*o.TrimTolerance))
		}
		parts = append(parts, strings.Join(trims, ":"))
	}
	if o.Meta {
		parts = append(parts, "meta")
	}
	if crop != nil && (crop[0] != 0 || crop[1] != 0 || crop[2] != 0 || crop[3] != 0) {
		parts = append(parts, fmt.Sprintf("%dx%d:%dx%d", crop[0], crop[1], crop[2], crop[3]))
	}
	if o.FitIn {
		parts = append(parts, "fit-in")
	}
	if o.AdaptiveFitIn {
		parts = append(parts, "adaptive-fit-in")
	}
	if o.FullFitIn {
		parts = append(parts, "full-fit-in")
	}
	if o.AdaptiveFullFitIn {
		parts = append(parts, "adaptive-full-fit-in")
	}
	if o.hasSize() || o.Flip || o.Flop {
		parts = append(parts, dimension(intValue(o.Width), o.Flip)+"x"+dimension(intValue(o.Height), o.Flop))
	}
	switch o.HAlign {
	case "", HAlignCenter:
	case HAlignLeft, HAlignRight:
		parts = append(parts, o.HAlign)
	default:
		return "", ErrInvalidAlign
	}
	switch o.VAlign {
	case "", VAlignMiddle:
	case VAlignTop, VAlignBottom:
		parts = append(parts, o.VAlign)
	default:
		return "", ErrInvalidAlign
	}
	if o.Smart {
		parts = append(parts, "smart")
	}
	if len(o.Filters) > 0 {
		parts = append(parts, "filters:"+strings.Join(o.Filters, ":"))
	}
	if withHash {
		parts = append(parts, ImageHash(o.Image))
	}
	return strings.Join(parts, "/"), nil
}

// dimension renders n, negated if flipped. A flipped zero keeps its sign as "-0".
func dimension(n int, flip bool) string {
	if flip {
		if n == 0 {
			return "-0"
		}
		n = -n
	}
	return strconv.Itoa(n)
}

// GenerateUnsafe generate unsafe thumbor endpoint by Options
func GenerateUnsafe(o Options) (string, error) {
	return Generate(o, nil)
}

// Generate thumbor endpoint with HMAC signature by Options with signer.
// A nil signer produces an unsafe endpoint.
func Generate(o Options, signer Signer) (string, error) {
	imgPath, err := GeneratePath(o, false)
	if err != nil {
		return "", err
	}
	if imgPath != "" {
		imgPath += "/"
	}
	imgPath += o.Image
	if signer != nil {
		return "/" + signer.Sign(imgPath) + "/" + imgPath, nil
	}
	return "/unsafe/" + imgPath, nil
}
