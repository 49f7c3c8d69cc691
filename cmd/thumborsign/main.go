// Command thumborsign prints signed thumbor URLs.
//
//	thumborsign -secret my-key -width 300 -height 200 -filter 'quality(80)' my.domain.com/image.jpg
//
// With -batch it reads one JSON object of options per line from stdin
// and prints one URL per line in the same order.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cshum/thumborurl"
	"github.com/cshum/thumborurl/thumborpath"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: thumborsign [flags] image")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		fs = flag.NewFlagSet("thumborsign", flag.ContinueOnError)
		o  thumborpath.Options

		secret      = fs.String("secret", "", "Secret key shared with the thumbor server. Unsafe URLs if empty")
		legacy      = fs.Bool("legacy", false, "Legacy AES encrypted URL")
		batch       = fs.Bool("batch", false, "Read JSON options per line from stdin")
		concurrency = fs.Int("concurrency", 16, "Batch concurrency")
		verbose     = fs.Bool("verbose", false, "Debug logging to stderr")

		width          = fs.Int("width", 0, "Target width")
		height         = fs.Int("height", 0, "Target height")
		trimTolerance  = fs.Int("trim-tolerance", 0, "Trim color tolerance")
		originalWidth  = fs.Int("original-width", 0, "Original image width, for center crop")
		originalHeight = fs.Int("original-height", 0, "Original image height, for center crop")
	)
	fs.BoolVar(&o.Debug, "debug", false, "thumbor debug mode")
	fs.BoolVar(&o.Meta, "meta", false, "Metadata JSON instead of the image")
	fs.BoolVar(&o.Trim, "trim", false, "Trim surrounding space")
	fs.StringVar(&o.TrimBy, "trim-by", "", "Trim color reference pixel, top-left or bottom-right")
	fs.BoolVar(&o.FitIn, "fit-in", false, "Fit in the target box")
	fs.BoolVar(&o.AdaptiveFitIn, "adaptive-fit-in", false, "Adaptive fit-in")
	fs.BoolVar(&o.FullFitIn, "full-fit-in", false, "Full fit-in")
	fs.BoolVar(&o.AdaptiveFullFitIn, "adaptive-full-fit-in", false, "Adaptive full fit-in")
	fs.BoolVar(&o.Flip, "flip", false, "Flip horizontally")
	fs.BoolVar(&o.Flop, "flop", false, "Flip vertically")
	fs.StringVar(&o.HAlign, "halign", "", "Horizontal alignment, left, center or right")
	fs.StringVar(&o.VAlign, "valign", "", "Vertical alignment, top, middle or bottom")
	fs.BoolVar(&o.Smart, "smart", false, "Smart cropping")
	fs.Func("crop", "Manual crop left,top,right,bottom", func(v string) (err error) {
		o.Crop, err = parseInts(v)
		return
	})
	fs.Func("center", "Focal point x,y, for center crop", func(v string) (err error) {
		o.Center, err = parseFloats(v)
		return
	})
	fs.Func("filter", "Filter call e.g. quality(80), repeatable", func(v string) error {
		o.Filters = append(o.Filters, v)
		return nil
	})

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("THUMBORSIGN")); err != nil {
		return err
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	app := thumborurl.New(
		thumborurl.WithLogger(logger),
		thumborurl.WithDebug(*verbose),
		thumborurl.WithKey(*secret),
		thumborurl.WithLegacy(*legacy),
		thumborurl.WithBatchConcurrency(*concurrency),
	)

	if *batch {
		return runBatch(ctx, app, stdin, stdout)
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	o.Image = fs.Arg(0)
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	for _, f := range []struct {
		name  string
		value *int
		dst   **int
	}{
		{"width", width, &o.Width},
		{"height", height, &o.Height},
		{"trim-tolerance", trimTolerance, &o.TrimTolerance},
		{"original-width", originalWidth, &o.OriginalWidth},
		{"original-height", originalHeight, &o.OriginalHeight},
	} {
		if set[f.name] {
			*f.dst = thumborpath.Int(*f.value)
		}
	}
	url, err := app.Generate(o)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, url)
	return err
}

func runBatch(ctx context.Context, app *thumborurl.URLBuilder, stdin io.Reader, stdout io.Writer) error {
	var batch []thumborpath.Options
	scanner := bufio.NewScanner(stdin)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var o thumborpath.Options
		if err := json.Unmarshal([]byte(text), &o); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, o)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	urls, err := app.GenerateBatch(ctx, batch)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(stdout)
	for _, url := range urls {
		if _, err := fmt.Fprintln(w, url); err != nil {
			return err
		}
	}
	return w.Flush()
}

func parseInts(v string) (res []int, err error) {
	for _, s := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return
}

func parseFloats(v string) (res []float64, err error) {
	for _, s := range strings.Split(v, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return
}
