package thumborpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testKey   = "my-security-key"
	testImage = "my.domain.com/some/image/url.jpg"
	testHash  = "f33af67e41168e80fcc5b00f8bd8061a"
)

func TestImageHash(t *testing.T) {
	assert.Equal(t, testHash, ImageHash(testImage))
	assert.Len(t, ImageHash("foobar"), 32)
}

func TestGeneratePath(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		path    string
	}{
		{
			name:    "image only",
			options: Options{},
			path:    testHash,
		},
		{
			name:    "width only",
			options: Options{Width: Int(300)},
			path:    "300x0/" + testHash,
		},
		{
			name:    "height only",
			options: Options{Height: Int(300)},
			path:    "0x300/" + testHash,
		},
		{
			name:    "width and height",
			options: Options{Width: Int(200), Height: Int(300)},
			path:    "200x300/" + testHash,
		},
		{
			name:    "explicit zero size",
			options: Options{Width: Int(0)},
			path:    "0x0/" + testHash,
		},
		{
			name:    "smart",
			options: Options{Width: Int(200), Height: Int(300), Smart: true},
			path:    "200x300/smart/" + testHash,
		},
		{
			name:    "fit-in",
			options: Options{Width: Int(200), Height: Int(300), FitIn: true},
			path:    "fit-in/200x300/" + testHash,
		},
		{
			name:    "all fit modes",
			options: Options{Width: Int(200), FitIn: true, AdaptiveFitIn: true, FullFitIn: true, AdaptiveFullFitIn: true},
			path:    "fit-in/adaptive-fit-in/full-fit-in/adaptive-full-fit-in/200x0/" + testHash,
		},
		{
			name:    "flip without size",
			options: Options{Flip: true},
			path:    "-0x0/" + testHash,
		},
		{
			name:    "flop without size",
			options: Options{Flop: true},
			path:    "0x-0/" + testHash,
		},
		{
			name:    "flip flop without size",
			options: Options{Flip: true, Flop: true},
			path:    "-0x-0/" + testHash,
		},
		{
			name:    "flip with width",
			options: Options{Width: Int(300), Flip: true},
			path:    "-300x0/" + testHash,
		},
		{
			name:    "flop with height",
			options: Options{Height: Int(300), Flop: true},
			path:    "0x-300/" + testHash,
		},
		{
			name:    "flip negative width",
			options: Options{Width: Int(-300), Flip: true},
			path:    "300x0/" + testHash,
		},
		{
			name:    "halign left",
			options: Options{HAlign: HAlignLeft},
			path:    "left/" + testHash,
		},
		{
			name:    "halign center omitted",
			options: Options{HAlign: HAlignCenter},
			path:    testHash,
		},
		{
			name:    "valign top",
			options: Options{VAlign: VAlignTop},
			path:    "top/" + testHash,
		},
		{
			name:    "valign middle omitted",
			options: Options{VAlign: VAlignMiddle},
			path:    testHash,
		},
		{
			name:    "halign and valign",
			options: Options{HAlign: HAlignLeft, VAlign: VAlignTop},
			path:    "left/top/" + testHash,
		},
		{
			name:    "smart after alignment",
			options: Options{HAlign: HAlignLeft, VAlign: VAlignTop, Smart: true},
			path:    "left/top/smart/" + testHash,
		},
		{
			name:    "meta",
			options: Options{Meta: true},
			path:    "meta/" + testHash,
		},
		{
			name:    "crop",
			options: Options{Crop: []int{10, 20, 30, 40}},
			path:    "10x20:30x40/" + testHash,
		},
		{
			name:    "zero crop omitted",
			options: Options{Crop: []int{0, 0, 0, 0}},
			path:    testHash,
		},
		{
			name:    "short crop ignored",
			options: Options{Crop: []int{10, 20, 30}},
			path:    testHash,
		},
		{
			name:    "empty filters omitted",
			options: Options{Filters: []string{}},
			path:    testHash,
		},
		{
			name:    "filters",
			options: Options{Filters: []string{"quality(20)", "brightness(10)"}},
			path:    "filters:quality(20):brightness(10)/" + testHash,
		},
		{
			name:    "trim",
			options: Options{Trim: true},
			path:    "trim/" + testHash,
		},
		{
			name:    "trim with direction",
			options: Options{Trim: true, TrimBy: TrimByBottomRight},
			path:    "trim:bottom-right/" + testHash,
		},
		{
			name:    "trim with direction and tolerance",
			options: Options{Trim: true, TrimBy: TrimByBottomRight, TrimTolerance: Int(15)},
			path:    "trim:bottom-right:15/" + testHash,
		},
		{
			name:    "trim first",
			options: Options{Smart: true, Trim: true},
			path:    "trim/smart/" + testHash,
		},
		{
			name:    "debug first",
			options: Options{Debug: true, Trim: true, Height: Int(200)},
			path:    "debug/trim/0x200/" + testHash,
		},
		{
			name:    "centered crop",
			options: Options{OriginalWidth: Int(100), OriginalHeight: Int(100), Width: Int(40), Height: Int(50), Center: []float64{0, 50}},
			path:    "0x0:80x100/40x50/" + testHash,
		},
		{
			name:    "centered crop overrides crop",
			options: Options{Crop: []int{1, 2, 3, 4}, OriginalWidth: Int(100), OriginalHeight: Int(100), Width: Int(50), Height: Int(40), Center: []float64{50, 50}},
			path:    "0x10:100x90/50x40/" + testHash,
		},
		{
			name:    "equal ratio keeps crop",
			options: Options{Crop: []int{1, 2, 3, 4}, OriginalWidth: Int(100), OriginalHeight: Int(100), Width: Int(50), Height: Int(50), Center: []float64{50, 0}},
			path:    "1x2:3x4/50x50/" + testHash,
		},
		{
			name: "everything",
			options: Options{
				Debug: true, Trim: true, TrimBy: TrimByTopLeft, TrimTolerance: Int(5), Meta: true,
				Crop: []int{10, 20, 30, 40}, FitIn: true, Width: Int(300), Height: Int(200),
				Flip: true, Flop: true, HAlign: HAlignRight, VAlign: VAlignBottom, Smart: true,
				Filters: []string{"quality(20)"},
			},
			path: "debug/trim:top-left:5/meta/10x20:30x40/fit-in/-300x-200/right/bottom/smart/filters:quality(20)/" + testHash,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.options.Image = testImage
			path, err := GeneratePath(tt.options, true)
			assert.NoError(t, err)
			assert.Equal(t, tt.path, path)

			// without hash, only the trailing digest segment differs
			unhashed, err := GeneratePath(tt.options, false)
			assert.NoError(t, err)
			assert.Equal(t, strings.TrimSuffix(strings.TrimSuffix(tt.path, testHash), "/"), unhashed)
		})
	}
}

func TestGeneratePathErrors(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		err     error
	}{
		{
			name:    "missing image",
			options: Options{Width: Int(300)},
			err:     ErrImageRequired,
		},
		{
			name:    "fit-in without size",
			options: Options{Image: testImage, FitIn: true},
			err:     ErrFitInSize,
		},
		{
			name:    "full-fit-in without size",
			options: Options{Image: testImage, FullFitIn: true},
			err:     ErrFitInSize,
		},
		{
			name:    "adaptive-fit-in with flip only",
			options: Options{Image: testImage, AdaptiveFitIn: true, Flip: true},
			err:     ErrFitInSize,
		},
		{
			name:    "bad center",
			options: Options{Image: testImage, OriginalWidth: Int(100), OriginalHeight: Int(100), Width: Int(50), Height: Int(50), Center: []float64{50}},
			err:     ErrInvalidCenter,
		},
		{
			name:    "bad trim direction",
			options: Options{Image: testImage, Trim: true, TrimBy: "middle"},
			err:     ErrInvalidTrim,
		},
		{
			name:    "negative trim tolerance",
			options: Options{Image: testImage, Trim: true, TrimTolerance: Int(-1)},
			err:     ErrInvalidTrim,
		},
		{
			name:    "bad halign",
			options: Options{Image: testImage, HAlign: "top"},
			err:     ErrInvalidAlign,
		},
		{
			name:    "bad valign",
			options: Options{Image: testImage, VAlign: "left"},
			err:     ErrInvalidAlign,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := GeneratePath(tt.options, true)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, path)
			url, err := Generate(tt.options, NewDefaultSigner(testKey))
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, url)
		})
	}
}

func TestGeneratePathNoMutation(t *testing.T) {
	crop := []int{1, 2, 3, 4}
	o := Options{
		Image: testImage, Crop: crop, Width: Int(-50), Height: Int(40), Flip: true,
		OriginalWidth: Int(100), OriginalHeight: Int(100), Center: []float64{50, 50},
	}
	_, err := GeneratePath(o, true)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, crop)
	assert.Equal(t, -50, *o.Width)
	assert.Equal(t, 40, *o.Height)
}

func TestGenerate(t *testing.T) {
	signer := NewDefaultSigner(testKey)
	tests := []struct {
		name    string
		options Options
		url     string
	}{
		{
			name:    "image only",
			options: Options{},
			url:     "/964rCTkAEDtvjy_a572k7kRa0SU=/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "width and height",
			options: Options{Width: Int(300), Height: Int(200)},
			url:     "/TQfyd3H36Z3srcNcLOYiM05YNO8=/300x200/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "debug",
			options: Options{Debug: true, Height: Int(200)},
			url:     "/5_eX4HHQYk81HQVkc1gBIAvPbLo=/debug/0x200/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "meta",
			options: Options{Width: Int(300), Height: Int(200), Meta: true},
			url:     "/YBQEWd3g_WRMnVEG73zfzcr8Zj0=/meta/300x200/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "meta smart fit-in flip flop",
			options: Options{Width: Int(300), Height: Int(200), Meta: true, Smart: true, FitIn: true, Flip: true, Flop: true},
			url:     "/HJnvjZU69PkPOhyZGu-Z3Uc_W_A=/meta/fit-in/-300x-200/smart/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "filters",
			options: Options{Filters: []string{"quality(20)", "brightness(10)"}},
			url:     "/q0DiFg-5-eFZIqyN3lRoCvg2K0s=/filters:quality(20):brightness(10)/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "escaped filter args",
			options: Options{Filters: []string{"watermark(http%3A%2F%2Fmy-server.com%2Fimage.png,30)", "quality(20)"}},
			url:     "/4b9kwg0-zsojf7Ed01TPKPYOel4=/filters:watermark(http%3A%2F%2Fmy-server.com%2Fimage.png,30):quality(20)/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "adaptive-full-fit-in",
			options: Options{Width: Int(200), Height: Int(300), AdaptiveFullFitIn: true},
			url:     "/jlUfjdC-6rG6jmuHgFp6eKgPy2g=/adaptive-full-fit-in/200x300/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "flip flop",
			options: Options{Flip: true, Flop: true},
			url:     "/FnMxpQMmxiMpdG219Dsj8pD_4Xc=/-0x-0/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "trim with direction and tolerance",
			options: Options{Trim: true, TrimBy: TrimByBottomRight, TrimTolerance: Int(15)},
			url:     "/TUCEIhtWfI1Uv9zjavCSl_i0A_8=/trim:bottom-right:15/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "centered crop",
			options: Options{OriginalWidth: Int(100), OriginalHeight: Int(100), Width: Int(-50), Height: Int(-40), Center: []float64{50, 50}},
			url:     "/lfjGLTTEaW_Rcvc1q0ZhfYup2jg=/0x10:100x90/-50x-40/my.domain.com/some/image/url.jpg",
		},
		{
			name:    "halign center",
			options: Options{HAlign: HAlignCenter},
			url:     "/964rCTkAEDtvjy_a572k7kRa0SU=/my.domain.com/some/image/url.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.options.Image = testImage
			url, err := Generate(tt.options, signer)
			assert.NoError(t, err)
			assert.Equal(t, tt.url, url)
		})
	}
}

func TestGenerateUnsafe(t *testing.T) {
	url, err := GenerateUnsafe(Options{Image: testImage, Width: Int(300), Height: Int(200)})
	assert.NoError(t, err)
	assert.Equal(t, "/unsafe/300x200/my.domain.com/some/image/url.jpg", url)

	url, err = Generate(Options{Image: testImage}, NewDefaultSigner(""))
	assert.NoError(t, err)
	assert.Equal(t, "/unsafe/my.domain.com/some/image/url.jpg", url)
}

func TestGenerateKeyChangesSignature(t *testing.T) {
	o := Options{Image: testImage, Width: Int(300), Height: Int(200)}
	url1, err := Generate(o, NewDefaultSigner(testKey))
	assert.NoError(t, err)
	url2, err := Generate(o, NewDefaultSigner("another-thumbor-key"))
	assert.NoError(t, err)
	assert.NotEqual(t, url1, url2)
	url3, err := Generate(o, NewDefaultSigner(testKey))
	assert.NoError(t, err)
	assert.Equal(t, url1, url3)
}
