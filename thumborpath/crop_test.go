package thumborpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenteredCrop(t *testing.T) {
	tests := []struct {
		name   string
		width  *int
		height *int
		center []float64
		crop   []int
	}{
		{"horizontal left center", Int(40), Int(50), []float64{0, 50}, []int{0, 0, 80, 100}},
		{"horizontal right center", Int(40), Int(50), []float64{100, 50}, []int{20, 0, 100, 100}},
		{"horizontal actual center", Int(40), Int(50), []float64{50, 50}, []int{10, 0, 90, 100}},
		{"vertical top center", Int(50), Int(40), []float64{50, 0}, []int{0, 0, 100, 80}},
		{"vertical bottom center", Int(50), Int(40), []float64{50, 100}, []int{0, 20, 100, 100}},
		{"vertical actual center", Int(50), Int(40), []float64{50, 50}, []int{0, 10, 100, 90}},
		{"same ratio", Int(50), Int(50), []float64{50, 0}, nil},
		{"missing width", nil, Int(80), []float64{50, 50}, []int{0, 10, 100, 90}},
		{"missing height", Int(80), nil, []float64{50, 50}, []int{10, 0, 90, 100}},
		{"zero width as missing", Int(0), Int(80), []float64{50, 50}, []int{0, 10, 100, 90}},
		{"negative width", Int(-50), Int(40), []float64{50, 50}, []int{0, 10, 100, 90}},
		{"negative height", Int(50), Int(-40), []float64{50, 50}, []int{0, 10, 100, 90}},
		{"negative width and height", Int(-50), Int(-40), []float64{50, 50}, []int{0, 10, 100, 90}},
		{"fractional center", Int(50), Int(40), []float64{50, 50.5}, []int{0, 11, 100, 91}},
		{"no size", nil, nil, []float64{50, 50}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop, err := CenteredCrop(Options{
				OriginalWidth:  Int(100),
				OriginalHeight: Int(100),
				Width:          tt.width,
				Height:         tt.height,
				Center:         tt.center,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.crop, crop)
		})
	}
}

func TestCenteredCropBounds(t *testing.T) {
	// 16:9 target out of a 300x400 portrait, center far outside both ends
	for _, cy := range []float64{-1000, 0, 10, 200, 390, 400, 5000} {
		crop, err := CenteredCrop(Options{
			OriginalWidth: Int(300), OriginalHeight: Int(400),
			Width: Int(160), Height: Int(90),
			Center: []float64{150, cy},
		})
		assert.NoError(t, err)
		if assert.Len(t, crop, 4) {
			assert.Equal(t, 0, crop[0])
			assert.Equal(t, 300, crop[2])
			assert.GreaterOrEqual(t, crop[1], 0)
			assert.LessOrEqual(t, crop[3], 400)
			assert.Equal(t, 169, crop[3]-crop[1])
		}
	}
}

func TestCenteredCropInactive(t *testing.T) {
	tests := []struct {
		name    string
		options Options
	}{
		{"missing original height", Options{OriginalWidth: Int(100), Width: Int(50), Height: Int(40), Center: []float64{50, 0}}},
		{"missing original width", Options{OriginalHeight: Int(100), Width: Int(50), Height: Int(40), Center: []float64{50, 0}}},
		{"missing center", Options{OriginalWidth: Int(100), OriginalHeight: Int(100), Width: Int(50), Height: Int(40)}},
		{"missing size", Options{OriginalWidth: Int(100), OriginalHeight: Int(100), Center: []float64{50, 0}}},
		{"bad center without size", Options{OriginalWidth: Int(100), OriginalHeight: Int(100), Center: []float64{50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop, err := CenteredCrop(tt.options)
			assert.NoError(t, err)
			assert.Nil(t, crop)

			tt.options.Image = testImage
			path, err := GeneratePath(tt.options, false)
			assert.NoError(t, err)
			assert.NotContains(t, path, ":")
		})
	}
}

func TestCenteredCropErrors(t *testing.T) {
	_, err := CenteredCrop(Options{
		OriginalWidth: Int(100), OriginalHeight: Int(100),
		Width: Int(50), Height: Int(40), Center: []float64{1, 2, 3},
	})
	assert.ErrorIs(t, err, ErrInvalidCenter)

	_, err = CenteredCrop(Options{
		OriginalWidth: Int(0), OriginalHeight: Int(100),
		Width: Int(50), Height: Int(40), Center: []float64{1, 2},
	})
	assert.ErrorIs(t, err, ErrInvalidOriginalSize)
}
