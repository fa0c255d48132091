// Package imagegen draws the Open Graph preview image for the comparison page.
package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lox/weathercompare/internal/compare"
	"github.com/lox/weathercompare/internal/models"
)

// OGWidth and OGHeight are the standard Open Graph image dimensions.
const (
	OGWidth  = 1200
	OGHeight = 630
)

const siteName = "weathercompare"

// Comparison is one past temperature shown under the headline.
type Comparison struct {
	YearsAgo int
	Temp     models.Temp
	Delta    *compare.Delta
}

// OGImageData contains the dynamic data for the OG image. The bundled face is
// ASCII only, so free-text conditions are not drawn.
type OGImageData struct {
	Date        string
	High        models.Temp
	IsYesterday bool
	Comparisons []Comparison
}

// FromView picks the headline and up to three comparisons from a view, the
// custom year first when one is shown.
func FromView(v compare.View) OGImageData {
	data := OGImageData{
		Date:        v.Today.Date,
		High:        v.Today.High,
		IsYesterday: v.Today.IsYesterday,
	}
	seen := map[int]bool{}
	add := func(c compare.Card) {
		if len(data.Comparisons) >= 3 || seen[c.YearsAgo] {
			return
		}
		seen[c.YearsAgo] = true
		data.Comparisons = append(data.Comparisons, Comparison{YearsAgo: c.YearsAgo, Temp: c.Temp, Delta: c.Delta})
	}
	if v.CustomYear != nil {
		add(*v.CustomYear)
	}
	for _, h := range v.History {
		add(h)
	}
	return data
}

// Key identifies the rendered output of data for caching.
func (d OGImageData) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%t", d.Date, d.High, d.IsYesterday)
	for _, c := range d.Comparisons {
		fmt.Fprintf(&b, "|%d:%s", c.YearsAgo, c.Temp)
	}
	return b.String()
}

// GenerateOGImage renders data onto a gradient background and encodes it as PNG.
func GenerateOGImage(data OGImageData) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, OGWidth, OGHeight))
	drawBackground(img)

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{200, 200, 200, 255}

	day := "Today"
	if data.IsYesterday {
		day = "Yesterday"
	}
	drawScaled(img, fmt.Sprintf("%s %s", day, data.Date), 60, 60, 4, lightGray)
	drawScaled(img, formatTemp(data.High), 60, 150, 14, white)

	y := 360
	for _, c := range data.Comparisons {
		line := fmt.Sprintf("%d years ago: %s", c.YearsAgo, formatTemp(c.Temp))
		if c.Delta != nil {
			line += fmt.Sprintf("  (%+.1f)", c.Delta.Value)
		}
		drawScaled(img, line, 60, y, 5, white)
		y += 75
	}

	drawScaled(img, siteName, 60, OGHeight-50, 3, lightGray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode OG image: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTemp(t models.Temp) string {
	if !t.Valid() {
		return "--"
	}
	return strings.TrimSpace(string(t)) + " C"
}

// drawBackground paints a dark blue vertical gradient.
func drawBackground(img *image.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		progress := float64(y) / float64(bounds.Dy())
		c := color.RGBA{uint8(20 + progress*10), uint8(20 + progress*15), uint8(40 + progress*20), 255}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawScaled renders text with the fixed 7x13 face at 1x and scales it up
// onto dst with its top-left corner at (x, y).
func drawScaled(dst *image.RGBA, text string, x, y, scale int, col color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Height
	if width == 0 {
		return
	}

	src := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	target := image.Rect(x, y, x+width*scale, y+height*scale).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+width*scale, y+height*scale), src, src.Bounds(), draw.Over, nil)
}
