package generator

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card dimensions match the common social-embed aspect ratio.
const (
	cardWidth  = 800
	cardHeight = 418
	cardMargin = 24
	lineHeight = 16
)

var (
	cardBackground = color.RGBA{R: 0x12, G: 0x18, B: 0x20, A: 0xff}
	cardHeadline   = color.RGBA{R: 0x93, G: 0xff, B: 0x66, A: 0xff}
	cardBody       = color.RGBA{R: 0xe7, G: 0xed, B: 0xf3, A: 0xff}
)

// CardRenderer renders a post's summary text onto a fixed-size PNG card.
// It is a pure transform of the summary string.
type CardRenderer struct{}

// NewCardRenderer creates a CardRenderer.
func NewCardRenderer() *CardRenderer {
	return &CardRenderer{}
}

// Render draws the headline and summary onto the card and returns PNG bytes.
func (cr *CardRenderer) Render(headline, summary string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	y := cardMargin + lineHeight
	drawLine(img, headline, cardMargin, y, cardHeadline)
	y += 2 * lineHeight

	maxY := cardHeight - cardMargin
	for _, line := range strings.Split(summary, "\n") {
		if y > maxY {
			break
		}
		drawLine(img, line, cardMargin, y, cardBody)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawLine(img *image.RGBA, text string, x, y int, col color.Color) {
	// basicfont is 7px wide; clip to the card instead of wrapping.
	maxChars := (cardWidth - 2*cardMargin) / 7
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
