// Package summary renders KPI snapshots as PNG images for the Telegram digest
// and the dashboard's downloadable KPI card.
package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"time"

	"farmops/internal/format"

	"github.com/fogleman/gg"
)

// Card is one KPI tile.
type Card struct {
	Label string
	Value string
	Tone  Tone
}

// Section is a titled row of cards.
type Section struct {
	Title string
	Cards []Card
}

// Tone picks a card's accent colour.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneWarning
	ToneNegative
)

// Layout constants, rendered at 2x scale for Telegram clarity
const (
	cardWidth     = 340
	cardHeight    = 170
	cardGap       = 28
	cardsPerRow   = 4
	margin        = 48
	titleHeight   = 120
	sectionHeader = 72
	footerHeight  = 80
	labelFontSz   = 24
	valueFontSz   = 44
	sectionFontSz = 30
	titleFontSz   = 40
)

// Light theme colors
var (
	bgColor      = color.RGBA{R: 245, G: 247, B: 250, A: 255}
	titleColor   = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	cardColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	borderColor  = color.RGBA{R: 203, G: 213, B: 225, A: 255}
	labelColor   = color.RGBA{R: 100, G: 116, B: 139, A: 255}
	valueColor   = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	footerColor  = color.RGBA{R: 100, G: 116, B: 139, A: 255}
	toneNeutral  = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	tonePositive = color.RGBA{R: 21, G: 128, B: 61, A: 255}
	toneWarning  = color.RGBA{R: 217, G: 119, B: 6, A: 255}
	toneNegative = color.RGBA{R: 220, G: 38, B: 38, A: 255}
)

func (t Tone) color() color.Color {
	switch t {
	case TonePositive:
		return tonePositive
	case ToneWarning:
		return toneWarning
	case ToneNegative:
		return toneNegative
	default:
		return toneNeutral
	}
}

// findFont locates a font file across Linux and Windows paths.
func findFont(bold bool) string {
	var candidates []string
	if runtime.GOOS == "windows" {
		winRoot := os.Getenv("WINDIR")
		if winRoot == "" {
			winRoot = `C:\Windows`
		}
		if bold {
			candidates = []string{winRoot + `\Fonts\arialbd.ttf`, winRoot + `\Fonts\Arial Bold.ttf`}
		} else {
			candidates = []string{winRoot + `\Fonts\arial.ttf`, winRoot + `\Fonts\Arial.ttf`}
		}
	} else {
		if bold {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			}
		} else {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/TTF/DejaVuSans.ttf",
			}
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return candidates[0]
}

// Size returns the canvas size RenderCards uses for sections.
func Size(sections []Section) (width, height int) {
	width = margin*2 + cardsPerRow*cardWidth + (cardsPerRow-1)*cardGap
	height = titleHeight + footerHeight
	for _, s := range sections {
		rows := (len(s.Cards) + cardsPerRow - 1) / cardsPerRow
		if rows < 1 {
			rows = 1
		}
		height += sectionHeader + rows*cardHeight + (rows-1)*cardGap + cardGap
	}
	return width, height
}

// RenderCards draws sections of KPI cards under title and returns PNG bytes.
func RenderCards(title string, sections []Section, generatedAt time.Time) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("no KPI sections to render")
	}

	boldFont := findFont(true)
	regularFont := findFont(false)

	width, height := Size(sections)
	dc := gg.NewContext(width, height)

	dc.SetColor(bgColor)
	dc.Clear()

	if err := dc.LoadFontFace(boldFont, titleFontSz); err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	dc.SetColor(titleColor)
	heading := fmt.Sprintf("%s  ·  %s", title, generatedAt.In(format.DisplayZone).Format(format.DateLayout))
	dc.DrawStringAnchored(heading, float64(width)/2, titleHeight/2, 0.5, 0.5)

	y := float64(titleHeight)
	for _, s := range sections {
		if err := dc.LoadFontFace(boldFont, sectionFontSz); err != nil {
			return nil, fmt.Errorf("failed to load bold font: %w", err)
		}
		dc.SetColor(titleColor)
		dc.DrawStringAnchored(s.Title, margin, y+sectionHeader/2, 0, 0.5)
		y += sectionHeader

		for i, card := range s.Cards {
			col := i % cardsPerRow
			row := i / cardsPerRow
			x := float64(margin + col*(cardWidth+cardGap))
			cy := y + float64(row*(cardHeight+cardGap))
			if err := drawCard(dc, card, x, cy, boldFont, regularFont); err != nil {
				return nil, err
			}
		}

		rows := (len(s.Cards) + cardsPerRow - 1) / cardsPerRow
		if rows < 1 {
			rows = 1
		}
		y += float64(rows*cardHeight+(rows-1)*cardGap) + cardGap
	}

	if err := dc.LoadFontFace(regularFont, 22); err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	dc.SetColor(footerColor)
	dc.DrawStringAnchored("farmops operations digest", float64(width)/2, float64(height)-footerHeight/2, 0.5, 0.5)

	return encodeImage(dc.Image())
}

func drawCard(dc *gg.Context, card Card, x, y float64, boldFont, regularFont string) error {
	dc.SetColor(cardColor)
	dc.DrawRoundedRectangle(x, y, cardWidth, cardHeight, 16)
	dc.Fill()

	dc.SetColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, cardWidth, cardHeight, 16)
	dc.Stroke()

	dc.SetColor(card.Tone.color())
	dc.DrawRectangle(x, y+16, 8, cardHeight-32)
	dc.Fill()

	if err := dc.LoadFontFace(regularFont, labelFontSz); err != nil {
		return fmt.Errorf("failed to load regular font: %w", err)
	}
	dc.SetColor(labelColor)
	dc.DrawString(card.Label, x+32, y+52)

	if err := dc.LoadFontFace(boldFont, valueFontSz); err != nil {
		return fmt.Errorf("failed to load bold font: %w", err)
	}
	dc.SetColor(valueColor)
	value := card.Value
	for w, _ := dc.MeasureString(value); w > cardWidth-48 && len([]rune(value)) > 4; w, _ = dc.MeasureString(value) {
		r := []rune(value)
		value = string(r[:len(r)-2]) + "…"
	}
	dc.DrawString(value, x+32, y+122)
	return nil
}

func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
