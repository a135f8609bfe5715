package leveling

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"nexus/bot/common"
	"nexus/domain/utils"
)

// TableColumn defines a column in the leaderboard table
type TableColumn struct {
	Header    string
	XPosition int
	ColorRGB  [3]float64
}

// TableRow represents a single row of data
type TableRow struct {
	Rank        int
	IsTop3      bool
	Data        []string
	Highlighted bool // the invoking user's own row
}

// TableStyle defines the visual style of the table
type TableStyle struct {
	Width              int
	Height             int
	Padding            int
	RowHeight          int
	BackgroundGradient bool
	HighlightColors    map[string][4]float64
}

// LeaderboardRow is one member on the rendered leaderboard
type LeaderboardRow struct {
	Rank  int
	Name  string
	Level int64
	XP    int64
	Self  bool
}

// RankCard is the data drawn on a member's rank card
type RankCard struct {
	Name      string
	Rank      int
	Level     int64
	XP        int64
	Threshold int64
}

// ImageGenerator renders leveling images
type ImageGenerator struct {
	style TableStyle
}

// NewImageGenerator creates a new image generator with default style
func NewImageGenerator() *ImageGenerator {
	return &ImageGenerator{
		style: TableStyle{
			Width:              380,
			Height:             320,
			Padding:            15,
			RowHeight:          26,
			BackgroundGradient: true,
			HighlightColors: map[string][4]float64{
				"self":   {0.35, 0.4, 0.95, 0.25},
				"gold":   {1, 0.84, 0, 0.1},
				"silver": {0.8, 0.8, 0.8, 0.08},
				"bronze": {0.8, 0.5, 0.2, 0.06},
			},
		},
	}
}

// GenerateLeaderboard renders the level leaderboard as a PNG
func (g *ImageGenerator) GenerateLeaderboard(entries []LeaderboardRow) ([]byte, error) {
	columns := []TableColumn{
		{Header: "#", XPosition: g.style.Padding, ColorRGB: [3]float64{0.85, 0.85, 0.9}},
		{Header: "User", XPosition: g.style.Padding + 30, ColorRGB: [3]float64{1.0, 1.0, 1.0}},
		{Header: "Level", XPosition: g.style.Padding + 200, ColorRGB: [3]float64{0.85, 1.0, 0.85}},
		{Header: "XP", XPosition: g.style.Padding + 270, ColorRGB: [3]float64{0.85, 0.85, 1.0}},
	}

	rows := make([]TableRow, len(entries))
	for i, entry := range entries {
		rows[i] = TableRow{
			Rank:   entry.Rank,
			IsTop3: i < 3,
			Data: []string{
				fmt.Sprintf("%d", entry.Rank),
				common.Truncate(entry.Name, 18),
				fmt.Sprintf("%d", entry.Level),
				utils.FormatShortNotation(entry.XP),
			},
			Highlighted: entry.Self,
		}
	}

	return g.generateTable(columns, rows)
}

// GenerateRankCard renders a single member's level, rank and progress bar
func (g *ImageGenerator) GenerateRankCard(card RankCard) ([]byte, error) {
	const width, height = 460, 140

	dc := gg.NewContext(width, height)
	g.drawBackground(dc, width, height)

	titleFace, err := loadFont(gobold.TTF, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	bodyFace, err := loadFont(gomono.TTF, 13)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	padding := float64(g.style.Padding)

	dc.SetFontFace(titleFace)
	dc.SetRGB(1, 1, 1)
	drawSharpText(dc, common.Truncate(card.Name, 24), padding, 35)

	if card.Rank > 0 {
		rankText := fmt.Sprintf("#%d", card.Rank)
		w, _ := dc.MeasureString(rankText)
		dc.SetRGB(1, 0.84, 0)
		drawSharpText(dc, rankText, width-padding-w, 35)
	}

	dc.SetFontFace(bodyFace)
	dc.SetRGB(0.85, 0.85, 0.9)
	drawSharpText(dc, fmt.Sprintf("Level %d", card.Level), padding, 70)
	xpText := fmt.Sprintf("%d / %d XP", card.XP, card.Threshold)
	w, _ := dc.MeasureString(xpText)
	drawSharpText(dc, xpText, width-padding-w, 70)

	// Progress bar track and fill
	barY, barH := 90.0, 18.0
	barW := float64(width) - 2*padding
	dc.SetRGBA(1, 1, 1, 0.12)
	dc.DrawRoundedRectangle(padding, barY, barW, barH, barH/2)
	dc.Fill()

	if fill := progressFraction(card.XP, card.Threshold) * barW; fill > 0 {
		dc.SetRGB(0.35, 0.4, 0.95)
		dc.DrawRoundedRectangle(padding, barY, fill, barH, barH/2)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// progressFraction returns xp/threshold clamped to [0, 1]
func progressFraction(xp, threshold int64) float64 {
	if threshold <= 0 || xp <= 0 {
		return 0
	}
	if xp >= threshold {
		return 1
	}
	return float64(xp) / float64(threshold)
}

func (g *ImageGenerator) drawBackground(dc *gg.Context, width, height int) {
	if !g.style.BackgroundGradient {
		dc.SetRGB(0.02, 0.02, 0.05)
		dc.Clear()
		return
	}
	for i := 0; i < height; i++ {
		t := float64(i) / float64(height)
		baseR := 0.02 + t*0.03
		baseG := 0.02 + t*0.05
		baseB := 0.05 + t*0.1

		// Subtle texture
		for x := 0; x < width; x++ {
			noise := (float64((x*i)%7) - 3.5) / 255.0
			dc.SetRGB(baseR+noise, baseG+noise, baseB+noise)
			dc.SetPixel(x, i)
		}
	}
}

// generateTable creates the actual image
func (g *ImageGenerator) generateTable(columns []TableColumn, rows []TableRow) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(rows)).
			Debug("Leaderboard image generation completed")
	}()

	// Header (25px) + header padding (30px) + rows + bottom padding (15px)
	height := 25 + 30 + (len(rows) * g.style.RowHeight) + 15
	if height < g.style.Height {
		height = g.style.Height
	}

	dc := gg.NewContext(g.style.Width, height)
	dc.SetFillRule(gg.FillRuleWinding)
	g.drawBackground(dc, g.style.Width, height)

	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	rankFace, err := loadFont(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	y := float64(25)

	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(g.style.Width), 20)
	dc.Fill()

	dc.SetRGB(1.0, 1.0, 1.0)
	for _, col := range columns {
		drawSharpText(dc, col.Header, float64(col.XPosition), y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(g.style.Width), y+8)
	dc.Stroke()

	if len(rows) == 0 {
		dc.SetRGB(0.7, 0.7, 0.7)
		text := "Nobody has earned XP yet"
		w, _ := dc.MeasureString(text)
		drawSharpText(dc, text, (float64(g.style.Width)-w)/2, y+40)
	}

	y += 30
	for i, row := range rows {
		highlightType := ""
		switch {
		case row.Highlighted:
			highlightType = "self"
		case row.IsTop3 && i == 0:
			highlightType = "gold"
		case row.IsTop3 && i == 1:
			highlightType = "silver"
		case row.IsTop3 && i == 2:
			highlightType = "bronze"
		}

		if color, ok := g.style.HighlightColors[highlightType]; ok {
			dc.SetRGBA(color[0], color[1], color[2], color[3])
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, y-15, float64(g.style.Width), float64(g.style.RowHeight))
		dc.Fill()

		if row.IsTop3 {
			var red, green, blue float64
			switch i {
			case 0:
				red, green, blue = 1, 0.84, 0 // Gold
			case 1:
				red, green, blue = 0.75, 0.75, 0.75 // Silver
			case 2:
				red, green, blue = 0.8, 0.5, 0.2 // Bronze
			}
			dc.SetRGB(red, green, blue)
			dc.DrawCircle(float64(g.style.Padding+3), y-4, 5)
			dc.Fill()

			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(rankFace)
			dc.DrawStringAnchored(fmt.Sprintf("%d", row.Rank), float64(g.style.Padding+3), y-5, 0.5, 0.4)
			dc.SetFontFace(face)
		} else {
			dc.SetRGB(columns[0].ColorRGB[0], columns[0].ColorRGB[1], columns[0].ColorRGB[2])
			drawSharpText(dc, row.Data[0], float64(columns[0].XPosition), y)
		}

		for j := 1; j < len(columns) && j < len(row.Data); j++ {
			col := columns[j]
			dc.SetRGB(col.ColorRGB[0], col.ColorRGB[1], col.ColorRGB[2])
			drawSharpText(dc, row.Data[j], float64(col.XPosition), y)
		}

		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// drawSharpText draws text with enhanced sharpness using multiple rendering passes
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	// A faint shadow improves perceived sharpness
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	return face, nil
}
