package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/park285/Cheese-TicTacToe/internal/session"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellSize      = 120
	boardPx       = cellSize * 3
	sideMargin    = 24
	topMargin     = 72
	bottomMargin  = 24
	captionHeight = 32
	captionRadius = 10
	captionPadX   = 20
	markInset     = 26
	strokeWidth   = 12
)

var (
	backgroundColor = color.RGBA{R: 20, G: 22, B: 33, A: 255}
	panelColor      = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	shadowColor     = color.NRGBA{0, 0, 0, 50}
	textPrimary     = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	textGood        = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
	textBad         = color.NRGBA{R: 255, G: 95, B: 95, A: 255}
)

// BoardPNG rasterises the board of v with the outcome line as caption.
func BoardPNG(ctx context.Context, v View) ([]byte, error) {
	if !v.HasGame {
		return nil, fmt.Errorf("no game to render")
	}

	totalW := boardPx + sideMargin*2
	totalH := boardPx + topMargin + bottomMargin
	img := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boardImg, err := rasterizeSVG(boardSVG(v), boardPx)
	if err != nil {
		return nil, err
	}
	origin := image.Pt(sideMargin, topMargin)
	imagedraw.Draw(img, image.Rect(origin.X, origin.Y, origin.X+boardPx, origin.Y+boardPx), boardImg, image.Point{}, imagedraw.Over)

	drawCaption(img, v, image.Rect(sideMargin, (topMargin-captionHeight)/2, sideMargin+boardPx, (topMargin+captionHeight)/2))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveBoardPNG writes the board image under dir and returns the file path.
func SaveBoardPNG(ctx context.Context, dir string, v View, now time.Time) (string, error) {
	data, err := BoardPNG(ctx, v)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	id := v.Header.GameID
	if id == "" {
		id = "board"
	}
	name := fmt.Sprintf("%s-%s.png", sanitizeName(id), now.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write board png: %w", err)
	}
	return path, nil
}

func boardSVG(v View) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, boardPx, boardPx, boardPx, boardPx)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" rx="14" fill="#1C1F2E"/>`, boardPx, boardPx)
	for i := 1; i < 3; i++ {
		p := i * cellSize
		fmt.Fprintf(&sb, `<line x1="%d" y1="12" x2="%d" y2="%d" stroke="#3A3F5C" stroke-width="6" stroke-linecap="round"/>`, p, p, boardPx-12)
		fmt.Fprintf(&sb, `<line x1="12" y1="%d" x2="%d" y2="%d" stroke="#3A3F5C" stroke-width="6" stroke-linecap="round"/>`, p, boardPx-12, p)
	}
	for _, c := range v.Cells {
		x := (c.Index % 3) * cellSize
		y := (c.Index / 3) * cellSize
		switch c.Mark {
		case tttdto.MarkX:
			a, b := markInset, cellSize-markInset
			fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#4FC3F7" stroke-width="%d" stroke-linecap="round"/>`, x+a, y+a, x+b, y+b, strokeWidth)
			fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#4FC3F7" stroke-width="%d" stroke-linecap="round"/>`, x+b, y+a, x+a, y+b, strokeWidth)
		case tttdto.MarkO:
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="none" stroke="#FF8A65" stroke-width="%d"/>`, x+cellSize/2, y+cellSize/2, cellSize/2-markInset, strokeWidth)
		}
	}
	sb.WriteString(`</svg>`)
	return []byte(sb.String())
}

func rasterizeSVG(svg []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, imagedraw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

func drawCaption(img *image.RGBA, v View, rect image.Rectangle) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face}

	text := v.Outcome.Text
	if text == "" {
		text = "vs " + v.Header.BotName
	}
	text = truncateWithEllipsis(face, text, rect.Dx()-captionPadX*2)

	clr := textPrimary
	switch v.Outcome.Tone {
	case session.ToneGood:
		clr = textGood
	case session.ToneBad:
		clr = textBad
	}

	drawRoundedPanel(img, rect.Add(image.Pt(0, 4)), captionRadius, shadowColor)
	drawRoundedPanel(img, rect, captionRadius, panelColor)
	drawCenteredString(drawer, rect, text, clr)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	const ellipsis = "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	radius = min(max(radius, 0), rect.Dx()/2, rect.Dy()/2)
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}
	// the inner cross is drawn once; the corner discs fill the rest
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, c := range corners {
		drawQuarterDisc(img, c, radius, clr, rect)
	}
}

// drawQuarterDisc fills the disc around center, clipped to the corner
// region outside the already-filled cross.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius int, clr color.Color, rect image.Rectangle) {
	vert := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	horiz := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			p := image.Pt(center.X+x, center.Y+y)
			if x*x+y*y > r2 || !p.In(rect) || p.In(vert) || p.In(horiz) {
				continue
			}
			blendPixel(img, p.X, p.Y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	inv := 65535 - sa
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((sr + uint32(dst.R)*0x101*inv/65535) >> 8),
		G: uint8((sg + uint32(dst.G)*0x101*inv/65535) >> 8),
		B: uint8((sb + uint32(dst.B)*0x101*inv/65535) >> 8),
		A: uint8((sa + uint32(dst.A)*0x101*inv/65535) >> 8),
	})
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
