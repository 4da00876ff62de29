package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/model"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Layout of the 2.13" panel, in pixels.
const (
	TitleMaxLength       = 15
	DestinationMaxLength = 25

	lineX        = 0
	destinationX = 40
	minutesX     = 190
	firstRowY    = 35
	rowStep      = 18
	separatorY   = 24

	qrSize = 50
	qrX    = 205
	qrY    = 75
)

var palette = color.Palette{color.White, color.Black}

// NewCanvas returns a blank 1-bit frame the size of the panel.
func NewCanvas() *image.Paletted {
	return image.NewPaletted(image.Rect(0, 0, Width, Height), palette)
}

// Board draws departure frames and pushes them to a Device. The device is
// acquired on the first render; Close releases it.
type Board struct {
	Device   Device
	Logger   *dlog.Logger
	Clock    model.Clock
	Location *time.Location
	// Host returns the address shown in the editor QR code. Defaults to
	// LocalIP.
	Host func() string

	mu       sync.Mutex
	acquired bool
}

func (b *Board) RenderDepartures(departures []model.Departure, cfg config.Snapshot) error {
	host := LocalIP
	if b.Host != nil {
		host = b.Host
	}

	port := cfg.EditorPort
	if port == 0 {
		port = config.DefaultEditorPort
	}

	editorURL := EditorURL(host(), port)
	b.Logger.Debugf("editor URL: %s", editorURL)

	img, err := ComposeDepartures(departures, cfg.StopTitle, b.Clock.Now().In(b.Location), editorURL)
	if err != nil {
		return err
	}

	return b.show(img)
}

func (b *Board) RenderMessage(text string) error {
	return b.show(ComposeMessage(text))
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.acquired {
		return nil
	}
	b.acquired = false

	if err := b.Device.Release(); err != nil {
		return errors.Wrap(err, "cannot release display")
	}

	return nil
}

func (b *Board) show(img image.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.acquired {
		if err := b.Device.Acquire(); err != nil {
			return errors.Wrap(err, "cannot acquire display")
		}
		b.acquired = true
	}

	if err := b.Device.Clear(); err != nil {
		return errors.Wrap(err, "cannot clear display")
	}

	if err := b.Device.Push(img); err != nil {
		return errors.Wrap(err, "cannot push frame to display")
	}

	return nil
}

// ComposeDepartures lays out the clock, the stop title, one row per
// departure and the QR code linking to editorURL.
func ComposeDepartures(departures []model.Departure, title string, now time.Time, editorURL string) (*image.Paletted, error) {
	canvas := NewCanvas()
	face := basicfont.Face7x13

	clock := now.Format("15:04:05")
	drawText(canvas, face, Width-measure(face, clock), 0, clock)

	drawText(canvas, face, 0, 3, TruncateText(title, TitleMaxLength))

	for x := 0; x < Width; x++ {
		canvas.Set(x, separatorY, color.Black)
	}

	y := firstRowY
	for _, d := range departures {
		drawText(canvas, face, lineX, y, "["+d.Line+"]")
		drawText(canvas, face, destinationX, y, TruncateText(d.Destination, DestinationMaxLength))
		drawText(canvas, face, minutesX, y, fmt.Sprintf("%d'", d.Minutes))
		y += rowStep
	}

	qr, err := qrcode.New(editorURL, qrcode.Low)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot encode QR code for %s", editorURL)
	}

	code := qr.Image(qrSize)
	draw.Draw(canvas, image.Rect(qrX, qrY, qrX+qrSize, qrY+qrSize), code, code.Bounds().Min, draw.Src)

	return canvas, nil
}

// ComposeMessage centres text on a blank frame.
func ComposeMessage(text string) *image.Paletted {
	canvas := NewCanvas()
	face := basicfont.Face7x13

	h := face.Metrics().Height.Ceil()
	drawText(canvas, face, (Width-measure(face, text))/2, (Height-h)/2, text)

	return canvas
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawText places s with its top-left corner at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
