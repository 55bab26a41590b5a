package ui

import (
	"image/color"
	"strings"

	"atc-grid/internal/ui/prompt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const lineHeight = 16

// Console is a one-line command prompt with a short scrollback of replies
// above it. Submitted lines go to OnSubmit; whatever it returns is shown.
type Console struct {
	Text     string
	IsActive bool
	X, Y     int
	Width    int
	Height   int
	OnSubmit func(string) (string, bool)

	lines    []consoleLine
	maxLines int
	history  []string
	recall   int
}

type consoleLine struct {
	text  string
	isErr bool
}

func NewConsole(x, y, width, height int, onSubmit func(string) (string, bool)) *Console {
	return &Console{
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		OnSubmit: onSubmit,
		maxLines: 6,
	}
}

func (c *Console) Update() {
	if !c.IsActive {
		return
	}

	c.Text += string(ebiten.AppendInputChars(nil))

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		c.Text = prompt.Backspace(c.Text)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && c.recall > 0 {
		c.recall--
		c.Text = c.history[c.recall]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		c.Text = ""
		c.IsActive = false
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		cmd := strings.TrimSpace(c.Text)
		c.Text = ""
		c.IsActive = false
		if cmd == "" {
			return
		}
		c.history = append(c.history, cmd)
		c.recall = len(c.history)
		c.Print("> "+cmd, false)
		if c.OnSubmit != nil {
			if reply, ok := c.OnSubmit(cmd); reply != "" {
				for _, l := range strings.Split(reply, "\n") {
					c.Print(l, !ok)
				}
			}
		}
	}
}

// Print appends a line to the scrollback.
func (c *Console) Print(text string, isErr bool) {
	c.lines = append(c.lines, consoleLine{text: text, isErr: isErr})
	if len(c.lines) > c.maxLines {
		c.lines = c.lines[len(c.lines)-c.maxLines:]
	}
}

func (c *Console) Draw(screen *ebiten.Image) {
	for i, l := range c.lines {
		y := c.Y - (len(c.lines)-i)*lineHeight - 4
		if l.isErr {
			vector.DrawFilledRect(screen, float32(c.X), float32(y), 3, lineHeight-2, color.RGBA{255, 80, 80, 255}, false)
		}
		ebitenutil.DebugPrintAt(screen, l.text, c.X+6, y)
	}

	bgColor := color.RGBA{50, 50, 50, 255}
	if c.IsActive {
		bgColor = color.RGBA{80, 80, 80, 255}
	}
	vector.DrawFilledRect(screen, float32(c.X), float32(c.Y), float32(c.Width), float32(c.Height), bgColor, false)
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.Width), float32(c.Height), 1, color.White, false)

	text := c.Text
	if c.IsActive {
		text += "_"
	} else if text == "" {
		text = "press / for commands"
	}
	ebitenutil.DebugPrintAt(screen, text, c.X+5, c.Y+(c.Height-lineHeight)/2)
}

func (c *Console) Contains(x, y int) bool {
	return x >= c.X && x <= c.X+c.Width &&
		y >= c.Y && y <= c.Y+c.Height
}
