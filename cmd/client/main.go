package main

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"atc-grid/internal/app"
	"atc-grid/internal/config"
	"atc-grid/internal/game/aircraft"
	"atc-grid/internal/game/event"
	"atc-grid/internal/logging"
	"atc-grid/internal/ui"
	"atc-grid/pkg/types"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/labstack/gommon/log"
)

const radioLogLines = 8

var (
	gridColor    = color.RGBA{0, 70, 0, 255}
	edgeColor    = color.RGBA{0, 140, 0, 255}
	airportColor = color.RGBA{0, 255, 255, 255}
	routeColor   = color.RGBA{100, 100, 255, 255}
	urgentColor  = color.RGBA{255, 120, 120, 255}
)

// Camera looks at world point (X, Y) from the centre of the screen. World
// Y grows upwards, screen Y downwards.
type Camera struct {
	X, Y                 float64
	PanStartX, PanStartY int
	Scale                float64
}

type Game struct {
	width, height int
	dt            float64
	camera        *Camera
	app           *app.App
	lg            *log.Logger

	selectedID   types.AirplaneID
	commandInput *ui.Console
}

func NewGame(a *app.App, lg *log.Logger, screenWidth, screenHeight int) *Game {
	game := &Game{
		app:    a,
		lg:     lg,
		dt:     1.0 / float64(a.Config.TickRate),
		camera: &Camera{Scale: 1.0},
		width:  screenWidth,
		height: screenHeight,
	}

	game.commandInput = ui.NewConsole(10, screenHeight-40, screenWidth/2, 30, game.execute)
	return game
}

func (g *Game) Update() error {
	// Keys that close the console must not also act on the game.
	typing := g.commandInput.IsActive
	g.commandInput.Update()
	g.handleInput(typing)

	if err := g.app.Tick(g.dt); err != nil {
		g.lg.Errorf("tick: %v", err)
		return err
	}
	g.drainEvents()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})

	g.drawAirspace(screen)
	for _, ac := range g.app.Sim.Aircraft() {
		g.drawAirplane(screen, ac)
	}

	g.drawUI(screen)
	ebitenutil.DebugPrint(screen, "FPS: "+strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

// drainEvents echoes arrivals and losses into the console.
func (g *Game) drainEvents() {
	for _, e := range g.app.Events.Get() {
		switch e := e.(type) {
		case event.AirplaneLanded:
			g.commandInput.Print(fmt.Sprintf("%s landed", e.ID), false)
		case event.AirplaneLost:
			g.commandInput.Print(fmt.Sprintf("%s lost near %s", e.ID, e.Location), true)
			if g.selectedID == e.ID {
				g.selectedID = 0
			}
		}
	}
}

func (g *Game) execute(cmd string) (string, bool) {
	if id, ok := strings.CutPrefix(strings.ToUpper(cmd), "SELECT "); ok {
		return g.selectByName(strings.TrimSpace(id))
	}
	reply, err := g.app.Execute(cmd)
	if err != nil {
		g.lg.Warnf("command %q: %v", cmd, err)
		return err.Error(), false
	}
	return reply, true
}

// run executes cmd on behalf of a key binding and echoes the reply.
func (g *Game) run(cmd string) {
	reply, ok := g.execute(cmd)
	g.commandInput.Print(reply, !ok)
}

func (g *Game) selectByName(name string) (string, bool) {
	for _, ac := range g.app.Sim.Aircraft() {
		if ac.ID.String() == name {
			g.selectedID = ac.ID
			return "selected " + name, true
		}
	}
	return name + " not found", false
}

func (g *Game) handleInput(typing bool) {
	if !typing {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeySlash):
			g.commandInput.IsActive = true
			return
		case inpututil.IsKeyJustPressed(ebiten.KeyEnter) && !g.app.Running():
			g.run("START")
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.app.Running():
			g.selectedID = 0
			g.run("STOP")
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()

		if g.commandInput.Contains(x, y) {
			g.commandInput.IsActive = true
			return
		}
		g.commandInput.IsActive = false

		g.selectedID = 0
		for _, ac := range g.app.Sim.Aircraft() {
			sx, sy := g.worldToScreen(ac.Position.X, ac.Position.Y)
			half := ac.Scale * g.camera.Scale
			if math.Abs(float64(x)-sx) <= half && math.Abs(float64(y)-sy) <= half {
				g.selectedID = ac.ID
				g.lg.Debugf("Selected airplane: %s", ac.ID)
				break
			}
		}
	}

	_, wy := ebiten.Wheel()
	if wy != 0 {
		cursorX, cursorY := ebiten.CursorPosition()
		worldX, worldY := g.screenToWorld(float64(cursorX), float64(cursorY))

		scale := g.camera.Scale
		if wy > 0 {
			scale *= 1.1
		} else {
			scale /= 1.1
		}
		g.camera.Scale = math.Max(0.25, math.Min(4.0, scale))

		newWorldX, newWorldY := g.screenToWorld(float64(cursorX), float64(cursorY))
		g.camera.X -= newWorldX - worldX
		g.camera.Y -= newWorldY - worldY
	}

	// Right mouse button for pan
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		dx, dy := ebiten.CursorPosition()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		} else {
			g.camera.X -= float64(dx-g.camera.PanStartX) / g.camera.Scale
			g.camera.Y += float64(dy-g.camera.PanStartY) / g.camera.Scale
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		}
	}
}

func (g *Game) screenToWorld(sx, sy float64) (wx, wy float64) {
	wx = (sx-float64(g.width)/2)/g.camera.Scale + g.camera.X
	wy = -(sy-float64(g.height)/2)/g.camera.Scale + g.camera.Y
	return
}

func (g *Game) worldToScreen(wx, wy float64) (sx, sy float64) {
	sx = (wx-g.camera.X)*g.camera.Scale + float64(g.width)/2
	sy = -(wy-g.camera.Y)*g.camera.Scale + float64(g.height)/2
	return
}

// tileRect returns the screen rectangle covered by tile t.
func (g *Game) tileRect(t types.Tile) (x, y, size float32) {
	ts := g.app.Sim.TileSize
	p := t.Point(ts)
	sx, sy := g.worldToScreen(p.X-ts/2, p.Y+ts/2)
	return float32(sx), float32(sy), float32(ts * g.camera.Scale)
}

func (g *Game) drawAirspace(screen *ebiten.Image) {
	grid := g.app.Sim.Grid
	for x := grid.Width.Min; x <= grid.Width.Max; x++ {
		for y := grid.Height.Min; y <= grid.Height.Max; y++ {
			t := types.NewTile(x, y)
			rx, ry, size := g.tileRect(t)
			c := gridColor
			if grid.OnEdge(t) {
				c = edgeColor
			}
			vector.StrokeRect(screen, rx, ry, size, size, 1, c, false)
		}
	}

	ap := grid.Airport
	rx, ry, size := g.tileRect(ap.Tile)
	vector.DrawFilledRect(screen, rx+size/4, ry+size/4, size/2, size/2, airportColor, false)
	ebitenutil.DebugPrintAt(screen, ap.ID, int(rx), int(ry+size))
}

func (g *Game) drawAirplane(screen *ebiten.Image, ac *aircraft.Airplane) {
	sp := ac.Sprite()
	sx, sy := g.worldToScreen(sp.Position.X, sp.Position.Y)
	half := float32(sp.Scale * g.camera.Scale)

	if g.selectedID == ac.ID {
		px, py := sx, sy
		for _, wp := range ac.FlightPlan.Waypoints() {
			p := wp.Point(g.app.Sim.TileSize)
			nx, ny := g.worldToScreen(p.X, p.Y)
			vector.StrokeLine(screen, float32(px), float32(py), float32(nx), float32(ny), 1, routeColor, false)
			px, py = nx, ny
		}
		vector.StrokeRect(screen, float32(sx)-half-3, float32(sy)-half-3, 2*half+6, 2*half+6, 1, color.White, false)
	}

	vector.DrawFilledRect(screen, float32(sx)-half, float32(sy)-half, 2*half, 2*half, sp.Color, false)

	tag := fmt.Sprintf("%s\n%s %d", ac.ID, aircraft.StateStringMap[ac.State], ac.FlightPlan.Len())
	ebitenutil.DebugPrintAt(screen, tag, int(sx)+int(half)+4, int(sy)-20)
}

func (g *Game) drawUI(screen *ebiten.Image) {
	g.commandInput.Draw(screen)

	sim := g.app.Sim
	st := sim.Stats()
	status := "MENU: press ENTER to start"
	if g.app.Running() {
		status = fmt.Sprintf("T+%.1fs  next spawn %.1fs  airborne %d  landed %d  lost %d",
			sim.GameTimeSeconds, sim.SpawnTimer().Remaining().Seconds(), len(sim.Airplanes), st.Landed, st.Lost)
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 20)

	selected := "Selected: None"
	if ac, ok := sim.Airplane(g.selectedID); ok {
		selected = fmt.Sprintf("Selected: %s at %s, %d to go", ac.ID, ac.Tile(sim.TileSize), ac.FlightPlan.Len())
	}
	ebitenutil.DebugPrintAt(screen, selected, 10, 36)

	radio := sim.RadioLog
	if len(radio) > radioLogLines {
		radio = radio[len(radio)-radioLogLines:]
	}
	x := g.width - 360
	for i, msg := range radio {
		y := 20 + i*16
		if msg.IsUrgent {
			vector.DrawFilledRect(screen, float32(x-6), float32(y+2), 3, 12, urgentColor, false)
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%6.1f %s %s", msg.GameTimeSeconds, msg.Callsign, msg.Message), x, y)
	}
}

func main() {
	cfg, err := config.Load(log.New("config"))
	if err != nil {
		log.Fatal(err)
	}

	sink, err := logging.NewSink(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Close()
	lg := sink.Logger("client")

	a, err := app.New(cfg, sink)
	if err != nil {
		lg.Fatal(err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			lg.Errorf("close: %v", err)
		}
	}()
	if err := a.Start(app.MenuState); err != nil {
		lg.Fatal(err)
	}

	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowTitle("ATC Grid")
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(cfg.TickRate)

	game := NewGame(a, lg, 1024, 768)
	if err := ebiten.RunGame(game); err != nil {
		lg.Errorf("run: %v", err)
	}
}
