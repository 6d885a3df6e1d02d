// Command maskterm is a terminal frontend for the maskedit core: it drives
// the input engine from terminal mouse events, renders the mask view with
// half-block cells and exercises undo/redo, zoom/pan and PNG export.
//
// Usage:
//
//	maskterm                  # blank 512x512 mask
//	maskterm -image photo.png # mask over a base image
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maskedit/maskedit"
)

const frameInterval = time.Second / 30

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("61")).
			Padding(0, 1)
	faultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)
)

func main() {
	var (
		imagePath = flag.String("image", "", "base image to mask (png or jpeg)")
		width     = flag.Int("width", 512, "mask width when no image is given")
		height    = flag.Int("height", 512, "mask height when no image is given")
		logPath   = flag.String("log", "", "write diagnostics to this file")
	)
	flag.Parse()

	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		maskedit.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ed := maskedit.NewEditor(maskedit.WithStamper(maskedit.NewParallelStamper(0)))
	if *imagePath != "" {
		img, err := loadImage(*imagePath)
		if err != nil {
			log.Fatal(err)
		}
		if err := ed.LoadImage(img); err != nil {
			log.Fatal(err)
		}
	} else {
		if err := ed.Load(*width, *height); err != nil {
			log.Fatal(err)
		}
	}

	p := tea.NewProgram(
		newModel(ed),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// frameMsg is one display frame tick.
type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type model struct {
	ed    *maskedit.Editor
	store *maskedit.FileStore

	width  int // terminal columns
	height int // terminal rows

	cursor      maskedit.CursorState
	needsRedraw bool
	frame       string
	status      string
	fault       bool
}

func newModel(ed *maskedit.Editor) *model {
	m := &model{
		ed:          ed,
		store:       maskedit.NewFileStore(),
		needsRedraw: true,
		status:      "left-drag paints; see ? in status for keys",
	}
	ed.OnPaint(func(image.Rectangle) { m.needsRedraw = true })
	ed.OnCursor(func(c maskedit.CursorState) {
		m.cursor = c
		m.needsRedraw = true
	})
	return m
}

func (m *model) Init() tea.Cmd {
	return frameTick()
}

// canvasRows returns the terminal rows available for the canvas
// (everything but the status line).
func (m *model) canvasRows() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// One cell is one column wide and two pixel rows tall.
		m.ed.SetContainerSize(float64(m.width), float64(m.canvasRows()*2))
		m.needsRedraw = true
		return m, nil

	case frameMsg:
		m.ed.Scheduler().RunFrame()
		if m.needsRedraw {
			m.render()
			m.needsRedraw = false
		}
		return m, frameTick()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	// Cell center in container pixel space.
	sx := float64(msg.X) + 0.5
	sy := float64(msg.Y)*2 + 1

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ed.Viewport().ZoomAt(sx, sy, 1.1)
		return
	case msg.Button == tea.MouseButtonWheelDown:
		m.ed.Viewport().ZoomAt(sx, sy, 1/1.1)
		return
	}

	ev := maskedit.PointerEvent{
		Device: maskedit.Mouse,
		SX:     sx,
		SY:     sy,
		Time:   time.Now(),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		ev.Action = maskedit.PointerDown
	case tea.MouseActionMotion:
		ev.Action = maskedit.PointerMove
	case tea.MouseActionRelease:
		ev.Action = maskedit.PointerUp
	default:
		return
	}
	m.ed.Pointers().Handle(ev)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "b":
		m.ed.SetBrushMode(maskedit.Paint)
		m.setStatus("paint tool")
	case "e":
		m.ed.SetBrushMode(maskedit.Erase)
		m.setStatus("erase tool")
	case "[":
		m.ed.AdjustBrushSize(-2)
		m.setStatus(fmt.Sprintf("brush %dpx", m.ed.BrushSize()))
	case "]":
		m.ed.AdjustBrushSize(2)
		m.setStatus(fmt.Sprintf("brush %dpx", m.ed.BrushSize()))
	case "u":
		if m.ed.Undo() {
			m.setStatus("undo")
		}
	case "r":
		if m.ed.Redo() {
			m.setStatus("redo")
		}
	case "c":
		if m.ed.ClearMask() {
			m.setStatus("mask cleared")
		}
	case "f":
		m.ed.Viewport().FitContain()
		m.setStatus("fit")
	case "+", "=":
		m.zoomCenter(1.25)
	case "-":
		m.zoomCenter(1 / 1.25)
	case "left":
		m.ed.Viewport().Pan(16, 0)
	case "right":
		m.ed.Viewport().Pan(-16, 0)
	case "up":
		m.ed.Viewport().Pan(0, 16)
	case "down":
		m.ed.Viewport().Pan(0, -16)
	case "x":
		m.export()
	}
	return m, nil
}

func (m *model) zoomCenter(factor float64) {
	m.ed.Viewport().ZoomAt(float64(m.width)/2, float64(m.canvasRows()), factor)
}

func (m *model) export() {
	res, err := m.ed.ExportPNG()
	if err != nil {
		m.setStatus("export failed: " + err.Error())
		return
	}
	id := m.store.Store(res.PNG, res.Metadata)
	name := fmt.Sprintf("mask-%s.png", id[:8])
	if err := os.WriteFile(name, res.PNG, 0o644); err != nil {
		m.setStatus("export failed: " + err.Error())
		return
	}
	m.fault = !res.Metadata.IsBinary
	m.setStatus(fmt.Sprintf("exported %s (%.1f%% masked, staged %s)",
		name, res.Metadata.MaskPercentage, id[:8]))
}

func (m *model) setStatus(s string) {
	m.status = s
	m.needsRedraw = true
}

// render rasterizes the current view into half-block cells. Each cell
// shows two vertically stacked pixels: foreground colors the upper half
// block, background the lower.
func (m *model) render() {
	rows := m.canvasRows()
	if m.width <= 0 || rows <= 0 {
		m.frame = ""
		return
	}

	img := maskedit.RenderPreview(
		m.ed.Mask(), m.ed.Base(), m.ed.Viewport(), m.cursor,
		m.width, rows*2,
	)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < m.width; x++ {
			tr, tg, tb, _ := img.At(x, y*2).RGBA()
			br, bg, bb, _ := img.At(x, y*2+1).RGBA()
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(tr, tg, tb))).
				Background(lipgloss.Color(hexColor(br, bg, bb))).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	m.frame = b.String()
}

func hexColor(r, g, b uint32) string {
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func (m *model) View() string {
	hs := m.ed.HistoryState()
	status := fmt.Sprintf(" %s | %dpx | strokes %d | undo:%v redo:%v | %s | b/e tool ['] size u/r undo/redo c clear f fit +/- zoom x export q quit",
		m.ed.BrushMode(), m.ed.BrushSize(), hs.StrokeCount, hs.CanUndo, hs.CanRedo, m.status)

	style := statusStyle
	if m.fault {
		style = faultStyle
	}
	return m.frame + style.Width(max(m.width, 0)).Render(status)
}
