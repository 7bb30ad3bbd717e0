package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/typeset/internal/config"
	"github.com/dshills/typeset/internal/obs"
	"github.com/dshills/typeset/internal/raster"
	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/buffer"
	"github.com/dshills/typeset/internal/text/shape"
)

// wheelRows is how many visual rows one wheel tick scrolls.
const wheelRows = 3

// app owns the screen, the buffer, and the event loop. The terminal renders
// on the cell grid, so the buffer runs with one-pixel metrics where a pixel
// is a cell: every glyph advances by one cell and every row is one cell tall.
type app struct {
	screen tcell.Screen
	buf    *buffer.Buffer
	cache  *raster.Cache
	log    *obs.Logger

	fg attrs.Color
	bg attrs.Color

	dragging bool
	quit     atomic.Bool
}

func newApp(cfg config.Config, log *obs.Logger) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	fonts, err := shape.NewFonts(shape.NewFixedAdvanceFace("Cell", 1))
	if err != nil {
		screen.Fini()
		return nil, err
	}

	buf := buffer.New(shape.NewTextShaper(fonts), buffer.NewMetrics(1, 1),
		buffer.WithLogger(log),
		buffer.WithInsertPolicy(cfg.InsertPolicy()))

	w, h := screen.Size()
	buf.SetSize(w, h)

	return &app{
		screen: screen,
		buf:    buf,
		cache:  raster.NewCache(fonts),
		log:    log,
		fg:     cfg.Foreground(),
		bg:     cfg.Background(),
	}, nil
}

// OpenFile loads a file into the buffer.
func (a *app) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	a.buf.SetText(string(data), attrs.New())
	a.log.Info("opened %s (%d bytes)", path, len(data))
	return nil
}

// ApplyConfig applies a reloaded configuration. Only theme colors take
// effect live; metrics and input policy apply on restart.
func (a *app) ApplyConfig(cfg config.Config) {
	a.fg = cfg.Foreground()
	a.bg = cfg.Background()
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Quit asks the event loop to exit after the current event.
func (a *app) Quit() {
	a.quit.Store(true)
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Shutdown restores the terminal. Safe to call after Run returns.
func (a *app) Shutdown() {
	a.screen.Fini()
}

// Run drives the event loop until quit.
func (a *app) Run() error {
	a.render()

	for !a.quit.Load() {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if !a.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventResize:
			w, h := ev.Size()
			a.buf.SetSize(w, h)
			a.buf.Redraw = true
			a.screen.Sync()
		case *tcell.EventInterrupt:
			a.buf.Redraw = true
		}

		a.afterEvent()
	}
	return nil
}

// handleKey maps a key event to a buffer action. Returns false to quit.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return false
	case tcell.KeyLeft:
		a.buf.Perform(buffer.Action{Op: buffer.OpLeft})
	case tcell.KeyRight:
		a.buf.Perform(buffer.Action{Op: buffer.OpRight})
	case tcell.KeyUp:
		a.buf.Perform(buffer.Action{Op: buffer.OpUp})
	case tcell.KeyDown:
		a.buf.Perform(buffer.Action{Op: buffer.OpDown})
	case tcell.KeyHome:
		a.buf.Perform(buffer.Action{Op: buffer.OpHome})
	case tcell.KeyEnd:
		a.buf.Perform(buffer.Action{Op: buffer.OpEnd})
	case tcell.KeyPgUp:
		a.buf.Perform(buffer.Action{Op: buffer.OpPageUp})
	case tcell.KeyPgDn:
		a.buf.Perform(buffer.Action{Op: buffer.OpPageDown})
	case tcell.KeyEnter:
		a.buf.Perform(buffer.Action{Op: buffer.OpEnter})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.buf.Perform(buffer.Action{Op: buffer.OpBackspace})
	case tcell.KeyDelete:
		a.buf.Perform(buffer.Action{Op: buffer.OpDelete})
	case tcell.KeyTab:
		a.buf.Perform(buffer.Insert('\t'))
	case tcell.KeyRune:
		a.buf.Perform(buffer.Insert(ev.Rune()))
	}
	return true
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()

	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.buf.Perform(buffer.Scroll(-wheelRows))
	case ev.Buttons()&tcell.WheelDown != 0:
		a.buf.Perform(buffer.Scroll(wheelRows))
	case ev.Buttons()&tcell.Button1 != 0:
		if a.dragging {
			a.buf.Perform(buffer.Drag(x, y))
		} else {
			a.buf.Perform(buffer.Click(x, y))
			a.dragging = true
		}
	default:
		a.dragging = false
	}
}

// afterEvent runs the shape pipeline and redraws when needed.
func (a *app) afterEvent() {
	if a.buf.CursorMoved {
		a.buf.ShapeUntilCursor()
		a.buf.CursorMoved = false
	} else {
		a.buf.ShapeUntilScroll()
	}

	if a.buf.Redraw {
		a.render()
		a.buf.Redraw = false
	}
}

// render paints the visible rows onto the cell grid. Selection and caret
// placement come from Draw; the cell face has no pixels, so the sink only
// ever receives highlight rectangles and the caret bar.
func (a *app) render() {
	base := tcell.StyleDefault.
		Foreground(toTcell(a.fg)).
		Background(toTcell(a.bg))
	a.screen.Fill(' ', base)

	selected := make(map[[2]int]bool)
	a.screen.HideCursor()
	a.buf.Draw(a.cache, a.fg, buffer.SinkFunc(func(x, y, w, h int, color attrs.Color) {
		if color.A() == 0xFF && w == 1 && h == 1 {
			a.screen.ShowCursor(x, y)
			return
		}
		for cy := y; cy < y+h; cy++ {
			for cx := x; cx < x+w; cx++ {
				selected[[2]int{cx, cy}] = true
			}
		}
	}))

	selStyle := base.Reverse(true)
	it := a.buf.LayoutRuns()
	for run, ok := it.Next(); ok; run, ok = it.Next() {
		// Metrics are 1/1, so LineY minus the font size is the row.
		row := run.LineY - 1
		for _, glyph := range run.Glyphs {
			style := base
			if glyph.HasColor {
				style = style.Foreground(toTcell(glyph.Color))
			}
			if selected[[2]int{glyph.XInt, row}] {
				style = style.Reverse(true)
			}
			a.screen.SetContent(glyph.XInt, row, glyph.CacheKey.Rune, nil, style)
		}
		if len(run.Glyphs) == 0 && selected[[2]int{0, row}] {
			a.screen.SetContent(0, row, ' ', nil, selStyle)
		}
	}

	a.screen.Show()
}

func toTcell(c attrs.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}
