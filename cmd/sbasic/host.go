package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
	"github.com/sb/SmallBasic-Online-sub000/vm"
)

// ---------------------------------------------------------------------------
// Console host: drives an engine against a terminal
// ---------------------------------------------------------------------------

// consoleColors maps text window colors to ANSI palette indices.
var consoleColors = map[string]lipgloss.Color{
	"Black": "0", "DarkRed": "1", "DarkGreen": "2", "DarkYellow": "3",
	"DarkBlue": "4", "DarkMagenta": "5", "DarkCyan": "6", "Gray": "7",
	"DarkGray": "8", "Red": "9", "Green": "10", "Yellow": "11",
	"Blue": "12", "Magenta": "13", "Cyan": "14", "White": "15",
}

// consoleWindow is the TextWindow plugin for a terminal. Colors are applied
// to written text; the default pair is left unstyled.
type consoleWindow struct {
	out        io.Writer
	foreground string
	background string
	title      string
}

func (w *consoleWindow) SetForegroundColor(color string) { w.foreground = color }
func (w *consoleWindow) SetBackgroundColor(color string) { w.background = color }

func (w *consoleWindow) SetTitle(title string) {
	w.title = title
	log.Debugf("text window title: %s", title)
}

func (w *consoleWindow) Clear() {
	fmt.Fprint(w.out, "\033[2J\033[H")
}

func (w *consoleWindow) render(text string) string {
	if w.foreground == vm.DefaultForegroundColor && w.background == vm.DefaultBackgroundColor {
		return text
	}
	style := lipgloss.NewStyle().
		Foreground(consoleColors[w.foreground]).
		Background(consoleColors[w.background])
	return style.Render(text)
}

// pauseHandler is called when the engine pauses in Debug mode. Returning an
// error stops the run.
type pauseHandler func(e *vm.Engine) error

// consoleHost answers the engine's blocked states from a reader and writer.
type consoleHost struct {
	in      *bufio.Reader
	out     io.Writer
	window  *consoleWindow
	onPause pauseHandler
}

func newConsoleHost(in io.Reader, out io.Writer) *consoleHost {
	return &consoleHost{
		in:     bufio.NewReader(in),
		out:    out,
		window: &consoleWindow{out: out, foreground: vm.DefaultForegroundColor, background: vm.DefaultBackgroundColor},
	}
}

// install wires the console and headless plugins into a library registry.
func (h *consoleHost) install(libs *vm.Libraries) {
	libs.TextWindow.Set(h.window)
	h.window.foreground = libs.TextWindow.ForegroundColor()
	h.window.background = libs.TextWindow.BackgroundColor()
	installHeadless(libs)
}

// runtimeError carries the diagnostic that terminated a program.
type runtimeError struct {
	diagnostic diagnostics.Diagnostic
}

func (e *runtimeError) Error() string { return e.diagnostic.Error() }

// run executes the engine until it terminates.
func (h *consoleHost) run(e *vm.Engine, mode vm.ExecutionMode) error {
	for {
		e.Execute(mode)

		switch e.State() {
		case vm.Terminated:
			if exc := e.Exception(); exc != nil {
				return &runtimeError{diagnostic: *exc}
			}
			return nil

		case vm.BlockedOnOutput:
			h.write(e.Buffer())

		case vm.BlockedOnStringInput, vm.BlockedOnNumberInput:
			line, err := h.readLine()
			if err != nil {
				return fmt.Errorf("program is waiting for input: %w", err)
			}
			e.Buffer().WriteValue(vm.StringValue(line))

		case vm.Paused:
			if h.onPause == nil {
				continue
			}
			if err := h.onPause(e); err != nil {
				return err
			}
		}
	}
}

func (h *consoleHost) write(buf *vm.ValueBuffer) {
	newLine := buf.EndsLine()
	fmt.Fprint(h.out, h.window.render(buf.ReadValue().String()))
	if newLine {
		fmt.Fprintln(h.out)
	}
}

func (h *consoleHost) readLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ---------------------------------------------------------------------------
// Headless plugins: graphics, controls and sound without a display
// ---------------------------------------------------------------------------

func installHeadless(libs *vm.Libraries) {
	libs.Turtle.Set(&headlessTurtle{})
	libs.Shapes.Set(newHeadlessShapes())
	libs.Controls.Set(newHeadlessControls())
	libs.Sound.Set(headlessSound{})
}

type headlessTurtle struct{}

func (headlessTurtle) Show()                  { log.Debug("turtle: show") }
func (headlessTurtle) Hide()                  { log.Debug("turtle: hide") }
func (headlessTurtle) SetAngle(d float64)     { log.Debugf("turtle: angle %g", d) }
func (headlessTurtle) SetSpeed(speed float64) { log.Debugf("turtle: speed %g", speed) }
func (headlessTurtle) MoveTo(fromX, fromY, toX, toY float64, penDown bool) {
	log.Debugf("turtle: move (%g, %g) -> (%g, %g) pen=%v", fromX, fromY, toX, toY, penDown)
}

// headlessShape is the state a display would need to draw a shape.
type headlessShape struct {
	kind    string
	text    string
	left    float64
	top     float64
	opacity float64
	visible bool
}

type headlessShapes struct {
	count  map[string]int
	shapes map[string]*headlessShape
}

func newHeadlessShapes() *headlessShapes {
	return &headlessShapes{count: make(map[string]int), shapes: make(map[string]*headlessShape)}
}

func (s *headlessShapes) add(kind, text string) string {
	s.count[kind]++
	name := fmt.Sprintf("%s%d", kind, s.count[kind])
	s.shapes[name] = &headlessShape{kind: kind, text: text, opacity: 100, visible: true}
	log.Debugf("shapes: add %s", name)
	return name
}

func (s *headlessShapes) shape(name string) *headlessShape {
	if shape, ok := s.shapes[name]; ok {
		return shape
	}
	return &headlessShape{}
}

func (s *headlessShapes) AddRectangle(w, h float64) string            { return s.add("Rectangle", "") }
func (s *headlessShapes) AddEllipse(w, h float64) string              { return s.add("Ellipse", "") }
func (s *headlessShapes) AddTriangle(_, _, _, _, _, _ float64) string { return s.add("Triangle", "") }
func (s *headlessShapes) AddLine(_, _, _, _ float64) string           { return s.add("Line", "") }
func (s *headlessShapes) AddText(text string) string                  { return s.add("Text", text) }
func (s *headlessShapes) SetText(name, text string)                   { s.shape(name).text = text }
func (s *headlessShapes) Remove(name string)                          { delete(s.shapes, name) }
func (s *headlessShapes) Rotate(name string, angle float64)           {}
func (s *headlessShapes) Zoom(name string, sx, sy float64)            {}
func (s *headlessShapes) SetOpacity(name string, level float64)       { s.shape(name).opacity = level }
func (s *headlessShapes) GetOpacity(name string) float64              { return s.shape(name).opacity }
func (s *headlessShapes) GetLeft(name string) float64                 { return s.shape(name).left }
func (s *headlessShapes) GetTop(name string) float64                  { return s.shape(name).top }

func (s *headlessShapes) Move(name string, x, y float64) {
	shape := s.shape(name)
	shape.left, shape.top = x, y
}

func (s *headlessShapes) SetVisibility(name string, visible bool) {
	s.shape(name).visible = visible
}

type headlessControls struct {
	count int
	text  map[string]string
}

func newHeadlessControls() *headlessControls {
	return &headlessControls{text: make(map[string]string)}
}

func (c *headlessControls) add(kind, text string) string {
	c.count++
	name := fmt.Sprintf("%s%d", kind, c.count)
	c.text[name] = text
	log.Debugf("controls: add %s", name)
	return name
}

func (c *headlessControls) AddButton(caption string, left, top float64) string {
	return c.add("Button", caption)
}
func (c *headlessControls) AddTextBox(left, top float64) string     { return c.add("TextBox", "") }
func (c *headlessControls) GetButtonCaption(name string) string     { return c.text[name] }
func (c *headlessControls) SetButtonCaption(name, caption string)   { c.text[name] = caption }
func (c *headlessControls) GetTextBoxText(name string) string       { return c.text[name] }
func (c *headlessControls) SetTextBoxText(name, text string)        { c.text[name] = text }
func (c *headlessControls) Remove(name string)                      { delete(c.text, name) }
func (c *headlessControls) Move(name string, left, top float64)     {}
func (c *headlessControls) SetVisibility(name string, visible bool) {}

type headlessSound struct{}

func (headlessSound) PlayChime()             { log.Debug("sound: chime") }
func (headlessSound) PlayClick()             { log.Debug("sound: click") }
func (headlessSound) PlayBellRing()          { log.Debug("sound: bell ring") }
func (headlessSound) PlayMusic(notes string) { log.Debugf("sound: music %q", notes) }
