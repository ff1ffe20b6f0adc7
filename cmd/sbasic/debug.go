package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
	"github.com/sb/SmallBasic-Online-sub000/vm"
)

var debugCmd = &cobra.Command{
	Use:   "debug <file>",
	Short: "Steps through a program in an interactive debugger",
	Long: `Opens a terminal debugger showing the source, the call stack, the
variables and the program's output.

Keys:
  n / Space   Run to the next statement
  c           Continue to the next breakpoint or Program.Pause()
  j / k       Move the line cursor
  b           Toggle a breakpoint on the cursor line
  q / Ctrl+C  Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	if err := p.requireClean(); err != nil {
		return err
	}

	session := uuid.NewString()
	log.Infof("session %s: debugging %s", session, p.path)

	m := newDebugModel(p)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("debugger failed: %w", err)
	}
	log.Infof("session %s: closed", session)
	return nil
}

// ---------------------------------------------------------------------------
// Transcript: program output shared with the text window plugin
// ---------------------------------------------------------------------------

type transcript struct {
	mu   sync.Mutex
	text strings.Builder
}

func (t *transcript) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text.WriteString(s)
}

func (t *transcript) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text.Reset()
}

// tail returns the last n lines.
func (t *transcript) tail(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := strings.Split(t.text.String(), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// debugWindow is the TextWindow plugin inside the debugger.
type debugWindow struct {
	transcript *transcript
}

func (w *debugWindow) SetForegroundColor(color string) {}
func (w *debugWindow) SetBackgroundColor(color string) {}
func (w *debugWindow) SetTitle(title string)           {}
func (w *debugWindow) Clear()                          { w.transcript.clear() }

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// executedMsg reports that a run of the engine has stopped.
type executedMsg struct{}

type debugModel struct {
	path   string
	lines  []string
	engine *vm.Engine
	output *transcript

	input   textinput.Model
	mode    vm.ExecutionMode
	running bool
	waiting bool
	cursor  int

	width  int
	height int
}

func newDebugModel(p *program) debugModel {
	libs := vm.NewLibraries()
	libs.TextWindow.UseColors(p.config.TextWindow.Foreground, p.config.TextWindow.Background)
	output := &transcript{}
	libs.TextWindow.Set(&debugWindow{transcript: output})
	installHeadless(libs)

	engine := vm.NewEngine(p.compilation, vm.WithLibraries(libs))
	for _, line := range p.config.Run.Breakpoints {
		engine.SetBreakpoint(line - 1)
	}

	ti := textinput.New()
	ti.Placeholder = "program input"
	ti.Prompt = "> "

	m := debugModel{
		path:   p.path,
		lines:  compiler.SplitLines(p.compilation.Text()),
		engine: engine,
		output: output,
		input:  ti,
		width:  100,
		height: 30,
	}
	m.followCurrentLine()
	return m
}

// Init initializes the model
func (m debugModel) Init() tea.Cmd {
	return nil
}

// execute runs the engine off the UI goroutine, draining output as it goes,
// until it pauses, terminates or waits for input. The model does not touch
// the engine while running is set.
func (m debugModel) execute(mode vm.ExecutionMode) tea.Cmd {
	e, output := m.engine, m.output
	return func() tea.Msg {
		for {
			e.Execute(mode)
			if e.State() != vm.BlockedOnOutput {
				return executedMsg{}
			}
			buf := e.Buffer()
			newLine := buf.EndsLine()
			output.write(buf.ReadValue().String())
			if newLine {
				output.write("\n")
			}
		}
	}
}

func (m debugModel) start(mode vm.ExecutionMode) (tea.Model, tea.Cmd) {
	if m.running || m.engine.State() == vm.Terminated {
		return m, nil
	}
	m.mode = mode
	m.running = true
	return m, m.execute(mode)
}

// Update handles messages
func (m debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case executedMsg:
		m.running = false
		m.followCurrentLine()
		state := m.engine.State()
		if state == vm.BlockedOnStringInput || state == vm.BlockedOnNumberInput {
			m.waiting = true
			cmd := m.input.Focus()
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.waiting {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m debugModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	value := m.input.Value()
	m.output.write(value + "\n")
	m.engine.Buffer().WriteValue(vm.StringValue(value))
	m.input.Reset()
	m.input.Blur()
	m.waiting = false
	return m.start(m.mode)
}

func (m debugModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", " ":
		return m.start(vm.NextStatement)
	case "c":
		return m.start(vm.Debug)
	case "j", "down":
		if m.cursor < len(m.lines)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "b":
		if !m.running {
			m.toggleBreakpoint(m.cursor)
		}
	}
	return m, nil
}

func (m *debugModel) toggleBreakpoint(line int) {
	for _, b := range m.engine.Breakpoints() {
		if b == line {
			m.engine.RemoveBreakpoint(line)
			return
		}
	}
	m.engine.SetBreakpoint(line)
}

func (m *debugModel) followCurrentLine() {
	if rng, ok := m.engine.CurrentRange(); ok {
		m.cursor = rng.Line
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the UI
func (m debugModel) View() string {
	title := styles.Title.Render("sbasic debug") + "  " + styles.LineNo.Render(m.path)

	if m.running {
		return lipgloss.JoinVertical(lipgloss.Left, title, "", styles.Paused.Render("running..."),
			styles.Help.Render("Ctrl+C quit"))
	}

	sideWidth := 32
	sourceWidth := m.width - sideWidth - 6
	if sourceWidth < 30 {
		sourceWidth = 30
	}
	panelHeight := m.height/2 - 2
	if panelHeight < 5 {
		panelHeight = 5
	}

	source := styles.Panel.Width(sourceWidth).Height(panelHeight).Render(m.renderSource(panelHeight))
	side := styles.Panel.Width(sideWidth).Height(panelHeight).Render(m.renderState())
	output := styles.Panel.Width(sourceWidth + sideWidth + 4).Render(strings.Join(m.output.tail(m.height/4+1), "\n"))

	parts := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, source, side), output}
	if m.waiting {
		parts = append(parts, m.input.View())
	}
	parts = append(parts, m.renderStatus(), styles.Help.Render("n step  c continue  j/k move  b breakpoint  q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m debugModel) renderSource(height int) string {
	current := -1
	if rng, ok := m.engine.CurrentRange(); ok && m.engine.State() != vm.Terminated {
		current = rng.Line
	}
	breakpoints := make(map[int]bool)
	for _, b := range m.engine.Breakpoints() {
		breakpoints[b] = true
	}

	first := m.cursor - height/2
	if first > len(m.lines)-height {
		first = len(m.lines) - height
	}
	if first < 0 {
		first = 0
	}

	var b strings.Builder
	for i := first; i < len(m.lines) && i < first+height; i++ {
		marker := "  "
		if breakpoints[i] {
			marker = styles.Error.Render("●") + " "
		}
		pointer := " "
		if i == m.cursor {
			pointer = styles.Highlight.Render(">")
		}
		text := strings.TrimRight(m.lines[i], "\r")
		if i == current {
			text = styles.Current.Render(text)
		}
		fmt.Fprintf(&b, "%s%s%s %s\n", marker, pointer, styles.LineNo.Render(fmt.Sprintf("%4d", i+1)), text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m debugModel) renderState() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Call stack") + "\n")
	for _, frame := range m.engine.CallStack() {
		fmt.Fprintf(&b, "  %s line %d\n", frame.Module, frame.Range.Line+1)
	}
	b.WriteString("\n" + styles.Title.Render("Variables") + "\n")
	for _, v := range m.engine.Memory() {
		fmt.Fprintf(&b, "  %s = %s\n", v.Name, v.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m debugModel) renderStatus() string {
	switch state := m.engine.State(); {
	case state == vm.Terminated && m.engine.Exception() != nil:
		exc := m.engine.Exception()
		return styles.Error.Render(fmt.Sprintf("terminated on line %d: %s", exc.Range.Line+1, exc.String()))
	case state == vm.Terminated:
		return styles.Success.Render("program finished")
	case m.waiting:
		return styles.Paused.Render("waiting for input")
	default:
		return styles.Paused.Render(state.String())
	}
}
