package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sb/SmallBasic-Online-sub000/vm"
)

func newTestDebugger(t *testing.T, source string) debugModel {
	t.Helper()
	return newDebugModel(newTestProgram(t, source))
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends a key and, when it starts the engine, runs the command and
// feeds its result back the way the bubbletea runtime would.
func press(t *testing.T, m debugModel, key string) debugModel {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	m = next.(debugModel)
	if !m.running {
		return m
	}
	if cmd == nil {
		t.Fatalf("%q started the engine without a command", key)
	}
	msg := cmd()
	if _, ok := msg.(executedMsg); !ok {
		t.Fatalf("command returned %T, want executedMsg", msg)
	}
	next, _ = m.Update(msg)
	return next.(debugModel)
}

func TestDebuggerSteps(t *testing.T) {
	m := newTestDebugger(t, "x = 1\nx = 2\nTextWindow.WriteLine(x)")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}

	for i, want := range []string{"1", "2"} {
		m = press(t, m, "n")
		if m.cursor != i+1 {
			t.Errorf("step %d: cursor = %d, want %d", i, m.cursor, i+1)
		}
		if got := m.engine.Variable("x").String(); got != want {
			t.Errorf("step %d: x = %s, want %s", i, got, want)
		}
		if m.engine.State() != vm.Paused {
			t.Errorf("step %d: state = %s, want Paused", i, m.engine.State())
		}
	}

	m = press(t, m, " ")
	if m.engine.State() != vm.Terminated {
		t.Fatalf("state = %s, want Terminated", m.engine.State())
	}
	if got := strings.Join(m.output.tail(2), "|"); got != "2|" {
		t.Errorf("output = %q, want %q", got, "2|")
	}
	if !strings.Contains(m.View(), "program finished") {
		t.Error("view does not report the finished program")
	}

	// A finished program ignores further steps.
	next, cmd := m.Update(keyMsg("n"))
	if cmd != nil || next.(debugModel).running {
		t.Error("stepping a finished program should do nothing")
	}
}

func TestDebuggerBreakpoints(t *testing.T) {
	m := newTestDebugger(t, "x = 1\nx = 2\nx = 3\nx = 4")

	m = press(t, m, "j")
	m = press(t, m, "j")
	m = press(t, m, "b")
	if bps := m.engine.Breakpoints(); len(bps) != 1 || bps[0] != 2 {
		t.Fatalf("breakpoints = %v, want [2]", bps)
	}
	m = press(t, m, "b")
	if bps := m.engine.Breakpoints(); len(bps) != 0 {
		t.Fatalf("breakpoints = %v, want none", bps)
	}
	m = press(t, m, "b")

	m = press(t, m, "c")
	if m.engine.State() != vm.Paused || m.cursor != 2 {
		t.Fatalf("state = %s at line %d, want Paused at 2", m.engine.State(), m.cursor)
	}
	if got := m.engine.Variable("x").String(); got != "2" {
		t.Errorf("x = %s, want 2", got)
	}
	if !strings.Contains(m.View(), "x = 2") {
		t.Error("view does not list variables")
	}

	m = press(t, m, "c")
	if m.engine.State() != vm.Terminated {
		t.Errorf("state = %s, want Terminated", m.engine.State())
	}
}

func TestDebuggerConfiguredBreakpoints(t *testing.T) {
	p := newTestProgram(t, "x = 1\nx = 2")
	p.config.Run.Breakpoints = []int{2}
	m := newDebugModel(p)

	m = press(t, m, "c")
	if m.engine.State() != vm.Paused || m.cursor != 1 {
		t.Errorf("state = %s at line %d, want Paused at 1", m.engine.State(), m.cursor)
	}
}

func TestDebuggerReadsInput(t *testing.T) {
	m := newTestDebugger(t, "name = TextWindow.Read()\nTextWindow.WriteLine(\"hi \" + name)")

	m = press(t, m, "c")
	if !m.waiting {
		t.Fatalf("state = %s, want waiting for input", m.engine.State())
	}
	if !strings.Contains(m.View(), "waiting for input") {
		t.Error("view does not show the input prompt")
	}

	// Keys go to the input while the program waits.
	m = press(t, m, "Bo")
	m = press(t, m, "q")
	if m.input.Value() != "Boq" {
		t.Fatalf("input = %q, want %q", m.input.Value(), "Boq")
	}

	m = press(t, m, "enter")
	if m.waiting {
		t.Error("still waiting after enter")
	}
	if m.engine.State() != vm.Terminated {
		t.Fatalf("state = %s, want Terminated", m.engine.State())
	}
	if got := strings.Join(m.output.tail(3), "|"); got != "Boq|hi Boq|" {
		t.Errorf("output = %q", got)
	}
}

func TestDebuggerShowsRuntimeError(t *testing.T) {
	m := newTestDebugger(t, "x = 0\ny = 1 / x")
	m = press(t, m, "c")
	if !strings.Contains(m.View(), "terminated on line 2") {
		t.Errorf("view does not report the runtime error:\n%s", m.View())
	}
}

func TestDebuggerClearEmptiesOutput(t *testing.T) {
	m := newTestDebugger(t, "TextWindow.WriteLine(\"a\")\nTextWindow.Clear()\nTextWindow.WriteLine(\"b\")")
	m = press(t, m, "c")
	if got := strings.Join(m.output.tail(10), "|"); got != "b|" {
		t.Errorf("output = %q, want %q", got, "b|")
	}
}

func TestDebuggerQuit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m := newTestDebugger(t, "x = 1")
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Fatalf("%s: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command does not quit", key)
		}
	}
}

func TestDebuggerViewWhileRunning(t *testing.T) {
	m := newTestDebugger(t, "x = 1")
	next, _ := m.Update(keyMsg("c"))
	if view := next.(debugModel).View(); !strings.Contains(view, "running...") {
		t.Errorf("view while running = %q", view)
	}
}
