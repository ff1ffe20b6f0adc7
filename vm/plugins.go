package vm

// ---------------------------------------------------------------------------
// Plugin interfaces
//
// Presentation libraries keep their own state and delegate drawing, sound and
// widgets to a host-supplied plugin. The engine never depends on how a plugin
// renders anything. Using a presentation library before its plugin is set is
// a host bug and panics.
// ---------------------------------------------------------------------------

// TextWindowPlugin presents the text window. Text itself flows through the
// engine's value buffer, not through the plugin.
type TextWindowPlugin interface {
	SetForegroundColor(color string)
	SetBackgroundColor(color string)
	SetTitle(title string)
	Clear()
}

// TurtlePlugin draws the turtle. The library tracks position and heading and
// tells the plugin what changed.
type TurtlePlugin interface {
	Show()
	Hide()
	MoveTo(fromX, fromY, toX, toY float64, penDown bool)
	SetAngle(degrees float64)
	SetSpeed(speed float64)
}

// ShapesPlugin owns drawn shapes. Add methods return the name the program
// uses to refer to the new shape.
type ShapesPlugin interface {
	AddRectangle(width, height float64) string
	AddEllipse(width, height float64) string
	AddTriangle(x1, y1, x2, y2, x3, y3 float64) string
	AddLine(x1, y1, x2, y2 float64) string
	AddText(text string) string
	SetText(name, text string)
	Remove(name string)
	Move(name string, x, y float64)
	Rotate(name string, angle float64)
	Zoom(name string, scaleX, scaleY float64)
	SetOpacity(name string, level float64)
	GetOpacity(name string) float64
	SetVisibility(name string, visible bool)
	GetLeft(name string) float64
	GetTop(name string) float64
}

// ControlsPlugin owns buttons and text boxes.
type ControlsPlugin interface {
	AddButton(caption string, left, top float64) string
	AddTextBox(left, top float64) string
	GetButtonCaption(name string) string
	SetButtonCaption(name, caption string)
	GetTextBoxText(name string) string
	SetTextBoxText(name, text string)
	Remove(name string)
	Move(name string, left, top float64)
	SetVisibility(name string, visible bool)
}

// SoundPlugin plays sounds.
type SoundPlugin interface {
	PlayChime()
	PlayClick()
	PlayBellRing()
	PlayMusic(notes string)
}

// pluginSlot holds an optional plugin and panics when read unset.
type pluginSlot[P any] struct {
	owner  string
	plugin P
	set    bool
}

func (s *pluginSlot[P]) Set(p P) {
	s.plugin = p
	s.set = true
}

func (s *pluginSlot[P]) get() P {
	if !s.set {
		panic("vm: the " + s.owner + " plugin is not set")
	}
	return s.plugin
}
