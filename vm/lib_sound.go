package vm

import "github.com/sb/SmallBasic-Online-sub000/diagnostics"

type SoundLibrary struct {
	pluginSlot[SoundPlugin]
}

func newSoundLibrary() *SoundLibrary {
	return &SoundLibrary{pluginSlot: pluginSlot[SoundPlugin]{owner: "Sound"}}
}

func (s *SoundLibrary) library() *Library {
	lib := newLibrary("Sound", "Simple sounds and music.")

	lib.Methods["PlayChime"] = voidMethod("Plays a chime.", nil, func(*Engine, []Value, diagnostics.Range) {
		s.get().PlayChime()
	})
	lib.Methods["PlayClick"] = voidMethod("Plays a click.", nil, func(*Engine, []Value, diagnostics.Range) {
		s.get().PlayClick()
	})
	lib.Methods["PlayBellRing"] = voidMethod("Plays a bell ring.", nil, func(*Engine, []Value, diagnostics.Range) {
		s.get().PlayBellRing()
	})
	lib.Methods["PlayMusic"] = voidMethod("Plays notes written in music notation.", []string{"notes"},
		func(_ *Engine, args []Value, _ diagnostics.Range) {
			s.get().PlayMusic(args[0].String())
		})

	return lib
}
