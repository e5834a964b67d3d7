package sceneio

import (
	"bufio"
	"io"
	"strconv"

	"github.com/cbegin/acidcore-go/internal/automation"
	"github.com/cbegin/acidcore-go/internal/scene"
)

// writer is a tiny hand-rolled JSON writer mirroring the structure the
// evented parser consumes, so Dump(Load(x)) round-trips exactly the
// fields Load understands.
type writer struct {
	w   *bufio.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

func (w *writer) key(k string) {
	w.raw(`"`)
	w.raw(k)
	w.raw(`":`)
}

func (w *writer) str(s string) {
	w.raw(strconv.Quote(s))
}

func (w *writer) num(v float64) {
	w.raw(strconv.FormatFloat(v, 'g', -1, 64))
}

func (w *writer) int(v int) {
	w.raw(strconv.Itoa(v))
}

func (w *writer) boolean(v bool) {
	if v {
		w.raw("true")
	} else {
		w.raw("false")
	}
}

// Dump serializes scn to w as the scene JSON format Load consumes.
func Dump(out io.Writer, scn *scene.Scene) error {
	w := &writer{w: bufio.NewWriter(out)}
	dumpScene(w, scn)
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func dumpScene(w *writer, s *scene.Scene) {
	w.raw("{")

	w.key("drumBanks")
	w.raw("[")
	for bi := range s.DrumBanks {
		if bi > 0 {
			w.raw(",")
		}
		dumpDrumBank(w, s.DrumBanks[bi])
	}
	w.raw("],")

	w.key("synthABanks")
	w.raw("[")
	for bi := range s.SynthABanks {
		if bi > 0 {
			w.raw(",")
		}
		dumpSynthBank(w, s.SynthABanks[bi])
	}
	w.raw("],")

	w.key("synthBBanks")
	w.raw("[")
	for bi := range s.SynthBBanks {
		if bi > 0 {
			w.raw(",")
		}
		dumpSynthBank(w, s.SynthBBanks[bi])
	}
	w.raw("],")

	w.key("songs")
	w.raw("[")
	for i := range s.Songs {
		if i > 0 {
			w.raw(",")
		}
		dumpSong(w, s.Songs[i])
	}
	w.raw("],")

	w.key("state")
	dumpState(w, s)

	w.raw("}")
}

func dumpDrumBank(w *writer, bank *scene.Bank[*scene.DrumPatternSet]) {
	w.raw("[")
	for pi, pat := range bank.Patterns {
		if pi > 0 {
			w.raw(",")
		}
		dumpDrumPatternSet(w, pat)
	}
	w.raw("]")
}

func dumpDrumPatternSet(w *writer, ps *scene.DrumPatternSet) {
	w.raw("{")
	w.key("voices")
	w.raw("[")
	for vi := range ps.Voices {
		if vi > 0 {
			w.raw(",")
		}
		w.raw("{")
		w.key("hit")
		w.raw("[")
		for si, step := range ps.Voices[vi].Steps {
			if si > 0 {
				w.raw(",")
			}
			w.boolean(step.Hit)
		}
		w.raw("]}")
	}
	w.raw("],")
	w.key("accents")
	w.raw("[")
	for si, a := range ps.Accents {
		if si > 0 {
			w.raw(",")
		}
		w.boolean(a)
	}
	w.raw("],")
	w.key("automation")
	w.raw("[")
	for i := 0; i < int(scene.DrumParamCount); i++ {
		if i > 0 {
			w.raw(",")
		}
		dumpLane(w, i, ps.Automation[i])
	}
	w.raw("]}")
}

func dumpSynthBank(w *writer, bank *scene.Bank[*scene.SynthPattern]) {
	w.raw("[")
	for pi, pat := range bank.Patterns {
		if pi > 0 {
			w.raw(",")
		}
		dumpSynthPattern(w, pat)
	}
	w.raw("]")
}

func dumpSynthPattern(w *writer, pat *scene.SynthPattern) {
	w.raw("{")
	w.key("steps")
	w.raw("[")
	for si, step := range pat.Steps {
		if si > 0 {
			w.raw(",")
		}
		w.raw("{")
		w.key("note")
		w.int(int(step.Note))
		w.raw(",")
		w.key("velocity")
		w.int(int(step.Velocity))
		w.raw(",")
		w.key("accent")
		w.boolean(step.Accent)
		w.raw(",")
		w.key("slide")
		w.boolean(step.Slide)
		w.raw("}")
	}
	w.raw("],")
	w.key("automation")
	w.raw("[")
	for i := 0; i < int(scene.SynthParamCount); i++ {
		if i > 0 {
			w.raw(",")
		}
		dumpLane(w, i, pat.Automation[i])
	}
	w.raw("]}")
}

func dumpLane(w *writer, param int, lane *automation.Lane) {
	w.raw("{")
	w.key("param")
	w.int(param)
	w.raw(",")
	w.key("nodes")
	w.raw("[")
	for i := 0; i < lane.Count(); i++ {
		if i > 0 {
			w.raw(",")
		}
		n := lane.Node(i)
		w.raw("{")
		w.key("x")
		w.int(int(n.X))
		w.raw(",")
		w.key("y")
		w.int(int(n.Y))
		w.raw("}")
	}
	w.raw("],")
	w.key("options")
	w.raw("[")
	for i := 0; i < lane.OptionCount(); i++ {
		if i > 0 {
			w.raw(",")
		}
		w.str(lane.OptionLabel(i))
	}
	w.raw("]}")
}

func dumpSong(w *writer, song *scene.Song) {
	w.raw("{")
	w.key("length")
	w.int(song.Length)
	w.raw(",")
	w.key("positions")
	w.raw("[")
	for i := 0; i < song.Length; i++ {
		if i > 0 {
			w.raw(",")
		}
		pos := song.Positions[i]
		w.raw("{")
		w.key("a")
		w.int(int(pos.Patterns[scene.TrackSynthA]))
		w.raw(",")
		w.key("b")
		w.int(int(pos.Patterns[scene.TrackSynthB]))
		w.raw(",")
		w.key("drums")
		w.int(int(pos.Patterns[scene.TrackDrums]))
		w.raw(",")
		w.key("voice")
		w.int(int(pos.Patterns[scene.TrackVoice]))
		w.raw("}")
	}
	w.raw("],")
	w.key("reverse")
	w.boolean(song.Reverse)
	w.raw("}")
}

func dumpState(w *writer, s *scene.Scene) {
	w.raw("{")
	w.key("bpm")
	w.num(s.BPM)
	w.raw(",")
	w.key("masterVolume")
	w.num(s.MasterVolume)
	w.raw(",")
	w.key("songMode")
	w.boolean(s.SongMode)
	w.raw(",")
	w.key("songPosition")
	w.int(s.SongPosition)
	w.raw(",")
	w.key("loopMode")
	w.boolean(s.LoopMode)
	w.raw(",")
	w.key("loopStart")
	w.int(s.LoopStart)
	w.raw(",")
	w.key("loopEnd")
	w.int(s.LoopEnd)
	w.raw(",")
	w.key("drumPatternIndex")
	w.int(s.DrumPatternIndex)
	w.raw(",")
	w.key("drumBankIndex")
	w.int(s.DrumBankIndex)
	w.raw(",")
	w.key("drumEngineName")
	w.str(s.DrumEngineName)
	w.raw(",")
	w.key("activeSongSlot")
	w.int(s.ActiveSongSlot)
	w.raw(",")
	w.key("mode")
	w.int(int(s.Mode))
	w.raw(",")

	w.key("synthPatternIndex")
	w.raw("[")
	for i, v := range s.SynthPatternIndex {
		if i > 0 {
			w.raw(",")
		}
		w.int(v)
	}
	w.raw("],")

	w.key("synthBankIndex")
	w.raw("[")
	for i, v := range s.SynthBankIndex {
		if i > 0 {
			w.raw(",")
		}
		w.int(v)
	}
	w.raw("],")

	w.key("trackVolumes")
	w.raw("[")
	for i, v := range s.TrackVolumes {
		if i > 0 {
			w.raw(",")
		}
		w.num(v)
	}
	w.raw("],")

	w.key("customPhrases")
	w.raw("[")
	for i, v := range s.CustomPhrases {
		if i > 0 {
			w.raw(",")
		}
		w.str(v)
	}
	w.raw("],")

	w.key("mute")
	w.raw("{")
	w.key("drums")
	w.raw("[")
	for i, v := range s.MuteDrums {
		if i > 0 {
			w.raw(",")
		}
		w.boolean(v)
	}
	w.raw("],")
	w.key("synth")
	w.raw("[")
	for i, v := range s.MuteSynth {
		if i > 0 {
			w.raw(",")
		}
		w.boolean(v)
	}
	w.raw("]}")
	w.raw(",")

	w.key("synthDistortion")
	w.raw("[")
	for i, v := range s.SynthDistortion {
		if i > 0 {
			w.raw(",")
		}
		w.boolean(v)
	}
	w.raw("],")

	w.key("synthDelay")
	w.raw("[")
	for i, v := range s.SynthDelay {
		if i > 0 {
			w.raw(",")
		}
		w.boolean(v)
	}
	w.raw("],")

	w.key("synthParams")
	w.raw("[")
	for i, sp := range s.SynthParams {
		if i > 0 {
			w.raw(",")
		}
		w.raw("{")
		w.key("cutoff")
		w.num(sp.Cutoff)
		w.raw(",")
		w.key("resonance")
		w.num(sp.Resonance)
		w.raw(",")
		w.key("envAmount")
		w.num(sp.EnvAmount)
		w.raw(",")
		w.key("envDecay")
		w.num(sp.EnvDecay)
		w.raw(",")
		w.key("oscType")
		w.int(sp.OscType)
		w.raw("}")
	}
	w.raw("],")

	w.key("tape")
	w.raw("{")
	w.key("mode")
	w.int(int(s.Tape.Mode))
	w.raw(",")
	w.key("preset")
	w.int(s.Tape.Preset)
	w.raw(",")
	w.key("speed")
	w.int(int(s.Tape.Speed))
	w.raw(",")
	w.key("fxEnabled")
	w.boolean(s.Tape.FXEnabled)
	w.raw(",")
	w.key("wow")
	w.num(s.Tape.Wow)
	w.raw(",")
	w.key("age")
	w.num(s.Tape.Age)
	w.raw(",")
	w.key("sat")
	w.num(s.Tape.Sat)
	w.raw(",")
	w.key("tone")
	w.num(s.Tape.Tone)
	w.raw(",")
	w.key("crush")
	w.num(s.Tape.Crush)
	w.raw(",")
	w.key("vol")
	w.num(s.Tape.Volume)
	w.raw(",")
	w.key("space")
	w.num(s.Tape.Space)
	w.raw(",")
	w.key("movement")
	w.num(s.Tape.Movement)
	w.raw(",")
	w.key("groove")
	w.num(s.Tape.Groove)
	w.raw("},")

	w.key("feel")
	w.raw("{")
	w.key("swing")
	w.num(s.Feel.Swing)
	w.raw(",")
	w.key("humanize")
	w.num(s.Feel.Humanize)
	w.raw("},")

	w.key("genre")
	w.raw("{")
	w.key("name")
	w.str(s.Genre.Name)
	w.raw("},")

	w.key("drumFX")
	w.raw("{")
	w.key("enabled")
	w.boolean(s.DrumFX.Enabled)
	w.raw("},")

	w.key("vocal")
	w.raw("{")
	w.key("pitch")
	w.num(s.Vocal.Pitch)
	w.raw(",")
	w.key("speed")
	w.num(s.Vocal.Speed)
	w.raw(",")
	w.key("robotness")
	w.num(s.Vocal.Robotness)
	w.raw(",")
	w.key("volume")
	w.num(s.Vocal.Volume)
	w.raw("},")

	w.key("led")
	w.raw("{")
	w.key("brightness")
	w.num(s.LED.Brightness)
	w.raw("},")

	w.key("samplerPads")
	w.raw("[")
	for i, pad := range s.SamplerPads {
		if i > 0 {
			w.raw(",")
		}
		w.raw("{")
		w.key("sampleName")
		w.str(pad.SampleName)
		w.raw(",")
		w.key("volume")
		w.num(pad.Volume)
		w.raw("}")
	}
	w.raw("]")

	w.raw("}")
}
