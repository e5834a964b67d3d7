// Package acidcore is the realtime audio engine core of a portable
// groovebox: a 16-step sequencer driving two acid-bass synth voices
// and a swappable drum engine, a tape/looper send, a formant speech
// voice, and scene persistence. Engine is the façade every UI or
// persistence layer talks to — grounded on the teacher's player.go:
// a mutex-guarded struct built with functional options, hot-path
// methods returning bare values, and boundary calls (scene load/save)
// returning error.
package acidcore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cbegin/acidcore-go/internal/automation"
	"github.com/cbegin/acidcore-go/internal/drumengine"
	"github.com/cbegin/acidcore-go/internal/guard"
	"github.com/cbegin/acidcore-go/internal/mixer"
	"github.com/cbegin/acidcore-go/internal/scene"
	"github.com/cbegin/acidcore-go/internal/sceneio"
	"github.com/cbegin/acidcore-go/internal/tape"
	"github.com/cbegin/acidcore-go/internal/transport"
	"github.com/cbegin/acidcore-go/internal/voice"
)

// defaultAutomationPoolCapacity sizes the shared node pool backing
// every automation lane in a scene (drum + both synth banks).
const defaultAutomationPoolCapacity = 8192

// SceneStore resolves named scenes to and from durable storage. The
// core ships an in-memory implementation (MapSceneStore) and a
// directory-backed one (FileSceneStore, in scenestore.go); actual
// SD/flash persistence is out of scope (spec non-goal) and lives
// behind this narrow interface instead.
type SceneStore interface {
	Load(name string) (io.Reader, error)
	Save(name string, data []byte) error
	Names() []string
}

// MapSceneStore is an in-memory SceneStore, useful for tests and as
// the engine's zero-value default.
type MapSceneStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMapSceneStore returns an empty in-memory store.
func NewMapSceneStore() *MapSceneStore {
	return &MapSceneStore{files: make(map[string][]byte)}
}

func (s *MapSceneStore) Load(name string) (io.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("scene %q not found", name)
	}
	return bytes.NewReader(data), nil
}

func (s *MapSceneStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.files[name] = cp
	return nil
}

func (s *MapSceneStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	return out
}

// EngineOption configures NewEngine, following the teacher's
// PlayerOption functional-options pattern.
type EngineOption func(*engineConfig)

type engineConfig struct {
	store  SceneStore
	logger *slog.Logger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		store:  NewMapSceneStore(),
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// WithSceneStore installs a SceneStore other than the in-memory default.
func WithSceneStore(store SceneStore) EngineOption {
	return func(cfg *engineConfig) { cfg.store = store }
}

// WithLogger installs a logger other than the package default (stderr
// text handler).
func WithLogger(logger *slog.Logger) EngineOption {
	return func(cfg *engineConfig) { cfg.logger = logger }
}

// Engine is the realtime groovebox core: a scene, two synth voices, a
// swappable drum engine, the master mixer chain, the step clock, and
// the guard/perf/waveform instrumentation triple the UI reads.
type Engine struct {
	guard guard.AudioGuard
	perf  guard.PerfCounters
	wave  guard.Waveform

	sampleRate float64
	logger     *slog.Logger
	store      SceneStore

	scene  *scene.Scene
	voiceA *voice.Voice
	voiceB *voice.Voice
	drums  drumengine.Engine
	drumKind drumengine.Kind
	mix    *mixer.Chain
	clock  *transport.Clock
}

// NewEngine constructs a stopped engine at sampleRate Hz with a fresh
// cleared scene.
func NewEngine(sampleRate float64, opts ...EngineOption) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	scn := scene.NewScene(defaultAutomationPoolCapacity)
	e := &Engine{
		sampleRate: sampleRate,
		logger:     cfg.logger,
		store:      cfg.store,
		scene:      scn,
		voiceA:     voice.New(sampleRate),
		voiceB:     voice.New(sampleRate),
		drums:      drumengine.New(drumengine.KindTR808, sampleRate),
		mix:        mixer.NewChain(sampleRate),
		clock:      transport.NewClock(scn, sampleRate),
	}
	e.applyScenarioStateToVoices()
	return e, nil
}

// --- Transport ---

// Start begins playback from the current selection/song position.
func (e *Engine) Start() {
	e.guard.WithLock(func() {
		e.clock.Start()
	})
}

// Stop halts playback, releasing both voices and resetting the drum engine.
func (e *Engine) Stop() {
	e.guard.WithLock(func() {
		e.clock.Stop(e.voiceA, e.voiceB, e.drums)
	})
}

// IsPlaying reports whether the transport is running.
func (e *Engine) IsPlaying() bool {
	var playing bool
	e.guard.WithLock(func() { playing = e.clock.Playing() })
	return playing
}

// SetBPM sets the tempo, clamped to [40,200].
func (e *Engine) SetBPM(bpm float64) {
	e.guard.WithLock(func() {
		e.clock.SetBPM(bpm)
		e.mix.SynthA.Delay.SetBpm(e.scene.BPM)
		e.mix.SynthB.Delay.SetBpm(e.scene.BPM)
	})
}

// BPM returns the current tempo.
func (e *Engine) BPM() float64 {
	var bpm float64
	e.guard.WithLock(func() { bpm = e.scene.BPM })
	return bpm
}

// CurrentStep returns the active step index, or -1 before the first Start.
func (e *Engine) CurrentStep() int {
	var step int
	e.guard.WithLock(func() { step = e.clock.StepIndex() })
	return step
}

// CurrentStepProgress returns fractional progress through the current
// step, in [0,1).
func (e *Engine) CurrentStepProgress() float64 {
	var p float64
	e.guard.WithLock(func() { p = e.clock.Progress() })
	return p
}

// --- Selection ---

// SetSynthBank selects a bank (0 or 1) for track (0=A, 1=B), clamping
// out-of-range values.
func (e *Engine) SetSynthBank(track, bank int) {
	e.guard.WithLock(func() {
		track = clampTrack(track)
		e.scene.SynthBankIndex[track] = clampInt(bank, 0, 1)
	})
}

// SynthBank returns the currently selected bank for track.
func (e *Engine) SynthBank(track int) int {
	var bank int
	e.guard.WithLock(func() { bank = e.scene.SynthBankIndex[clampTrack(track)] })
	return bank
}

// SetSynthPatternIndex selects a pattern within the active bank for track.
func (e *Engine) SetSynthPatternIndex(track, idx int) {
	e.guard.WithLock(func() {
		track = clampTrack(track)
		bank := e.scene.SynthBank(track, e.scene.SynthBankIndex[track])
		e.scene.SynthPatternIndex[track] = clampInt(idx, 0, len(bank.Patterns)-1)
	})
}

// SynthPatternIndex returns the currently selected pattern for track.
func (e *Engine) SynthPatternIndex(track int) int {
	var idx int
	e.guard.WithLock(func() { idx = e.scene.SynthPatternIndex[clampTrack(track)] })
	return idx
}

// SetDrumBank selects a drum bank (0 or 1).
func (e *Engine) SetDrumBank(bank int) {
	e.guard.WithLock(func() { e.scene.DrumBankIndex = clampInt(bank, 0, 1) })
}

// DrumBank returns the currently selected drum bank.
func (e *Engine) DrumBank() int {
	var bank int
	e.guard.WithLock(func() { bank = e.scene.DrumBankIndex })
	return bank
}

// SetDrumPatternIndex selects a pattern within the active drum bank.
func (e *Engine) SetDrumPatternIndex(idx int) {
	e.guard.WithLock(func() {
		bank := e.scene.DrumBanks[e.scene.DrumBankIndex]
		e.scene.DrumPatternIndex = clampInt(idx, 0, len(bank.Patterns)-1)
	})
}

// DrumPatternIndex returns the currently selected drum pattern.
func (e *Engine) DrumPatternIndex() int {
	var idx int
	e.guard.WithLock(func() { idx = e.scene.DrumPatternIndex })
	return idx
}

// --- Step edit ---

// ToggleDrumHit flips the hit flag at (voiceType, step) in the active
// drum pattern set.
func (e *Engine) ToggleDrumHit(v drumengine.VoiceType, step int) {
	e.guard.WithLock(func() {
		if v < 0 || v >= drumengine.VoiceCount || step < 0 || step >= transport.Steps {
			return
		}
		ps := e.activeDrumPatternSet()
		ps.Voices[v].Steps[step].Hit = !ps.Voices[v].Steps[step].Hit
	})
}

// SetDrumStepAccent sets the pattern-wide accent flag for step.
func (e *Engine) SetDrumStepAccent(step int, accent bool) {
	e.guard.WithLock(func() {
		if step < 0 || step >= transport.Steps {
			return
		}
		e.activeDrumPatternSet().Accents[step] = accent
	})
}

// SetSynthStepAccent sets the accent flag at step in track's active pattern.
func (e *Engine) SetSynthStepAccent(track, step int, accent bool) {
	e.guard.WithLock(func() {
		if step < 0 || step >= transport.Steps {
			return
		}
		e.activeSynthPattern(clampTrack(track)).Steps[step].Accent = accent
	})
}

// SetSynthStepSlide sets the slide flag at step in track's active pattern.
func (e *Engine) SetSynthStepSlide(track, step int, slide bool) {
	e.guard.WithLock(func() {
		if step < 0 || step >= transport.Steps {
			return
		}
		e.activeSynthPattern(clampTrack(track)).Steps[step].Slide = slide
	})
}

// AdjustSynthNote shifts the note at step by semitones, clamped to
// [24,71]. A rest step (note < 0) is left untouched.
func (e *Engine) AdjustSynthNote(track, step, semitones int) {
	e.guard.WithLock(func() {
		if step < 0 || step >= transport.Steps {
			return
		}
		s := &e.activeSynthPattern(clampTrack(track)).Steps[step]
		if s.Note < 0 {
			return
		}
		next := int(s.Note) + semitones
		s.Note = int8(clampInt(next, 24, 71))
	})
}

// ClearSynthStep resets step to a rest with no accent/slide.
func (e *Engine) ClearSynthStep(track, step int) {
	e.guard.WithLock(func() {
		if step < 0 || step >= transport.Steps {
			return
		}
		s := &e.activeSynthPattern(clampTrack(track)).Steps[step]
		s.Note = -1
		s.Accent = false
		s.Slide = false
	})
}

// --- Automation edit ---

// SynthLane returns the automation lane for param on track's active
// pattern, for direct edit (AppendNode/Clear/SetEnabled/SetOptions).
func (e *Engine) SynthLane(track int, param scene.SynthParam) *automation.Lane {
	var lane *automation.Lane
	e.guard.WithLock(func() {
		lane = e.activeSynthPattern(clampTrack(track)).Automation[param]
	})
	return lane
}

// DrumLane returns the automation lane for param on the active drum
// pattern set.
func (e *Engine) DrumLane(param scene.DrumParam) *automation.Lane {
	var lane *automation.Lane
	e.guard.WithLock(func() {
		lane = e.activeDrumPatternSet().Automation[param]
	})
	return lane
}

// CopySynthAutomation copies one track's lane for param from (srcBank,
// srcPattern) onto (dstBank, dstPattern), overwriting the destination.
func (e *Engine) CopySynthAutomation(track int, srcBank, srcPattern, dstBank, dstPattern int, param scene.SynthParam) {
	e.guard.WithLock(func() {
		track = clampTrack(track)
		srcP := e.scene.SynthBank(track, srcBank).Patterns[srcPattern]
		dstP := e.scene.SynthBank(track, dstBank).Patterns[dstPattern]
		copyLane(dstP.Automation[param], srcP.Automation[param])
	})
}

// CopyDrumAutomation copies one param lane between two drum pattern sets.
func (e *Engine) CopyDrumAutomation(srcBank, srcPattern, dstBank, dstPattern int, param scene.DrumParam) {
	e.guard.WithLock(func() {
		srcP := e.scene.DrumBanks[srcBank].Patterns[srcPattern]
		dstP := e.scene.DrumBanks[dstBank].Patterns[dstPattern]
		copyLane(dstP.Automation[param], srcP.Automation[param])
	})
}

func copyLane(dst, src *automation.Lane) {
	dst.Clear()
	dst.SetEnabled(src.Enabled())
	if src.HasOptions() {
		labels := make([]string, src.OptionCount())
		for i := range labels {
			labels[i] = src.OptionLabel(i)
		}
		dst.SetOptions(labels)
	}
	for i := 0; i < src.Count(); i++ {
		n := src.Node(i)
		dst.AppendNode(n.X, n.Y)
	}
}

// --- Song edit ---

// SetSongPattern assigns the global pattern id for (position, track),
// or -1 to rest that track at that position.
func (e *Engine) SetSongPattern(position int, track scene.Track, patternID int16) {
	e.guard.WithLock(func() {
		e.scene.ActiveSong().SetPattern(position, track, patternID)
	})
}

// ClearSongPattern rests (position, track).
func (e *Engine) ClearSongPattern(position int, track scene.Track) {
	e.SetSongPattern(position, track, -1)
}

// SongPattern returns the global pattern id at (position, track).
func (e *Engine) SongPattern(position int, track scene.Track) int16 {
	var id int16
	e.guard.WithLock(func() {
		song := e.scene.ActiveSong()
		if position < 0 || position >= song.Length {
			id = -1
			return
		}
		id = song.Positions[position].Patterns[track]
	})
	return id
}

// SetSongLength truncates or extends the active song to length rows.
func (e *Engine) SetSongLength(length int) {
	e.guard.WithLock(func() {
		song := e.scene.ActiveSong()
		if length < 1 {
			length = 1
		}
		if length > len(song.Positions) {
			length = len(song.Positions)
		}
		song.Length = length
	})
}

// SetSongPlayhead sets the current song-mode playhead row.
func (e *Engine) SetSongPlayhead(pos int) {
	e.guard.WithLock(func() { e.scene.SongPosition = pos })
}

// SongPlayhead returns the current song-mode playhead row.
func (e *Engine) SongPlayhead() int {
	var pos int
	e.guard.WithLock(func() { pos = e.scene.SongPosition })
	return pos
}

// SetSongMode toggles song mode vs. pattern mode.
func (e *Engine) SetSongMode(enabled bool) {
	e.guard.WithLock(func() { e.scene.SongMode = enabled })
}

// SongMode reports whether song mode is active.
func (e *Engine) SongMode() bool {
	var on bool
	e.guard.WithLock(func() { on = e.scene.SongMode })
	return on
}

// SetLoopRange sets the song-mode loop row range [start,end].
func (e *Engine) SetLoopRange(start, end int) {
	e.guard.WithLock(func() {
		e.scene.LoopStart = start
		e.scene.LoopEnd = end
	})
}

// LoopRange returns the current loop row range.
func (e *Engine) LoopRange() (start, end int) {
	e.guard.WithLock(func() {
		start = e.scene.LoopStart
		end = e.scene.LoopEnd
	})
	return start, end
}

// SetLoopMode toggles loop-mode clamping of the song playhead.
func (e *Engine) SetLoopMode(enabled bool) {
	e.guard.WithLock(func() { e.scene.LoopMode = enabled })
}

// LoopMode reports whether loop mode is active.
func (e *Engine) LoopMode() bool {
	var on bool
	e.guard.WithLock(func() { on = e.scene.LoopMode })
	return on
}

// --- Mode ---

// SetDrumEngine swaps the drum engine by name ("808"|"909"|"606").
// Returns false and leaves the engine unchanged if name is unrecognized.
func (e *Engine) SetDrumEngine(name string) bool {
	kind, ok := drumengine.KindByName(name)
	if !ok {
		return false
	}
	e.guard.WithLock(func() {
		e.drumKind = kind
		e.drums = drumengine.New(kind, e.sampleRate)
		e.scene.DrumEngineName = name
	})
	return true
}

// DrumEngineNames enumerates the available drum engine names.
func (e *Engine) DrumEngineNames() []string {
	out := make([]string, len(drumengine.Names))
	copy(out, drumengine.Names)
	return out
}

// DrumEngineName returns the currently active drum engine's name.
func (e *Engine) DrumEngineName() string {
	var name string
	e.guard.WithLock(func() { name = e.scene.DrumEngineName })
	return name
}

// --- Scene ---

// LoadScene fetches name from the engine's SceneStore, parses it, and
// swaps it in only if parsing succeeds; the previous scene and
// transport position are kept on any failure.
func (e *Engine) LoadScene(name string) error {
	r, err := e.store.Load(name)
	if err != nil {
		e.logger.Warn("scene load: store miss", "name", name, "error", err)
		return err
	}
	scn, err := sceneio.Load(r, defaultAutomationPoolCapacity)
	if err != nil {
		e.logger.Warn("scene load: parse failed", "name", name, "error", err)
		return err
	}
	e.guard.WithLock(func() {
		e.scene = scn
		e.clock = transport.NewClock(scn, e.sampleRate)
		e.drumKind, _ = drumengine.KindByName(scn.DrumEngineName)
		e.drums = drumengine.New(e.drumKind, e.sampleRate)
		e.applyScenarioStateToVoices()
		e.applyTapeState()
		e.applyVocalState()
		for i, phrase := range e.scene.CustomPhrases {
			e.mix.Voice.SetCustomPhrase(i, phrase)
		}
	})
	return nil
}

// SaveScene dumps the current scene as JSON and writes it to the
// engine's SceneStore under name.
func (e *Engine) SaveScene(name string) error {
	data, err := e.dumpSceneBytes()
	if err != nil {
		return err
	}
	return e.store.Save(name, data)
}

// SceneNames enumerates the scene names available from the store.
func (e *Engine) SceneNames() []string {
	return e.store.Names()
}

// --- Tape bus ---

// SetTapeState replaces the tape bus configuration (FX macros plus
// looper mode/speed/volume) and applies it to the tape bus immediately.
func (e *Engine) SetTapeState(t scene.TapeState) {
	e.guard.WithLock(func() {
		e.scene.Tape = t
		e.applyTapeState()
	})
}

// TapeState returns the current tape bus configuration.
func (e *Engine) TapeState() scene.TapeState {
	var t scene.TapeState
	e.guard.WithLock(func() { t = e.scene.Tape })
	return t
}

// LooperPlayheadProgress returns the looper's playhead position within
// its recorded loop, in [0,1], or 0 if no loop is recorded yet.
func (e *Engine) LooperPlayheadProgress() float64 {
	var p float64
	e.guard.WithLock(func() { p = e.mix.Looper.PlayheadProgress() })
	return p
}

// --- Formant voice ---

// Speak pushes scene.Vocal onto the formant voice and triggers it to
// speak text (spec §4.7). Empty text stops any speech in progress.
func (e *Engine) Speak(text string) {
	e.guard.WithLock(func() {
		e.applyVocalState()
		if text == "" {
			e.mix.Voice.Stop()
			return
		}
		e.mix.Voice.Speak(text)
	})
}

// SpeakCustomPhrase speaks scene.CustomPhrases[index] through the
// formant voice.
func (e *Engine) SpeakCustomPhrase(index int) {
	e.guard.WithLock(func() {
		if index < 0 || index >= len(e.scene.CustomPhrases) {
			return
		}
		e.applyVocalState()
		e.mix.Voice.Speak(e.scene.CustomPhrases[index])
	})
}

// StopSpeech halts the formant voice immediately.
func (e *Engine) StopSpeech() {
	e.guard.WithLock(func() { e.mix.Voice.Stop() })
}

// IsSpeaking reports whether the formant voice is currently speaking.
func (e *Engine) IsSpeaking() bool {
	var speaking bool
	e.guard.WithLock(func() { speaking = e.mix.Voice.IsSpeaking() })
	return speaking
}

// SetVocalState replaces the formant voice's pitch/speed/robotness/
// volume settings and applies them immediately.
func (e *Engine) SetVocalState(v scene.VocalSettings) {
	e.guard.WithLock(func() {
		e.scene.Vocal = v
		e.applyVocalState()
	})
}

// VocalState returns the current formant voice settings.
func (e *Engine) VocalState() scene.VocalSettings {
	var v scene.VocalSettings
	e.guard.WithLock(func() { v = e.scene.Vocal })
	return v
}

// NewScene replaces the current scene with a freshly cleared one.
func (e *Engine) NewScene() {
	e.guard.WithLock(func() {
		e.scene = scene.NewScene(defaultAutomationPoolCapacity)
		e.clock = transport.NewClock(e.scene, e.sampleRate)
		e.drumKind = drumengine.KindTR808
		e.drums = drumengine.New(e.drumKind, e.sampleRate)
		e.applyScenarioStateToVoices()
		e.applyTapeState()
		e.applyVocalState()
		for i, phrase := range e.scene.CustomPhrases {
			e.mix.Voice.SetCustomPhrase(i, phrase)
		}
	})
}

// DumpScene serializes the current scene as a JSON string.
func (e *Engine) DumpScene() (string, error) {
	data, err := e.dumpSceneBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *Engine) dumpSceneBytes() ([]byte, error) {
	var buf bytes.Buffer
	var err error
	e.guard.WithLock(func() {
		err = sceneio.Dump(&buf, e.scene)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- Waveform ---

// CopyWaveform copies the last guard.WaveformSize output samples into
// dst, which must have that length.
func (e *Engine) CopyWaveform(dst []int16) {
	e.wave.Snapshot(dst)
}

// PerfSnapshot returns a torn-free read of audio callback timing stats.
func (e *Engine) PerfSnapshot() guard.PerfSnapshot {
	return e.perf.Read()
}

// --- Audio output ---

// GenerateAudioBuffer fills dst with one mono int16 sample per slot,
// advancing the transport and rendering the full mixer chain under
// the audio guard (spec §4.9 steps 1-9).
func (e *Engine) GenerateAudioBuffer(dst []int16) {
	start := time.Now()
	e.guard.WithLock(func() {
		e.applyTapeState()
		for i := range dst {
			e.clock.Advance(e.voiceA, e.voiceB, e.drums)
			aOut := e.voiceA.Process()
			bOut := e.voiceB.Process()
			sample := e.mix.RenderSample(aOut, bOut, e.drums)
			dst[i] = sample
			e.wave.Write(sample)
		}
	})
	elapsed := time.Since(start)
	e.perf.Update(uint64(len(dst)), uint64(len(dst)), 0, uint64(elapsed.Nanoseconds()))
}

// --- internal helpers ---

func (e *Engine) activeSynthPattern(track int) *scene.SynthPattern {
	return e.scene.SynthBank(track, e.scene.SynthBankIndex[track]).Patterns[e.scene.SynthPatternIndex[track]]
}

func (e *Engine) activeDrumPatternSet() *scene.DrumPatternSet {
	return e.scene.DrumBanks[e.scene.DrumBankIndex].Patterns[e.scene.DrumPatternIndex]
}

// applyScenarioStateToVoices pushes the scene's persisted synth
// params and groovebox mode onto both voices, e.g. after a scene swap.
func (e *Engine) applyScenarioStateToVoices() {
	for i, v := range [2]*voice.Voice{e.voiceA, e.voiceB} {
		p := e.scene.SynthParams[i]
		v.SetParams(p.Cutoff, p.Resonance, p.EnvAmount, p.EnvDecay, voice.Oscillator(p.OscType))
		v.SetMode(voice.Mode(e.scene.Mode))
	}
}

// applyTapeState pushes the scene's tape bus configuration onto
// TapeFX and the looper. Macros are marked dirty once per call, not
// per sample, matching TapeFX.ApplyMacro's block-rate contract
// (spec §4.6).
func (e *Engine) applyTapeState() {
	t := e.scene.Tape
	e.mix.SetTapeFXEnabled(t.FXEnabled)
	e.mix.TapeFX.ApplyMacro(tape.Macro{
		Wow:      t.Wow,
		Age:      t.Age,
		Sat:      t.Sat,
		Tone:     t.Tone,
		Crush:    t.Crush,
		Space:    t.Space,
		Movement: t.Movement,
		Groove:   t.Groove,
	})
	e.mix.Looper.SetMode(tape.Mode(t.Mode))
	e.mix.Looper.SetSpeed(t.Speed)
	e.mix.Looper.SetVolume(t.Volume)
}

// applyVocalState pushes the scene's formant voice settings onto
// mix.Voice, leaving any in-progress speech uninterrupted.
func (e *Engine) applyVocalState() {
	v := e.scene.Vocal
	e.mix.Voice.SetPitch(v.Pitch)
	e.mix.Voice.SetSpeed(v.Speed)
	e.mix.Voice.SetRobotness(v.Robotness)
	e.mix.Voice.SetVolume(v.Volume)
}

func clampTrack(track int) int {
	return clampInt(track, 0, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
