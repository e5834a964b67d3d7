// Command groovebox-ui is a minimal waveform and transport viewer,
// grounded on the teacher's cmd/play_mml_ui. It is a thin illustrative
// consumer of the engine façade, not part of the core.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	acidcore "github.com/cbegin/acidcore-go"
	"github.com/cbegin/acidcore-go/internal/audioio"
)

const (
	windowW = 640
	windowH = 320
	uiSampleRate = 44100
	waveSamples  = 1024
)

var (
	bgColor   = color.RGBA{0x20, 0x20, 0x28, 0xff}
	waveColor = color.RGBA{0x40, 0xe0, 0xa0, 0xff}
)

type game struct {
	eng    *acidcore.Engine
	player *audioio.Player
	wave   []int16
}

func newGame(drumEngine string, bpm float64) (*game, error) {
	eng, err := acidcore.NewEngine(uiSampleRate)
	if err != nil {
		return nil, err
	}
	eng.SetBPM(bpm)
	if !eng.SetDrumEngine(drumEngine) {
		return nil, fmt.Errorf("unknown drum engine %q", drumEngine)
	}
	for step := 0; step < 16; step += 4 {
		eng.ToggleDrumHit(0, step)
	}

	pl, err := audioio.NewPlayer(uiSampleRate, eng)
	if err != nil {
		return nil, err
	}
	g := &game{eng: eng, player: pl, wave: make([]int16, waveSamples)}
	return g, nil
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePlayPause()
	}
	g.eng.CopyWaveform(g.wave)
	return nil
}

func (g *game) togglePlayPause() {
	if g.player.IsPlaying() {
		g.player.Pause()
		g.eng.Stop()
		return
	}
	g.eng.Start()
	g.player.Play()
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	g.drawWaveform(screen)

	status := fmt.Sprintf("step %2d  bpm %.0f  drum %s  [space] play/pause",
		g.eng.CurrentStep(), g.eng.BPM(), g.eng.DrumEngineName())
	ebitenutil.DebugPrintAt(screen, status, 8, windowH-20)
}

func (g *game) drawWaveform(screen *ebiten.Image) {
	midY := float32(windowH) / 2
	step := float32(windowW) / float32(len(g.wave))
	for i := 1; i < len(g.wave); i++ {
		x0 := float32(i-1) * step
		x1 := float32(i) * step
		y0 := midY - float32(g.wave[i-1])/32768*midY
		y1 := midY - float32(g.wave[i])/32768*midY
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, waveColor, false)
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

func main() {
	var (
		drumEngine = flag.String("drum-engine", "808", "drum engine: 808|909|606")
		bpm        = flag.Float64("bpm", 120, "tempo in beats per minute")
	)
	flag.Parse()

	g, err := newGame(*drumEngine, *bpm)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("groovebox")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
