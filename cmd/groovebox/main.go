// Command groovebox renders a scene offline to a WAV file, grounded on
// the teacher's cmd/play_mml CLI.
package main

import (
	"flag"
	"log"
	"os"

	acidcore "github.com/cbegin/acidcore-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		bars       = flag.Int("bars", 4, "number of 16-step bars to render")
		bpm        = flag.Float64("bpm", 120, "tempo in beats per minute")
		sceneDir   = flag.String("scene-dir", "scenes", "directory holding saved scene files")
		sceneName  = flag.String("scene", "", "name of a saved scene to load before rendering")
		drumEngine = flag.String("drum-engine", "808", "drum engine: 808|909|606")
		outPath    = flag.String("out", "groovebox.wav", "output WAV file path")
	)
	flag.Parse()

	store, err := acidcore.NewFileSceneStore(*sceneDir)
	if err != nil {
		log.Fatal(err)
	}

	eng, err := acidcore.NewEngine(float64(*sampleRate), acidcore.WithSceneStore(store))
	if err != nil {
		log.Fatal(err)
	}

	if *sceneName != "" {
		if err := eng.LoadScene(*sceneName); err != nil {
			log.Fatal(err)
		}
	} else {
		eng.SetBPM(*bpm)
		if !eng.SetDrumEngine(*drumEngine) {
			log.Fatalf("unknown -drum-engine %q (expected 808|909|606)", *drumEngine)
		}
	}

	eng.Start()
	const stepsPerBar = 16
	samplesPerStep := float64(*sampleRate) * 60.0 / (eng.BPM() * 4.0)
	samplesPerBar := int(samplesPerStep * stepsPerBar)
	total := samplesPerBar * *bars
	buf := make([]int16, total)
	eng.GenerateAudioBuffer(buf)
	eng.Stop()

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := acidcore.EncodeWAVInt16LE(f, buf, *sampleRate); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d samples to %s", total, *outPath)
}
