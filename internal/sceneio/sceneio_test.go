package sceneio

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestLoadParsesMinimalScene(t *testing.T) {
	doc := `{
		"drumBanks": [], "synthABanks": [], "synthBBanks": [], "songs": [],
		"state": {"bpm": 128, "masterVolume": 0.8, "songMode": true, "songPosition": 2,
			"loopMode": false, "loopStart": 0, "loopEnd": 0,
			"drumPatternIndex": 1, "drumBankIndex": 0, "drumEngineName": "909",
			"activeSongSlot": 1, "mode": 1,
			"synthPatternIndex": [1, 2], "synthBankIndex": [0, 1],
			"trackVolumes": [1,1,1,1,1,1,1,1,1,1],
			"customPhrases": ["hi", "", "", "", "", "", "", "", "", "", "", "", "", "", "", ""],
			"mute": {"drums": [false,false,false,false,false,false,false,false,false], "synth": [false,true]},
			"synthDistortion": [true, false], "synthDelay": [false, true],
			"synthParams": [{"cutoff":0.5,"resonance":0.3,"envAmount":0.4,"envDecay":0.2,"oscType":1},
				{"cutoff":0.6,"resonance":0.2,"envAmount":0.5,"envDecay":0.3,"oscType":0}]
		}
	}`
	scn, err := Load(strings.NewReader(doc), 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scn.BPM != 128 {
		t.Fatalf("expected bpm 128, got %v", scn.BPM)
	}
	if scn.DrumEngineName != "909" {
		t.Fatalf("expected drum engine 909, got %q", scn.DrumEngineName)
	}
	if !scn.SongMode || scn.SongPosition != 2 {
		t.Fatalf("expected songMode=true songPosition=2, got %v %v", scn.SongMode, scn.SongPosition)
	}
	if scn.SynthPatternIndex[1] != 2 {
		t.Fatalf("expected synthPatternIndex[1]=2, got %v", scn.SynthPatternIndex[1])
	}
	if !scn.MuteSynth[1] {
		t.Fatal("expected synth B muted")
	}
	if scn.CustomPhrases[0] != "hi" {
		t.Fatalf("expected custom phrase 0 = hi, got %q", scn.CustomPhrases[0])
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`{"drumBanks": [`), 64)
	if err == nil {
		t.Fatal("expected malformed JSON to error")
	}
}

func TestDumpThenLoadRoundTripsScalarState(t *testing.T) {
	doc := `{"drumBanks": [], "synthABanks": [], "synthBBanks": [], "songs": [],
		"state": {"bpm": 140, "masterVolume": 0.9, "songMode": false, "songPosition": 0,
			"loopMode": true, "loopStart": 1, "loopEnd": 3,
			"drumPatternIndex": 0, "drumBankIndex": 0, "drumEngineName": "606",
			"activeSongSlot": 0, "mode": 0,
			"synthPatternIndex": [0, 0], "synthBankIndex": [0, 0],
			"trackVolumes": [1,1,1,1,1,1,1,1,1,1],
			"customPhrases": ["", "", "", "", "", "", "", "", "", "", "", "", "", "", "", ""],
			"mute": {"drums": [false,false,false,false,false,false,false,false,false], "synth": [false,false]},
			"synthDistortion": [false, false], "synthDelay": [false, false],
			"synthParams": [{"cutoff":0.5,"resonance":0.3,"envAmount":0.4,"envDecay":0.2,"oscType":0},
				{"cutoff":0.5,"resonance":0.3,"envAmount":0.4,"envDecay":0.2,"oscType":0}]
		}}`
	scn, err := Load(strings.NewReader(doc), 64)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Dump(&buf, scn); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	scn2, err := Load(&buf, 64)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if scn2.BPM != scn.BPM || scn2.DrumEngineName != scn.DrumEngineName || scn2.LoopStart != 1 || scn2.LoopEnd != 3 {
		t.Fatalf("round trip mismatch: %+v vs original bpm=%v engine=%v", scn2, scn.BPM, scn.DrumEngineName)
	}
}

func TestLoadAllParsesConcurrently(t *testing.T) {
	doc := `{"drumBanks": [], "synthABanks": [], "synthBBanks": [], "songs": [],
		"state": {"bpm": 100, "masterVolume": 1, "songMode": false, "songPosition": 0,
			"loopMode": false, "loopStart": 0, "loopEnd": 0,
			"drumPatternIndex": 0, "drumBankIndex": 0, "drumEngineName": "808",
			"activeSongSlot": 0, "mode": 0,
			"synthPatternIndex": [0,0], "synthBankIndex": [0,0],
			"trackVolumes": [1,1,1,1,1,1,1,1,1,1],
			"customPhrases": ["", "", "", "", "", "", "", "", "", "", "", "", "", "", "", ""],
			"mute": {"drums": [false,false,false,false,false,false,false,false,false], "synth": [false,false]},
			"synthDistortion": [false,false], "synthDelay": [false,false],
			"synthParams": [{"cutoff":0.5,"resonance":0.3,"envAmount":0.4,"envDecay":0.2,"oscType":0},
				{"cutoff":0.5,"resonance":0.3,"envAmount":0.4,"envDecay":0.2,"oscType":0}]
		}}`
	readers := []io.Reader{strings.NewReader(doc), strings.NewReader(doc), strings.NewReader(doc)}
	scenes, err := LoadAll(readers, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(scenes))
	}
	for i, s := range scenes {
		if s.DrumEngineName != "808" {
			t.Fatalf("scene %d: expected drum engine 808, got %q", i, s.DrumEngineName)
		}
	}
}
