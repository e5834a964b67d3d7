package formant

// Formant is a 3-band {freq, amp, bandwidth} descriptor.
type Formant struct {
	Freq [3]float64
	Amp  [3]float64
	BW   [3]float64
}

// Phoneme pairs a symbol with its formant shape, nominal duration, and
// voiced/unvoiced excitation flag.
type Phoneme struct {
	Symbol   byte
	Formant  Formant
	Duration float64 // ms
	Voiced   bool
}

// vowelPhonemes and consonantPhonemes carry the literal table from
// original_source/src/dsp/formant_synth.h.
var vowelPhonemes = []Phoneme{
	{'a', Formant{[3]float64{730, 1090, 2440}, [3]float64{1.0, 0.5, 0.2}, [3]float64{80, 90, 120}}, 120, true},
	{'e', Formant{[3]float64{530, 1840, 2480}, [3]float64{1.0, 0.6, 0.3}, [3]float64{60, 90, 120}}, 100, true},
	{'i', Formant{[3]float64{350, 2300, 3010}, [3]float64{1.0, 0.5, 0.3}, [3]float64{60, 90, 100}}, 90, true},
	{'o', Formant{[3]float64{570, 840, 2410}, [3]float64{1.0, 0.7, 0.3}, [3]float64{70, 80, 100}}, 120, true},
	{'u', Formant{[3]float64{440, 1020, 2240}, [3]float64{1.0, 0.5, 0.3}, [3]float64{70, 80, 100}}, 100, true},
	{'@', Formant{[3]float64{520, 1550, 2550}, [3]float64{1.0, 0.5, 0.3}, [3]float64{60, 90, 120}}, 60, true},
	{'A', Formant{[3]float64{660, 1720, 2410}, [3]float64{1.0, 0.6, 0.2}, [3]float64{80, 90, 120}}, 100, true},
	{'O', Formant{[3]float64{610, 920, 2580}, [3]float64{1.0, 0.5, 0.3}, [3]float64{70, 80, 100}}, 110, true},
}

var consonantPhonemes = []Phoneme{
	{'s', Formant{[3]float64{4000, 6000, 8000}, [3]float64{0.3, 0.4, 0.5}, [3]float64{200, 300, 400}}, 120, false},
	{'z', Formant{[3]float64{3500, 5500, 7500}, [3]float64{0.3, 0.4, 0.5}, [3]float64{200, 300, 400}}, 100, true},
	{'f', Formant{[3]float64{1200, 4000, 6000}, [3]float64{0.2, 0.3, 0.2}, [3]float64{300, 400, 500}}, 100, false},
	{'v', Formant{[3]float64{1100, 3800, 5800}, [3]float64{0.2, 0.3, 0.2}, [3]float64{300, 400, 500}}, 90, true},
	{'t', Formant{[3]float64{3000, 5000, 7000}, [3]float64{0.5, 0.3, 0.2}, [3]float64{150, 200, 300}}, 40, false},
	{'d', Formant{[3]float64{2000, 3500, 5000}, [3]float64{0.6, 0.4, 0.2}, [3]float64{150, 200, 300}}, 50, true},
	{'k', Formant{[3]float64{2500, 4000, 6000}, [3]float64{0.4, 0.3, 0.2}, [3]float64{200, 250, 350}}, 50, false},
	{'g', Formant{[3]float64{2400, 3800, 5800}, [3]float64{0.4, 0.3, 0.2}, [3]float64{200, 250, 350}}, 60, true},
	{'n', Formant{[3]float64{250, 1700, 2600}, [3]float64{0.7, 0.5, 0.3}, [3]float64{100, 120, 150}}, 80, true},
	{'m', Formant{[3]float64{250, 900, 2200}, [3]float64{0.8, 0.4, 0.2}, [3]float64{100, 100, 150}}, 80, true},
	{'l', Formant{[3]float64{400, 1200, 2800}, [3]float64{0.6, 0.5, 0.3}, [3]float64{80, 100, 120}}, 70, true},
	{'r', Formant{[3]float64{400, 1200, 1800}, [3]float64{0.6, 0.5, 0.3}, [3]float64{80, 100, 120}}, 70, true},
	{'p', Formant{[3]float64{2000, 4500, 7000}, [3]float64{0.5, 0.3, 0.2}, [3]float64{150, 200, 300}}, 30, false},
	{'b', Formant{[3]float64{1800, 4200, 6800}, [3]float64{0.5, 0.3, 0.2}, [3]float64{150, 200, 300}}, 40, true},
	{'w', Formant{[3]float64{380, 840, 2200}, [3]float64{0.6, 0.4, 0.3}, [3]float64{70, 80, 100}}, 60, true},
	{'y', Formant{[3]float64{350, 2300, 3010}, [3]float64{0.6, 0.5, 0.4}, [3]float64{60, 90, 100}}, 50, true},
	{'h', Formant{[3]float64{500, 1500, 2500}, [3]float64{0.1, 0.1, 0.1}, [3]float64{200, 300, 400}}, 60, false},
	{' ', Formant{[3]float64{500, 1500, 2500}, [3]float64{0, 0, 0}, [3]float64{100, 100, 100}}, 80, false},
}

func lookupPhoneme(symbol byte) Phoneme {
	for _, p := range vowelPhonemes {
		if p.Symbol == symbol {
			return p
		}
	}
	for _, p := range consonantPhonemes {
		if p.Symbol == symbol {
			return p
		}
	}
	return vowelPhonemes[5] // schwa fallback
}
