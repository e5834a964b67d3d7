package scene

const (
	maxSongPositions  = 128
	tracksPerPosition = 4 // SynthA, SynthB, Drums, Voice
)

// Track names an index into a SongPosition's Patterns array.
type Track int

const (
	TrackSynthA Track = iota
	TrackSynthB
	TrackDrums
	TrackVoice
)

// SongPosition is one row of a song: a global pattern id per track, or
// -1 to rest that track at this position.
type SongPosition struct {
	Patterns [tracksPerPosition]int16
}

// NewSongPosition returns a position with every track resting.
func NewSongPosition() SongPosition {
	return SongPosition{Patterns: [tracksPerPosition]int16{-1, -1, -1, -1}}
}

// Song is a sequence of positions walked by the song-mode playhead.
type Song struct {
	Positions [maxSongPositions]SongPosition
	Length    int
	Reverse   bool
}

// NewSong returns a song of length 1, every position resting.
func NewSong() *Song {
	s := &Song{Length: 1}
	for i := range s.Positions {
		s.Positions[i] = NewSongPosition()
	}
	return s
}

// patternsPerPage is the bank/index space folded into one page of the
// global pattern id; multi-page layouts are encoded but not exercised
// by core playback.
const patternsPerPage = banksPerInstrument * patternsPerBank

const banksPerInstrument = 2

// EncodePatternID folds (page, bank, indexInBank) into the global id
// space used by SongPosition.Patterns.
func EncodePatternID(page, bank, indexInBank int) int16 {
	return int16(page*patternsPerPage + bank*patternsPerBank + indexInBank)
}

// DecodePatternID splits a global pattern id back into (page, bank,
// indexInBank). A negative id (rest) decodes to (0,0,-1).
func DecodePatternID(id int16) (page, bank, indexInBank int) {
	if id < 0 {
		return 0, 0, -1
	}
	v := int(id)
	page = v / patternsPerPage
	v -= page * patternsPerPage
	bank = v / patternsPerBank
	indexInBank = v % patternsPerBank
	return page, bank, indexInBank
}

// SetPattern writes the pattern id at (position, track), auto-extending
// Length if the position is beyond the current end.
func (s *Song) SetPattern(position int, track Track, id int16) {
	if position < 0 || position >= maxSongPositions {
		return
	}
	s.Positions[position].Patterns[track] = id
	if position+1 > s.Length {
		s.Length = position + 1
	}
}

// ClearTrailing trims trailing positions that rest on every track.
func (s *Song) ClearTrailing() {
	for s.Length > 1 {
		p := s.Positions[s.Length-1]
		allRest := true
		for _, v := range p.Patterns {
			if v >= 0 {
				allRest = false
				break
			}
		}
		if !allRest {
			break
		}
		s.Length--
	}
}
