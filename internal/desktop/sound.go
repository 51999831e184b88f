package desktop

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/playmatatu/plinko/internal/game"
)

// SampleRate of the shared audio context.
const SampleRate = 48000

type tone struct {
	freqs    []float64
	duration float64
	volume   float64
}

var tierTones = map[game.Tier]tone{
	game.TierNone:    {freqs: []float64{660}, duration: 0.05, volume: 0.15},
	game.TierBig:     {freqs: []float64{523.25, 659.25, 783.99}, duration: 0.25, volume: 0.3},
	game.TierJackpot: {freqs: []float64{523.25, 659.25, 783.99, 1046.5}, duration: 0.6, volume: 0.4},
}

// toneBytes renders freqs played in sequence as 16-bit little-endian stereo
// PCM with a linear fade-out per note.
func toneBytes(t tone, sampleRate int) []byte {
	if len(t.freqs) == 0 || t.duration <= 0 {
		return nil
	}
	perNote := int(t.duration * float64(sampleRate) / float64(len(t.freqs)))
	buf := make([]byte, 0, perNote*len(t.freqs)*4)
	for _, f := range t.freqs {
		for i := 0; i < perNote; i++ {
			env := 1 - float64(i)/float64(perNote)
			v := math.Sin(2*math.Pi*f*float64(i)/float64(sampleRate)) * t.volume * env
			s := uint16(int16(v * math.MaxInt16))
			buf = binary.LittleEndian.AppendUint16(buf, s)
			buf = binary.LittleEndian.AppendUint16(buf, s)
		}
	}
	return buf
}

// Sounds plays a short cue per landing tier. A nil *Sounds is silent.
type Sounds struct {
	ctx   *audio.Context
	clips map[game.Tier][]byte
}

// NewSounds renders every tier cue for ctx. Pass nil to disable audio.
func NewSounds(ctx *audio.Context) *Sounds {
	if ctx == nil {
		return nil
	}
	clips := make(map[game.Tier][]byte, len(tierTones))
	for tier, t := range tierTones {
		clips[tier] = toneBytes(t, ctx.SampleRate())
	}
	return &Sounds{ctx: ctx, clips: clips}
}

// Play starts the cue for tier.
func (s *Sounds) Play(tier game.Tier) {
	if s == nil {
		return
	}
	clip := s.clips[tier]
	if len(clip) == 0 {
		return
	}
	s.ctx.NewPlayerFromBytes(clip).Play()
}
