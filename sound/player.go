// Package sound plays short embedded cues through ebiten's audio context.
package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/bloodroom/assets"
)

const SampleRate = 44100

var (
	ErrNotInitialized = errors.New("sound: player not initialized")
	ErrEmptyID        = errors.New("sound: empty sound id")
)

// Decoder turns an asset path into PCM in ebiten's native format.
type Decoder func(ctx *audio.Context, path string) ([]byte, error)

// Player plays cues by asset path, decoding each one once.
type Player struct {
	Volume float64

	ctx    *audio.Context
	decode Decoder
	pcm    map[string][]byte
	active []*audio.Player
}

func NewPlayer() *Player {
	return &Player{
		Volume: 1,
		decode: decodeAsset,
		pcm:    make(map[string][]byte),
	}
}

// Init creates (or reuses) the process-wide audio context. Calling it twice
// is harmless.
func (p *Player) Init() error {
	if p == nil {
		return ErrNotInitialized
	}
	if p.ctx != nil {
		return nil
	}
	if ctx := audio.CurrentContext(); ctx != nil {
		p.ctx = ctx
		return nil
	}
	p.ctx = audio.NewContext(SampleRate)
	return nil
}

// Play starts the cue id. Looping cues repeat until Stop.
func (p *Player) Play(id string, loop bool) error {
	if p == nil || p.ctx == nil {
		return ErrNotInitialized
	}
	if id == "" {
		return ErrEmptyID
	}

	pcm, err := p.load(id)
	if err != nil {
		return err
	}

	var player *audio.Player
	if loop {
		player, err = p.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
		if err != nil {
			return fmt.Errorf("sound: %s: %w", id, err)
		}
	} else {
		player = p.ctx.NewPlayerFromBytes(pcm)
	}
	player.SetVolume(p.Volume)
	player.Play()

	p.prune()
	p.active = append(p.active, player)
	return nil
}

// Stop halts every cue that is still playing.
func (p *Player) Stop() {
	if p == nil {
		return
	}
	for _, pl := range p.active {
		_ = pl.Close()
	}
	p.active = nil
}

func (p *Player) load(id string) ([]byte, error) {
	if pcm, ok := p.pcm[id]; ok {
		return pcm, nil
	}
	pcm, err := p.decode(p.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sound: %s: %w", id, err)
	}
	p.pcm[id] = pcm
	return pcm, nil
}

func (p *Player) prune() {
	live := p.active[:0]
	for _, pl := range p.active {
		if pl.IsPlaying() {
			live = append(live, pl)
			continue
		}
		_ = pl.Close()
	}
	p.active = live
}

func decodeAsset(ctx *audio.Context, path string) ([]byte, error) {
	stream, err := assets.LoadAudioStream(ctx, path, false)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}
