package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

//go:embed sprites/*.png sfx/*.wav
var assetsFS embed.FS

// FS returns the embedded asset tree.
func FS() fs.FS {
	return assetsFS
}

// LoadImage loads an embedded image by assets-relative path.
func LoadImage(path string) (*ebiten.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %q: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(CleanPath(path))
}

// LoadAudioStream decodes an embedded audio asset at the context's sample
// rate. Looping streams wrap the decoded data in an infinite loop.
func LoadAudioStream(ctx *audio.Context, path string, loop bool) (io.ReadSeeker, error) {
	if ctx == nil {
		return nil, fmt.Errorf("assets: nil audio context")
	}
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	clean := strings.ToLower(CleanPath(path))
	if !strings.HasSuffix(clean, ".wav") {
		// Already-decoded PCM in Ebiten's native format.
		return bytes.NewReader(b), nil
	}

	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", path, err)
	}
	if loop {
		return audio.NewInfiniteLoop(stream, stream.Length()), nil
	}
	return stream, nil
}

// LoadAudioPlayer decodes an embedded audio asset and creates a player for it.
func LoadAudioPlayer(ctx *audio.Context, path string, loop bool) (*audio.Player, error) {
	stream, err := LoadAudioStream(ctx, path, loop)
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(stream)
}

// CleanPath turns an absolute or "assets/"-prefixed path into the embed key.
func CleanPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
