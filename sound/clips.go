// Package sound plays ambience clips through ebiten's audio context, or
// through a silent clock-driven stand-in for tools and tests.
package sound

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/atmosphere/assets"
)

// DefaultSampleRate is used when no audio context exists yet.
const DefaultSampleRate = 44100

// bytesPerFrame is 16-bit stereo, ebiten's decoded format.
const bytesPerFrame = 4

// Loader returns the encoded bytes of an asset.
type Loader func(asset string) ([]byte, error)

// EmbeddedLoader reads clips from the embedded asset tree.
func EmbeddedLoader(asset string) ([]byte, error) {
	return assets.LoadAudio(asset)
}

// clipCache decodes each asset once into ebiten's PCM format.
type clipCache struct {
	load       Loader
	sampleRate int
	pcm        map[string][]byte
}

func newClipCache(load Loader, sampleRate int) *clipCache {
	if load == nil {
		load = EmbeddedLoader
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &clipCache{load: load, sampleRate: sampleRate, pcm: make(map[string][]byte)}
}

func (c *clipCache) get(asset string) ([]byte, error) {
	if b, ok := c.pcm[asset]; ok {
		return b, nil
	}

	raw, err := c.load(asset)
	if err != nil {
		return nil, fmt.Errorf("sound: load %q: %w", asset, err)
	}

	var pcm []byte
	if strings.HasSuffix(strings.ToLower(asset), ".wav") {
		stream, err := wav.DecodeWithSampleRate(c.sampleRate, bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("sound: decode wav %q: %w", asset, err)
		}
		pcm, err = io.ReadAll(stream)
		if err != nil {
			return nil, fmt.Errorf("sound: read wav %q: %w", asset, err)
		}
	} else {
		// Already-decoded PCM in ebiten's native format.
		pcm = raw
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("sound: %q has no samples", asset)
	}

	c.pcm[asset] = pcm
	return pcm, nil
}

// seconds is the playing time of pcm.
func (c *clipCache) seconds(pcm []byte) float64 {
	return float64(len(pcm)/bytesPerFrame) / float64(c.sampleRate)
}
