package game

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/iburimskiy/blobby/internal/config"
)

// drift plays a looping track and turns its loudness into a z speed.
type drift struct {
	streamer beep.StreamSeekCloser // owns the file
	tap      *visualTap
	gain     float64
	level    float64
	stopOnce sync.Once
}

// openDrift decodes path, starts looped playback through a tap and returns
// the drift reading from it.
func openDrift(path string, gain float64) (*drift, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "audio: open")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.Errorf("audio: unsupported file type %q", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "audio: decode %s", path)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
		_ = streamer.Close()
		return nil, errors.Wrap(err, "audio: init speaker")
	}

	d := &drift{
		streamer: streamer,
		tap:      newVisualTap(beep.Loop(-1, streamer), config.VisualRingSize),
		gain:     gain,
	}
	speaker.Play(d.tap)
	return d, nil
}

// speed scales base by the smoothed loudness of the last samples.
func (d *drift) speed(base float64) float64 {
	d.level = config.SmoothingFactor*d.level + (1-config.SmoothingFactor)*loudness(d.tap.snapshot(config.LevelWindow))
	return base * (1 + d.gain*d.level)
}

func (d *drift) Close() error {
	var err error
	d.stopOnce.Do(func() {
		speaker.Clear()
		err = d.streamer.Close()
	})
	return err
}
