package sound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

var ErrUnsupportedFormat = errors.New("unsupported sound format")

// SampleRate is the rate the audio device runs at. Files with another rate
// are resampled.
const SampleRate beep.SampleRate = 44100

// Player plays a sound file and returns once playback has finished.
type Player interface {
	Play(ctx context.Context, path string) error
}

// device is the process-wide audio output. The speaker package can only be
// initialized once per process, so every player shares one device.
type device struct {
	mu    sync.Mutex
	ready bool

	init  func(sr beep.SampleRate, bufferSize int) error
	play  func(s ...beep.Streamer)
	clear func()
}

var defaultDevice = &device{
	init:  speaker.Init,
	play:  speaker.Play,
	clear: speaker.Clear,
}

// open initializes the device on first use. A failed attempt is retried on
// the next call.
func (d *device) open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		return nil
	}
	if err := d.init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	d.ready = true
	return nil
}

// SpeakerPlayer plays mp3 and wav files on the default audio device.
type SpeakerPlayer struct {
	PollInterval time.Duration
	out          *device
}

func NewSpeakerPlayer(poll time.Duration) *SpeakerPlayer {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return &SpeakerPlayer{PollInterval: poll, out: defaultDevice}
}

func (p *SpeakerPlayer) Play(ctx context.Context, path string) error {
	decode, err := decoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}
	defer f.Close()

	streamer, format, err := decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	if err := p.out.open(); err != nil {
		return fmt.Errorf("failed to initialize audio mixer: %w", err)
	}

	var done atomic.Bool
	p.out.play(beep.Seq(
		beep.Resample(4, format.SampleRate, SampleRate, streamer),
		beep.Callback(func() { done.Store(true) }),
	))

	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()
	for !done.Load() {
		select {
		case <-ctx.Done():
			p.out.clear()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return mp3.Decode(f)
		}, nil
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(f)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
