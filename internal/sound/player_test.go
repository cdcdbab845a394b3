package sound

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderFor(t *testing.T) {
	for _, name := range []string{"done.mp3", "DONE.MP3", "chime.wav"} {
		decode, err := decoderFor(name)
		require.NoError(t, err, name)
		assert.NotNil(t, decode, name)
	}

	_, err := decoderFor("tune.ogg")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestPlay_UnsupportedFormat(t *testing.T) {
	err := NewSpeakerPlayer(0).Play(context.Background(), "notes.txt")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestPlay_MissingFile(t *testing.T) {
	err := NewSpeakerPlayer(time.Millisecond).Play(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPlay_UndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0644))

	err := NewSpeakerPlayer(time.Millisecond).Play(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode broken.wav")
}

func TestNewSpeakerPlayer_DefaultPoll(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, NewSpeakerPlayer(0).PollInterval)
	assert.Equal(t, 20*time.Millisecond, NewSpeakerPlayer(20*time.Millisecond).PollInterval)
}

type fakeDevice struct {
	inits   int
	initErr error
	cleared int
}

// newTestPlayer returns a player whose device drains each stream in the
// background instead of sending it to an audio card.
func newTestPlayer(fd *fakeDevice) *SpeakerPlayer {
	return &SpeakerPlayer{
		PollInterval: time.Millisecond,
		out: &device{
			init: func(beep.SampleRate, int) error {
				fd.inits++
				return fd.initErr
			},
			play: func(streamers ...beep.Streamer) {
				go func() {
					buf := make([][2]float64, 512)
					for _, s := range streamers {
						for {
							if _, ok := s.Stream(buf); !ok {
								break
							}
						}
					}
				}()
			},
			clear: func() { fd.cleared++ },
		},
	}
}

func writeWav(t *testing.T, rate beep.SampleRate) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chime.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(rate.N(50*time.Millisecond)), format))
	return path
}

func TestPlay_RepeatedPlaybackInitializesDeviceOnce(t *testing.T) {
	fd := &fakeDevice{}
	player := newTestPlayer(fd)
	path := writeWav(t, 22050)

	for i := 0; i < 3; i++ {
		require.NoError(t, player.Play(context.Background(), path), "play %d", i+1)
	}
	assert.Equal(t, 1, fd.inits)
}

func TestPlay_InitFailureIsRetried(t *testing.T) {
	fd := &fakeDevice{initErr: errors.New("no audio device")}
	player := newTestPlayer(fd)
	path := writeWav(t, SampleRate)

	err := player.Play(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize audio mixer: no audio device")

	fd.initErr = nil
	require.NoError(t, player.Play(context.Background(), path))
	assert.Equal(t, 2, fd.inits)
}

func TestPlay_CancelClearsSpeaker(t *testing.T) {
	fd := &fakeDevice{}
	player := newTestPlayer(fd)
	player.out.play = func(...beep.Streamer) {}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := player.Play(ctx, writeWav(t, SampleRate))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fd.cleared)
}
