package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"otterWizard/internal/importer"
	"otterWizard/internal/logger"
	"otterWizard/internal/prefs"
	"otterWizard/internal/sound"
)

type Kind int

const (
	KindSuccess Kind = iota
	KindInfo
	KindError
)

// Notice is what the UI shows after an import or playback attempt.
// A non-zero Timeout means the notice closes by itself.
type Notice struct {
	Kind    Kind
	Title   string
	Message string
	Timeout time.Duration
}

type Notifier struct {
	player  sound.Player
	timeout time.Duration
}

func New(player sound.Player, successTimeout time.Duration) *Notifier {
	return &Notifier{player: player, timeout: successTimeout}
}

// Success logs the completed job and builds the transient notice. The
// returned bool reports whether the completion sound should be played.
func (n *Notifier) Success(job importer.Job, p *prefs.Preferences) (Notice, bool) {
	csvName, templateName, outputName := job.Basenames()
	message := fmt.Sprintf("Process completed successfully! Files: %s - %s - %s", csvName, templateName, outputName)

	logger.Info(fmt.Sprintf("Process completed by %s: %s", job.User, message), "job", job.ID)

	playSound := p != nil && p.PlayCompleteSoundOnSuccess && p.CompleteSoundPath != ""
	return Notice{
		Kind:    KindSuccess,
		Title:   "Success",
		Message: message,
		Timeout: n.timeout,
	}, playSound
}

// Failure logs err with the active user and builds the modal error notice.
func (n *Notifier) Failure(job importer.Job, err error) Notice {
	if errors.Is(err, importer.ErrMissingInput) {
		logger.Error("Missing input fields", "user", job.User)
		return Notice{Kind: KindError, Title: "Error", Message: "Please fill in all fields"}
	}

	logger.Error(fmt.Sprintf("An error occurred: %v - Process run by %s", err, job.User), "job", job.ID)
	return Notice{
		Kind:    KindError,
		Title:   "Error",
		Message: fmt.Sprintf("An error occurred: %v", err),
	}
}

// Info builds a modal informational notice.
func Info(title, message string) Notice {
	return Notice{Kind: KindInfo, Title: title, Message: message}
}

// PlaySound plays the completion sound. A playback failure is logged and
// returned as an error notice; it never changes the import result.
func (n *Notifier) PlaySound(ctx context.Context, path string) *Notice {
	if n.player == nil || path == "" {
		return nil
	}

	if err := n.player.Play(ctx, path); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Error(fmt.Sprintf("Error playing complete sound: %v", err))
		return &Notice{
			Kind:    KindError,
			Title:   "Complete Sound Error",
			Message: fmt.Sprintf("Error playing complete sound: %v", err),
		}
	}
	return nil
}
