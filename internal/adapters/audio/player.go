// Package audio plays the notification tone. The primary player runs an
// external command on the configured asset; the fallback synthesizes a short
// tone so a missing or broken asset still produces feedback.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/hoster-project/portal-sync/internal/core/ports"
)

// CommandPlayer plays an audio file through an external player command
// (e.g. "paplay", "afplay").
type CommandPlayer struct {
	Command string
	Asset   string
}

var _ ports.Player = (*CommandPlayer)(nil)

func (p *CommandPlayer) Play(ctx context.Context) error {
	if p.Command == "" {
		return errors.New("no player command configured")
	}
	if _, err := os.Stat(p.Asset); err != nil {
		return fmt.Errorf("notification asset: %w", err)
	}
	return exec.CommandContext(ctx, p.Command, p.Asset).Run()
}

// TonePlayer synthesizes the fallback tone to a temp file once and plays it
// through the same external command. With no command configured it rings the
// terminal bell instead.
type TonePlayer struct {
	Command string

	once sync.Once
	path string
	err  error
}

var _ ports.Player = (*TonePlayer)(nil)

func (p *TonePlayer) Play(ctx context.Context) error {
	if p.Command == "" {
		_, err := fmt.Fprint(os.Stderr, "\a")
		return err
	}

	p.once.Do(func() {
		p.path = filepath.Join(os.TempDir(), "portal-sync-tone.wav")
		p.err = os.WriteFile(p.path, WAVTone(FallbackFreq, FallbackDuration, FallbackGain), 0o644)
	})
	if p.err != nil {
		return p.err
	}

	return exec.CommandContext(ctx, p.Command, p.path).Run()
}
