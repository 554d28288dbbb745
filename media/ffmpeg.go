package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// runFFmpeg executes ffmpeg with the given arguments and verifies the
// expected output file exists afterwards. stderr is folded into the error
// because ffmpeg reports diagnostics there.
func (t *Transcoder) runFFmpeg(ctx context.Context, outPath string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	full := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, args...)
	cmd := exec.CommandContext(ctx, t.cfg.FFmpegPath, full...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: ffmpeg timed out after %s", ErrConversionFailed, t.cfg.Timeout)
		}
		return fmt.Errorf("%w: ffmpeg: %v: %s", ErrConversionFailed, err, truncate(string(output), 512))
	}

	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("%w: ffmpeg produced no output: %v", ErrConversionFailed, err)
	}

	t.cfg.Logger.Debug("ffmpeg done", "output", outPath)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
