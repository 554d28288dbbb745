package docpipe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/morph/staging"
)

// renderPDF converts a staged docx to PDF by shelling out to LibreOffice.
// The render is bounded by Config.RenderTimeout; LibreOffice writes the
// output next to the input with the extension swapped.
func (p *Pipeline) renderPDF(ctx context.Context, stage *staging.Dir, docxPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RenderTimeout)
	defer cancel()

	// A private profile dir keeps concurrent renders from fighting over
	// the default LibreOffice lock file.
	profileDir, err := stage.Path("lo-profile")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return "", fmt.Errorf("%w: profile dir: %v", ErrConversionFailed, err)
	}

	cmd := exec.CommandContext(ctx, p.cfg.SofficePath,
		"--headless",
		"--norestore",
		"-env:UserInstallation=file://"+profileDir,
		"--convert-to", "pdf",
		"--outdir", stage.Root(),
		docxPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: pdf render timed out after %s", ErrConversionFailed, p.cfg.RenderTimeout)
		}
		return "", fmt.Errorf("%w: pdf render: %v: %s", ErrConversionFailed, err, truncate(string(output), 512))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	outPath := filepath.Join(stage.Root(), base+".pdf")
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("%w: pdf render produced no output: %v", ErrConversionFailed, err)
	}

	p.cfg.Logger.Debug("pdf rendered", "input", docxPath, "output", outPath)
	return outPath, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
