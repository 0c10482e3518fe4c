package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Screenshots saves full-page captures of failed scrapes so a login or
// markup change can be diagnosed from the logs dir after the fact.
type Screenshots struct {
	dir string
}

func NewScreenshots(logsDir string) *Screenshots {
	dir := filepath.Join(logsDir, "screenshots")
	os.MkdirAll(dir, 0755)
	return &Screenshots{dir: dir}
}

// Capture writes a timestamped full-page PNG named after the failure
// and returns the saved path for the caller's log line.
func (s *Screenshots) Capture(page playwright.Page, name string) (string, error) {
	filename := fmt.Sprintf("%s_%s.png", name, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.dir, filename)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("failed to capture screenshot %s: %w", name, err)
	}
	return path, nil
}
