package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Manager owns one headless Chromium instance. The watcher creates a
// fresh Manager per cycle and closes it when the cycle ends, so a
// timed-out scrape never leaves a browser session behind.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewManager() (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not launch playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &Manager{pw: pw, browser: b}, nil
}

func (m *Manager) NewPage() (playwright.Page, error) {
	return m.browser.NewPage()
}

func (m *Manager) Close() {
	if m.browser != nil {
		_ = m.browser.Close()
	}
	if m.pw != nil {
		_ = m.pw.Stop()
	}
}
