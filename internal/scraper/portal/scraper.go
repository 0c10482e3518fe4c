// Package portal scrapes the placement portal's postings table from
// behind its login form. Each Fetch runs in a fresh headless browser
// that is always closed before the call returns.
package portal

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-jobalert/internal/browser"
	"go-jobalert/internal/config"
	"go-jobalert/internal/models"
)

type Scraper struct {
	cfg  *config.Config
	shot *browser.Screenshots
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg:  cfg,
		shot: browser.NewScreenshots(cfg.LogsPath),
	}
}

func (s *Scraper) Name() string {
	return "TNP Portal"
}

func (s *Scraper) Fetch(ctx context.Context) ([]models.Posting, error) {
	mgr, err := browser.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	//always release the browser session, even on timeout
	defer mgr.Close()

	page, err := mgr.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := s.login(ctx, page); err != nil {
		return nil, err
	}

	return s.extractRows(ctx, page)
}

// login fills the credential form and verifies the portal actually let
// us through (a failed login bounces back to the login page).
func (s *Scraper) login(ctx context.Context, page playwright.Page) error {
	log.Println("🔐 Opening login page...")
	if _, err := page.Goto(s.cfg.PortalLoginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("failed to load login page: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	log.Println("✍️ Filling credentials...")
	if err := page.Locator("#identity").Fill(s.cfg.PortalUsername); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := page.Locator("#password").Fill(s.cfg.PortalPassword); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}

	if err := page.Locator("input[type='submit']").Click(); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	//verify login by the post-login URL
	if err := page.WaitForURL("**/"+s.cfg.PortalHomePath, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(30000),
	}); err != nil {
		s.snapshotFailure(page, "portal-login-failed")
		return fmt.Errorf("login failed, still on %s: %w", page.URL(), err)
	}
	log.Printf("✅ Logged in. Final URL: %s", page.URL())

	return ctx.Err()
}

// snapshotFailure captures the page for debugging; best-effort.
func (s *Scraper) snapshotFailure(page playwright.Page, name string) {
	path, err := s.shot.Capture(page, name)
	if err != nil {
		log.Printf("⚠️ %v", err)
		return
	}
	log.Printf("📸 Failure screenshot saved: %s", path)
}

// extractRows walks the postings table and maps each row to a Posting
// with explicit sentinels for missing cells.
func (s *Scraper) extractRows(ctx context.Context, page playwright.Page) ([]models.Posting, error) {
	if _, err := page.WaitForSelector("table tbody tr", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		s.snapshotFailure(page, "portal-no-table")
		return nil, fmt.Errorf("postings table not found: %w", err)
	}

	rows, err := page.Locator("table tbody tr").All()
	if err != nil {
		return nil, fmt.Errorf("failed to list table rows: %w", err)
	}
	log.Printf("📦 Found %d posting rows", len(rows))

	var postings []models.Posting
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := row.Locator("td").All()
		if err != nil || len(cells) == 0 {
			continue
		}

		posting := models.Posting{
			Company:  cleanCell(textOf(cells, 0)),
			Deadline: cleanCell(textOf(cells, 1)),
			Posted:   cleanCell(textOf(cells, 2)),
			Link:     s.linkOf(page, cells),
		}
		postings = append(postings, posting)
	}

	return postings, nil
}

// linkOf pulls the anchor out of the last column, resolved to an
// absolute URL. Rows without an anchor get the sentinel.
func (s *Scraper) linkOf(page playwright.Page, cells []playwright.Locator) string {
	if len(cells) < 4 {
		return models.NoLink
	}

	anchor := cells[3].Locator("a").First()
	count, err := anchor.Count()
	if err != nil || count == 0 {
		return models.NoLink
	}

	href, err := anchor.GetAttribute("href")
	if err != nil || strings.TrimSpace(href) == "" {
		return models.NoLink
	}

	return resolveLink(page.URL(), href)
}

func textOf(cells []playwright.Locator, i int) string {
	if i >= len(cells) {
		return ""
	}
	text, err := cells[i].TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(1000),
	})
	if err != nil {
		return ""
	}
	return text
}

// cleanCell normalizes a scraped cell: NFC form, collapsed whitespace,
// "Unknown" for empty cells so absence stays deterministic downstream.
func cleanCell(text string) string {
	normalized, _, _ := transform.String(norm.NFC, text)
	collapsed := strings.Join(strings.Fields(normalized), " ")
	if collapsed == "" {
		return "Unknown"
	}
	return collapsed
}

// resolveLink makes relative portal hrefs absolute.
func resolveLink(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
