package tiktok

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"tiktok-scraper/config"
	"tiktok-scraper/extract"
	"tiktok-scraper/models"
	"tiktok-scraper/ocr"
	"tiktok-scraper/utils"
)

const (
	baseURL = "https://www.tiktok.com"

	sourceAPI = "api"
	sourceDOM = "dom"
)

// Scraper orchestrates TikTok profile and post scraping. Each target gets
// its own browser tab; intercepted API responses are classified first, with
// DOM text scraping as the fallback tier.
type Scraper struct {
	cfg        *config.Config
	logger     *utils.Logger
	pool       *utils.WorkerPool
	visitedURL *utils.URLSet
	retry      *utils.RetryConfig
	recognize  ocr.Func

	mu       sync.Mutex
	accounts []*models.AccountSnapshot
	posts    []*models.PostSnapshot
}

// New creates a ready-to-use TikTok Scraper. recognize may be nil, which
// disables slide OCR.
func New(cfg *config.Config, logger *utils.Logger, recognize ocr.Func) *Scraper {
	return &Scraper{
		cfg:        cfg,
		logger:     logger,
		pool:       utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visitedURL: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
		recognize: recognize,
	}
}

// Scrape visits every configured account profile and post URL and returns
// the collected snapshots. Individual target failures are logged and
// skipped; only a browser-level failure aborts the run.
func (s *Scraper) Scrape() ([]*models.AccountSnapshot, []*models.PostSnapshot, error) {
	s.logger.Info("[tiktok] Starting scrape — %d accounts, %d posts",
		len(s.cfg.Accounts), len(s.cfg.PostURLs))

	chromeBin := findChromeBinary()
	s.logger.Info("[tiktok] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	for _, username := range s.cfg.Accounts {
		u := username
		profileURL := fmt.Sprintf("%s/@%s", baseURL, u)
		if !s.visitedURL.Add(profileURL) {
			s.logger.Debug("[tiktok] Skipping duplicate account: %s", u)
			continue
		}
		s.pool.Submit(func() {
			snap, err := s.scrapeAccount(allocCtx, u)
			if err != nil {
				s.logger.Error("[tiktok] Account @%s failed: %v", u, err)
				return
			}
			s.mu.Lock()
			s.accounts = append(s.accounts, snap)
			s.mu.Unlock()
		})
	}

	for _, postURL := range s.cfg.PostURLs {
		p := postURL
		if !s.visitedURL.Add(p) {
			s.logger.Debug("[tiktok] Skipping duplicate post: %s", p)
			continue
		}
		s.pool.Submit(func() {
			snap, err := s.scrapePost(allocCtx, p)
			if err != nil {
				s.logger.Error("[tiktok] Post %s failed: %v", p, err)
				return
			}
			s.mu.Lock()
			s.posts = append(s.posts, snap)
			s.mu.Unlock()
		})
	}

	s.pool.Wait()

	s.logger.Info("[tiktok] Scrape complete — %d account snapshots, %d post snapshots",
		len(s.accounts), len(s.posts))
	return s.accounts, s.posts, nil
}

// scrapeAccount loads a profile page and extracts account metrics, preferring
// an intercepted API payload over the rendered counters.
func (s *Scraper) scrapeAccount(allocCtx context.Context, username string) (*models.AccountSnapshot, error) {
	var snapshot *models.AccountSnapshot

	err := s.retry.Do("account-"+username, func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, s.navTimeout())
		defer cancelTimeout()

		capture := captureResponses(ctx, s.logger)
		profileURL := fmt.Sprintf("%s/@%s", baseURL, username)

		err := chromedp.Run(ctx,
			network.Enable(),
			chromedp.Navigate(profileURL),
			chromedp.Sleep(5*time.Second),
		)
		if err != nil {
			return fmt.Errorf("chromedp navigate: %w", err)
		}

		if acct := capture.Account(); acct != nil {
			s.logger.Info("[tiktok] @%s via API — followers: %d", acct.Username, acct.Followers)
			snapshot = &models.AccountSnapshot{
				AccountMetrics: acct,
				Source:         sourceAPI,
				ScrapedAt:      time.Now(),
			}
			return nil
		}

		// Fallback tier: read the rendered counters.
		var dom profileDOM
		if err := chromedp.Run(ctx, chromedp.Evaluate(profileJS, &dom)); err != nil {
			return fmt.Errorf("chromedp evaluate: %w", err)
		}

		acct := &models.AccountMetrics{
			Username:   username,
			Followers:  extract.ParseMetric(dom.Followers),
			Following:  extract.ParseMetric(dom.Following),
			LikesTotal: extract.ParseMetric(dom.Likes),
		}
		s.logger.Info("[tiktok] @%s via DOM — followers: %d", username, acct.Followers)
		snapshot = &models.AccountSnapshot{
			AccountMetrics: acct,
			Source:         sourceDOM,
			ScrapedAt:      time.Now(),
		}
		return nil
	})

	return snapshot, err
}

// scrapePost loads a post page and extracts engagement counters, preferring
// an intercepted API payload over the rendered counters. The caption always
// comes from the DOM; carousel slides are screenshotted and OCR'd when a
// recognizer is configured.
func (s *Scraper) scrapePost(allocCtx context.Context, postURL string) (*models.PostSnapshot, error) {
	var snapshot *models.PostSnapshot

	err := s.retry.Do("post-"+postURL, func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, s.navTimeout())
		defer cancelTimeout()

		capture := captureResponses(ctx, s.logger)

		err := chromedp.Run(ctx,
			network.Enable(),
			chromedp.Navigate(postURL),
			chromedp.Sleep(6*time.Second),
		)
		if err != nil {
			return fmt.Errorf("chromedp navigate: %w", err)
		}

		var dom postDOM
		if err := chromedp.Run(ctx, chromedp.Evaluate(postJS, &dom)); err != nil {
			return fmt.Errorf("chromedp evaluate: %w", err)
		}

		var metrics *models.PostMetrics
		source := sourceDOM
		if api := capture.Post(); api != nil {
			// Rebuild against the page URL: the classifier only saw the
			// API endpoint URL.
			metrics = models.NewPostMetrics(postURL,
				api.Views, api.Likes, api.Comments, api.Shares, api.Bookmarks)
			source = sourceAPI
		} else {
			metrics = models.NewPostMetrics(postURL,
				extract.ParseMetric(dom.Views),
				extract.ParseMetric(dom.Likes),
				extract.ParseMetric(dom.Comments),
				extract.ParseMetric(dom.Shares),
				extract.ParseMetric(dom.Bookmarks),
			)
		}

		snapshot = &models.PostSnapshot{
			PostMetrics: metrics,
			Account:     dom.Account,
			Caption:     dom.Caption,
			Source:      source,
			ScrapedAt:   time.Now(),
		}
		snapshot.SlideText = s.recognizeSlides(ctx, postURL)

		s.logger.Info("[tiktok] %s via %s — views: %d, likes: %d",
			postURL, source, metrics.Views, metrics.Likes)
		return nil
	})

	return snapshot, err
}

// recognizeSlides screenshots the current viewport and runs it through the
// cached OCR function.
func (s *Scraper) recognizeSlides(ctx context.Context, postURL string) string {
	if s.recognize == nil {
		return ""
	}

	var shot []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		s.logger.Warn("[tiktok] Screenshot failed for %s: %v", postURL, err)
		return ""
	}

	text, err := s.recognize(ctx, shot)
	if err != nil {
		s.logger.Warn("[tiktok] OCR failed for %s: %v", postURL, err)
		return ""
	}
	return text
}

func (s *Scraper) navTimeout() time.Duration {
	return time.Duration(s.cfg.NavTimeoutSec) * time.Second
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
