package tiktok

import (
	"context"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"tiktok-scraper/extract"
	"tiktok-scraper/models"
	"tiktok-scraper/utils"
)

// responseCapture collects the metrics records classified out of a page's
// network traffic. The first record of each kind wins; later ones are
// ignored.
type responseCapture struct {
	mu      sync.Mutex
	account *models.AccountMetrics
	post    *models.PostMetrics
}

func (rc *responseCapture) record(res *extract.Result) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if res.Account != nil && rc.account == nil {
		rc.account = res.Account
	}
	if res.Post != nil && rc.post == nil {
		rc.post = res.Post
	}
}

// Account returns the first account record classified so far, if any.
func (rc *responseCapture) Account() *models.AccountMetrics {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.account
}

// Post returns the first post record classified so far, if any.
func (rc *responseCapture) Post() *models.PostMetrics {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.post
}

// captureResponses attaches a CDP listener to ctx that funnels every
// intercepted API response through the classifier. Body retrieval happens
// on a separate goroutine — listener callbacks must not block.
func captureResponses(ctx context.Context, logger *utils.Logger) *responseCapture {
	rc := &responseCapture{}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok {
			return
		}
		resp := e.Response
		if !strings.Contains(resp.URL, "/api/") {
			return
		}

		requestID := e.RequestID
		url := resp.URL
		status := int(resp.Status)
		mimeType := resp.MimeType

		go func() {
			c := chromedp.FromContext(ctx)
			body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(ctx, c.Target))
			if err != nil {
				// Bodies of cancelled or evicted requests are routinely
				// unavailable; not worth surfacing.
				return
			}
			if res := extract.Classify(url, status, mimeType, body); res != nil {
				logger.Debug("[tiktok] Classified metrics payload: %s", url)
				rc.record(res)
			}
		}()
	})

	return rc
}
