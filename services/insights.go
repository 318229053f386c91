package services

import (
	"fmt"
	"sort"
	"strings"

	"tiktok-scraper/models"
	"tiktok-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(posts []*models.PostSnapshot) *models.EngagementReport {
	report := &models.EngagementReport{
		PostsByAccount: make(map[string]int),
	}

	if len(posts) == 0 {
		return report
	}

	report.TotalPosts = len(posts)

	var viewedPosts []*models.PostSnapshot
	var rateSum float64

	for _, p := range posts {
		if p.IsRepost {
			report.RepostCount++
		}
		if p.Account != "" {
			report.PostsByAccount[p.Account]++
		}
		if p.Views > 0 {
			viewedPosts = append(viewedPosts, p)
		}
	}

	// View stats (only posts with views > 0)
	if len(viewedPosts) > 0 {
		report.MinViews = viewedPosts[0].Views
		report.MaxViews = viewedPosts[0].Views
		var total int
		for _, p := range viewedPosts {
			total += p.Views
			rateSum += p.EngagementRate
			if p.Views < report.MinViews {
				report.MinViews = p.Views
			}
			if p.Views > report.MaxViews {
				report.MaxViews = p.Views
			}
		}
		report.TotalViews = total
		report.AverageViews = models.Round2(float64(total) / float64(len(viewedPosts)))
		report.AverageRate = models.Round2(rateSum / float64(len(viewedPosts)))
	}

	// Top 5 by engagement rate
	sort.Slice(viewedPosts, func(i, j int) bool {
		return viewedPosts[i].EngagementRate > viewedPosts[j].EngagementRate
	})
	if len(viewedPosts) > 5 {
		report.TopPosts = viewedPosts[:5]
	} else {
		report.TopPosts = viewedPosts
	}

	return report
}

func (s *InsightService) Print(r *models.EngagementReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 TIKTOK SCRAPE INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Posts scraped   : \033[1m%d\033[0m\n", r.TotalPosts)
	fmt.Printf("  Reposts flagged : \033[1m%d\033[0m\n", r.RepostCount)
	fmt.Println()

	// View stats
	fmt.Printf("\033[1;33m  View Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalViews > 0 {
		fmt.Printf("  Total views   : \033[1;32m%d\033[0m\n", r.TotalViews)
		fmt.Printf("  Average views : \033[1;32m%.2f\033[0m\n", r.AverageViews)
		fmt.Printf("  Minimum views : \033[1;32m%d\033[0m\n", r.MinViews)
		fmt.Printf("  Maximum views : \033[1;32m%d\033[0m\n", r.MaxViews)
		fmt.Printf("  Avg engagement: \033[1;32m%.2f%%\033[0m\n", r.AverageRate)
	} else {
		fmt.Printf("  No view data available\n")
	}
	fmt.Println()

	// Top posts by engagement rate
	fmt.Printf("\033[1;33m  Top 5 Posts by Engagement Rate\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopPosts) == 0 {
		fmt.Printf("  No posts with views found\n")
	} else {
		for i, p := range r.TopPosts {
			fmt.Printf("  \033[1m%d.\033[0m %-42s \033[1;32m%.2f%%\033[0m\n",
				i+1, truncate(p.PostURL, 42), p.EngagementRate)
		}
	}
	fmt.Println()

	// Posts by account
	fmt.Printf("\033[1;33m  Posts by Account\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.PostsByAccount) == 0 {
		fmt.Printf("  No account data\n")
	} else {
		type acctCount struct {
			account string
			count   int
		}
		var accts []acctCount
		for acct, cnt := range r.PostsByAccount {
			accts = append(accts, acctCount{acct, cnt})
		}
		sort.Slice(accts, func(i, j int) bool {
			return accts[i].count > accts[j].count
		})
		for _, ac := range accts {
			bar := strings.Repeat("█", ac.count)
			fmt.Printf("  @%-29s %s (%d)\n", truncate(ac.account, 28), bar, ac.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
