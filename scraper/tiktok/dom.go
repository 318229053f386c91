package tiktok

// profileDOM holds the raw counter strings read from a rendered profile page.
type profileDOM struct {
	Followers string `json:"followers"`
	Following string `json:"following"`
	Likes     string `json:"likes"`
}

// postDOM holds the raw counter strings read from a rendered post page.
type postDOM struct {
	Views     string `json:"views"`
	Likes     string `json:"likes"`
	Comments  string `json:"comments"`
	Shares    string `json:"shares"`
	Bookmarks string `json:"bookmarks"`
	Account   string `json:"account"`
	Caption   string `json:"caption"`
}

// profileJS reads the follower/following/likes counters off a profile page.
// TikTok labels these with stable data-e2e attributes; class-based selectors
// are kept as fallbacks since the attributes come and go between rollouts.
const profileJS = `
	(function() {
		function first(selectors) {
			for (var i = 0; i < selectors.length; i++) {
				var el = document.querySelector(selectors[i]);
				if (el && el.textContent) return el.textContent.trim();
			}
			return '';
		}
		return {
			followers: first([
				'[data-e2e="followers-count"]',
				'strong[title="Followers"]',
				'[class*="follower"] strong'
			]),
			following: first([
				'[data-e2e="following-count"]',
				'strong[title="Following"]',
				'[class*="following"] strong'
			]),
			likes: first([
				'[data-e2e="likes-count"]',
				'strong[title="Likes"]',
				'[class*="like"] strong'
			])
		};
	})()
`

// postJS reads the engagement counters, author handle and caption off a
// rendered post page.
const postJS = `
	(function() {
		function first(selectors) {
			for (var i = 0; i < selectors.length; i++) {
				var el = document.querySelector(selectors[i]);
				if (el && el.textContent) return el.textContent.trim();
			}
			return '';
		}
		return {
			views: first([
				'[data-e2e="video-view-count"]',
				'[data-e2e="browse-video-view-count"]',
				'strong[data-e2e="video-views"]',
				'span[data-e2e="video-views"]',
				'[class*="view"] strong'
			]),
			likes: first([
				'[data-e2e="like-count"]',
				'strong[data-e2e="like-count"]',
				'[data-e2e="browse-like-count"]',
				'[class*="like"] strong'
			]),
			comments: first([
				'[data-e2e="comment-count"]',
				'strong[data-e2e="comment-count"]',
				'[data-e2e="browse-comment-count"]',
				'[class*="comment"] strong'
			]),
			shares: first([
				'[data-e2e="share-count"]',
				'strong[data-e2e="share-count"]',
				'[class*="share"] strong'
			]),
			bookmarks: first([
				'[data-e2e="undefined-count"]',
				'[data-e2e="collect-count"]',
				'[class*="collect"] strong'
			]),
			account: first([
				'[data-e2e="browse-username"]',
				'[data-e2e="video-author-uniqueid"]',
				'h3[class*="author"]'
			]),
			caption: first([
				'[data-e2e="browse-video-desc"]',
				'[data-e2e="video-desc"]',
				'h1[class*="video-meta"]'
			])
		};
	})()
`
