package extractor

// selector names one goquery selector to try against a parsed document, as
// a raw CSS selector string.
type selector struct {
	css string
}

// koreanSelectors is an ordered cascade of publisher-specific content
// containers for Korean press sites, most specific first, falling through to
// generic patterns. Ported from the original Python extractor's per-outlet
// selector table.
var koreanSelectors = []selector{
	// Hani (한겨레)
	{"#article-view-content-div"},
	{"div.article-text"},
	{"#articleBodyContents"},
	{"div.article-text-area"},
	// Chosun (조선일보)
	{"div.par"},
	{"#news_body_id"},
	{"div.news_body"},
	// JoongAng (중앙일보)
	{"div.article_body"},
	{"#article_body"},
	// Yonhap (연합뉴스)
	{"div.story-news-article"},
	{"#articleWrap"},
	{"div.story"},
	{"#articleText"},
	// SBS
	{"div.text_area"},
	{"div.article_area"},
	// KBS
	{"div.detail-body"},
	{"div.detail_content"},
	// MBC
	{"div.news_txt"},
	// JTBC
	{"div.article_content"},
	{"#articlebody"},
	// generic Korean press patterns
	{"#newsEndContents"},
	{"div.view-content"},
	{"div.article-content"},
	{"div.news-content"},
	{"div.post-content"},
	{"div.entry-content"},
}

// genericSelectors is tried after koreanSelectors when no publisher-specific
// container matched.
var genericSelectors = []selector{
	{"article"},
	{"div.article-body"},
	{"main"},
	{"[class*=content]"},
	{"[class*=article]"},
}

// unwantedSelectors are removed from the whole parsed document before the
// selector cascade runs: navigation chrome, ads, and social widgets.
var unwantedSelectors = []string{
	"script", "style", "nav", "header", "footer", "aside", "form", "iframe", "noscript", "button", "input",
	".ad", ".advertisement", ".banner", ".social", ".share", ".related", ".comment", ".sidebar", ".menu", ".navigation", ".breadcrumb",
}
