// Package feedregistry holds the static catalogue of RSS feed URLs the
// aggregator fans out to, grouped by publisher. The publisher set matches
// the body extractor's per-outlet selector cascade one-for-one: every
// publisher with a dedicated selector here has a dedicated feed entry, and
// vice versa.
package feedregistry

// Publisher is a feed source label, used for both registry grouping and
// per-publisher fan-out caps in the aggregator.
type Publisher string

// Registered publishers, in the fixed fan-out order the aggregator walks.
const (
	Hani     Publisher = "한겨레"
	Chosun   Publisher = "조선일보"
	JoongAng Publisher = "중앙일보"
	Yonhap   Publisher = "연합뉴스"
	SBS      Publisher = "SBS"
	KBS      Publisher = "KBS"
	MBC      Publisher = "MBC"
	JTBC     Publisher = "JTBC"
)

// order is the fixed publisher iteration order for fan-out planning; map
// iteration in Go is randomized, and the aggregator's ordering guarantee
// (§5 of the design) requires a stable publisher order across runs.
var order = []Publisher{Hani, Chosun, JoongAng, Yonhap, SBS, KBS, MBC, JTBC}

// catalogue maps each publisher to its ordered feed URLs, capped at five per
// publisher to bound worst-case fan-out. Entries are code-embedded and never
// mutated at runtime; adding a feed is a code change, not a config change.
var catalogue = map[Publisher][]string{
	Hani: {
		"https://www.hani.co.kr/rss/",
		"https://www.hani.co.kr/rss/politics/",
		"https://www.hani.co.kr/rss/economy/",
	},
	Chosun: {
		"https://www.chosun.com/arc/outboundfeeds/rss/",
		"https://www.chosun.com/arc/outboundfeeds/rss/category/politics/",
		"https://www.chosun.com/arc/outboundfeeds/rss/category/economy/",
	},
	JoongAng: {
		"https://rss.joins.com/joins_news_list.xml",
		"https://rss.joins.com/joins_politics_list.xml",
		"https://rss.joins.com/joins_money_list.xml",
	},
	Yonhap: {
		"https://www.yonhapnews.co.kr/rss/allheadlines.xml",
		"https://www.yonhapnews.co.kr/rss/politics.xml",
		"https://www.yonhapnews.co.kr/rss/economy.xml",
	},
	SBS: {
		"https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=01",
		"https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=02",
		"https://news.sbs.co.kr/news/SectionRssFeed.do?sectionId=03",
	},
	KBS: {
		"http://world.kbs.co.kr/rss/rss_news.htm?lang=k",
	},
	MBC: {
		"https://imnews.imbc.com/rss/news/news_00.xml",
		"https://imnews.imbc.com/rss/news/news_01.xml",
	},
	JTBC: {
		"https://fs.jtbc.co.kr/RSS/newsflash.xml",
		"https://fs.jtbc.co.kr/RSS/politics.xml",
		"https://fs.jtbc.co.kr/RSS/economy.xml",
	},
}

// Entry pairs a feed URL with the publisher that owns it, preserving
// catalogue order.
type Entry struct {
	Publisher Publisher
	URL       string
}

// All returns every registered feed in fixed (publisher-order,
// within-publisher-order) sequence.
func All() []Entry {
	entries := make([]Entry, 0, 24)
	for _, pub := range order {
		for _, url := range catalogue[pub] {
			entries = append(entries, Entry{Publisher: pub, URL: url})
		}
	}
	return entries
}

// Publishers returns the registered publisher labels in fixed order.
func Publishers() []Publisher {
	out := make([]Publisher, len(order))
	copy(out, order)
	return out
}
