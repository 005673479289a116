package links

import "sync/atomic"

// BotUserAgent identifies the checker on the first attempt.
const BotUserAgent = "blog-web-linkcheck/1.0"

// Some link partners reject unknown agents; a refused link is retried once
// with a browser user agent taken in turn from this list.
var browserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:130.0) Gecko/20100101 Firefox/130.0",
}

var uaCounter atomic.Uint64

func nextBrowserAgent() string {
	idx := uaCounter.Add(1)
	return browserAgents[int(idx%uint64(len(browserAgents)))]
}
