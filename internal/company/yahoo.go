package company

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const yahooQuoteURL = "https://tw.stock.yahoo.com/quote/"

// ErrNoName is returned when a remote lookup finds nothing.
var ErrNoName = errors.New("company name not found")

// corporateSuffixes are stripped from remote names, longest first.
var corporateSuffixes = []string{"股份有限公司", "有限公司", "股份有限", "有線公司"}

// YahooNames scrapes the display name from the Yahoo TW quote page, trying
// the listed (.TW) and OTC (.TWO) variants in order.
type YahooNames struct {
	BaseURL string
	Markets []string
	HTTP    *http.Client
}

// Lookup returns the cleaned company name for code.
func (y YahooNames) Lookup(ctx context.Context, code string) (string, error) {
	base := y.BaseURL
	if base == "" {
		base = yahooQuoteURL
	}
	markets := y.Markets
	if len(markets) == 0 {
		markets = []string{"TW", "TWO"}
	}
	client := y.HTTP
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	var errs []error
	for _, m := range markets {
		symbol := code + "." + strings.ToUpper(strings.TrimPrefix(m, "."))
		name, err := y.scrape(ctx, client, base+url.PathEscape(symbol))
		if err == nil && name != "" {
			return CleanName(name), nil
		}
		if err == nil {
			err = fmt.Errorf("%s: empty title", symbol)
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("%w: %s: %w", ErrNoName, code, errors.Join(errs...))
}

func (y YahooNames) scrape(ctx context.Context, client *http.Client, addr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tradepulse/1.0)")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", addr, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	if name := strings.TrimSpace(doc.Find("h1").First().Text()); name != "" {
		return name, nil
	}
	if name, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		// og:title looks like "台積電(2330.TW) 走勢圖 - Yahoo奇摩股市"
		if i := strings.IndexAny(name, "(（"); i > 0 {
			name = name[:i]
		}
		return strings.TrimSpace(name), nil
	}
	return "", nil
}

// CleanName removes corporate-form suffixes such as 股份有限公司.
func CleanName(name string) string {
	for _, s := range corporateSuffixes {
		name = strings.ReplaceAll(name, s, "")
	}
	return strings.TrimSpace(name)
}
