package moneyclip

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/shopspring/decimal"
)

// frankfurterURL serves the ECB daily reference rates.
const frankfurterURL = "https://api.frankfurter.dev"

// FetchRates downloads daily reference rates for the given quote currencies
// against base over [from, to] and stores them. Responses are cached on
// disk for the day, so repeated fetches are free. Weekends and holidays
// have no published rate; the as-of lookup covers those days.
func FetchRates(store *RateStore, base string, quotes []string, from, to date.Date) error {
	if err := ValidateCurrency(base); err != nil {
		return err
	}
	targets := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q == base {
			continue
		}
		if err := ValidateCurrency(q); err != nil {
			return err
		}
		targets = append(targets, q)
	}
	if len(targets) == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s/%s..%s?from=%s&to=%s",
		frankfurterURL, from, to, url.QueryEscape(base), url.QueryEscape(strings.Join(targets, ",")))

	// {"base":"USD","rates":{"2025-03-10":{"EUR":0.92,...},...}}
	var series struct {
		Base  string                        `json:"base"`
		Rates map[string]map[string]float64 `json:"rates"`
	}
	if err := jwget(dailyClient(), addr, &series); err != nil {
		return fmt.Errorf("cannot fetch rates %s: %w", base, err)
	}
	for day, byQuote := range series.Rates {
		on, err := date.Parse(day)
		if err != nil {
			return fmt.Errorf("bad date in rate series: %w", err)
		}
		for quote, rate := range byQuote {
			if err := store.AddRate(base, quote, on, decimal.NewFromFloat(rate)); err != nil {
				return err
			}
		}
	}
	return nil
}

// QuoteSource describes where to fetch a live price for one asset: a URL
// and a JSONPath expression selecting the price inside the response.
type QuoteSource struct {
	URL  string
	Path string
}

// FetchQuote downloads a single price through a quote source. Exchanges
// wrap their numbers in wildly different envelopes; the JSONPath keeps the
// unwrapping declarative per source.
func FetchQuote(client *http.Client, src QuoteSource) (decimal.Decimal, error) {
	if client == nil {
		client = dailyClient()
	}
	var jobj any
	if err := jwget(client, src.URL, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot fetch quote from %q: %w", src.URL, err)
	}
	jval, err := jsonpath.Get(src.Path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot select %q in quote response: %w", src.Path, err)
	}
	// jsonpath may return a single value or a one-element list.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// some feeds quote decimals with a comma
		v = strings.ReplaceAll(strings.ReplaceAll(v, ",", "."), " ", "")
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("quote at %q is neither number nor string: %v", src.Path, jval)
	}
}

// FetchPrice fetches a quote and stores it as today's price observation for
// the ticker, in the asset's trade currency.
func FetchPrice(store *RateStore, lots *LotLedger, ticker string, src QuoteSource) error {
	asset, err := lots.Asset(ticker)
	if err != nil {
		return err
	}
	value, err := FetchQuote(nil, src)
	if err != nil {
		return err
	}
	return store.AddPrice(ticker, date.Today(), M(value, asset.Currency))
}
