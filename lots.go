package moneyclip

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/alphavelocity/moneyclip/date"
)

// Asset is a tradable security identified by ticker, priced in a fixed
// trade currency.
type Asset struct {
	ID       int64  `json:"id,omitempty"`
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Lot is a single open purchase. Its remaining quantity only decreases;
// the open date and unit cost never change after creation, so later sales
// keep the original cost basis.
type Lot struct {
	Ticker   string    `json:"ticker"`
	OpenDate date.Date `json:"open_date"`
	Quantity Quantity  `json:"quantity"` // remaining
	UnitCost Money     `json:"unit_cost"` // trade currency
}

// RealizedGain is the outcome of consuming one lot portion during a sale,
// in base currency. One record is emitted per portion, never merged across
// lots, so gains stay auditable at tax-lot level. Records are append-only.
type RealizedGain struct {
	Ticker    string    `json:"ticker"`
	SellDate  date.Date `json:"sell_date"`
	LotDate   date.Date `json:"lot_date"`
	Quantity  Quantity  `json:"quantity"`
	Proceeds  Money     `json:"proceeds"`
	CostBasis Money     `json:"cost_basis"`
	Gain      Money     `json:"gain"`
}

// lotQueue is the per-ticker FIFO queue: tail-appended on buys, consumed
// from a head cursor on sells. The cursor avoids reslicing on every
// consumption; the slice is compacted once the dead prefix grows.
type lotQueue struct {
	lots []Lot
	head int
}

func (q *lotQueue) open() []Lot { return q.lots[q.head:] }

func (q *lotQueue) openQuantity() Quantity {
	total := Q(0)
	for _, l := range q.open() {
		total = total.Add(l.Quantity)
	}
	return total
}

func (q *lotQueue) compact() {
	if q.head > 32 && q.head > len(q.lots)/2 {
		q.lots = slices.Clone(q.lots[q.head:])
		q.head = 0
	}
}

// LotLedger tracks open purchase lots per asset and computes realized
// capital gains on sales using strict FIFO matching. Lots for a ticker are
// consumed in non-decreasing open-date order, ties broken by insertion
// order. Gains are expressed in base currency through the converter: cost
// basis at each lot's own open date, proceeds at the sell date.
type LotLedger struct {
	mu     sync.RWMutex
	conv   *Converter
	assets map[string]Asset
	queues map[string]*lotQueue
	gains  []RealizedGain
}

// NewLotLedger creates an empty lot ledger converting through conv.
func NewLotLedger(conv *Converter) *LotLedger {
	return &LotLedger{
		conv:   conv,
		assets: make(map[string]Asset),
		queues: make(map[string]*lotQueue),
	}
}

// AddAsset declares a tradable asset. The ticker must be unique and the
// currency a known ISO code.
func (l *LotLedger) AddAsset(ticker, name, currency string) error {
	if err := ValidateCurrency(currency); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.assets[ticker]; exists {
		return fmt.Errorf("asset %q already exists", ticker)
	}
	l.assets[ticker] = Asset{Ticker: ticker, Name: name, Currency: currency}
	return nil
}

// Asset returns the declared asset for a ticker.
func (l *LotLedger) Asset(ticker string) (Asset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[ticker]
	if !ok {
		return Asset{}, &UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	return a, nil
}

// Assets iterates over declared assets in ticker order.
func (l *LotLedger) Assets() iter.Seq[Asset] {
	l.mu.RLock()
	tickers := slices.Collect(maps.Keys(l.assets))
	slices.Sort(tickers)
	assets := make([]Asset, 0, len(tickers))
	for _, t := range tickers {
		assets = append(assets, l.assets[t])
	}
	l.mu.RUnlock()
	return slices.Values(assets)
}

// Buy adds a new lot to the ticker's open-lot queue, keeping the queue in
// non-decreasing open-date order: a backdated buy inserts before later-dated
// lots, equal dates keep insertion order. Quantity must be strictly
// positive; the unit cost must be in the asset's trade currency (an empty
// currency takes the asset's).
func (l *LotLedger) Buy(ticker string, on date.Date, quantity Quantity, unitCost Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	asset, ok := l.assets[ticker]
	if !ok {
		return &UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	if !quantity.IsPositive() {
		return &InvalidAmountError{Op: "buy " + ticker, Amount: M(quantity.Value(), asset.Currency)}
	}
	if unitCost.Currency() == "" {
		unitCost = M(unitCost.Amount(), asset.Currency)
	} else if unitCost.Currency() != asset.Currency {
		return fmt.Errorf("unit cost currency %s does not match asset %q currency %s",
			unitCost.Currency(), ticker, asset.Currency)
	}
	q, ok := l.queues[ticker]
	if !ok {
		q = &lotQueue{}
		l.queues[ticker] = q
	}
	// Already-consumed lots before the head cursor stay where they are;
	// only the open suffix is ordered.
	i := len(q.lots)
	for i > q.head && on.Before(q.lots[i-1].OpenDate) {
		i--
	}
	q.lots = slices.Insert(q.lots, i, Lot{Ticker: ticker, OpenDate: on, Quantity: quantity, UnitCost: unitCost})
	return nil
}

// Sell consumes open lots oldest-first and returns one RealizedGain per
// consumed lot portion. It fails with InsufficientLotsError, mutating
// nothing, when the open quantity is below the requested quantity; it also
// mutates nothing when a required FX rate is missing.
func (l *LotLedger) Sell(ticker string, on date.Date, quantity Quantity, proceeds Money) ([]RealizedGain, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	asset, ok := l.assets[ticker]
	if !ok {
		return nil, &UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	if !quantity.IsPositive() {
		return nil, &InvalidAmountError{Op: "sell " + ticker, Amount: M(quantity.Value(), asset.Currency)}
	}
	if proceeds.Currency() == "" {
		proceeds = M(proceeds.Amount(), asset.Currency)
	} else if proceeds.Currency() != asset.Currency {
		return nil, fmt.Errorf("proceeds currency %s does not match asset %q currency %s",
			proceeds.Currency(), ticker, asset.Currency)
	}
	q := l.queues[ticker]
	if q == nil {
		q = &lotQueue{}
		l.queues[ticker] = q
	}
	if open := q.openQuantity(); open.LessThan(quantity) {
		return nil, &InsufficientLotsError{Ticker: ticker, On: on, Requested: quantity, Open: open}
	}

	// Plan the consumption first; lots are only touched once every portion
	// has converted cleanly.
	perUnit := proceeds.Div(quantity)
	type portion struct {
		index    int // absolute index into q.lots
		consumed Quantity
		gain     RealizedGain
	}
	var portions []portion
	remaining := quantity
	for i := q.head; i < len(q.lots) && remaining.IsPositive(); i++ {
		lot := q.lots[i]
		consumed := lot.Quantity.Min(remaining)
		costBasis, err := l.conv.ToBase(lot.UnitCost.Mul(consumed), lot.OpenDate)
		if err != nil {
			return nil, fmt.Errorf("cost basis for %s lot %s: %w", ticker, lot.OpenDate, err)
		}
		proceedsPortion, err := l.conv.ToBase(perUnit.Mul(consumed), on)
		if err != nil {
			return nil, fmt.Errorf("proceeds for %s on %s: %w", ticker, on, err)
		}
		portions = append(portions, portion{
			index:    i,
			consumed: consumed,
			gain: RealizedGain{
				Ticker:    ticker,
				SellDate:  on,
				LotDate:   lot.OpenDate,
				Quantity:  consumed,
				Proceeds:  proceedsPortion,
				CostBasis: costBasis,
				Gain:      proceedsPortion.Sub(costBasis),
			},
		})
		remaining = remaining.Sub(consumed)
	}

	// Commit.
	gains := make([]RealizedGain, 0, len(portions))
	for _, p := range portions {
		lot := &q.lots[p.index]
		lot.Quantity = lot.Quantity.Sub(p.consumed)
		if lot.Quantity.IsZero() {
			q.head = p.index + 1
		}
		gains = append(gains, p.gain)
	}
	q.compact()
	l.gains = append(l.gains, gains...)
	return gains, nil
}

// OpenQuantity returns the total remaining quantity for a ticker.
func (l *LotLedger) OpenQuantity(ticker string) (Quantity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.assets[ticker]; !ok {
		return Quantity{}, &UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	q := l.queues[ticker]
	if q == nil {
		return Q(0), nil
	}
	return q.openQuantity(), nil
}

// OpenLots returns the remaining open lots for a ticker, oldest first.
func (l *LotLedger) OpenLots(ticker string) ([]Lot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.assets[ticker]; !ok {
		return nil, &UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	q := l.queues[ticker]
	if q == nil {
		return nil, nil
	}
	return slices.Clone(q.open()), nil
}

// Value prices the remaining open quantity at a supplied price and
// re-expresses it in base currency as of the given date. Pure query; lots
// are not mutated.
func (l *LotLedger) Value(ticker string, price Money, asOf date.Date) (Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	asset, ok := l.assets[ticker]
	if !ok {
		return Money{}, &UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	if price.Currency() == "" {
		price = M(price.Amount(), asset.Currency)
	}
	open := Q(0)
	if q := l.queues[ticker]; q != nil {
		open = q.openQuantity()
	}
	return l.conv.ToBase(price.Mul(open), asOf)
}

// RealizedGains returns the append-only realized gain history, optionally
// filtered by ticker ("" for all) and year (0 for all).
func (l *LotLedger) RealizedGains(ticker string, year int) []RealizedGain {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]RealizedGain, 0, len(l.gains))
	for _, g := range l.gains {
		if ticker != "" && g.Ticker != ticker {
			continue
		}
		if year != 0 && g.SellDate.Year() != year {
			continue
		}
		out = append(out, g)
	}
	return out
}
