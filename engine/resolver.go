package engine

import (
	"strings"
	"sync"

	"claimcheck/models"
)

// similarityThreshold is the minimum fuzzy-match score accepted when an
// exact lookup misses.
const similarityThreshold = 0.8

// companyTable maps normalized company and index names to canonical market
// symbols. Macro entities (the Fed) get pseudo-symbols so rate claims can
// pass the resolution gate like any other claim.
var companyTable = map[string]string{
	"apple":                  "AAPL",
	"apple inc":              "AAPL",
	"microsoft":              "MSFT",
	"microsoft corporation":  "MSFT",
	"tesla":                  "TSLA",
	"tesla motors":           "TSLA",
	"amazon":                 "AMZN",
	"alphabet":               "GOOGL",
	"google":                 "GOOGL",
	"meta":                   "META",
	"meta platforms":         "META",
	"facebook":               "META",
	"nvidia":                 "NVDA",
	"netflix":                "NFLX",
	"intel":                  "INTC",
	"advanced micro devices": "AMD",
	"jpmorgan":               "JPM",
	"jpmorgan chase":         "JPM",
	"goldman sachs":          "GS",
	"morgan stanley":         "MS",
	"berkshire hathaway":     "BRK.B",
	"visa":                   "V",
	"mastercard":             "MA",
	"walmart":                "WMT",
	"disney":                 "DIS",
	"walt disney":            "DIS",
	"boeing":                 "BA",
	"coca-cola":              "KO",
	"coca cola":              "KO",
	"pepsico":                "PEP",
	"exxon":                  "XOM",
	"exxon mobil":            "XOM",
	"salesforce":             "CRM",
	"oracle":                 "ORCL",
	"ibm":                    "IBM",
	"paypal":                 "PYPL",
	"uber":                   "UBER",
	"airbnb":                 "ABNB",
	"palantir":               "PLTR",
	"s&p 500":                "SPX",
	"dow jones":              "DJI",
	"nasdaq":                 "IXIC",
	"federal reserve":        "FED",
	"the fed":                "FED",
	"fed":                    "FED",
}

// knownSymbols is the set of valid tickers, derived from the table plus
// the tickers themselves so symbol mentions resolve directly.
var knownSymbols = func() map[string]struct{} {
	set := make(map[string]struct{}, len(companyTable))
	for _, sym := range companyTable {
		set[sym] = struct{}{}
	}
	return set
}()

// Resolver maps free-text company, index, and ticker mentions to canonical
// market symbols with a confidence score. Resolution is a pure lookup;
// previous resolutions are memoized.
type Resolver struct {
	mu   sync.RWMutex
	memo map[string]models.Resolution
}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		memo: make(map[string]models.Resolution),
	}
}

// Resolve maps a mention to a symbol. Not finding a match is a normal,
// expected outcome signalled by ok == false, never an error. Confidence is
// 1.0 for an exact match and the similarity score for a fuzzy one.
func (r *Resolver) Resolve(mention string) (models.Resolution, bool) {
	norm := normalizeMention(mention)
	if norm == "" {
		return models.Resolution{}, false
	}

	r.mu.RLock()
	if res, ok := r.memo[norm]; ok {
		r.mu.RUnlock()
		return res, res.Symbol != ""
	}
	r.mu.RUnlock()

	res, ok := r.lookup(norm, mention)
	r.mu.Lock()
	r.memo[norm] = res
	r.mu.Unlock()
	return res, ok
}

func (r *Resolver) lookup(norm, original string) (models.Resolution, bool) {
	// A mention that is already a known ticker resolves to itself
	upper := strings.ToUpper(strings.TrimSpace(original))
	if _, ok := knownSymbols[upper]; ok {
		return models.Resolution{Symbol: upper, Confidence: 1.0}, true
	}

	if sym, ok := companyTable[norm]; ok {
		return models.Resolution{Symbol: sym, Confidence: 1.0}, true
	}

	// Fuzzy match against the table, best candidate above threshold
	bestScore := 0.0
	bestSym := ""
	for name, sym := range companyTable {
		score := similarity(norm, name)
		if score > bestScore {
			bestScore = score
			bestSym = sym
		}
	}
	if bestScore >= similarityThreshold {
		return models.Resolution{Symbol: bestSym, Confidence: bestScore}, true
	}

	return models.Resolution{}, false
}

// KnownSymbol reports whether a ticker is in the known-symbol table.
func KnownSymbol(symbol string) bool {
	_, ok := knownSymbols[strings.ToUpper(symbol)]
	return ok
}

// normalizeMention lowercases a mention and strips corporate suffixes so
// "Apple Inc." and "apple" land on the same table key.
func normalizeMention(mention string) string {
	norm := strings.ToLower(strings.TrimSpace(mention))
	norm = strings.TrimSuffix(norm, ".")
	for _, suffix := range []string{" incorporated", " corporation", " inc", " corp", " co", " ltd", " plc"} {
		norm = strings.TrimSuffix(norm, suffix)
	}
	return strings.TrimSpace(norm)
}

// similarity is normalized Levenshtein similarity: 1 - distance/maxLen.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two strings using a
// two-row rolling table.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
