package model

// Quote is a point-in-time price from an external provider. Last is the
// last traded price; Bid/Ask are optional and used for option midpoints.
type Quote struct {
	Symbol string   `json:"symbol"`
	Last   float64  `json:"last"`
	Bid    *float64 `json:"bid,omitempty"`
	Ask    *float64 `json:"ask,omitempty"`
}

// Price returns the best available price: last when present, otherwise the
// bid/ask midpoint. ok is false when the quote carries no usable price.
func (q Quote) Price() (float64, bool) {
	if q.Last > 0 {
		return q.Last, true
	}
	if q.Bid != nil && q.Ask != nil && (*q.Bid > 0 || *q.Ask > 0) {
		return (*q.Bid + *q.Ask) / 2, true
	}
	return 0, false
}
