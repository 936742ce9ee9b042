package types

// Rating is the wire shape of a product's review aggregate.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}
