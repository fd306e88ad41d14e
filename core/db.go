package core

// TrendPoint is one day of an aggregate time series.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
