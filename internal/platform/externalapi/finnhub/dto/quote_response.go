// Package dto defines data transfer objects for the Finnhub API responses.
package dto

// QuoteResponse represents the JSON response from the Finnhub quote endpoint.
// Absent fields decode as zero; an unknown symbol comes back with every field set to 0.
type QuoteResponse struct {
	C     float64 `json:"c"`
	D     float64 `json:"d"`
	DP    float64 `json:"dp"`
	H     float64 `json:"h"`
	L     float64 `json:"l"`
	O     float64 `json:"o"`
	PC    float64 `json:"pc"`
	T     int64   `json:"t"`
	Error string  `json:"error,omitempty"`
}

// SearchResponse represents the JSON response from the Finnhub search endpoint.
type SearchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Symbol        string `json:"symbol"`
		Description   string `json:"description"`
		DisplaySymbol string `json:"displaySymbol"`
		Type          string `json:"type"`
	} `json:"result"`
	Error string `json:"error,omitempty"`
}
