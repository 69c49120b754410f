package fyers

import "encoding/json"

// apiStatus is the envelope every Fyers v3 response carries.
type apiStatus struct {
	S       string `json:"s"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ok requires both halves of the status pair: the broker has been seen
// sending s="ok" alongside a non-200 code, and that is a failure.
func (a apiStatus) ok() bool { return a.S == "ok" && a.Code == 200 }

type exchangeRequest struct {
	GrantType string `json:"grant_type"`
	AppIDHash string `json:"appIdHash"`
	Code      string `json:"code"`
}

type exchangeResponse struct {
	apiStatus

	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Tokens is the pair a successful auth code exchange yields. The
// refresh token may be empty; not every app type gets one.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type fundsResponse struct {
	apiStatus

	FundLimit []FundLimit `json:"fund_limit"`
}

// FundLimit is one row of the funds report, amounts as reported by the
// broker.
type FundLimit struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	EquityAmount    json.Number `json:"equityAmount"`
	CommodityAmount json.Number `json:"commodityAmount"`
}

type positionsResponse struct {
	apiStatus

	NetPositions []Position `json:"netPositions"`
}

type Position struct {
	Symbol      string      `json:"symbol"`
	Qty         int64       `json:"qty"`
	AvgPrice    json.Number `json:"avgPrice"`
	PL          json.Number `json:"pl"`
	Side        int         `json:"side"`
	ProductType string      `json:"productType"`
}

type holdingsResponse struct {
	apiStatus

	Holdings []Holding `json:"holdings"`
}

type Holding struct {
	Symbol    string      `json:"symbol"`
	ISIN      string      `json:"isin"`
	Quantity  int64       `json:"quantity"`
	CostPrice json.Number `json:"costPrice"`
	LTP       json.Number `json:"ltp"`
	PL        json.Number `json:"pl"`
}
