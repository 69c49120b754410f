package zerodha

import "encoding/json"

type sessionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AccessToken string `json:"access_token"`
		PublicToken string `json:"public_token"`
		UserID      string `json:"user_id"`
	} `json:"data"`
}

// Session is the result of a request-token exchange.
type Session struct {
	AccessToken string
	PublicToken string
	UserID      string
}

type marginsResponse struct {
	Status string             `json:"status"`
	Data   map[string]Segment `json:"data"`
}

// Segment is one margin segment (equity or commodity).
type Segment struct {
	Enabled   bool        `json:"enabled"`
	Net       json.Number `json:"net"`
	Available struct {
		Cash       json.Number `json:"cash"`
		Collateral json.Number `json:"collateral"`
	} `json:"available"`
}

type positionsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Net []Position `json:"net"`
	} `json:"data"`
}

type Position struct {
	TradingSymbol string      `json:"tradingsymbol"`
	Quantity      int64       `json:"quantity"`
	AveragePrice  json.Number `json:"average_price"`
	PnL           json.Number `json:"pnl"`
	Product       string      `json:"product"`
}

type holdingsResponse struct {
	Status string    `json:"status"`
	Data   []Holding `json:"data"`
}

type Holding struct {
	TradingSymbol string      `json:"tradingsymbol"`
	ISIN          string      `json:"isin"`
	Quantity      int64       `json:"quantity"`
	AveragePrice  json.Number `json:"average_price"`
	LastPrice     json.Number `json:"last_price"`
	PnL           json.Number `json:"pnl"`
}
