package linksdk

// Envelope mirrors the service's uniform response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
	Provider string `json:"provider,omitempty"`
}

type AuthResponse struct {
	Envelope

	Token string   `json:"token,omitempty"`
	User  UserView `json:"user"`
}

type VerifyResponse struct {
	Envelope

	User UserView `json:"user"`
}

// FyersCredentialsRequest carries transit-obscured Fyers secrets.
// Omitted fields keep the values already on file.
type FyersCredentialsRequest struct {
	ClientID  string `json:"client_id,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	AuthCode  string `json:"auth_code,omitempty"`
}

// ZerodhaCredentialsRequest carries transit-obscured Zerodha secrets.
// Omitted fields keep the values already on file.
type ZerodhaCredentialsRequest struct {
	APIKey       string `json:"api_key,omitempty"`
	APISecret    string `json:"api_secret,omitempty"`
	RequestToken string `json:"request_token,omitempty"`
}

// CredentialsView reports link state. App credentials come back
// base64-obscured, the same shape the save endpoints accept.
type CredentialsView struct {
	Envelope

	Provider       string `json:"provider"`
	Configured     bool   `json:"configured"`
	Authorized     bool   `json:"authorized"`
	ClientIDMasked string `json:"client_id_masked,omitempty"`
	ClientID       string `json:"client_id,omitempty"`
	SecretKey      string `json:"secret_key,omitempty"`
	AccessToken    string `json:"access_token,omitempty"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	TokenValid     bool   `json:"token_valid"`
}

type ValidateResponse struct {
	Envelope

	Valid bool `json:"valid"`
}

type VerificationResponse struct {
	Envelope

	Status       string `json:"status"`
	Detail       string `json:"detail,omitempty"`
	AuthorizeURL string `json:"authorize_url,omitempty"`
}

type FundsResponse struct {
	Envelope

	Limits []FundLimit `json:"limits"`
}

type FundLimit struct {
	Title     string `json:"title"`
	Equity    string `json:"equity"`
	Commodity string `json:"commodity"`
}

type PositionsResponse struct {
	Envelope

	Positions []Position `json:"positions"`
}

type Position struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	AvgPrice string `json:"avg_price"`
	PnL      string `json:"pnl"`
	Side     string `json:"side"`
	Product  string `json:"product"`
}

type HoldingsResponse struct {
	Envelope

	Holdings []Holding `json:"holdings"`
}

type Holding struct {
	Symbol    string `json:"symbol"`
	ISIN      string `json:"isin,omitempty"`
	Quantity  int64  `json:"quantity"`
	CostPrice string `json:"cost_price"`
	LastPrice string `json:"last_price"`
	PnL       string `json:"pnl"`
}
