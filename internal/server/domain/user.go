package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nivesh/brokerlink/pkg/idx"
)

// Provider identifies which broker an account trades through.
type Provider string

const (
	ProviderNone    Provider = ""
	ProviderFyers   Provider = "fyers"
	ProviderZerodha Provider = "zerodha"
)

// Valid reports whether p names a known broker.
func (p Provider) Valid() bool {
	return p == ProviderFyers || p == ProviderZerodha
}

// FyersCredentials is the stored Fyers link state. AccessToken empty
// means the link is configured but not yet authorized.
type FyersCredentials struct {
	ClientID     string
	SecretKey    string
	AccessToken  string
	RefreshToken string
}

// Configured reports whether both app credentials are present.
func (c FyersCredentials) Configured() bool {
	return c.ClientID != "" && c.SecretKey != ""
}

// Authorized reports whether an exchange has produced a usable token.
func (c FyersCredentials) Authorized() bool {
	return c.Configured() && c.AccessToken != ""
}

// ZerodhaCredentials is the stored Zerodha link state.
type ZerodhaCredentials struct {
	APIKey      string
	APISecret   string
	AccessToken string
	PublicToken string
}

func (c ZerodhaCredentials) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

func (c ZerodhaCredentials) Authorized() bool {
	return c.Configured() && c.AccessToken != ""
}

// RiskLimits caps order exposure for an account. Zero values mean no
// cap is enforced.
type RiskLimits struct {
	MaxOrderValue  decimal.Decimal
	MaxDailyLoss   decimal.Decimal
	MaxOpenLots    int64
	PaperTradeOnly bool
}

// User is an account row. Credential fields are stored plain; the
// transit layer obscures them on the wire and the API never echoes them.
type User struct {
	ID           idx.ID
	Email        string
	Name         string
	PasswordHash string
	Verified     bool
	Provider     Provider
	Fyers        FyersCredentials
	Zerodha      ZerodhaCredentials
	Risk         RiskLimits
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FyersPatch is a merge-only update. Nil fields keep the stored value;
// pointers to empty strings clear it.
type FyersPatch struct {
	ClientID     *string
	SecretKey    *string
	AccessToken  *string
	RefreshToken *string
}

// ZerodhaPatch mirrors FyersPatch for the Zerodha fields.
type ZerodhaPatch struct {
	APIKey      *string
	APISecret   *string
	AccessToken *string
	PublicToken *string
}

// Ptr is a small helper for building patches.
func Ptr(s string) *string { return &s }
