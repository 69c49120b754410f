package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/fyers"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/internal/server/zerodha"
	"github.com/nivesh/brokerlink/pkg/idx"
)

// PortfolioService reads funds, positions and holdings through the
// linked broker and normalises them into provider-neutral rows.
type PortfolioService struct {
	store   store.Store
	fyers   *fyers.Client
	zerodha *zerodha.Client
	broker  *BrokerService
}

func NewPortfolioService(s store.Store, fc *fyers.Client, zc *zerodha.Client, broker *BrokerService) *PortfolioService {
	return &PortfolioService{store: s, fyers: fc, zerodha: zc, broker: broker}
}

// FundRow is one line of the funds report.
type FundRow struct {
	Title     string
	Equity    decimal.Decimal
	Commodity decimal.Decimal
}

type PositionRow struct {
	Symbol   string
	Quantity int64
	AvgPrice decimal.Decimal
	PnL      decimal.Decimal
	Side     string
	Product  string
}

type HoldingRow struct {
	Symbol    string
	ISIN      string
	Quantity  int64
	CostPrice decimal.Decimal
	LastPrice decimal.Decimal
	PnL       decimal.Decimal
}

// Funds fetches the margin/fund report for the linked broker.
func (s *PortfolioService) Funds(ctx context.Context, userID idx.ID) ([]FundRow, error) {
	user, err := s.linkedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Provider == domain.ProviderZerodha {
		margins, err := s.zerodha.Margins(ctx, user.Zerodha.APIKey, user.Zerodha.AccessToken)
		if err != nil {
			return nil, s.mapReadError(ctx, userID, err)
		}

		rows := make([]FundRow, 0, len(margins))
		for name, seg := range margins {
			if !seg.Enabled {
				continue
			}
			rows = append(rows, FundRow{
				Title:  name,
				Equity: numToDecimal(seg.Net),
			})
		}
		return rows, nil
	}

	limits, err := s.fyers.Funds(ctx, user.Fyers.ClientID, user.Fyers.AccessToken)
	if err != nil {
		return nil, s.mapReadError(ctx, userID, err)
	}

	rows := make([]FundRow, 0, len(limits))
	for _, l := range limits {
		rows = append(rows, FundRow{
			Title:     l.Title,
			Equity:    numToDecimal(l.EquityAmount),
			Commodity: numToDecimal(l.CommodityAmount),
		})
	}
	return rows, nil
}

// Positions fetches open positions for the linked broker.
func (s *PortfolioService) Positions(ctx context.Context, userID idx.ID) ([]PositionRow, error) {
	user, err := s.linkedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Provider == domain.ProviderZerodha {
		positions, err := s.zerodha.Positions(ctx, user.Zerodha.APIKey, user.Zerodha.AccessToken)
		if err != nil {
			return nil, s.mapReadError(ctx, userID, err)
		}

		rows := make([]PositionRow, 0, len(positions))
		for _, p := range positions {
			rows = append(rows, PositionRow{
				Symbol:   p.TradingSymbol,
				Quantity: p.Quantity,
				AvgPrice: numToDecimal(p.AveragePrice),
				PnL:      numToDecimal(p.PnL),
				Side:     sideFromQty(p.Quantity),
				Product:  p.Product,
			})
		}
		return rows, nil
	}

	positions, err := s.fyers.Positions(ctx, user.Fyers.ClientID, user.Fyers.AccessToken)
	if err != nil {
		return nil, s.mapReadError(ctx, userID, err)
	}

	rows := make([]PositionRow, 0, len(positions))
	for _, p := range positions {
		side := "long"
		if p.Side < 0 {
			side = "short"
		}
		rows = append(rows, PositionRow{
			Symbol:   p.Symbol,
			Quantity: p.Qty,
			AvgPrice: numToDecimal(p.AvgPrice),
			PnL:      numToDecimal(p.PL),
			Side:     side,
			Product:  p.ProductType,
		})
	}
	return rows, nil
}

// Holdings fetches long-term holdings for the linked broker.
func (s *PortfolioService) Holdings(ctx context.Context, userID idx.ID) ([]HoldingRow, error) {
	user, err := s.linkedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Provider == domain.ProviderZerodha {
		holdings, err := s.zerodha.Holdings(ctx, user.Zerodha.APIKey, user.Zerodha.AccessToken)
		if err != nil {
			return nil, s.mapReadError(ctx, userID, err)
		}

		rows := make([]HoldingRow, 0, len(holdings))
		for _, h := range holdings {
			rows = append(rows, HoldingRow{
				Symbol:    h.TradingSymbol,
				ISIN:      h.ISIN,
				Quantity:  h.Quantity,
				CostPrice: numToDecimal(h.AveragePrice),
				LastPrice: numToDecimal(h.LastPrice),
				PnL:       numToDecimal(h.PnL),
			})
		}
		return rows, nil
	}

	holdings, err := s.fyers.Holdings(ctx, user.Fyers.ClientID, user.Fyers.AccessToken)
	if err != nil {
		return nil, s.mapReadError(ctx, userID, err)
	}

	rows := make([]HoldingRow, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, HoldingRow{
			Symbol:    h.Symbol,
			ISIN:      h.ISIN,
			Quantity:  h.Quantity,
			CostPrice: numToDecimal(h.CostPrice),
			LastPrice: numToDecimal(h.LTP),
			PnL:       numToDecimal(h.PL),
		})
	}
	return rows, nil
}

// linkedUser loads the user and ensures a broker session exists.
func (s *PortfolioService) linkedUser(ctx context.Context, userID idx.ID) (domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	switch user.Provider {
	case domain.ProviderZerodha:
		if !user.Zerodha.Configured() {
			return domain.User{}, ErrBrokerNotConfigured
		}
		if !user.Zerodha.Authorized() {
			return domain.User{}, ErrBrokerNotAuthorized
		}
	default:
		if !user.Fyers.Configured() {
			return domain.User{}, ErrBrokerNotConfigured
		}
		if !user.Fyers.Authorized() {
			return domain.User{}, ErrBrokerNotAuthorized
		}
	}
	return user, nil
}

// mapReadError translates broker failures, invalidating stored tokens
// on an auth rejection so the next verification run reports the truth.
func (s *PortfolioService) mapReadError(ctx context.Context, userID idx.ID, err error) error {
	switch {
	case errors.Is(err, fyers.ErrUnauthorized), errors.Is(err, zerodha.ErrUnauthorized):
		if clearErr := s.broker.ClearTokens(ctx, userID); clearErr != nil {
			return fmt.Errorf("clear rejected tokens: %w", clearErr)
		}
		return ErrBrokerNotAuthorized
	case errors.Is(err, fyers.ErrUnreachable), errors.Is(err, zerodha.ErrUnreachable):
		return ErrBrokerUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrBrokerRejected, err)
	}
}

func numToDecimal(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func sideFromQty(qty int64) string {
	if qty < 0 {
		return "short"
	}
	return "long"
}
