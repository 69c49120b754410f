package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/pkg/idx"
)

type userRepo struct {
	q querier
}

var _ store.UserRepo = (*userRepo)(nil)

const userColumns = `id, email, name, password_hash, verified, provider,
	fyers_client_id, fyers_secret_key, fyers_access_token, fyers_refresh_token,
	zerodha_api_key, zerodha_api_secret, zerodha_access_token, zerodha_public_token,
	risk_max_order_value, risk_max_daily_loss, risk_max_open_lots, risk_paper_trade_only,
	created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), strings.ToLower(u.Email), u.Name, u.PasswordHash,
		boolToInt(u.Verified), string(u.Provider),
		u.Fyers.ClientID, u.Fyers.SecretKey, u.Fyers.AccessToken, u.Fyers.RefreshToken,
		u.Zerodha.APIKey, u.Zerodha.APISecret, u.Zerodha.AccessToken, u.Zerodha.PublicToken,
		u.Risk.MaxOrderValue.String(), u.Risk.MaxDailyLoss.String(),
		u.Risk.MaxOpenLots, boolToInt(u.Risk.PaperTradeOnly),
		u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("sqlite: insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	return scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email))
	return scanUser(row)
}

func (r *userRepo) Touch(ctx context.Context, id idx.ID) error {
	return r.exec(ctx, `UPDATE users SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id.String())
}

func (r *userRepo) MarkVerified(ctx context.Context, id idx.ID) error {
	return r.exec(ctx, `UPDATE users SET verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id.String())
}

func (r *userRepo) SetProvider(ctx context.Context, id idx.ID, provider domain.Provider) error {
	return r.exec(ctx, `UPDATE users SET provider = ?, updated_at = ? WHERE id = ?`,
		string(provider), time.Now().UTC(), id.String())
}

func (r *userRepo) PatchFyers(ctx context.Context, id idx.ID, patch domain.FyersPatch) error {
	sets, args := []string{}, []any{}
	appendSet(&sets, &args, "fyers_client_id", patch.ClientID)
	appendSet(&sets, &args, "fyers_secret_key", patch.SecretKey)
	appendSet(&sets, &args, "fyers_access_token", patch.AccessToken)
	appendSet(&sets, &args, "fyers_refresh_token", patch.RefreshToken)
	return r.patch(ctx, id, sets, args)
}

func (r *userRepo) PatchZerodha(ctx context.Context, id idx.ID, patch domain.ZerodhaPatch) error {
	sets, args := []string{}, []any{}
	appendSet(&sets, &args, "zerodha_api_key", patch.APIKey)
	appendSet(&sets, &args, "zerodha_api_secret", patch.APISecret)
	appendSet(&sets, &args, "zerodha_access_token", patch.AccessToken)
	appendSet(&sets, &args, "zerodha_public_token", patch.PublicToken)
	return r.patch(ctx, id, sets, args)
}

func (r *userRepo) ClearBrokerTokens(ctx context.Context, id idx.ID) error {
	return r.exec(ctx, `
		UPDATE users SET
			fyers_access_token = '',
			fyers_refresh_token = '',
			zerodha_access_token = '',
			zerodha_public_token = '',
			updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id.String())
}

func (r *userRepo) UpdateRiskLimits(ctx context.Context, id idx.ID, limits domain.RiskLimits) error {
	return r.exec(ctx, `
		UPDATE users SET
			risk_max_order_value = ?,
			risk_max_daily_loss = ?,
			risk_max_open_lots = ?,
			risk_paper_trade_only = ?,
			updated_at = ?
		WHERE id = ?`,
		limits.MaxOrderValue.String(), limits.MaxDailyLoss.String(),
		limits.MaxOpenLots, boolToInt(limits.PaperTradeOnly),
		time.Now().UTC(), id.String())
}

// patch applies the accumulated SET clauses, bumping updated_at. A
// patch with no fields set is a no-op by design of the merge semantics.
func (r *userRepo) patch(ctx context.Context, id idx.ID, sets []string, args []any) error {
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id.String())

	return r.exec(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
}

// exec runs an UPDATE that must hit exactly one row.
func (r *userRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                         domain.User
		id, provider              string
		verified, paperOnly       int64
		maxOrderValue, maxDayLoss string
	)

	err := row.Scan(
		&id, &u.Email, &u.Name, &u.PasswordHash, &verified, &provider,
		&u.Fyers.ClientID, &u.Fyers.SecretKey, &u.Fyers.AccessToken, &u.Fyers.RefreshToken,
		&u.Zerodha.APIKey, &u.Zerodha.APISecret, &u.Zerodha.AccessToken, &u.Zerodha.PublicToken,
		&maxOrderValue, &maxDayLoss, &u.Risk.MaxOpenLots, &paperOnly,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("sqlite: scan user: %w", err)
	}

	u.ID = idx.ID(id)
	u.Provider = domain.Provider(provider)
	u.Verified = verified != 0
	u.Risk.PaperTradeOnly = paperOnly != 0

	if u.Risk.MaxOrderValue, err = decimal.NewFromString(maxOrderValue); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: parse max order value: %w", err)
	}
	if u.Risk.MaxDailyLoss, err = decimal.NewFromString(maxDayLoss); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: parse max daily loss: %w", err)
	}

	return u, nil
}

func appendSet(sets *[]string, args *[]any, column string, value *string) {
	if value == nil {
		return
	}
	*sets = append(*sets, column+" = ?")
	*args = append(*args, *value)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
