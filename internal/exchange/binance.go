package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"spotbot/internal/types"
)

// Permissive defaults for filters absent from the exchange response.
var (
	defaultTickSize            = decimal.RequireFromString("0.00000001")
	defaultStepSize            = decimal.RequireFromString("0.00000001")
	defaultMaxQty              = decimal.RequireFromString("1000000000")
	defaultRateLimitRetryAfter = 30 * time.Second
)

// Binance rate-limit error codes.
const (
	codeTooManyRequests = -1003
	codeTooManyOrders   = -1015
)

// BinanceConfig holds configuration for the Binance client.
type BinanceConfig struct {
	APIKey            string
	APISecret         string
	Testnet           bool
	RequestsPerSecond int
}

// DefaultBinanceConfig returns sensible defaults.
func DefaultBinanceConfig() BinanceConfig {
	return BinanceConfig{
		RequestsPerSecond: 10,
	}
}

// Binance implements Client against the Binance spot REST API.
type Binance struct {
	client  *binance.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewBinance creates a new Binance spot client.
func NewBinance(cfg BinanceConfig, logger *slog.Logger) *Binance {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultBinanceConfig().RequestsPerSecond
	}

	binance.UseTestnet = cfg.Testnet

	return &Binance{
		client:  binance.NewClient(cfg.APIKey, cfg.APISecret),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
		logger:  logger,
	}
}

// SymbolFilters fetches the trading rules for a symbol.
// Returns types.ErrSymbolNotFound if the exchange has no metadata for it.
func (b *Binance) SymbolFilters(ctx context.Context, symbol string) (types.SymbolFilters, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return types.SymbolFilters{}, err
	}

	info, err := b.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.SymbolFilters{}, fmt.Errorf("exchange info: %w", err)
	}

	for _, s := range info.Symbols {
		if s.Symbol == symbol {
			return parseSymbolFilters(s.Filters), nil
		}
	}

	return types.SymbolFilters{}, fmt.Errorf("%w: %s", types.ErrSymbolNotFound, symbol)
}

// parseSymbolFilters extracts the filter set from the raw exchange info
// filter list, applying permissive defaults for anything missing.
func parseSymbolFilters(filters []map[string]interface{}) types.SymbolFilters {
	f := types.SymbolFilters{
		TickSize:    defaultTickSize,
		StepSize:    defaultStepSize,
		MinQty:      decimal.Zero,
		MaxQty:      defaultMaxQty,
		MinNotional: decimal.Zero,
	}

	for _, filter := range filters {
		switch filter["filterType"] {
		case "PRICE_FILTER":
			if v, ok := filterDecimal(filter, "tickSize"); ok {
				f.TickSize = v
			}
		case "LOT_SIZE":
			if v, ok := filterDecimal(filter, "stepSize"); ok {
				f.StepSize = v
			}
			if v, ok := filterDecimal(filter, "minQty"); ok {
				f.MinQty = v
			}
			if v, ok := filterDecimal(filter, "maxQty"); ok {
				f.MaxQty = v
			}
		case "MIN_NOTIONAL":
			if v, ok := filterDecimal(filter, "minNotional"); ok {
				f.MinNotional = v
			}
		case "NOTIONAL":
			// Newer spot symbols expose the NOTIONAL filter instead.
			if v, ok := filterDecimal(filter, "minNotional"); ok {
				f.MinNotional = v
			}
		}
	}

	return f
}

func filterDecimal(filter map[string]interface{}, key string) (decimal.Decimal, bool) {
	raw, ok := filter[key].(string)
	if !ok {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// OrderBook fetches a depth snapshot for a symbol.
func (b *Binance) OrderBook(ctx context.Context, symbol string, depth int) (*types.OrderBook, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := b.client.NewDepthService().Symbol(symbol).Limit(depth).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("depth: %w", err)
	}

	book := &types.OrderBook{
		Symbol:    symbol,
		Bids:      make([]types.BookLevel, 0, len(res.Bids)),
		Asks:      make([]types.BookLevel, 0, len(res.Asks)),
		FetchedAt: time.Now(),
	}

	for _, bid := range res.Bids {
		lvl, err := parseBookLevel(bid.Price, bid.Quantity)
		if err != nil {
			return nil, fmt.Errorf("parse bid: %w", err)
		}
		book.Bids = append(book.Bids, lvl)
	}
	for _, ask := range res.Asks {
		lvl, err := parseBookLevel(ask.Price, ask.Quantity)
		if err != nil {
			return nil, fmt.Errorf("parse ask: %w", err)
		}
		book.Asks = append(book.Asks, lvl)
	}

	return book, nil
}

func parseBookLevel(price, qty string) (types.BookLevel, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return types.BookLevel{}, err
	}
	q, err := decimal.NewFromString(qty)
	if err != nil {
		return types.BookLevel{}, err
	}
	return types.BookLevel{Price: p, Qty: q}, nil
}

// Klines fetches OHLCV candles for a symbol and interval.
func (b *Binance) Klines(ctx context.Context, symbol, interval string, limit int) ([]types.Kline, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("klines: %w", err)
	}

	klines := make([]types.Kline, 0, len(res))
	for _, k := range res {
		parsed, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("parse kline: %w", err)
		}
		klines = append(klines, parsed)
	}

	return klines, nil
}

func parseKline(k *binance.Kline) (types.Kline, error) {
	open, err := decimal.NewFromString(k.Open)
	if err != nil {
		return types.Kline{}, err
	}
	high, err := decimal.NewFromString(k.High)
	if err != nil {
		return types.Kline{}, err
	}
	low, err := decimal.NewFromString(k.Low)
	if err != nil {
		return types.Kline{}, err
	}
	close_, err := decimal.NewFromString(k.Close)
	if err != nil {
		return types.Kline{}, err
	}
	volume, err := decimal.NewFromString(k.Volume)
	if err != nil {
		return types.Kline{}, err
	}

	return types.Kline{
		OpenTime:  time.UnixMilli(k.OpenTime),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close_,
		Volume:    volume,
		CloseTime: time.UnixMilli(k.CloseTime),
	}, nil
}

// LastPrice fetches the latest traded price for a symbol.
func (b *Binance) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker price: %w", err)
	}

	for _, p := range prices {
		if p.Symbol == symbol {
			v, err := decimal.NewFromString(p.Price)
			if err != nil {
				return decimal.Zero, fmt.Errorf("parse price: %w", err)
			}
			return v, nil
		}
	}

	return decimal.Zero, fmt.Errorf("%w: %s", types.ErrSymbolNotFound, symbol)
}

// Balances fetches spot balances. When assets are given, only those are
// returned (missing assets map to a zero balance).
func (b *Binance) Balances(ctx context.Context, assets ...string) (map[string]types.Balance, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}

	all := make(map[string]types.Balance, len(account.Balances))
	for _, bal := range account.Balances {
		free, err := decimal.NewFromString(bal.Free)
		if err != nil {
			return nil, fmt.Errorf("parse balance %s: %w", bal.Asset, err)
		}
		locked, err := decimal.NewFromString(bal.Locked)
		if err != nil {
			return nil, fmt.Errorf("parse balance %s: %w", bal.Asset, err)
		}
		all[bal.Asset] = types.Balance{Asset: bal.Asset, Free: free, Locked: locked}
	}

	if len(assets) == 0 {
		return all, nil
	}

	out := make(map[string]types.Balance, len(assets))
	for _, asset := range assets {
		if bal, ok := all[asset]; ok {
			out[asset] = bal
		} else {
			out[asset] = types.Balance{Asset: asset, Free: decimal.Zero, Locked: decimal.Zero}
		}
	}
	return out, nil
}

// PlaceLimitFOK submits a limit fill-or-kill order and returns a tagged
// outcome. Transport errors are returned as a plain error; every
// exchange-level response maps onto a SubmitOutcome.
func (b *Binance) PlaceLimitFOK(ctx context.Context, symbol string, side types.Side, price, qty decimal.Decimal) (SubmitOutcome, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return SubmitOutcome{}, err
	}

	clientOrderID := generateClientOrderID()

	res, err := b.client.NewCreateOrderService().
		Symbol(symbol).
		Side(convertSide(side)).
		Type(binance.OrderTypeLimit).
		TimeInForce(binance.TimeInForceTypeFOK).
		Quantity(qty.String()).
		Price(price.String()).
		NewClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return classifySubmitError(err)
	}

	return classifySubmitResponse(res, side)
}

// classifySubmitError maps a go-binance error onto a tagged outcome.
// Rate-limit codes become retryable outcomes; every other API error is a
// fatal rejection. Non-API (transport) errors are surfaced as-is.
func classifySubmitError(err error) (SubmitOutcome, error) {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return SubmitOutcome{}, err
	}

	switch apiErr.Code {
	case codeTooManyRequests, codeTooManyOrders:
		return SubmitOutcome{
			Status:     SubmitRateLimited,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
			RetryAfter: defaultRateLimitRetryAfter,
		}, nil
	default:
		return SubmitOutcome{
			Status:  SubmitRejected,
			Code:    apiErr.Code,
			Message: apiErr.Message,
		}, nil
	}
}

// classifySubmitResponse maps an accepted create-order response onto a
// tagged outcome. FOK orders come back either FILLED or EXPIRED.
func classifySubmitResponse(res *binance.CreateOrderResponse, side types.Side) (SubmitOutcome, error) {
	switch res.Status {
	case binance.OrderStatusTypeFilled:
		executedQty, err := decimal.NewFromString(res.ExecutedQuantity)
		if err != nil {
			return SubmitOutcome{}, fmt.Errorf("parse executed quantity: %w", err)
		}
		quoteQty, err := decimal.NewFromString(res.CummulativeQuoteQuantity)
		if err != nil {
			return SubmitOutcome{}, fmt.Errorf("parse quote quantity: %w", err)
		}

		avgPrice := decimal.Zero
		if executedQty.IsPositive() {
			avgPrice = quoteQty.Div(executedQty)
		}

		return SubmitOutcome{
			Status: SubmitFilled,
			Order: &types.OrderConfirmation{
				OrderID:       res.OrderID,
				ClientOrderID: res.ClientOrderID,
				Symbol:        res.Symbol,
				Side:          side,
				ExecutedPrice: avgPrice,
				ExecutedQty:   executedQty,
				TransactTime:  time.UnixMilli(res.TransactTime),
			},
		}, nil

	case binance.OrderStatusTypeExpired:
		// The FOK order was killed: full quantity was not available at
		// the limit price.
		return SubmitOutcome{
			Status:  SubmitKilled,
			Message: "fill-or-kill order expired",
		}, nil

	default:
		return SubmitOutcome{
			Status:  SubmitRejected,
			Message: fmt.Sprintf("unexpected order status %s", res.Status),
		}, nil
	}
}

// Ping probes exchange connectivity.
func (b *Binance) Ping(ctx context.Context) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	return b.client.NewPingService().Do(ctx)
}

func convertSide(side types.Side) binance.SideType {
	if side == types.SideSell {
		return binance.SideTypeSell
	}
	return binance.SideTypeBuy
}

// generateClientOrderID creates a unique client order ID for idempotency.
func generateClientOrderID() string {
	return fmt.Sprintf("%s-%s",
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
	)
}
