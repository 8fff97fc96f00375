package exchange

import (
	"errors"
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

func TestParseSymbolFilters(t *testing.T) {
	filters := []map[string]interface{}{
		{"filterType": "PRICE_FILTER", "tickSize": "0.01", "minPrice": "0.01", "maxPrice": "100000"},
		{"filterType": "LOT_SIZE", "stepSize": "0.001", "minQty": "0.001", "maxQty": "9000"},
		{"filterType": "MIN_NOTIONAL", "minNotional": "10"},
	}

	got := parseSymbolFilters(filters)

	if !got.TickSize.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("TickSize = %s, want 0.01", got.TickSize)
	}
	if !got.StepSize.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("StepSize = %s, want 0.001", got.StepSize)
	}
	if !got.MinQty.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("MinQty = %s, want 0.001", got.MinQty)
	}
	if !got.MaxQty.Equal(decimal.RequireFromString("9000")) {
		t.Errorf("MaxQty = %s, want 9000", got.MaxQty)
	}
	if !got.MinNotional.Equal(decimal.RequireFromString("10")) {
		t.Errorf("MinNotional = %s, want 10", got.MinNotional)
	}
}

func TestParseSymbolFilters_NotionalVariant(t *testing.T) {
	// Newer spot symbols use NOTIONAL instead of MIN_NOTIONAL.
	filters := []map[string]interface{}{
		{"filterType": "NOTIONAL", "minNotional": "5"},
	}

	got := parseSymbolFilters(filters)
	if !got.MinNotional.Equal(decimal.RequireFromString("5")) {
		t.Errorf("MinNotional = %s, want 5", got.MinNotional)
	}
}

func TestParseSymbolFilters_Defaults(t *testing.T) {
	got := parseSymbolFilters(nil)

	if !got.TickSize.Equal(defaultTickSize) {
		t.Errorf("TickSize = %s, want permissive default", got.TickSize)
	}
	if !got.StepSize.Equal(defaultStepSize) {
		t.Errorf("StepSize = %s, want permissive default", got.StepSize)
	}
	if !got.MinQty.IsZero() {
		t.Errorf("MinQty = %s, want 0", got.MinQty)
	}
	if !got.MaxQty.Equal(defaultMaxQty) {
		t.Errorf("MaxQty = %s, want permissive default", got.MaxQty)
	}
	if !got.MinNotional.IsZero() {
		t.Errorf("MinNotional = %s, want 0", got.MinNotional)
	}
}

func TestClassifySubmitError(t *testing.T) {
	tests := []struct {
		name       string
		code       int64
		wantStatus SubmitStatus
	}{
		{"too many requests is retryable", codeTooManyRequests, SubmitRateLimited},
		{"too many orders is retryable", codeTooManyOrders, SubmitRateLimited},
		{"insufficient balance is fatal", -2010, SubmitRejected},
		{"filter failure is fatal", -1013, SubmitRejected},
		{"invalid symbol is fatal", -1121, SubmitRejected},
		{"bad api key is fatal", -2015, SubmitRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := classifySubmitError(&common.APIError{Code: tt.code, Message: "boom"})
			if err != nil {
				t.Fatalf("classifySubmitError() error = %v", err)
			}
			if outcome.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", outcome.Status, tt.wantStatus)
			}
			if outcome.Code != tt.code {
				t.Errorf("Code = %d, want %d", outcome.Code, tt.code)
			}
			if tt.wantStatus == SubmitRateLimited && outcome.RetryAfter <= 0 {
				t.Error("rate-limited outcome should carry a cooldown hint")
			}
		})
	}
}

func TestClassifySubmitError_Transport(t *testing.T) {
	// Non-API errors (network failures) surface as plain errors.
	transportErr := errors.New("connection reset")

	_, err := classifySubmitError(transportErr)
	if !errors.Is(err, transportErr) {
		t.Errorf("transport error should pass through, got %v", err)
	}
}

func TestClassifySubmitResponse_Filled(t *testing.T) {
	res := &binance.CreateOrderResponse{
		Symbol:                   "BTCUSDT",
		OrderID:                  12345,
		ClientOrderID:            "test-order",
		TransactTime:             1700000000000,
		ExecutedQuantity:         "2",
		CummulativeQuoteQuantity: "20.02",
		Status:                   binance.OrderStatusTypeFilled,
	}

	outcome, err := classifySubmitResponse(res, types.SideBuy)
	if err != nil {
		t.Fatalf("classifySubmitResponse() error = %v", err)
	}
	if outcome.Status != SubmitFilled {
		t.Fatalf("Status = %s, want filled", outcome.Status)
	}
	if outcome.Order == nil {
		t.Fatal("filled outcome should carry a confirmation")
	}
	if outcome.Order.OrderID != 12345 {
		t.Errorf("OrderID = %d, want 12345", outcome.Order.OrderID)
	}
	if !outcome.Order.ExecutedQty.Equal(decimal.NewFromInt(2)) {
		t.Errorf("ExecutedQty = %s, want 2", outcome.Order.ExecutedQty)
	}
	// Average price = 20.02 / 2
	if !outcome.Order.ExecutedPrice.Equal(decimal.RequireFromString("10.01")) {
		t.Errorf("ExecutedPrice = %s, want 10.01", outcome.Order.ExecutedPrice)
	}
}

func TestClassifySubmitResponse_Expired(t *testing.T) {
	res := &binance.CreateOrderResponse{
		Symbol: "BTCUSDT",
		Status: binance.OrderStatusTypeExpired,
	}

	outcome, err := classifySubmitResponse(res, types.SideBuy)
	if err != nil {
		t.Fatalf("classifySubmitResponse() error = %v", err)
	}
	if outcome.Status != SubmitKilled {
		t.Errorf("Status = %s, want killed", outcome.Status)
	}
	if outcome.Order != nil {
		t.Error("killed outcome should not carry a confirmation")
	}
}

func TestSubmitStatus_String(t *testing.T) {
	tests := []struct {
		status SubmitStatus
		want   string
	}{
		{SubmitFilled, "filled"},
		{SubmitKilled, "killed"},
		{SubmitRateLimited, "rate_limited"},
		{SubmitRejected, "rejected"},
		{SubmitStatus(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("SubmitStatus(%d).String() = %s, want %s", tt.status, got, tt.want)
		}
	}
}
