package alerting

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary contains daily trading statistics for the summary report.
type DailySummary struct {
	Date             time.Time
	StartingValue    decimal.Decimal
	EndingValue      decimal.Decimal
	ChangePct        decimal.Decimal
	Switches         int
	FailedExecutions int
	CurrentAsset     string
	SafeModeActive   bool
}

// NewDailySummary creates a new daily summary from the provided data.
func NewDailySummary(
	date time.Time,
	startValue, endValue decimal.Decimal,
	switches, failedExecutions int,
	currentAsset string,
	safeModeActive bool,
) DailySummary {
	var changePct decimal.Decimal
	if !startValue.IsZero() {
		changePct = endValue.Sub(startValue).Div(startValue).Mul(decimal.NewFromInt(100))
	}

	return DailySummary{
		Date:             date,
		StartingValue:    startValue,
		EndingValue:      endValue,
		ChangePct:        changePct,
		Switches:         switches,
		FailedExecutions: failedExecutions,
		CurrentAsset:     currentAsset,
		SafeModeActive:   safeModeActive,
	}
}
