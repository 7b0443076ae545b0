// Package sample generates deterministic demo ledgers for trying the
// analyzer without real trading data.
package sample

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"tradeguard/internal/models"
)

// Options controls the shape of the generated ledger.
type Options struct {
	Trades         int
	Seed           int64
	StartBalance   float64
	WinProbability float64
	// StopLossRate is the fraction of trades that carry a stop-loss.
	StopLossRate float64
}

// DefaultOptions produces a moderately risky 100-trade ledger.
func DefaultOptions() Options {
	return Options{
		Trades:         100,
		Seed:           42,
		StartBalance:   10000,
		WinProbability: 0.60,
		StopLossRate:   0.75,
	}
}

type instrument struct {
	symbol string
	price  float64
	lotMin float64
	lotMax float64
}

var instruments = []instrument{
	{"EURUSD", 1.0850, 0.01, 0.50},
	{"GBPUSD", 1.2700, 0.01, 0.50},
	{"USDJPY", 149.50, 0.01, 0.50},
	{"BTCUSD", 43000.0, 0.01, 0.25},
	{"XAUUSD", 2030.0, 0.01, 0.30},
	{"TSLA", 240.0, 1, 20},
	{"AAPL", 190.0, 1, 25},
}

// Generate builds a seeded pseudo-random ledger. The same options always
// produce the same trades.
func Generate(opts Options) models.Ledger {
	if opts.Trades <= 0 {
		opts.Trades = DefaultOptions().Trades
	}
	if opts.StartBalance <= 0 {
		opts.StartBalance = DefaultOptions().StartBalance
	}
	if opts.WinProbability <= 0 || opts.WinProbability >= 1 {
		opts.WinProbability = DefaultOptions().WinProbability
	}
	if opts.StopLossRate < 0 || opts.StopLossRate > 1 {
		opts.StopLossRate = DefaultOptions().StopLossRate
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	balance := opts.StartBalance
	cursor := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	ledger := make(models.Ledger, 0, opts.Trades)
	for i := 0; i < opts.Trades; i++ {
		inst := instruments[rng.Intn(len(instruments))]

		tradeType := models.TradeBuy
		if rng.Float64() < 0.5 {
			tradeType = models.TradeSell
		}

		lot := inst.lotMin + rng.Float64()*(inst.lotMax-inst.lotMin)
		entry := inst.price * (1 + (rng.Float64()-0.5)*0.02)

		// Win/loss decides which side of entry the exit lands on.
		move := entry * (0.002 + rng.Float64()*0.018)
		win := rng.Float64() < opts.WinProbability
		exit := entry
		switch {
		case tradeType == models.TradeBuy && win:
			exit = entry + move
		case tradeType == models.TradeBuy && !win:
			exit = entry - move
		case tradeType == models.TradeSell && win:
			exit = entry - move
		default:
			exit = entry + move
		}

		// 2% protective bands around entry when a stop is set.
		var stopLoss, takeProfit float64
		if rng.Float64() < opts.StopLossRate {
			if tradeType == models.TradeBuy {
				stopLoss = entry * 0.98
				takeProfit = entry * 1.02
			} else {
				stopLoss = entry * 1.02
				takeProfit = entry * 0.98
			}
		}

		pnl := riskAmount(balance, rng)
		if !win {
			pnl = -pnl
		}

		holdMinutes := 15 + rng.Intn(8*60)
		entryTime := cursor
		exitTime := entryTime.Add(time.Duration(holdMinutes) * time.Minute)

		ledger = append(ledger, models.Trade{
			TradeID:              fmt.Sprintf("T%04d", i+1),
			Symbol:               inst.symbol,
			EntryTime:            entryTime,
			ExitTime:             exitTime,
			TradeType:            tradeType,
			LotSize:              round2(lot),
			EntryPrice:           round5(entry),
			ExitPrice:            round5(exit),
			StopLoss:             round5(stopLoss),
			TakeProfit:           round5(takeProfit),
			ProfitLoss:           round2(pnl),
			AccountBalanceBefore: round2(balance),
		})

		balance += pnl
		if balance < 100 {
			balance = 100
		}

		// Mostly a few trades a day, with occasional bursts.
		gap := time.Duration(30+rng.Intn(5*60)) * time.Minute
		cursor = cursor.Add(gap)
		if rng.Float64() < 0.25 {
			cursor = time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 9, 0, 0, 0, time.UTC).
				AddDate(0, 0, 1)
		}
	}

	return ledger
}

// riskAmount returns a P&L magnitude between 0.5% and 3% of balance.
func riskAmount(balance float64, rng *rand.Rand) float64 {
	return balance * (0.005 + rng.Float64()*0.025)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round5(v float64) float64 {
	return math.Round(v*100000) / 100000
}
