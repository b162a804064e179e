package engine

import "errors"

var (
	CompositionUnavailableErr = errors.New("index composition unavailable")
	OverAllocatedErr          = errors.New("target weights sum to more than 1")
	PassInFlightErr           = errors.New("a rebalance pass is already in flight")
	InvalidDepositErr         = errors.New("deposit amount must be positive")
	NegativeCashErr           = errors.New("initial cash must not be negative")
	InsufficientBalanceErr    = errors.New("insufficient balance when applying fill")
	OversellErr               = errors.New("sell fill exceeds current holdings")
	UnknownSideErr            = errors.New("unknown fill side")
	NonPositiveQuantityErr    = errors.New("fill quantity must be positive")
)
