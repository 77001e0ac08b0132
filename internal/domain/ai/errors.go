package ai

import "errors"

// ErrRateLimited indicates the AI gateway returned HTTP 429.
var ErrRateLimited = errors.New("ai rate limit exceeded")

// ErrPaymentRequired indicates the AI gateway returned HTTP 402
// (credits exhausted).
var ErrPaymentRequired = errors.New("ai credits depleted")

// ErrAnalysisFailed covers any other non-success gateway status.
var ErrAnalysisFailed = errors.New("ai analysis failed")
