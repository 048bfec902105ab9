// Package credential gates responses behind machine-to-machine credential
// verification with replay protection.
package credential

import "time"

type ReplayStatus int

const (
	ReplayValid ReplayStatus = iota
	ReplayExpired
	ReplayFutureSkew
	ReplayMalformed
)

func (s ReplayStatus) String() string {
	switch s {
	case ReplayValid:
		return "valid"
	case ReplayExpired:
		return "expired"
	case ReplayFutureSkew:
		return "future_skew"
	default:
		return "malformed"
	}
}

// CheckIssuedAt validates a credential issuance timestamp (epoch millis)
// against a freshness window. now is injected so callers and tests control the
// clock; the function does no I/O and holds no state.
//
// A timestamp ahead of now by more than maxFutureSkew is rejected outright: a
// client with a fast clock can drift a little, but an issuance time further in
// the future than the allowed skew is impossible.
func CheckIssuedAt(issuedAt *int64, now time.Time, maxAge, maxFutureSkew time.Duration) ReplayStatus {
	if issuedAt == nil || *issuedAt <= 0 {
		return ReplayMalformed
	}
	issued := time.UnixMilli(*issuedAt)
	if now.Sub(issued) > maxAge {
		return ReplayExpired
	}
	if issued.Sub(now) > maxFutureSkew {
		return ReplayFutureSkew
	}
	return ReplayValid
}
