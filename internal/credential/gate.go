package credential

import (
	"context"
	"time"

	"omni-api/internal/metrics"
	"omni-api/internal/shared"

	"go.uber.org/zap"
)

// Credential is a token presented by a downstream collaborator together with
// its issuance timestamp (epoch millis). It lives for one verification call
// and is never stored.
type Credential struct {
	Token    string
	IssuedAt *int64
}

type Outcome int

const (
	Accepted Outcome = iota
	RejectedExpired
	RejectedFuture
	RejectedInvalid
	RejectedMalformed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedExpired:
		return "rejected_expired"
	case RejectedFuture:
		return "rejected_future"
	case RejectedInvalid:
		return "rejected_invalid"
	default:
		return "rejected_malformed"
	}
}

// Gate decides accept/reject for a presented credential. The replay window is
// checked first; only a fresh timestamp reaches the external verifier. The
// gate never infers "no credential required" — an absent credential is
// RejectedMalformed and the caller decides whether absence was acceptable.
type Gate struct {
	Verifier      Verifier
	MaxAge        time.Duration
	MaxFutureSkew time.Duration
	VerifyTimeout time.Duration
	Log           *zap.SugaredLogger
}

func NewGate(verifier Verifier, log *zap.SugaredLogger) *Gate {
	return &Gate{
		Verifier:      verifier,
		MaxAge:        shared.MaxCredentialAge,
		MaxFutureSkew: shared.MaxCredentialFutureSkew,
		VerifyTimeout: shared.VerifyRequestTimeout,
		Log:           log,
	}
}

func (g *Gate) Verify(ctx context.Context, cred *Credential) Outcome {
	outcome := g.verify(ctx, cred)
	metrics.VerificationOutcomes.WithLabelValues(outcome.String()).Inc()
	return outcome
}

func (g *Gate) verify(ctx context.Context, cred *Credential) Outcome {
	if cred == nil || cred.Token == "" {
		return RejectedMalformed
	}

	switch CheckIssuedAt(cred.IssuedAt, time.Now(), g.MaxAge, g.MaxFutureSkew) {
	case ReplayExpired:
		return RejectedExpired
	case ReplayFutureSkew:
		return RejectedFuture
	case ReplayMalformed:
		return RejectedMalformed
	}

	vctx, cancel := context.WithTimeout(ctx, g.VerifyTimeout)
	defer cancel()

	ok, err := g.Verifier.Verify(vctx, cred.Token)
	if err != nil {
		// Internal detail only; the caller sees one collapsed 401 message.
		g.Log.Warnw("Credential verifier error", "error", err.Error())
		return RejectedInvalid
	}
	if !ok {
		return RejectedInvalid
	}
	return Accepted
}
