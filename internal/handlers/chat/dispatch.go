package chat

import (
	"context"
	"errors"

	"omni-api/internal/credential"
	"omni-api/internal/providers/generation"
	"omni-api/internal/shared"
)

// DispatchResult carries the normalized collaborator payload plus the
// credential the collaborator attached, if any. The payload must not be
// released to the caller until the credential, when present, is accepted.
type DispatchResult struct {
	Message    string
	Credential *credential.Credential
}

// dispatch invokes the collaborator for the classified intent. Collaborator
// failures are joined onto ErrDownstreamUnavailable so the router can answer
// with the generic message while the chain keeps the detail for logging.
func (h *Handler) dispatch(ctx context.Context, intent Intent, params Params, question string, vcStatus bool) (*DispatchResult, error) {
	issuance := ""
	if vcStatus {
		issuance = h.IssuanceJWT
	}

	switch intent {
	case IntentStockLookup:
		res, err := h.Market.Lookup(ctx, params.Symbol, issuance)
		if err != nil {
			return nil, errors.Join(shared.ErrDownstreamUnavailable, err)
		}
		return &DispatchResult{
			Message:    string(res.Data),
			Credential: attachedCredential(res.VCJWT, res.Timestamp),
		}, nil

	case IntentFinancialAnalysis:
		res, err := h.Finance.Analyze(ctx, question, issuance)
		if err != nil {
			return nil, errors.Join(shared.ErrDownstreamUnavailable, err)
		}
		return &DispatchResult{
			Message:    res.Data.Answer,
			Credential: attachedCredential(res.VCJWT, res.Timestamp),
		}, nil

	default:
		answer, err := h.Generation.Generate(ctx, question, generation.PromptChat)
		if err != nil {
			return nil, errors.Join(shared.ErrDownstreamUnavailable, err)
		}
		return &DispatchResult{Message: answer}, nil
	}
}

func attachedCredential(vcJWT *string, issuedAt *int64) *credential.Credential {
	if vcJWT == nil || *vcJWT == "" {
		return nil
	}
	return &credential.Credential{Token: *vcJWT, IssuedAt: issuedAt}
}
