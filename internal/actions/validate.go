package actions

import (
	"strings"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/model"
)

func ValidateCancel(req model.CancelRequest) error {
	if strings.TrimSpace(req.Reason) == "" {
		return errs.Invalid("reason", "tell the professional why you want to cancel")
	}
	return nil
}

// ValidateCancellationResponse requires a reason only when rejecting.
func ValidateCancellationResponse(resp model.CancellationResponse) error {
	if !resp.Approve && strings.TrimSpace(resp.Reason) == "" {
		return errs.Invalid("reason", "explain why you reject the cancellation")
	}
	return nil
}

func ValidateRevision(req model.RevisionRequestInput) error {
	if strings.TrimSpace(req.Message) == "" {
		return errs.Invalid("message", "describe what needs to change")
	}
	return nil
}

func ValidateDisputeResponse(resp model.DisputeResponse) error {
	if strings.TrimSpace(resp.Message) == "" {
		return errs.Invalid("message", "a response message is required")
	}
	return nil
}

func ValidateRating(req model.RatingRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return errs.Invalid("rating", "rating must be between 1 and 5")
	}
	return nil
}

// ValidateCustomOfferResponse requires a reason only when rejecting.
func ValidateCustomOfferResponse(resp model.CustomOfferResponse) error {
	if !resp.Accept && strings.TrimSpace(resp.Reason) == "" {
		return errs.Invalid("reason", "explain why you reject the offer")
	}
	return nil
}
