package model

import "io"

type CancelRequest struct {
	Reason string `json:"reason"`
	Files  []File `json:"files,omitempty"`
}

type CancellationResponse struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

type RevisionRequestInput struct {
	Message string `json:"message"`
	Files   []File `json:"files,omitempty"`
}

type DisputeResponse struct {
	Message string `json:"message"`
}

// SettlementOfferRequest is a counter offer made during dispute negotiation.
type SettlementOfferRequest struct {
	Amount string `json:"amount"`
}

type CustomOfferResponse struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason,omitempty"`
}

type RatingRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review,omitempty"`
}

type ExtensionResponse struct {
	Approve bool `json:"approve"`
}

type ModalRequest struct {
	Modal string `json:"modal"`
}

// Upload is an evidence file attached to a dispute.
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// DisputeDraft is what the buyer submits when opening a dispute.
type DisputeDraft struct {
	Requirements           string
	UnmetRequirements      string
	OfferAmount            string
	MilestoneIndices       []int
	ConfirmSingleMilestone bool
	Evidence               []Upload
}
