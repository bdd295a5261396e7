package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

type OrderStatus string

const (
	OfferCreated        OrderStatus = "offer created"
	OfferExpired        OrderStatus = "offer expired"
	InProgress          OrderStatus = "In Progress"
	Active              OrderStatus = "active"
	Revision            OrderStatus = "Revision"
	Delivered           OrderStatus = "delivered"
	Disputed            OrderStatus = "disputed"
	CancellationPending OrderStatus = "Cancellation Pending"
	Cancelled           OrderStatus = "Cancelled"
	Completed           OrderStatus = "Completed"
	Rejected            OrderStatus = "Rejected"
)

// Is compares statuses case-insensitively; the marketplace is not consistent
// about casing ("Revision" vs "revision").
func (s OrderStatus) Is(other ...OrderStatus) bool {
	for _, o := range other {
		if strings.EqualFold(string(s), string(o)) {
			return true
		}
	}
	return false
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestWithdrawn RequestStatus = "withdrawn"
	RequestCompleted RequestStatus = "completed"
)

const (
	RoleClient       = "client"
	RoleProfessional = "professional"
)

type Order struct {
	ID             string      `json:"id"`
	Professional   string      `json:"professional,omitempty"`
	ProfessionalID string      `json:"professionalId,omitempty"`
	ClientID       string      `json:"clientId,omitempty"`
	ClientName     string      `json:"clientName,omitempty"`
	Service        string      `json:"service,omitempty"`
	Status         OrderStatus `json:"status"`
	DeliveryStatus string      `json:"deliveryStatus,omitempty"`

	Date             Timestamp `json:"date,omitempty"`
	CreatedAt        Timestamp `json:"createdAt,omitempty"`
	AcceptedAt       Timestamp `json:"acceptedAt,omitempty"`
	DeliveredDate    Timestamp `json:"deliveredDate,omitempty"`
	CompletedDate    Timestamp `json:"completedDate,omitempty"`
	ExpectedDelivery Timestamp `json:"expectedDelivery,omitempty"`
	ScheduledDate    Timestamp `json:"scheduledDate,omitempty"`

	AmountValue      *Amount `json:"amountValue,omitempty"`
	RefundableAmount *Amount `json:"refundableAmount,omitempty"`

	AcceptedByProfessional bool `json:"acceptedByProfessional,omitempty"`

	DeliveryFiles   []DeliveryFile `json:"deliveryFiles,omitempty"`
	DeliveryMessage string         `json:"deliveryMessage,omitempty"`

	CancellationRequest   *CancellationRequest   `json:"cancellationRequest,omitempty"`
	RevisionRequest       RevisionRequests       `json:"revisionRequest,omitempty"`
	ExtensionRequest      *ExtensionRequest      `json:"extensionRequest,omitempty"`
	AdditionalInformation *AdditionalInformation `json:"additionalInformation,omitempty"`
	DisputeInfo           *DisputeInfo           `json:"disputeInfo,omitempty"`
	Rating                *Rating                `json:"rating,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// PlacedAt is the order placement time: createdAt, falling back to date.
func (o *Order) PlacedAt() Timestamp {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt
	}
	return o.Date
}

type File struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
	FileType string `json:"fileType,omitempty"`
}

type DeliveryFile struct {
	File
	DeliveryNumber int       `json:"deliveryNumber,omitempty"`
	UploadedAt     Timestamp `json:"uploadedAt,omitempty"`
}

type CancellationRequest struct {
	RequestedBy      string        `json:"requestedBy,omitempty"`
	Status           RequestStatus `json:"status,omitempty"`
	Reason           string        `json:"reason,omitempty"`
	RequestedAt      Timestamp     `json:"requestedAt,omitempty"`
	ResponseDeadline Timestamp     `json:"responseDeadline,omitempty"`
	RespondedAt      Timestamp     `json:"respondedAt,omitempty"`
	RejectionReason  string        `json:"rejectionReason,omitempty"`
	Files            []File        `json:"files,omitempty"`
}

func (c *CancellationRequest) Pending() bool {
	return c != nil && c.Status == RequestPending
}

type RevisionRequest struct {
	Status        RequestStatus `json:"status,omitempty"`
	RequestedAt   Timestamp     `json:"requestedAt,omitempty"`
	ClientMessage string        `json:"clientMessage,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	ClientFiles   []File        `json:"clientFiles,omitempty"`
}

// RevisionRequests decodes either a single revision request object or an
// array of them.
type RevisionRequests []RevisionRequest

func (r *RevisionRequests) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	if data[0] == '[' {
		var list []RevisionRequest
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*r = list
		return nil
	}
	var single RevisionRequest
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*r = RevisionRequests{single}
	return nil
}

// Pending reports whether any revision request is still open.
func (r RevisionRequests) Pending() bool {
	for _, req := range r {
		if req.Status == RequestPending {
			return true
		}
	}
	return false
}

type ExtensionRequest struct {
	Status          RequestStatus `json:"status,omitempty"`
	Reason          string        `json:"reason,omitempty"`
	NewDeliveryDate Timestamp     `json:"newDeliveryDate,omitempty"`
	RequestedAt     Timestamp     `json:"requestedAt,omitempty"`
	RespondedAt     Timestamp     `json:"respondedAt,omitempty"`
}

type AdditionalInformation struct {
	SubmittedAt Timestamp `json:"submittedAt,omitempty"`
	Message     string    `json:"message,omitempty"`
	Files       []File    `json:"files,omitempty"`
}

type Rating struct {
	Score       int       `json:"rating"`
	Review      string    `json:"review,omitempty"`
	SubmittedAt Timestamp `json:"submittedAt,omitempty"`
}

type ArbitrationPayment struct {
	UserID string    `json:"userId"`
	PaidAt Timestamp `json:"paidAt,omitempty"`
	Amount *Amount   `json:"amount,omitempty"`
}

type SettlementOffer struct {
	Role       string    `json:"role"`
	Amount     *Amount   `json:"amount,omitempty"`
	OfferedAt  Timestamp `json:"offeredAt,omitempty"`
	RejectedAt Timestamp `json:"rejectedAt,omitempty"`
	RejectedBy string    `json:"rejectedBy,omitempty"`
}

type DisputeMessage struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

type DisputeInfo struct {
	ID                     string               `json:"id,omitempty"`
	Status                 string               `json:"status,omitempty"`
	ClaimantID             string               `json:"claimantId,omitempty"`
	ClaimantName           string               `json:"claimantName,omitempty"`
	RespondentName         string               `json:"respondentName,omitempty"`
	Reason                 string               `json:"reason,omitempty"`
	CreatedAt              Timestamp            `json:"createdAt,omitempty"`
	RespondedAt            Timestamp            `json:"respondedAt,omitempty"`
	ResponseDeadline       Timestamp            `json:"responseDeadline,omitempty"`
	NegotiationDeadline    Timestamp            `json:"negotiationDeadline,omitempty"`
	ArbitrationFeeDeadline Timestamp            `json:"arbitrationFeeDeadline,omitempty"`
	ArbitrationFeeAmount   *Amount              `json:"arbitrationFeeAmount,omitempty"`
	ArbitrationPayments    []ArbitrationPayment `json:"arbitrationPayments,omitempty"`
	OfferHistory           []SettlementOffer    `json:"offerHistory,omitempty"`
	Messages               []DisputeMessage     `json:"messages,omitempty"`
	LastOfferRejectedAt    Timestamp            `json:"lastOfferRejectedAt,omitempty"`
	LastOfferRejectedBy    string               `json:"lastOfferRejectedBy,omitempty"`
	LastRejectedOffer      *Amount              `json:"lastRejectedOfferAmount,omitempty"`
	ClosedAt               Timestamp            `json:"closedAt,omitempty"`
	AcceptedAt             Timestamp            `json:"acceptedAt,omitempty"`
	AcceptedByRole         string               `json:"acceptedByRole,omitempty"`
	AdminDecision          string               `json:"adminDecision,omitempty"`
	AutoClosed             bool                 `json:"autoClosed,omitempty"`
	DecisionNotes          string               `json:"decisionNotes,omitempty"`
	WinnerID               string               `json:"winnerId,omitempty"`
	MilestoneIndices       []int                `json:"milestoneIndices,omitempty"`
}

// Closed reports whether the dispute has reached a terminal state.
func (d *DisputeInfo) Closed() bool {
	if d == nil {
		return false
	}
	return !d.ClosedAt.IsZero() || d.AutoClosed || strings.EqualFold(d.Status, "closed")
}

// PaidBy reports whether userID has paid the arbitration fee.
func (d *DisputeInfo) PaidBy(userID string) bool {
	if d == nil || userID == "" {
		return false
	}
	for _, p := range d.ArbitrationPayments {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

type Milestone struct {
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       *Amount `json:"price,omitempty"`
	Amount      *Amount `json:"amount,omitempty"`
	NoOf        *int    `json:"noOf,omitempty"`
}

type MilestoneDelivery struct {
	MilestoneIndex int       `json:"milestoneIndex"`
	DeliveredAt    Timestamp `json:"deliveredAt,omitempty"`
}

type Booking struct {
	Date      Timestamp `json:"date,omitempty"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
}

type Metadata struct {
	FromCustomOffer                 bool                `json:"fromCustomOffer,omitempty"`
	PaymentType                     string              `json:"paymentType,omitempty"`
	Milestones                      []Milestone         `json:"milestones,omitempty"`
	MilestoneDeliveries             []MilestoneDelivery `json:"milestoneDeliveries,omitempty"`
	DisputeResolvedMilestoneIndices []int               `json:"disputeResolvedMilestoneIndices,omitempty"`
	ResponseDeadline                Timestamp           `json:"responseDeadline,omitempty"`
	CustomOfferStatus               string              `json:"customOfferStatus,omitempty"`
	CustomOfferRejectedBy           string              `json:"customOfferRejectedBy,omitempty"`
	CustomOfferRejectedAt           Timestamp           `json:"customOfferRejectedAt,omitempty"`
	CustomOfferRejectionReason      string              `json:"customOfferRejectionReason,omitempty"`
	ProfessionalCompleteRequest     bool                `json:"professionalCompleteRequest,omitempty"`
	AutoApprovedAt                  Timestamp           `json:"autoApprovedAt,omitempty"`
	AutoApprovedDeadlineAt          Timestamp           `json:"autoApprovedDeadlineAt,omitempty"`
	DisputeCancelledByRole          string              `json:"disputeCancelledByRole,omitempty"`
	DisputeCancelledAt              Timestamp           `json:"disputeCancelledAt,omitempty"`
	OnlineDeliveryDays              string              `json:"onlineDeliveryDays,omitempty"`
	DeliveryDays                    *int                `json:"deliveryDays,omitempty"`
	Booking                         *Booking            `json:"booking,omitempty"`
}

// IsMilestoneOrder reports a milestone-paid custom offer.
func (m Metadata) IsMilestoneOrder() bool {
	return m.FromCustomOffer && strings.EqualFold(m.PaymentType, "milestone") && len(m.Milestones) > 0
}

// DeliveredMilestones returns the distinct delivered milestone indices in
// first-seen order.
func (m Metadata) DeliveredMilestones() []int {
	seen := make(map[int]bool, len(m.MilestoneDeliveries))
	var out []int
	for _, d := range m.MilestoneDeliveries {
		if seen[d.MilestoneIndex] {
			continue
		}
		seen[d.MilestoneIndex] = true
		out = append(out, d.MilestoneIndex)
	}
	return out
}
