package timeline

import (
	"sort"
	"time"

	"github.com/and161185/orderdesk/internal/model"
)

type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorGray   Color = "gray"
)

type Icon string

const (
	IconCart     Icon = "cart"
	IconOffer    Icon = "offer"
	IconCheck    Icon = "check"
	IconRefresh  Icon = "refresh"
	IconInfo     Icon = "info"
	IconClock    Icon = "clock"
	IconPackage  Icon = "package"
	IconCancel   Icon = "x-circle"
	IconAlert    Icon = "alert"
	IconScale    Icon = "scale"
	IconCoin     Icon = "coin"
	IconFlag     Icon = "flag"
	IconDeal     Icon = "handshake"
)

// Event is one entry of an order's timeline.
type Event struct {
	ID          string       `json:"id"`
	At          *time.Time   `json:"at,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Message     string       `json:"message,omitempty"`
	Files       []model.File `json:"files,omitempty"`
	Color       Color        `json:"color"`
	Icon        Icon         `json:"icon"`
}

type rule func(v *view) []Event

// rules run in this order; every rule may contribute any number of events.
var rules = []rule{
	orderPlaced,
	offerLifecycle,
	acceptance,
	revisions,
	additionalInformation,
	extension,
	deliveries,
	cancellation,
	disputeCancellation,
	disputeOpened,
	disputeResponded,
	arbitrationFeePaid,
	arbitrationFeesPaid,
	disputeClosed,
	settlementOffers,
	offerRejections,
	completion,
}

// Build reconstructs the timeline of an order as seen by viewerID, newest
// event first. Events without a usable timestamp sort last.
func Build(o *model.Order, viewerID string, now time.Time) []Event {
	if o == nil {
		return nil
	}
	v := &view{order: o, viewer: viewerID, now: now}

	var events []Event
	for _, r := range rules {
		events = append(events, r(v)...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return sortKey(events[i].At) > sortKey(events[j].At)
	})
	return events
}

func sortKey(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}
