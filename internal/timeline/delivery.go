package timeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/orderdesk/internal/model"
)

var deliveryMarker = regexp.MustCompile(`\[Delivery #(\d+)\]\r?\n`)

// ParseDeliveryMessage splits a delivery message into per-delivery texts.
// Without markers the whole message belongs to delivery #1; text before the
// first marker also belongs to delivery #1. A marker followed by no text still
// yields an entry with an empty string.
func ParseDeliveryMessage(message string) map[int]string {
	out := make(map[int]string)
	matches := deliveryMarker.FindAllStringSubmatchIndex(message, -1)
	if len(matches) == 0 {
		if text := strings.TrimSpace(message); text != "" {
			out[1] = text
		}
		return out
	}

	add := func(n int, text string) {
		if prev, ok := out[n]; ok && prev != "" {
			if text != "" {
				out[n] = prev + "\n\n" + text
			}
			return
		}
		out[n] = text
	}

	if lead := strings.TrimSpace(message[:matches[0][0]]); lead != "" {
		add(1, lead)
	}
	for i, m := range matches {
		n, err := strconv.Atoi(message[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(message)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		add(n, strings.TrimSpace(message[m[1]:end]))
	}
	return out
}

// GroupDeliveryFiles buckets files by delivery number (1 when absent), each
// bucket ordered by upload time.
func GroupDeliveryFiles(files []model.DeliveryFile) map[int][]model.DeliveryFile {
	groups := make(map[int][]model.DeliveryFile)
	for _, f := range files {
		n := f.DeliveryNumber
		if n <= 0 {
			n = 1
		}
		groups[n] = append(groups[n], f)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return sortKey(g[i].UploadedAt.Ptr()) < sortKey(g[j].UploadedAt.Ptr())
		})
	}
	return groups
}

// Batch is one delivery of work.
type Batch struct {
	Number  int
	At      *time.Time
	Message string
	Files   []model.File
}

// Deliveries returns one batch per delivery number, in ascending number order.
func Deliveries(o *model.Order) []Batch {
	groups := GroupDeliveryFiles(o.DeliveryFiles)
	messages := ParseDeliveryMessage(o.DeliveryMessage)

	numbers := make(map[int]bool, len(groups)+len(messages))
	for n := range groups {
		numbers[n] = true
	}
	for n := range messages {
		numbers[n] = true
	}
	if len(numbers) == 0 && (o.DeliveryMessage != "" || !o.DeliveredDate.IsZero()) {
		numbers[1] = true
	}

	sorted := make([]int, 0, len(numbers))
	for n := range numbers {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	batches := make([]Batch, 0, len(sorted))
	for _, n := range sorted {
		b := Batch{Number: n, Message: messages[n]}
		group := groups[n]
		for _, f := range group {
			b.Files = append(b.Files, f.File)
		}
		for _, f := range group {
			if at := f.UploadedAt.Ptr(); at != nil {
				b.At = at
				break
			}
		}
		if b.At == nil {
			b.At = o.DeliveredDate.Ptr()
		}
		batches = append(batches, b)
	}
	return batches
}
