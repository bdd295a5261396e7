package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/and161185/orderdesk/internal/model"
)

// CreateDispute opens a dispute. The draft is sent as multipart form data
// with one "evidence" part per file.
func (c *Client) CreateDispute(ctx context.Context, viewerID, orderID string, draft model.DisputeDraft) error {
	p, err := disputeForm(draft)
	if err != nil {
		return fmt.Errorf("build dispute form: %w", err)
	}
	return c.do(ctx, viewerID, http.MethodPost, orderPath(orderID)+"/dispute", p, nil)
}

func disputeForm(draft model.DisputeDraft) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"requirements", strings.TrimSpace(draft.Requirements)},
		{"unmetRequirements", strings.TrimSpace(draft.UnmetRequirements)},
		{"offerAmount", strings.TrimPrefix(strings.TrimSpace(draft.OfferAmount), "£")},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, err
		}
	}

	if len(draft.MilestoneIndices) > 0 {
		indices, err := json.Marshal(draft.MilestoneIndices)
		if err != nil {
			return nil, err
		}
		if err := w.WriteField("milestoneIndices", string(indices)); err != nil {
			return nil, err
		}
	}

	for _, file := range draft.Evidence {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="evidence"; filename=%q`, file.FileName))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, fmt.Errorf("read %s: %w", file.FileName, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &payload{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
