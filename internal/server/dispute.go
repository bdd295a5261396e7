package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/and161185/orderdesk/internal/actions"
	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/middleware"
	"github.com/and161185/orderdesk/internal/model"
)

const maxDisputeUpload = 32 << 20

// CreateDisputeHandler accepts the dispute form as multipart/form-data:
// requirements, unmetRequirements, offerAmount, milestoneIndices,
// confirmSingleMilestone and any number of "evidence" files.
func (srv *Server) CreateDisputeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDisputeUpload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	draft, closeFiles, err := disputeDraft(r.MultipartForm)
	defer closeFiles()
	if err != nil {
		srv.writeError(w, err)
		return
	}

	srv.mutate(w, r, mutation{
		action: actions.Dispute,
		validate: func(o *model.Order) error {
			err := actions.ValidateDisputeDraft(o, draft)
			if errors.Is(err, errs.ErrConfirmationRequired) {
				srv.askConfirmation(r)
			}
			return err
		},
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.CreateDispute(ctx, viewerID, id, draft)
		},
	})
}

// askConfirmation moves an open dispute modal to its confirmation step.
func (srv *Server) askConfirmation(r *http.Request) {
	viewerID, _ := middleware.ViewerID(r.Context())
	if s, ok := srv.registry.Get(viewerID, orderID(r)); ok {
		_ = s.ConfirmModal()
	}
}

func disputeDraft(form *multipart.Form) (model.DisputeDraft, func(), error) {
	value := func(name string) string {
		if v := form.Value[name]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	var files []multipart.File
	closeFiles := func() {
		for _, f := range files {
			f.Close()
		}
	}

	draft := model.DisputeDraft{
		Requirements:      value("requirements"),
		UnmetRequirements: value("unmetRequirements"),
		OfferAmount:       value("offerAmount"),
	}
	draft.ConfirmSingleMilestone, _ = strconv.ParseBool(value("confirmSingleMilestone"))

	indices, err := parseIndices(value("milestoneIndices"))
	if err != nil {
		return draft, closeFiles, err
	}
	draft.MilestoneIndices = indices

	for _, fh := range form.File["evidence"] {
		f, err := fh.Open()
		if err != nil {
			return draft, closeFiles, errs.Invalid("evidence", "unreadable file "+fh.Filename)
		}
		files = append(files, f)
		draft.Evidence = append(draft.Evidence, model.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return draft, closeFiles, nil
}

// parseIndices accepts a JSON array or a comma separated list.
func parseIndices(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []int
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, errs.Invalid("milestoneIndices", "unknown milestone")
		}
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errs.Invalid("milestoneIndices", "unknown milestone")
		}
		out = append(out, i)
	}
	return out, nil
}
