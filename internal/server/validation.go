package server

import (
	"net/http"

	apperrors "github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/errors"
)

// documentRequest is the body accepted by POST /document and
// PUT /document/{id}. Text is a pointer so a missing field can be told apart
// from an explicitly empty string, which is a legal zero-token document.
type documentRequest struct {
	Text *string `json:"text"`
}

// validateDocumentRequest enforces the document input contract: the text
// field must be present and must not exceed the configured byte limit.
func (s *Server) validateDocumentRequest(req documentRequest) (*apperrors.AppError, string) {
	if req.Text == nil {
		return apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"field 'text' is required"), ""
	}
	if len(*req.Text) > s.cfg.Documents.MaxTextBytes {
		return apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"field 'text' exceeds the maximum size of %d bytes", s.cfg.Documents.MaxTextBytes), ""
	}
	return nil, *req.Text
}
