package handler

import (
	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
	"golang.org/x/net/html"
)

// sanitizeText strips markup but keeps plain text as typed, so a saved
// "a & b" does not come back as "a &amp; b".
func (h *Handler) sanitizeText(s string) string {
	return html.UnescapeString(h.policy.Sanitize(s))
}

func (h *Handler) sanitizeItems(items []domain.TreeItem) []domain.TreeItem {
	if items == nil {
		return nil
	}
	out := make([]domain.TreeItem, len(items))
	for i, item := range items {
		item.Text = h.sanitizeText(item.Text)
		item.Data.Text = h.sanitizeText(item.Data.Text)
		item.Children = h.sanitizeItems(item.Children)
		out[i] = item
	}
	return out
}

func (h *Handler) sanitizeSaveRequest(req *api.SaveBoardRequest) {
	if req.Focus != nil {
		focus := h.sanitizeText(*req.Focus)
		req.Focus = &focus
	}
	if req.State != nil {
		st := domain.State(h.sanitizeItems(*req.State))
		req.State = &st
	}
}
