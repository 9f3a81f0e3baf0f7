package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

// DocumentRepo is the repository surface one document type exposes. P is
// the write payload and D the nested read model.
type DocumentRepo[P any, D models.Exportable] interface {
	Capabilities() models.ListCapabilities
	Create(ctx context.Context, p *P) (uint, int, error)
	Get(ctx context.Context, id uint) (D, error)
	Update(ctx context.Context, id uint, p *P) (int, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params models.ListParams) ([]models.DocumentSummary, int64, error)
}

// DocumentHandler serves the CRUD, list and export endpoints of one
// document type.
type DocumentHandler[P any, D models.Exportable] struct {
	repo  DocumentRepo[P, D]
	label string
}

func NewDocumentHandler[P any, D models.Exportable](label string, repo DocumentRepo[P, D]) *DocumentHandler[P, D] {
	return &DocumentHandler[P, D]{repo: repo, label: label}
}

type createResponse struct {
	DocumentID uint `json:"documentId"`
	Count      int  `json:"count"`
}

type updateResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (h *DocumentHandler[P, D]) Create(w http.ResponseWriter, r *http.Request) {
	var p P
	if err := decodeJSON(r, &p); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	id, count, err := h.repo.Create(r.Context(), &p)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, createResponse{DocumentID: id, Count: count})
}

func (h *DocumentHandler[P, D]) List(w http.ResponseWriter, r *http.Request) {
	caps := h.repo.Capabilities()
	params, err := models.ParseListParams(r, caps)
	if err != nil {
		middleware.WriteError(w, r, apierr.Validation("invalid list filter", err.Error()))
		return
	}
	docs, total, err := h.repo.List(r.Context(), params)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if params.Paginated() {
		w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	}
	middleware.WriteJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler[P, D]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	doc, err := h.repo.Get(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Update replaces the document and all of its children.
func (h *DocumentHandler[P, D]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	var p P
	if err := decodeJSON(r, &p); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	count, err := h.repo.Update(r.Context(), id, &p)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updateResponse{Success: true, Count: count})
}

func (h *DocumentHandler[P, D]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s document %d deleted", h.label, id),
	})
}

// Export downloads one document as an xlsx workbook, or csv with
// ?format=csv.
func (h *DocumentHandler[P, D]) Export(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	doc, err := h.repo.Get(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	name := fmt.Sprintf("%s %d", h.label, id)
	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, r, name, doc.Sheets())
		return
	}
	writeWorkbook(w, r, name, doc.Sheets())
}

func documentID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.Validation("invalid document id", fmt.Sprintf("id %q is not a positive integer", raw))
	}
	return uint(id), nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apierr.Validation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.Validation("invalid JSON", err.Error())
	}
	return nil
}
