package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
	"github.com/iho/cashbook/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	Render(ctx context.Context, input usecase.StatementInput) (*statement.Statement, error)
	Share(ctx context.Context, input usecase.StatementInput) (*domain.ShareReceipt, error)
	GetShared(ctx context.Context, token string) (*statement.Statement, error)
}

// StatementHandler serves rendered statements.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Render writes the statement body. CSV is sent as an attachment.
func (h *StatementHandler) Render(w http.ResponseWriter, r *http.Request) {
	spec, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	target, err := statement.ParseTarget(r.URL.Query().Get("format"), statement.TargetCSV)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid format", err.Error())
		return
	}

	st, err := h.statementUC.Render(r.Context(), usecase.StatementInput{Filter: spec, Target: target})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to render statement", err.Error())
		return
	}

	writeStatement(w, st, st.Target == statement.TargetCSV)
}

// Share renders a statement and hands it to the configured export sink.
func (h *StatementHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req dto.ShareStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	receipt, err := h.statementUC.Share(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to share statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ShareReceiptFromDomain(receipt))
}

// GetShared serves a statement previously stored by the share sink.
func (h *StatementHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing share token", "")
		return
	}

	st, err := h.statementUC.GetShared(r.Context(), token)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get shared statement", err.Error())
		return
	}

	writeStatement(w, st, false)
}

func writeStatement(w http.ResponseWriter, st *statement.Statement, attachment bool) {
	w.Header().Set("Content-Type", st.ContentType)
	if attachment && st.Filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+st.Filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, st.Body)
}
