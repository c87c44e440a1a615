package httpapp

import (
	"net/http"

	"github.com/cesargomez89/mdlookup/internal/constants"
	"github.com/cesargomez89/mdlookup/internal/http/dto"
	"github.com/cesargomez89/mdlookup/internal/query"
)

func (h *Handler) SearchByFields(w http.ResponseWriter, r *http.Request) {
	q, errs := dto.ExprFromParams(r.URL.Query())
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	h.search(w, r, r.URL.Query().Get("provider"), q)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if errs := decodeBody(r, &req); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	h.search(w, r, req.Provider, req.Query)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, providerName string, q query.Expr) {
	res, err := h.Lookups.Search(r.Context(), providerName, q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) SearchBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRequest
	if errs := decodeBody(r, &req); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if errs := req.Validate(constants.MaxBatchQueries); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	items, err := h.Lookups.SearchMany(r.Context(), req.Provider, req.Queries)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]dto.BatchItemResponse, len(items))
	for i, item := range items {
		resp[i].Query = item.Expr
		if item.Err != nil {
			_, body := errorResponse(item.Err)
			resp[i].Error = &body
			continue
		}
		resp[i].Result = item.Result
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompileByFields(w http.ResponseWriter, r *http.Request) {
	q, errs := dto.ExprFromParams(r.URL.Query())
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	h.compile(w, r.URL.Query().Get("provider"), q)
}

func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if errs := decodeBody(r, &req); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	h.compile(w, req.Provider, req.Query)
}

func (h *Handler) compile(w http.ResponseWriter, providerName string, q query.Expr) {
	compiled, err := h.Lookups.Compile(providerName, q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if providerName == "" {
		_, providerName = h.Lookups.Providers()
	}
	h.writeJSON(w, http.StatusOK, dto.CompileResponse{Provider: providerName, Query: compiled})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, errs := dto.ParseLimit(r.URL.Query(), constants.DefaultHistoryItems, constants.MaxHistoryItems)
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	lookups, err := h.Lookups.History(limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	stats, err := h.Lookups.Stats()
	if err != nil {
		h.Logger.Error("Failed to get lookup stats", "error", err)
	}

	h.writeJSON(w, http.StatusOK, dto.NewHistoryResponse(lookups, stats))
}

func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	names, def := h.Lookups.Providers()
	h.writeJSON(w, http.StatusOK, dto.ProvidersResponse{Providers: names, Default: def})
}

func (h *Handler) SetDefaultProvider(w http.ResponseWriter, r *http.Request) {
	var req dto.SetDefaultProviderRequest
	if errs := decodeBody(r, &req); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}
	if req.Provider == "" {
		h.writeValidation(w, []dto.ValidationError{{Field: "provider", Message: "is required"}})
		return
	}

	if err := h.Lookups.SetDefaultProvider(req.Provider); err != nil {
		h.writeError(w, err)
		return
	}

	names, def := h.Lookups.Providers()
	h.writeJSON(w, http.StatusOK, dto.ProvidersResponse{Providers: names, Default: def})
}
