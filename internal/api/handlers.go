package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"tourism/internal/catalog"
	"tourism/internal/logging"
	"tourism/internal/recommend"
	"tourism/internal/storage"
)

const maxBodyBytes = 1 << 16

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]string{"status": "ok"}, Metadata{})
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, catalog.All(), Metadata{})
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, "request body must be a JSON object")
		return
	}
	if req.ID == "" {
		req.ID = logging.RequestIDFromContext(r.Context())
	}

	res, err := h.rec.Recommend(r.Context(), req)
	if err != nil {
		status, code, msg := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("recommend failed")
		}
		respondError(w, r, status, code, msg)
		return
	}

	var meta Metadata
	if h.archive != nil {
		key, err := h.archive.StoreResult(r.Context(), res)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to archive result")
		}
		meta.ArchiveKey = key
	}
	respondData(w, r, res, meta)
}

// ranking serves an archived result. The path after /rankings/ is the
// archive key without its "rankings/" prefix, so the archive_key returned by
// POST /recommend can be fetched as /api/v1/<archive_key>.
func (h *Handler) ranking(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	if rest == "" || strings.Contains(rest, "..") {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, "invalid ranking key")
		return
	}
	if h.archive == nil {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "ranking archive is not enabled")
		return
	}

	key := "rankings/" + rest
	res, err := h.archive.GetResult(r.Context(), key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "no ranking stored under "+key)
		return
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Str("key", key).Msg("failed to read archived ranking")
		respondError(w, r, http.StatusBadGateway, CodeUpstream, "could not read archived ranking")
		return
	}
	respondData(w, r, res, Metadata{ArchiveKey: key})
}

// errorResponse maps a Recommend error to status, code and a message safe
// to show to clients.
func errorResponse(err error) (int, string, string) {
	if errors.Is(err, recommend.ErrNoResults) {
		return http.StatusNotFound, CodeNoResults, recommend.ErrNoResults.Error()
	}
	var rerr *recommend.Error
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case recommend.KindInvalidRequest:
			return http.StatusBadRequest, CodeInvalidRequest, rerr.Cause
		case recommend.KindConfig:
			return http.StatusServiceUnavailable, CodeConfig, rerr.Cause
		case recommend.KindUpstream:
			return http.StatusBadGateway, CodeUpstream, rerr.Cause
		case recommend.KindCanceled:
			return http.StatusServiceUnavailable, CodeCanceled, rerr.Cause
		}
	}
	return http.StatusInternalServerError, CodeInternal, "internal error"
}
