package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/watchlist"
)

// WatchlistHandler reads and edits the caller's watchlist. Anonymous visitors
// read the shared default list and cannot change it.
type WatchlistHandler struct {
	logger    *common.Logger
	store     *watchlist.Store
	jwtSecret []byte
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(logger *common.Logger, store *watchlist.Store, jwtSecret []byte) *WatchlistHandler {
	return &WatchlistHandler{logger: logger, store: store, jwtSecret: jwtSecret}
}

type watchlistRequest struct {
	Symbols []string `json:"symbols"`
}

// ServeHTTP handles /api/portal/watchlist.
// GET returns the list, PUT replaces it, POST adds symbols and DELETE ?symbol=
// removes one.
func (h *WatchlistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r, h.jwtSecret)

	var (
		symbols []string
		err     error
	)
	if user == "" && r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusUnauthorized, "sign in to edit your watchlist")
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		symbols, err = h.store.Get(r.Context(), user)
		if err == nil && len(symbols) == 0 {
			WriteJSON(w, http.StatusOK, map[string]interface{}{"symbols": watchlist.DefaultSymbols, "default": true})
			return
		}
	case http.MethodPut, http.MethodPost:
		var req watchlistRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if r.Method == http.MethodPut {
			symbols, err = h.store.Set(r.Context(), user, req.Symbols)
		} else {
			symbols, err = h.store.Add(r.Context(), user, req.Symbols...)
		}
	case http.MethodDelete:
		sym := splitSymbols(r.URL.Query().Get("symbol"))
		if len(sym) == 0 {
			WriteError(w, http.StatusBadRequest, "symbol is required")
			return
		}
		symbols, err = h.store.Remove(r.Context(), user, sym...)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		if errors.Is(err, watchlist.ErrTooMany) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Str("user", user).Err(err).Msg("watchlist storage failed")
		WriteError(w, http.StatusInternalServerError, "watchlist unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"symbols": symbols, "default": false})
}
