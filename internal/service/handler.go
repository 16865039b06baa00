package service

import (
	"encoding/json"
	"net/http"
	"university-results/internal/scrapers/beup"
)

const separatorText = "************************************"

// Separator follows every record in a lookup response.
type Separator struct {
	Separator string `json:"separator"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Entries lays out records the way the lookup endpoint returns them, each
// record immediately followed by a Separator.
func Entries(records []beup.StudentResult) []any {
	out := make([]any, 0, len(records)*2)
	for _, r := range records {
		out = append(out, r, Separator{Separator: separatorText})
	}
	return out
}

// Handler serves lookups on `GET /api` and `GET /`.
func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api", s.handleLookup)
	mux.HandleFunc("GET /{$}", s.handleLookup)
	return mux
}

func (s Service) handleLookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Lookup only fails on ErrMissingRegNo
	records, err := s.Lookup(r.Context(), query.Get("reg_no"), query.Get("sem"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Missing 'reg_no' query parameter",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, Entries(records))
}

func (s Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		s.tel.ReportBroken(report_handler_encode, err)
	}
}
