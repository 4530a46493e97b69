package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"dailies/internal/ctxlog"
)

type apiResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to write response", "error", err)
	}
}

// decodeInput reads a flat JSON object of strings, numbers and booleans.
func decodeInput(r *http.Request) (url.Values, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	in := url.Values{}
	for k, v := range body {
		switch v := v.(type) {
		case nil:
		case string:
			in.Set(k, v)
		case json.Number:
			in.Set(k, v.String())
		case bool:
			in.Set(k, fmt.Sprint(v))
		default:
			return nil, fmt.Errorf("field %q: must be a string or a number", k)
		}
	}
	return in, nil
}

func (s *Server) api() http.Handler {
	byName := make(map[string]*demo, len(demos))
	for _, d := range demos {
		byName[d.name] = d
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := byName[r.PathValue("demo")]
		if !ok {
			writeJSON(w, r, http.StatusNotFound, apiResponse{Error: "unknown demo"})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		in, err := decodeInput(r)
		if err != nil {
			writeJSON(w, r, http.StatusBadRequest, apiResponse{Error: err.Error()})
			return
		}

		out, err := s.run(r.Context(), d, in)
		if err != nil {
			writeJSON(w, r, http.StatusUnprocessableEntity, apiResponse{Error: err.Error()})
			return
		}

		writeJSON(w, r, http.StatusOK, apiResponse{Result: out})
	})
}
