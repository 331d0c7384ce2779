package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/klothoplatform/stackquery/pkg/logging"
	"github.com/klothoplatform/stackquery/pkg/workspace"
)

const notFoundBody = "path not found"

type (
	listHandler struct {
		list func(ctx context.Context) ([]workspace.StackSummary, error)
	}

	detailsHandler struct {
		stacks StackQuerier
	}
)

// EncodeStackList renders stacks as a JSON array whose elements are the JSON encodings of each summary,
// so `[]` for no stacks and `["{\"name\":\"tier-1\",...}"]` otherwise.
func EncodeStackList(stacks []workspace.StackSummary) ([]byte, error) {
	entries := make([]string, 0, len(stacks))
	for _, s := range stacks {
		b, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("could not encode stack %s: %w", s.Name, err)
		}
		entries = append(entries, string(b))
	}
	return json.Marshal(entries)
}

// DecodeStackList is the inverse of EncodeStackList.
func DecodeStackList(data []byte) ([]workspace.StackSummary, error) {
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("could not decode stack list: %w", err)
	}
	stacks := make([]workspace.StackSummary, len(entries))
	for i, e := range entries {
		if err := json.Unmarshal([]byte(e), &stacks[i]); err != nil {
			return nil, fmt.Errorf("could not decode stack entry %d: %w", i, err)
		}
	}
	return stacks, nil
}

func (h listHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r.Context()).Sugar()

	stacks, err := h.list(r.Context())
	if err != nil {
		log.Errorf("failed to list stacks: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	body, err := EncodeStackList(stacks)
	if err != nil {
		log.Errorf("failed to encode stacks: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, body)
}

func (h detailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.GetLogger(r.Context()).Sugar()

	details := h.stacks.StackDetails(r.Context(), r.URL.Query().Get(StackNameParam))
	body, err := json.Marshal(details)
	if err != nil {
		log.Errorf("failed to encode stack details: %v", err)
		body = []byte("{}")
	}
	writeJSON(w, body)
}

// tierConfig is a placeholder that always succeeds with an empty body.
func tierConfig(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundBody))
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
