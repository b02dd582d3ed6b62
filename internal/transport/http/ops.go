package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/duongtapcode03/lmobile-flashsale/internal/scheduler"
)

// PassRunner triggers one scheduler pass on demand.
type PassRunner interface {
	RunOnce(ctx context.Context) (scheduler.Result, error)
}

// HandleRunSchedulerPass returns an HTTP handler that runs one
// activation/closing/cleanup pass, for testing and operations.
func HandleRunSchedulerPass(svc PassRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.RunOnce(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "scheduler pass failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
