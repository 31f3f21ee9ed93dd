package controllers

import (
	"net/http"
	"strconv"

	"github.com/pecaforte/inventory/pkg/audit"
	"github.com/pecaforte/inventory/pkg/response"
)

type MovementController struct {
	recorder *audit.Recorder
}

func NewMovementController(rec *audit.Recorder) *MovementController {
	return &MovementController{recorder: rec}
}

// Index returns the most recent stock movements from the audit trail,
// newest first. With auditing disabled the list is empty.
func (c *MovementController) Index(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 500 {
			response.Error(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	movements, err := c.recorder.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if movements == nil {
		movements = []audit.Movement{}
	}
	response.Success(w, movements)
}
