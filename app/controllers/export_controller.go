package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/pecaforte/inventory/app/jobs"
	"github.com/pecaforte/inventory/pkg/bind"
	"github.com/pecaforte/inventory/pkg/queue"
	"github.com/pecaforte/inventory/pkg/response"
)

type ExportController struct{}

func NewExportController() *ExportController {
	return &ExportController{}
}

type exportRequest struct {
	Disk string `json:"disk" validate:"nullable,in=local,s3"`
}

// Create queues a catalog snapshot export and answers 202 with the
// destination path. The queue workers do the actual write.
func (c *ExportController) Create(w http.ResponseWriter, r *http.Request) {
	// An empty body means "default disk".
	var body exportRequest
	if errs, err := bind.JSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	job := jobs.NewExportJob(body.Disk)
	if err := queue.Dispatch(job); err != nil {
		respondError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"path":   job.Path,
	})
}
