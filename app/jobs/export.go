// Package jobs holds the background jobs the queue workers run.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/queue"
	"github.com/pecaforte/inventory/pkg/storage"
)

var inventory *services.Inventory

// Configure wires the jobs to the inventory service and registers them
// with the queue. Call once at boot, before dispatching or working.
func Configure(inv *services.Inventory) {
	inventory = inv
	queue.Register("ExportJob", func() queue.Job { return &ExportJob{} })
}

// ExportJob writes a snapshot of the catalog and the ledger to a storage
// disk as JSON. Dispatched by the export endpoint and the export command.
type ExportJob struct {
	Path string `json:"path"` // destination on the disk, e.g. exports/catalog-20260831-120000.json
	Disk string `json:"disk"` // "local" or "s3"; empty uses the default disk
}

// NewExportJob builds an export targeting a timestamped path on disk.
func NewExportJob(disk string) *ExportJob {
	return &ExportJob{
		Path: fmt.Sprintf("exports/catalog-%s.json", time.Now().UTC().Format("20060102-150405")),
		Disk: disk,
	}
}

type snapshot struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Products    []models.Product       `json:"products"`
	Ledger      []models.CategoryStock `json:"ledger"`
	Stats       *services.Stats        `json:"stats"`
}

func (j *ExportJob) Handle() error {
	if inventory == nil {
		return fmt.Errorf("jobs: not configured")
	}
	ctx := context.Background()

	products, err := inventory.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("export: read catalog: %w", err)
	}
	ledger, err := inventory.Ledger(ctx)
	if err != nil {
		return fmt.Errorf("export: read ledger: %w", err)
	}
	stats, err := inventory.Stats(ctx)
	if err != nil {
		return fmt.Errorf("export: read stats: %w", err)
	}

	data, err := json.MarshalIndent(snapshot{
		GeneratedAt: time.Now().UTC(),
		Products:    products,
		Ledger:      ledger,
		Stats:       stats,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal: %w", err)
	}

	if j.Disk != "" {
		disk, err := storage.Use(j.Disk)
		if err != nil {
			return err
		}
		if err := disk.Put(j.Path, data); err != nil {
			return err
		}
	} else if err := storage.Put(j.Path, data); err != nil {
		return err
	}

	logger.Info("export: snapshot written", "path", j.Path, "bytes", len(data))
	return nil
}
