package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pecaforte/inventory/app/jobs"
	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/config"
	"github.com/pecaforte/inventory/pkg/auth"
	"github.com/pecaforte/inventory/pkg/cache"
	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/queue"
	"github.com/pecaforte/inventory/pkg/storage"
)

var queueWorkersFlag int

// bootWorker wires the collaborators a worker process needs: database,
// storage, jobs and the shared redis queue.
func bootWorker() error {
	db, err := bootDB()
	if err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("worker: redis unavailable", "error", err)
	}
	storage.Connect()

	jobs.Configure(services.NewInventory(repositories.NewGormStore(db)))

	if config.QueueDriver() == "redis" {
		if cache.RDB == nil {
			return fmt.Errorf("queue driver is redis but redis is unreachable")
		}
		queue.SetDriver(queue.NewRedisDriver(cache.RDB, ""))
	}
	return nil
}

// pecaforte queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootWorker(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 2
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.Work(ctx, workers)

		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// pecaforte export — write a catalog snapshot right now, no queue involved.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a catalog snapshot to storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootWorker(); err != nil {
			return err
		}

		job := jobs.NewExportJob(exportDiskFlag)
		if err := job.Handle(); err != nil {
			return err
		}
		fmt.Println("Snapshot written:", job.Path)
		return nil
	},
}

var exportDiskFlag string

// pecaforte password:hash — generate the ADMIN_PASSWORD_HASH value.
var hashPasswordCmd = &cobra.Command{
	Use:   "password:hash <password>",
	Short: "Print the bcrypt hash to put in ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 2, "Number of concurrent workers")
	exportCmd.Flags().StringVarP(&exportDiskFlag, "disk", "d", "", "Target disk (local or s3)")
}
