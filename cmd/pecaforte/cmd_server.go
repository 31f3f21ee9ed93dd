package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/routes"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/internal/server"
	"github.com/pecaforte/inventory/pkg/router"
)

// pecaforte serve — start the API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inventory API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// pecaforte route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// A throwaway in-memory wiring; the handlers are never invoked.
		store := repositories.NewMemoryStore()
		r := router.New()
		routes.RegisterAPI(r, routes.Deps{
			Inventory:  services.NewInventory(store),
			Authorizer: services.NewAuthorizer(""),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
