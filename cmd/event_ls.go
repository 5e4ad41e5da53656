package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/db"
)

var listEventsCommand = cobra.Command{
	Use:   "ls [tenant-slug]",
	Short: "Lists all events of a tenant",
	Long:  `This will list all events of the given tenant`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		tenant, err := dataStore.TenantBySlug(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				fmt.Printf("Tenant not found: %s\r\n", args[0])
				os.Exit(1)
				return
			}
			fmt.Printf("Unable to retrive tenant: %s\r\n", err)
			os.Exit(1)
			return
		}
		lst, total, err := dataStore.Events(
			cmd.Context(),
			tenant.ID,
			db.ListOptions{Page: 1, PageSize: math.MaxInt32},
		)
		if err != nil {
			fmt.Printf("Unable to load events: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s\t%s\t%s \r\n",
			"ID",
			"Slug",
			"Title",
			"Visibility",
			"StartsAt",
			"EndsAt",
		)
		for _, v := range lst {
			fmt.Fprintf(
				w,
				"%d\t%s\t%s\t%s\t%s\t%s \r\n",
				v.ID,
				v.Slug,
				v.Title,
				v.Visibility,
				v.StartsAt,
				v.EndsAt,
			)
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", total)
		w.Flush()
	},
}
