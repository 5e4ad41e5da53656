package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listTenantsCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists all tenants",
	Long:  `This will list all agency accounts`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		lst, err := dataStore.Tenants(cmd.Context())
		if err != nil {
			fmt.Printf("Unable to load tenants: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s\t%s \r\n",
			"ID",
			"Slug",
			"Name",
			"Plan",
			"CreatedAt",
		)
		for _, v := range lst {
			fmt.Fprintf(
				w,
				"%d\t%s\t%s\t%s\t%s \r\n",
				v.ID,
				v.Slug,
				v.Name,
				v.Plan,
				v.CreatedAt,
			)
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", len(lst))
		w.Flush()
	},
}
