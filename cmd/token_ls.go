package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/tokens"
)

var listTokensCommand = cobra.Command{
	Use:   "ls [tenant-slug] [event-id]",
	Short: "Lists all access tokens of an event",
	Long:  `This will list all access tokens of the given event`,
	Args:  cobra.ExactArgs(2),
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
		eventID, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Printf("Invalid event id: %s\r\n", args[1])
			os.Exit(1)
			return
		}
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		authority := resolveAuthority(dataStore, dispatcher)
		lst, err := authority.List(
			cmd.Context(),
			tenant.ID,
			eventID,
			"",
			db.ListOptions{Page: 1, PageSize: math.MaxInt32},
		)
		if err != nil {
			if errors.Is(err, tokens.ErrNotFound) {
				fmt.Printf("Event not found: %d\r\n", eventID)
				os.Exit(1)
				return
			}
			fmt.Printf("Unable to load tokens: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s\t%s\t%s \r\n",
			"ID",
			"Token",
			"Type",
			"Status",
			"Uses",
			"ExpiresAt",
		)
		for _, v := range lst.Tokens {
			fmt.Fprintf(
				w,
				"%d\t%s\t%s\t%s\t%d\t%s \r\n",
				v.ID,
				v.Token,
				v.TokenType,
				v.Status,
				v.UseCount,
				v.ExpiresAt,
			)
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(
			w,
			"%d entries loaded (%d active, %d revoked, %d expired)",
			lst.Total,
			lst.Active,
			lst.Revoked,
			lst.Expired,
		)
		w.Flush()
	},
}
