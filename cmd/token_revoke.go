package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/tokens"
)

var revokeTokenCommand = cobra.Command{
	Use:   "revoke [tenant-slug] [token-id]",
	Short: "revokes an access token",
	Long:  `this command revokes an access token, revoking twice is a no op`,
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
		tokenID, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Printf("Invalid token id: %s\r\n", args[1])
			os.Exit(1)
			return
		}
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		authority := resolveAuthority(dataStore, dispatcher)
		dto, err := authority.Revoke(cmd.Context(), tenant.ID, tokenID, uuid.Nil)
		if err != nil {
			if errors.Is(err, tokens.ErrNotFound) {
				fmt.Printf("Token not found: %d\r\n", tokenID)
				os.Exit(1)
				return
			}
			fmt.Printf("Unable to revoke token: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Token %d is %s (revoked at %s)\r\n", dto.ID, dto.Status, dto.RevokedAt)
	},
}
