package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/tokens"
)

var issueTokenExpiresAt string

var issueTokenCommand = cobra.Command{
	Use:   "issue [tenant-slug] [event-id] [type]",
	Short: "issues an access token for a private event",
	Long:  `this command issues a new organizer or participant token for a private event`,
	Args:  cobra.ExactArgs(3),
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
		var expiresAt *time.Time
		if issueTokenExpiresAt != "" {
			t, err := time.Parse(time.RFC3339, issueTokenExpiresAt)
			if err != nil {
				fmt.Printf("Invalid expiry, expected RFC3339: %s\r\n", issueTokenExpiresAt)
				os.Exit(1)
				return
			}
			expiresAt = &t
		}
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		authority := resolveAuthority(dataStore, dispatcher)
		dto, err := authority.Issue(cmd.Context(), tenant.ID, eventID, args[2], expiresAt, uuid.Nil)
		if err != nil {
			switch {
			case errors.Is(err, tokens.ErrNotFound):
				fmt.Printf("Event not found: %d\r\n", eventID)
			case errors.Is(err, tokens.ErrPublicEvent):
				fmt.Printf("Tokens can only be generated for private events\r\n")
			case errors.Is(err, tokens.ErrExpiryInPast):
				fmt.Printf("Expiration date must be in the future\r\n")
			case errors.Is(err, tokens.ErrInvalidTokenType):
				fmt.Printf("Invalid token type: %s\r\n", args[2])
			default:
				fmt.Printf("Unable to issue token: %s\r\n", err)
			}
			os.Exit(1)
			return
		}
		fmt.Printf("Issued %s token %s, expires at %s\r\n", dto.TokenType, dto.Token, dto.ExpiresAt)
	},
}

func init() {
	issueTokenCommand.Flags().
		StringVar(&issueTokenExpiresAt, "expires-at", "", "expiry as RFC3339 timestamp, defaults to the configured lifetime")
}
