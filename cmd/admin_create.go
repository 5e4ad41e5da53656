package cmd

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/auth"
	"github.com/stagepass/stagepass/db"
	"golang.org/x/term"
)

var createAdminCommand = cobra.Command{
	Use:   "create [tenant-slug] [email]",
	Short: "launches a on terminal admin creation dialog",
	Long:  `this command may be used to create an agency administrator from command line`,
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

		pwd := []byte{}
		for len(pwd) == 0 {
			fmt.Println("password?")
			pwd, err = term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				fmt.Printf("Unable to read password: %s", err)
				os.Exit(1)
				return
			}
		}
		hash, err := auth.HashPassword(string(pwd))
		if err != nil {
			fmt.Printf("Unable to hash password: %s\r\n", err)
			os.Exit(1)
			return
		}
		id, err := dataStore.InsertAdmin(cmd.Context(), tenant.ID, args[1], hash)
		if err != nil {
			if errors.Is(err, db.ErrAlreadyExists) {
				fmt.Printf("An admin with email %s already exists\r\n", args[1])
				os.Exit(1)
				return
			}
			fmt.Printf("Unable to create admin: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Created admin for email %s with id: %v\r\n", args[1], id)
	},
}
