package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyCommand = cobra.Command{
	Use:   "verify",
	Short: "verification related commands",
	Long:  `commands for verifying the service setup`,
}

var sendTestMailCommand = cobra.Command{
	Use:   "send-test-mail [email]",
	Short: "sends a test email to the supplied address",
	Long:  `this command can be used to verify the smtp settings`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mailer := mustResolveMailer()
		if err := mailer.SendTestEmail(args[0]); err != nil {
			fmt.Printf("Unable to send test email: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Test email sent to %s\r\n", args[0])
	},
}
