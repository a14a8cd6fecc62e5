package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/osa911/contact-api/internal/api/dto/v1/contact"
	"github.com/osa911/contact-api/internal/version"
)

// DefaultServerURL is where a locally started server listens
const DefaultServerURL = "http://localhost:3000"

// NewRootCommand builds the contactctl command tree writing to out and errOut
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	return newRootCommand(out, errOut, OpenConfiguredStore)
}

func newRootCommand(out, errOut io.Writer, open StoreOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contactctl",
		Short: "contactctl - command line client for the contact API",
		Long: `contactctl submits contact forms to a running contact API server
and reports the server's answer. It can also read stored submissions.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().String("url", envOr("CONTACT_API_URL", DefaultServerURL), "Base URL of the contact API")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "HTTP timeout")

	rootCmd.AddCommand(newSubmitCommand(), newVersionCommand(), newSubmissionsCommand(open))
	return rootCmd
}

func newSubmitCommand() *cobra.Command {
	req := &contact.ContactRequest{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a contact form",
		Long: `Submit a contact form to the server.

Example:
  contactctl submit --name "Jane Doe" --email jane@example.com --message "Hello there!"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFromFlags(cmd)

			s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " Sending message..."
			s.Start()
			result, err := client.Submit(cmd.Context(), req)
			s.Stop()

			if err != nil {
				if apiErr, ok := err.(*APIError); ok && apiErr.Details != nil {
					details, _ := json.MarshalIndent(apiErr.Details, "", "  ")
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", details)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", result.Message)
			if result.ID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Submission ID: %s\n", result.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Your email address")
	cmd.Flags().StringVar(&req.Message, "message", "", "Message text")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "Optional subject")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Optional phone number")
	cmd.Flags().StringVar(&req.RecaptchaToken, "recaptcha-token", "", "reCAPTCHA token, when the server requires one")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("message")

	return cmd
}

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "contactctl %s\n", version.Info())

			checkServer, _ := cmd.Flags().GetBool("server")
			if !checkServer {
				return nil
			}
			client := clientFromFlags(cmd)
			serverVersion, err := version.FetchServerVersion(cmd.Context(), client.HTTPClient(), client.BaseURL())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server %s\n", serverVersion)
			return nil
		},
	}
	cmd.Flags().Bool("server", false, "Also query the server version")
	return cmd
}

func clientFromFlags(cmd *cobra.Command) *Client {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return NewClient(url, timeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Execute runs contactctl with the process arguments
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
