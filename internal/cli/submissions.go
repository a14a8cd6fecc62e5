package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/osa911/contact-api/internal/config"
	"github.com/osa911/contact-api/internal/models"
	"github.com/osa911/contact-api/internal/repository"
)

// SubmissionStore is the read side of the submission repository used by the
// submissions commands
type SubmissionStore interface {
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, limit int) ([]*models.Submission, error)
	Close(ctx context.Context) error
}

// StoreOpener opens the store the server writes to
type StoreOpener func(ctx context.Context) (SubmissionStore, error)

// errMemoryStore is returned when the server keeps submissions in process
var errMemoryStore = errors.New("STORE_DRIVER=memory keeps submissions inside the server process; configure postgres or mongo to read them")

// OpenConfiguredStore loads the server configuration and opens its store
func OpenConfiguredStore(ctx context.Context) (SubmissionStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StoreDriver == config.StoreMemory {
		return nil, errMemoryStore
	}
	return repository.Open(ctx, cfg)
}

func newSubmissionsCommand(open StoreOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Read stored submissions",
		Long: `Read submissions straight from the store the server is configured
with (STORE_DRIVER, DATABASE_URL, MONGO_URI).`,
	}
	cmd.AddCommand(newSubmissionsListCommand(open), newSubmissionsShowCommand(open))
	return cmd
}

func newSubmissionsListCommand(open StoreOpener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), open, func(store SubmissionStore) error {
				list, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No submissions")
					return nil
				}
				printSubmissionTable(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of submissions")
	return cmd
}

func newSubmissionsShowCommand(open StoreOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), open, func(store SubmissionStore) error {
				s, err := store.GetByID(cmd.Context(), args[0])
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("submission %s not found", args[0])
				}
				if err != nil {
					return err
				}
				printSubmission(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, open StoreOpener, fn func(SubmissionStore) error) error {
	store, err := open(ctx)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	return fn(store)
}

func printSubmissionTable(out io.Writer, list []*models.Submission) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tNAME\tEMAIL\tSUBJECT")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.CreatedAt.Format(time.RFC3339), oneLine(s.Name, 30), s.Email, oneLine(s.Subject, 40))
	}
	w.Flush()
}

func printSubmission(out io.Writer, s *models.Submission) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", s.ID)
	fmt.Fprintf(w, "Created:\t%s\n", s.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Name:\t%s\n", s.Name)
	fmt.Fprintf(w, "Email:\t%s\n", s.Email)
	for _, f := range [][2]string{
		{"Phone:", s.Phone}, {"Subject:", s.Subject}, {"IP:", s.IPAddress},
		{"User agent:", s.UserAgent}, {"Referrer:", s.Referrer}, {"Request ID:", s.RequestID},
	} {
		if f[1] != "" {
			fmt.Fprintf(w, "%s\t%s\n", f[0], f[1])
		}
	}
	w.Flush()
	fmt.Fprintf(out, "\n%s\n", s.Message)
}

// oneLine flattens s and cuts it to n runes for table cells
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
