package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vcambrosio/experimentepro-sub000/internal/checklist"
	"github.com/vcambrosio/experimentepro-sub000/internal/config"
	"github.com/vcambrosio/experimentepro-sub000/internal/db"
	"github.com/vcambrosio/experimentepro-sub000/internal/logging"
	"github.com/vcambrosio/experimentepro-sub000/internal/order"
)

var (
	width  int
	format string
	rows   int
)

var rootCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Catering back-office checklist tools",
}

var printCmd = &cobra.Command{
	Use:   "print [order-id]",
	Short: "Print an order's preparation checklist",
	Long:  `Builds the checklist of an order straight from the database and prints it unchecked, as a receipt or as paginated JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().IntVarP(&width, "width", "w", 0, "Receipt width in characters (default RECEIPT_WIDTH)")
	printCmd.Flags().StringVarP(&format, "format", "f", checklist.FormatReceipt, "Output format: receipt or document")
	printCmd.Flags().IntVarP(&rows, "rows", "r", 0, "Rows per page for the document format (default DOCUMENT_ROWS_PER_PAGE)")

	rootCmd.AddCommand(printCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadBase()
	if err != nil {
		return err
	}

	// keep stdout for the checklist itself
	log, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pgDB, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pgDB.Close()

	if width <= 0 {
		width = cfg.ReceiptWidth
	}
	if rows <= 0 {
		rows = cfg.RowsPerPage
	}

	svc := checklist.NewService(
		order.NewService(order.NewPostgresRepository(pgDB), log, cfg.Location()),
		checklist.NewPostgresRepository(pgDB, log),
		checklist.NewSessionStore(),
		log,
		checklist.Options{ReceiptWidth: width, RowsPerPage: rows},
	)

	return printChecklist(ctx, cmd.OutOrStdout(), svc, log, args[0], format, rows)
}

// printChecklist renders a throwaway view of the order, nothing checked
func printChecklist(
	ctx context.Context,
	w io.Writer,
	svc *checklist.Service,
	log logrus.FieldLogger,
	orderID, format string,
	rows int,
) error {
	sess, _, err := svc.OpenSession(ctx, orderID, "")
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.CloseSession(ctx, sess.ID, ""); err != nil {
			log.WithError(err).Warn("close checklist view")
		}
	}()

	out, err := svc.Export(ctx, sess.ID, "", format, rows)
	if err != nil {
		return err
	}

	if _, err := w.Write(out.Body); err != nil {
		return err
	}
	if format == checklist.FormatReceipt {
		_, err = fmt.Fprintln(w)
	}
	return err
}
