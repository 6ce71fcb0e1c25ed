package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/order-wizard/internal/common"
	"github.com/joseph-ayodele/order-wizard/internal/entity"
	"github.com/joseph-ayodele/order-wizard/internal/export"
	"github.com/joseph-ayodele/order-wizard/internal/importer"
	"github.com/joseph-ayodele/order-wizard/internal/ocr"
	"github.com/joseph-ayodele/order-wizard/internal/query"
	"github.com/joseph-ayodele/order-wizard/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "orderwiz",
		Short:        "Track e-commerce order reimbursements",
		SilenceUsage: true,
	}

	root.AddCommand(newAddCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newTotalCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newScanCmd())

	return root
}

// env is the shared wiring every subcommand needs.
type env struct {
	cfg    *common.Config
	orders repository.OrderRepository
	logger *slog.Logger
	close  func()
}

func setup(ctx context.Context) (*env, error) {
	// Keep CLI output quiet: message and fields, no time/level noise.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	cfg := common.LoadConfig()
	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	orders, err := repository.NewOrderRepository(ctx, db, logger)
	if err != nil {
		repository.Close(db, logger)
		return nil, err
	}

	return &env{
		cfg:    cfg,
		orders: orders,
		logger: logger,
		close:  func() { repository.Close(db, logger) },
	}, nil
}

func newAddCmd() *cobra.Command {
	var (
		imagePath          string
		commentWithPicture bool
	)
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Parse order text and store the order",
		Long:  "Reads order text from the argument or stdin: first line is `order-number ... amount`, any further lines become the note.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textFromArgsOrStdin(cmd, args)
			if err != nil {
				return err
			}

			order, err := entity.ParseOrderText(text)
			if err != nil {
				return err
			}
			if imagePath != "" {
				order.ImageURI = &imagePath
			}
			order.CommentWithPicture = commentWithPicture

			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.orders.Insert(cmd.Context(), order)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added order %s ($%.2f) as #%d\n", order.OrderNumber, order.Amount, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "path to the receipt/screenshot image")
	cmd.Flags().BoolVar(&commentWithPicture, "comment-with-picture", false, "review comment must include a picture")
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		search    string
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders in creation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			orders, err := e.orders.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			if search != "" {
				tol := tolerance
				if tol <= 0 {
					tol = e.cfg.Search.AmountTolerance
				}
				orders = query.Search(orders, search, tol)
			}

			printOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by order number substring or amount proximity")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "amount search tolerance (defaults to configuration)")
	return cmd
}

func newTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print total and reimbursed amounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			orders, err := e.orders.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "orders: %d\ntotal: $%.2f\nreimbursed: $%.2f\n",
				len(orders), query.TotalAmount(orders), query.TotalReimbursed(orders))
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an order by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			matched, err := e.orders.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !matched {
				return fmt.Errorf("no order with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed order #%d\n", id)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export all orders to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			data, err := export.NewService(e.orders, e.logger).ExportOrdersXLSX(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", args[0], len(data))
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Bulk-import orders from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			inserted, errs := importer.NewImporter(e.orders, e.logger).ImportJSON(cmd.Context(), data)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d orders\n", inserted)
			for _, ierr := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", ierr)
			}
			if inserted == 0 && len(errs) > 0 {
				return fmt.Errorf("import failed")
			}
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	var add bool
	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "OCR an image into order text, optionally adding the order",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			extractor := ocr.NewExtractor(ocr.Config{
				Tesseract:   e.cfg.OCR.Tesseract,
				Lang:        e.cfg.OCR.Lang,
				TessdataDir: e.cfg.OCR.TessdataDir,
				PSM:         e.cfg.OCR.PSM,
			}, e.logger)

			text, err := ocr.NewService(extractor, e.logger).ExtractText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if !add {
				return nil
			}
			order, err := entity.ParseOrderText(text)
			if err != nil {
				return err
			}
			imagePath := args[0]
			order.ImageURI = &imagePath
			id, err := e.orders.Insert(cmd.Context(), order)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added order %s as #%d\n", order.OrderNumber, id)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&add, "add", false, "store the parsed order after scanning")
	return cmd
}

func textFromArgsOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printOrders(w io.Writer, orders []*entity.Order) {
	for _, o := range orders {
		status := " "
		if o.IsComplete() {
			status = "*"
		}
		note := ""
		if o.Note != nil {
			note = "  " + strings.ReplaceAll(*o.Note, "\n", " / ")
		}
		fmt.Fprintf(w, "%s #%-4d %-22s $%9.2f  reimbursed $%8.2f%s\n",
			status, o.ID, o.OrderNumber, o.Amount, o.ReimbursedAmount, note)
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, "no orders")
	}
}
