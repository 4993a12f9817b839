package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"procure-to-pay/internal/app"
	"procure-to-pay/internal/core"
	"procure-to-pay/internal/export"
	"procure-to-pay/internal/store"

	"github.com/spf13/cobra"
)

func newSitesCmd(deps func() (*Deps, error)) *cobra.Command {
	var (
		purpose string
		current int
	)
	cmd := &cobra.Command{
		Use:   "sites {supplier|customer} ID",
		Short: "List a party's candidate sites and the auto-selected one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("party id: %w", err)
			}
			req := app.SiteRequest{PartyID: id, Purpose: core.SitePurpose(purpose)}
			if current > 0 {
				req.CurrentSiteID = &current
			}

			var res *app.SiteResult
			switch args[0] {
			case "supplier":
				res, err = d.Service.ResolveSupplierSite(cmd.Context(), req)
			case "customer":
				res, err = d.Service.ResolveCustomerSite(cmd.Context(), req)
			default:
				return fmt.Errorf("unknown party type %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&purpose, "purpose", "", "PURCHASING, INVOICING, BILL_TO or SHIP_TO")
	cmd.Flags().IntVar(&current, "current", 0, "currently selected site id")
	return cmd
}

func newCustomersCmd(deps func() (*Deps, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "customers",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			res, err := d.Service.ListCustomers(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func newConflictsCmd(deps func() (*Deps, error)) *cobra.Command {
	var (
		invoices []int
		exclude  int
	)
	cmd := &cobra.Command{
		Use:     "conflicts",
		Short:   "Check whether invoices are already held by draft receipts",
		Example: `  p2p conflicts --invoice 1 --invoice 2 --exclude 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			if len(invoices) == 0 {
				return fmt.Errorf("at least one --invoice is required")
			}
			var ex *int
			if exclude > 0 {
				ex = &exclude
			}
			// Query directly so lookup failures are reported instead of failing open.
			conflicts, err := d.Finder.FindDraftConflicts(cmd.Context(), invoices, ex)
			if err != nil {
				return err
			}
			if conflicts == nil {
				conflicts = []core.DraftConflict{}
			}
			return printJSON(cmd, conflicts)
		},
	}
	cmd.Flags().IntSliceVar(&invoices, "invoice", nil, "invoice id to check (repeatable)")
	cmd.Flags().IntVar(&exclude, "exclude", 0, "receipt id to ignore")
	return cmd
}

func newPOCmd(deps func() (*Deps, error)) *cobra.Command {
	po := &cobra.Command{Use: "po", Short: "Purchase order actions"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			res, err := d.Service.ListPurchaseOrders(cmd.Context(), app.ListFilter{Status: status})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")

	var decision string
	approve := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve or reject a purchase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("purchase order id: %w", err)
			}
			res, err := d.Service.DecidePurchaseOrderApproval(cmd.Context(), app.ApprovalRequest{
				ID:       id,
				Decision: core.ApprovalStatus(decision),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	approve.Flags().StringVar(&decision, "decision", string(core.ApprovalApproved), "APPROVED, REJECTED or PENDING")

	var exportStatus, out string
	exportCmd := &cobra.Command{
		Use:     "export",
		Short:   "Export purchase orders and their lines to an xlsx workbook",
		Example: `  p2p po export --status APPROVED --out approved.xlsx`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			res, err := d.Service.ListPurchaseOrders(cmd.Context(), app.ListFilter{Status: exportStatus})
			if err != nil {
				return err
			}
			f, err := export.PurchaseOrders(res.PurchaseOrders)
			if err != nil {
				return err
			}
			defer f.Close()
			if out == "" {
				out = export.Filename(time.Now().Format("2006-01-02"))
			}
			if err := f.SaveAs(out); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d purchase order(s) to %s\n", len(res.PurchaseOrders), out)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "filter by status")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default purchase_orders_<date>.xlsx)")

	po.AddCommand(list, approve, exportCmd)
	return po
}

func newGRNCmd(deps func() (*Deps, error)) *cobra.Command {
	grn := &cobra.Command{Use: "grn", Short: "Goods received note actions"}

	var date string
	start := &cobra.Command{
		Use:   "start PO_ID",
		Short: "Draft a GRN for the outstanding lines of an approved purchase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("purchase order id: %w", err)
			}
			res, err := d.Service.StartGRN(cmd.Context(), app.StartGRNRequest{PurchaseOrderID: id, ReceiptDate: date})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	start.Flags().StringVar(&date, "date", "", "receipt date (YYYY-MM-DD, default today)")

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List goods received notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			res, err := d.Service.ListGRNs(cmd.Context(), app.ListFilter{Status: status})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a DRAFT goods received note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("GRN id: %w", err)
			}
			res, err := d.Service.DeleteDraftGRN(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted GRN %s\n", res.GRN.GRNNumber)
			return nil
		},
	}

	grn.AddCommand(start, list, del)
	return grn
}

func newInvoiceCmd(deps func() (*Deps, error)) *cobra.Command {
	invoice := &cobra.Command{Use: "invoice", Short: "AR invoice actions"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List AR invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			res, err := d.Service.ListInvoices(cmd.Context(), app.ListFilter{Status: status})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")

	invoice.AddCommand(list)
	return invoice
}

func newReceiptCmd(deps func() (*Deps, error)) *cobra.Command {
	receipt := &cobra.Command{Use: "receipt", Short: "AR receipt actions"}

	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Load a receipt with original invoice amounts due restored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("receipt id: %w", err)
			}
			res, err := d.Service.PrepareReceiptForEdit(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	draft := &cobra.Command{
		Use:   "draft FILE",
		Short: "Save a receipt as DRAFT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			var r core.Receipt
			if err := readDocument(cmd, args[0], &r); err != nil {
				return err
			}
			res, err := d.Service.SaveReceiptDraft(cmd.Context(), &r)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List AR receipts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			res, err := d.Service.ListReceipts(cmd.Context(), app.ListFilter{Status: status})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")

	receipt.AddCommand(edit, draft, list)
	return receipt
}

func newHistoryCmd(deps func() (*Deps, error)) *cobra.Command {
	return &cobra.Command{
		Use:     "history {purchase_order|invoice|receipt|agreement|requisition} ID",
		Short:   "Show recorded status transitions of a document",
		Example: `  p2p history invoice 42`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			if d.History == nil {
				return errors.New("history needs DATABASE_URL")
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("document id: %w", err)
			}
			rows, err := d.History.ListTransitions(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			if rows == nil {
				rows = []store.Transition{}
			}
			return printJSON(cmd, rows)
		},
	}
}
