package cli

import (
	"fmt"

	"procure-to-pay/internal/app"
	"procure-to-pay/internal/core"

	"github.com/spf13/cobra"
)

func newRecomputeCmd(deps func() (*Deps, error)) *cobra.Command {
	var isNew, strict bool
	cmd := &cobra.Command{
		Use:   "recompute {po|grn|invoice|agreement|requisition} FILE",
		Short: "Recompute totals of a document and report validation issues",
		Example: `  p2p recompute po order.json --new
  cat grn.json | p2p recompute grn - --strict`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"po", "grn", "invoice", "agreement", "requisition"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var (
				result any
				issues []core.FieldError
			)
			switch args[0] {
			case "po":
				var po core.PurchaseOrder
				if err := readDocument(cmd, args[1], &po); err != nil {
					return err
				}
				res, err := d.Service.RecomputePurchaseOrder(ctx, &po, isNew)
				if err != nil {
					return err
				}
				result, issues = res, res.Issues
			case "grn":
				var g core.GRN
				if err := readDocument(cmd, args[1], &g); err != nil {
					return err
				}
				core.RecomputeGRN(&g)
				issues = validationIssues(core.ValidateGRN(&g))
				result = app.GRNResult{GRN: &g, Issues: issues}
			case "invoice":
				var inv core.Invoice
				if err := readDocument(cmd, args[1], &inv); err != nil {
					return err
				}
				core.RecomputeInvoice(&inv, isNew)
				issues = validationIssues(core.ValidateInvoice(&inv))
				result = app.InvoiceResult{Invoice: &inv, Issues: issues}
			case "agreement":
				var a core.PurchaseAgreement
				if err := readDocument(cmd, args[1], &a); err != nil {
					return err
				}
				res, err := d.Service.RecomputeAgreement(ctx, &a, isNew)
				if err != nil {
					return err
				}
				result, issues = res, res.Issues
			case "requisition":
				var r core.PurchaseRequisition
				if err := readDocument(cmd, args[1], &r); err != nil {
					return err
				}
				res, err := d.Service.RecomputeRequisition(ctx, &r)
				if err != nil {
					return err
				}
				result, issues = res, res.Issues
			default:
				return fmt.Errorf("unknown document type %q", args[0])
			}
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if strict && len(issues) > 0 {
				return errIssues{n: len(issues)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&isNew, "new", false, "treat the document as not yet saved")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when validation issues are found")
	return cmd
}

func validationIssues(err error) []core.FieldError {
	if verrs, ok := err.(core.ValidationErrors); ok {
		return verrs
	}
	return nil
}

func newSubmitCmd(deps func() (*Deps, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "submit {po|grn|invoice|receipt} FILE",
		Short: "Validate a document and send it to the backend",
		Long: `Validate a document and send it to the backend.

Nothing is sent when validation fails. Receipts are finalized (DRAFT -> PAID)
after a draft-conflict check.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"po", "grn", "invoice", "receipt"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var result any
			switch args[0] {
			case "po":
				var po core.PurchaseOrder
				if err := readDocument(cmd, args[1], &po); err != nil {
					return err
				}
				result, err = d.Service.SubmitPurchaseOrder(ctx, &po)
			case "grn":
				var g core.GRN
				if err := readDocument(cmd, args[1], &g); err != nil {
					return err
				}
				result, err = d.Service.SubmitGRN(ctx, &g)
			case "invoice":
				var inv core.Invoice
				if err := readDocument(cmd, args[1], &inv); err != nil {
					return err
				}
				result, err = d.Service.SubmitInvoice(ctx, &inv)
			case "receipt":
				var r core.Receipt
				if err := readDocument(cmd, args[1], &r); err != nil {
					return err
				}
				result, err = d.Service.FinalizeReceipt(ctx, &r)
			default:
				return fmt.Errorf("unknown document type %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newDatesCmd(deps func() (*Deps, error)) *cobra.Command {
	var edited string
	cmd := &cobra.Command{
		Use:   "dates FILE",
		Short: "Reconcile invoice date, payment terms and due date",
		Example: `  p2p dates invoice.json --edited due_date`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deps()
			if err != nil {
				return err
			}
			var inv core.Invoice
			if err := readDocument(cmd, args[0], &inv); err != nil {
				return err
			}
			res, err := d.Service.ReconcileInvoiceDates(cmd.Context(), &inv, core.EditedField(edited))
			if err != nil {
				return err
			}
			return printJSON(cmd, core.InvoiceDates{
				InvoiceDate:      res.Invoice.InvoiceDate,
				DueDate:          res.Invoice.DueDate,
				PaymentTermsDays: res.Invoice.PaymentTermsDays,
			})
		},
	}
	cmd.Flags().StringVar(&edited, "edited", string(core.EditedPaymentTerms), "field just edited: invoice_date, payment_terms_days or due_date")
	return cmd
}
