package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spendwise/internal/backend"
	"spendwise/internal/core"
)

// transactionFlags holds the values shared by add and update.
type transactionFlags struct {
	title    string
	amount   string
	typ      string
	category string
	date     string
	notes    string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "short description (min 2 characters)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount, e.g. 12.50 or 12,50")
	cmd.Flags().StringVar(&f.typ, "type", string(core.Expense), "income or expense")
	cmd.Flags().StringVar(&f.category, "category", core.CategoryOther, "category label")
	cmd.Flags().StringVar(&f.date, "date", "", "calendar date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

func (a *app) addCmd() *cobra.Command {
	var f transactionFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  spendwise add --title "Coffee" --amount 3.50 --category "Food & Grocery"
  spendwise add --title "Salary" --amount 3100 --type income --category Salary/Work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := core.ParseAmount(f.amount)
			if err != nil {
				return err
			}
			typ, err := core.ParseType(f.typ)
			if err != nil {
				return err
			}
			in := core.Input{
				Title:    strings.TrimSpace(f.title),
				Amount:   amount,
				Type:     typ,
				Category: strings.TrimSpace(f.category),
				Date:     strings.TrimSpace(f.date),
				Notes:    strings.TrimSpace(f.notes),
			}
			if err := in.Validate(a.now()); err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				t, err := res.Service.Add(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s %s on %s\n", t.ID, t.Title, signedAmount(t), t.Date)
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		typ   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				var list []core.Transaction
				switch typ {
				case "":
					list = res.Repo.GetAll()
				default:
					t, err := core.ParseType(typ)
					if err != nil {
						return err
					}
					list = core.FilterByType(res.Repo.GetAll(), t)
				}
				if limit > 0 && len(list) > limit {
					list = list[:limit]
				}

				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, mutedStyle.Render("No transactions yet. Use 'spendwise add' to record one."))
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					headerStyle.Render("ID"),
					headerStyle.Render("Date"),
					headerStyle.Render("Title"),
					headerStyle.Render("Category"),
					headerStyle.Render("Amount"))
				for _, t := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s %s\t%s\n",
						t.ID, t.Date, t.Title, categoryDot(t.Category), t.Category, signedAmount(t))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only income or expense")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows, 0 for all")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				t, ok := res.Repo.GetByID(id)
				if !ok {
					return fmt.Errorf("transaction #%d not found", id)
				}
				out := cmd.OutOrStdout()
				printTitle(out, fmt.Sprintf("#%d %s", t.ID, t.Title))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Amount\t%s\n", signedAmount(t))
				fmt.Fprintf(w, "Type\t%s\n", t.Type)
				fmt.Fprintf(w, "Category\t%s %s\n", categoryDot(t.Category), t.Category)
				fmt.Fprintf(w, "Date\t%s\n", t.Date)
				if t.Notes != "" {
					fmt.Fprintf(w, "Notes\t%s\n", t.Notes)
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var f transactionFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Long:  "Only the flags given are changed. Updating an unknown id changes nothing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}
			if err := patch.Validate(a.now()); err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				found, err := res.Service.Update(cmd.Context(), id, patch)
				if err != nil {
					return err
				}
				if !found {
					fmt.Fprintf(cmd.OutOrStdout(), "No transaction #%d, nothing changed\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

// patch builds a Patch from the flags that were set explicitly.
func (f *transactionFlags) patch(cmd *cobra.Command) (core.Patch, error) {
	var p core.Patch
	changed := cmd.Flags().Changed
	if changed("title") {
		title := strings.TrimSpace(f.title)
		p.Title = &title
	}
	if changed("amount") {
		amount, err := core.ParseAmount(f.amount)
		if err != nil {
			return core.Patch{}, err
		}
		p.Amount = &amount
	}
	if changed("type") {
		typ, err := core.ParseType(f.typ)
		if err != nil {
			return core.Patch{}, err
		}
		p.Type = &typ
	}
	if changed("category") {
		category := strings.TrimSpace(f.category)
		p.Category = &category
	}
	if changed("date") {
		date := strings.TrimSpace(f.date)
		p.Date = &date
	}
	if changed("notes") {
		notes := strings.TrimSpace(f.notes)
		p.Notes = &notes
	}
	return p, nil
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				found, err := res.Service.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !found {
					fmt.Fprintf(cmd.OutOrStdout(), "No transaction #%d, nothing removed\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d\n", id)
				return nil
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return id, nil
}
