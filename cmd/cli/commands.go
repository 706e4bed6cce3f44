package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/usecase"
)

// fetch runs a request and either prints the raw JSON or hands the decoded
// value to render.
func fetch[T any](cmd *cobra.Command, opts *options, method, path string, query url.Values, body any, headers map[string]string, render func(T) error) error {
	ctx, cancel := contextWithTimeout(cmd, opts)
	defer cancel()

	var out T
	raw, err := newClient(opts).do(ctx, method, path, query, body, headers, &out)
	if err != nil {
		return err
	}
	if opts.json {
		if len(raw) == 0 {
			return nil
		}
		return printJSON(cmd.OutOrStdout(), raw)
	}
	return render(out)
}

func newTransactionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Transaction operations",
	}

	var (
		filtered bool
		sortBy   string
		dir      string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, query := "/transactions", url.Values{}
			switch {
			case sortBy != "" || dir != "":
				path = "/transactions/sorted"
				query.Set("field", sortBy)
				query.Set("dir", dir)
			case filtered:
				path = "/transactions/filtered"
			}
			return fetch(cmd, opts, http.MethodGet, path, query, nil, nil, func(list dto.TransactionListResponse) error {
				return printTransactions(cmd.OutOrStdout(), list)
			})
		},
	}
	listCmd.Flags().BoolVar(&filtered, "filtered", false, "Only transactions inside the active date filter")
	listCmd.Flags().StringVar(&sortBy, "sort", "", "Sort the filtered view by date, description, amount or type")
	listCmd.Flags().StringVar(&dir, "dir", "", "Sort direction: asc or desc")

	var (
		req     dto.TransactionRequest
		amount  string
		idemKey string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Amount = json.Number(amount)
			return fetch(cmd, opts, http.MethodPost, "/transactions", nil, req, idempotencyHeader(idemKey), func(t dto.TransactionResponse) error {
				return printTransaction(cmd.OutOrStdout(), t)
			})
		},
	}
	addCmd.Flags().StringVar(&req.Date, "date", "", "Date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&req.Description, "description", "", "Description")
	addCmd.Flags().StringVar(&amount, "amount", "", "Positive amount")
	addCmd.Flags().StringVar(&req.Type, "type", "expense", "income or expense")
	addCmd.Flags().StringVar(&req.CategoryID, "category", "", "Category id")
	addCmd.Flags().StringVar(&idemKey, "idempotency-key", "", "Idempotency key for safe retries")
	for _, f := range []string{"date", "description", "amount", "category"} {
		_ = addCmd.MarkFlagRequired(f)
	}

	var (
		edit       dto.TransactionRequest
		editAmount string
	)
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a transaction; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, opts)
			defer cancel()

			c := newClient(opts)
			var list dto.TransactionListResponse
			if _, err := c.do(ctx, http.MethodGet, "/transactions", nil, nil, nil, &list); err != nil {
				return err
			}
			i := slices.IndexFunc(list.Transactions, func(t dto.TransactionResponse) bool { return t.ID == args[0] })
			if i < 0 {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			req := currentRequest(list.Transactions[i])
			flags := cmd.Flags()
			if flags.Changed("date") {
				req.Date = edit.Date
			}
			if flags.Changed("description") {
				req.Description = edit.Description
			}
			if flags.Changed("amount") {
				req.Amount = json.Number(editAmount)
			}
			if flags.Changed("type") {
				req.Type = edit.Type
			}
			if flags.Changed("category") {
				req.CategoryID = edit.CategoryID
			}

			return fetch(cmd, opts, http.MethodPut, "/transactions/"+url.PathEscape(args[0]), nil, req, nil, func(t dto.TransactionResponse) error {
				return printTransaction(cmd.OutOrStdout(), t)
			})
		},
	}
	updateCmd.Flags().StringVar(&edit.Date, "date", "", "Date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&edit.Description, "description", "", "Description")
	updateCmd.Flags().StringVar(&editAmount, "amount", "", "Positive amount")
	updateCmd.Flags().StringVar(&edit.Type, "type", "", "income or expense")
	updateCmd.Flags().StringVar(&edit.CategoryID, "category", "", "Category id")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, opts)
			defer cancel()

			if _, err := newClient(opts).do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(args[0]), nil, nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}

func currentRequest(t dto.TransactionResponse) dto.TransactionRequest {
	return dto.TransactionRequest{
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
	}
}

func newCategoriesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category operations",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd, opts, http.MethodGet, "/categories", nil, nil, nil, func(list dto.CategoryListResponse) error {
				return printCategories(cmd.OutOrStdout(), list)
			})
		},
	}

	var file string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the category list from a JSON file (- for stdin)",
		Long: "Replace the category list. The file holds either a JSON array of\n" +
			"{id, name, type, color} objects or an object with a \"categories\" array.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if file == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("read categories: %w", err)
			}

			req, err := parseCategories(raw)
			if err != nil {
				return err
			}
			return fetch(cmd, opts, http.MethodPut, "/categories", nil, req, nil, func(list dto.CategoryListResponse) error {
				return printCategories(cmd.OutOrStdout(), list)
			})
		},
	}
	setCmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the categories, - for stdin")
	_ = setCmd.MarkFlagRequired("file")

	cmd.AddCommand(listCmd, setCmd)
	return cmd
}

// parseCategories accepts a bare array or the request envelope.
func parseCategories(raw []byte) (dto.ReplaceCategoriesRequest, error) {
	var req dto.ReplaceCategoriesRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &req.Categories); err != nil {
			return req, fmt.Errorf("decode categories: %w", err)
		}
		return req, nil
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, fmt.Errorf("decode categories: %w", err)
	}
	return req, nil
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and balance for the active filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd, opts, http.MethodGet, "/summary", nil, nil, nil, func(s dto.SummaryResponse) error {
				return printSummary(cmd.OutOrStdout(), s)
			})
		},
	}
}

func newFilterCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage the date range filter",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd, opts, http.MethodGet, "/filter", nil, nil, nil, func(f dto.FilterResponse) error {
				return printRange(cmd.OutOrStdout(), f.DateRange)
			})
		},
	}

	var req dto.DateRangeRequest
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Restrict views to an inclusive date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(cmd, opts, http.MethodPut, "/filter", nil, req, nil, func(f dto.FilterResponse) error {
				return printRange(cmd.OutOrStdout(), f.DateRange)
			})
		},
	}
	setCmd.Flags().StringVar(&req.StartDate, "from", "", "Start date (YYYY-MM-DD)")
	setCmd.Flags().StringVar(&req.EndDate, "to", "", "End date (YYYY-MM-DD)")
	_ = setCmd.MarkFlagRequired("from")
	_ = setCmd.MarkFlagRequired("to")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the date range filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, opts)
			defer cancel()

			if _, err := newClient(opts).do(ctx, http.MethodDelete, "/filter", nil, nil, nil, nil); err != nil {
				return err
			}
			return printRange(cmd.OutOrStdout(), nil)
		},
	}

	cmd.AddCommand(showCmd, setCmd, clearCmd)
	return cmd
}

func newChartsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Chart series for the active filter",
	}

	var months int
	monthlyCmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income and expense per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if months > 0 {
				query.Set("months", strconv.Itoa(months))
			}
			return fetch(cmd, opts, http.MethodGet, "/charts/monthly", query, nil, nil, func(c dto.MonthlyChartResponse) error {
				return printMonthly(cmd.OutOrStdout(), c)
			})
		},
	}
	monthlyCmd.Flags().IntVar(&months, "months", 0, "Zero-fill the last N months")

	var (
		typ         string
		dropUnknown bool
	)
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"type": {typ}}
			if dropUnknown {
				query.Set("drop_unknown", "true")
			}
			return fetch(cmd, opts, http.MethodGet, "/charts/categories", query, nil, nil, func(c dto.CategoryChartResponse) error {
				return printCategoryTotals(cmd.OutOrStdout(), c)
			})
		},
	}
	categoriesCmd.Flags().StringVar(&typ, "type", "expense", "income or expense")
	categoriesCmd.Flags().BoolVar(&dropUnknown, "drop-unknown", false, "Leave out transactions whose category no longer exists")

	cmd.AddCommand(monthlyCmd, categoriesCmd)
	return cmd
}

func contextWithTimeout(cmd *cobra.Command, opts *options) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, opts.timeout)
}

var errInconsistent = errors.New("store is inconsistent")

func newConsistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check store consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var consistent bool
			err := fetch(cmd, opts, http.MethodGet, "/consistency", nil, nil, nil, func(r usecase.ConsistencyReport) error {
				consistent = r.Consistent
				return printConsistency(cmd.OutOrStdout(), r)
			})
			if err != nil {
				return err
			}
			if !opts.json && !consistent {
				return errInconsistent
			}
			return nil
		},
	}
}
