package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/format"
	"github.com/iho/moneybook/internal/usecase"
)

const maxDescriptionWidth = 32

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// signedAmount shows expenses as negative amounts.
func signedAmount(t dto.TransactionResponse) string {
	if t.Type == domain.TransactionTypeExpense {
		return format.Currency(t.Amount.Neg())
	}
	return format.Currency(t.Amount)
}

func printTransactions(w io.Writer, list dto.TransactionListResponse) error {
	if list.Count == 0 {
		_, err := fmt.Fprintln(w, "No transactions.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
	for _, t := range list.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			format.Date(t.Date),
			truncate(t.Description, maxDescriptionWidth),
			t.CategoryName,
			signedAmount(t),
		)
	}
	fmt.Fprintf(tw, "\t\t\t%d transactions\t\n", list.Count)
	return tw.Flush()
}

func printTransaction(w io.Writer, t dto.TransactionResponse) error {
	_, err := fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		t.ID, format.Date(t.Date), t.Description, t.CategoryName, signedAmount(t))
	return err
}

func printCategories(w io.Writer, list dto.CategoryListResponse) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCOLOR")
	for _, c := range list.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Color)
	}
	return tw.Flush()
}

func printRange(w io.Writer, r *domain.DateRange) error {
	if r == nil {
		_, err := fmt.Fprintln(w, "Filter: all dates")
		return err
	}
	_, err := fmt.Fprintf(w, "Filter: %s - %s\n", format.Date(r.StartDate), format.Date(r.EndDate))
	return err
}

func printSummary(w io.Writer, s dto.SummaryResponse) error {
	if err := printRange(w, s.DateRange); err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "Income\t%s\n", format.Currency(s.TotalIncome))
	fmt.Fprintf(tw, "Expense\t%s\n", format.Currency(s.TotalExpense))
	fmt.Fprintf(tw, "Balance\t%s\n", format.Currency(s.Balance))
	fmt.Fprintf(tw, "Transactions\t%d\n", s.Count)
	return tw.Flush()
}

func printMonthly(w io.Writer, c dto.MonthlyChartResponse) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE")
	for _, m := range c.Months {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Label, format.Currency(m.Income), format.Currency(m.Expense))
	}
	return tw.Flush()
}

func printCategoryTotals(w io.Writer, c dto.CategoryChartResponse) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "CATEGORY (%s)\tAMOUNT\n", c.Type)
	for _, s := range c.Categories {
		fmt.Fprintf(tw, "%s\t%s\n", s.CategoryName, format.Currency(s.Amount))
	}
	return tw.Flush()
}

func printConsistency(w io.Writer, r usecase.ConsistencyReport) error {
	status := "PASSED"
	if !r.Consistent {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Consistency check %s\n", status)
	fmt.Fprintf(w, "Transactions: %d  Categories: %d\n", r.TotalTransactions, r.TotalCategories)
	for slot, ok := range r.SlotsInSync {
		fmt.Fprintf(w, "Slot %s in sync: %v\n", slot, ok)
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s: %s %s\n", issue.TransactionID, issue.Problem, issue.CategoryID)
	}
	return nil
}
