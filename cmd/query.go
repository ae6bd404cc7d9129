package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"loandash/internal/client"
	"loandash/internal/models"
	"loandash/internal/query"
)

var (
	queryAPI       string
	queryPage      int
	queryPageSize  int
	queryStatus    string
	queryMinAmount int
	queryMaxAmount int
	queryName      string
	queryOutput    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Fetch one page of loans",
	Long:  "Fetch a single filtered page of loans from the loans endpoint and print it",
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryAPI, "api", "a", "", "Base URL of the loans endpoint (default from config)")
	queryCmd.Flags().IntVarP(&queryPage, "page", "p", models.DefaultPage, "Page number, starting at 1")
	queryCmd.Flags().IntVar(&queryPageSize, "page-size", models.DefaultPageSize, "Loans per page")
	queryCmd.Flags().StringVar(&queryStatus, "status", "", "Only loans with this status")
	queryCmd.Flags().IntVar(&queryMinAmount, "min-amount", 0, "Only loans of at least this amount")
	queryCmd.Flags().IntVar(&queryMaxAmount, "max-amount", 0, "Only loans of at most this amount")
	queryCmd.Flags().StringVar(&queryName, "name", "", "Only applicants whose name contains this text")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "table", "Output format: table or json")
}

func queryFilter(cmd *cobra.Command) (models.Filter, error) {
	var f models.Filter
	if queryStatus != "" {
		st, ok := models.ParseStatus(queryStatus)
		if !ok {
			return f, fmt.Errorf("unknown status %q", queryStatus)
		}
		f.Status = &st
	}
	if cmd.Flags().Changed("min-amount") {
		v := queryMinAmount
		f.MinAmount = &v
	}
	if cmd.Flags().Changed("max-amount") {
		v := queryMaxAmount
		f.MaxAmount = &v
	}
	f.ApplicantName = queryName
	return f, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryOutput != "table" && queryOutput != "json" {
		return fmt.Errorf("invalid output: %s. Use 'table' or 'json'", queryOutput)
	}

	filter, err := queryFilter(cmd)
	if err != nil {
		return err
	}

	baseURL := cfg.API.URL
	if queryAPI != "" {
		baseURL = queryAPI
	}

	d := query.Build(models.Cursor{Page: queryPage, PageSize: queryPageSize}, filter)
	c := client.New(baseURL, client.WithTimeout(cfg.API.Timeout))
	page, err := c.FetchPage(cmd.Context(), d)
	if client.IsTransportError(err) {
		return fmt.Errorf("%w (is the loans API up at %s?)", err, baseURL)
	} else if err != nil {
		return err
	}

	if queryOutput == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Applicant", "Email", "Amount", "Status", "Date", "Purpose", "Score", "Term"})
	for _, l := range page.Loans {
		t.AppendRow(table.Row{
			l.ID,
			l.ApplicantName,
			l.ApplicantEmail,
			l.Amount,
			l.Status.Label(),
			l.ApplicationDate.Format("2006-01-02"),
			l.Purpose,
			l.CreditScore,
			l.LoanTerm,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d loans, page %d (%s)\n", len(page.Loans), page.Total, d.Cursor().Page, c.URL(d))
	return nil
}
