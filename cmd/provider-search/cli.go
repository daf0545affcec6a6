package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/catalog"
	"github.com/hcdl/provider-search/internal/platform/fhir"
	"github.com/hcdl/provider-search/pkg/pagination"
)

func practitionersCmd() *cobra.Command {
	var q practitioner.Query
	cmd := &cobra.Command{
		Use:   "practitioners",
		Short: "Search practitioners and print them without NPI duplicates",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := q.Normalize()
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rows, err := a.practitioners.SearchRows(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printPractitioners(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&q.Name, "name", "", "practitioner name")
	cmd.Flags().StringVar(&q.State, "state", "", "two-letter US state code")
	cmd.Flags().IntVar(&q.Count, "count", pagination.DefaultCount, "results to fetch (10, 20 or 50)")
	return cmd
}

func servicesCmd() *cobra.Command {
	var (
		q       healthcareservice.Query
		sortArg string
	)
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Search healthcare services and print them with their location",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := q.Normalize()
			if err != nil {
				return err
			}
			d, err := parseSortFlag(sortArg)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := a.services.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printServices(cmd.OutOrStdout(), result.Rows(d))
		},
	}
	cmd.Flags().StringVar(&q.Name, "name", "", "provider name")
	cmd.Flags().StringVar(&q.State, "state", "", "two-letter US state code")
	cmd.Flags().StringVar(&q.PostalCode, "zip", "", "zip code")
	cmd.Flags().StringVar(&q.Specialty, "specialty", "", "specialty taxonomy code (see the specialties command)")
	cmd.Flags().IntVar(&q.Count, "count", pagination.DefaultCount, "results to fetch (10, 20 or 50)")
	cmd.Flags().StringVar(&sortArg, "sort", "", "column to sort by, prefix with - for descending")
	return cmd
}

func specialtiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specialties",
		Short: "List the specialty codes accepted by --specialty",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME")
			for _, s := range catalog.Specialties {
				fmt.Fprintf(w, "%s\t%s\n", s.Code, s.Name)
			}
			return w.Flush()
		},
	}
}

func parseSortFlag(raw string) (*reconcile.SortDirective, error) {
	spec, ok := fhir.PrimarySort(raw)
	if !ok {
		return nil, nil
	}
	if !healthcareservice.IsColumn(spec.Field) {
		return nil, fmt.Errorf("unknown sort column %q", spec.Field)
	}
	return reconcile.NewDirective(spec.Field, spec.Descending), nil
}

func printPractitioners(out io.Writer, rows []practitioner.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No practitioners found.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPHONE\tDEGREE\tNPI")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Phone, r.Degree, r.NPI)
	}
	return w.Flush()
}

func printServices(out io.Writer, rows []healthcareservice.ServiceRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No providers found.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, col := range healthcareservice.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col.Title)
	}
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ProviderName, r.SpecialtyName, r.AddressLine, r.City, r.State, r.PostalCode)
	}
	return w.Flush()
}
