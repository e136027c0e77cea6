// Command typql lists the registered dialects and renders queries for them.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/typql"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "typql",
		Short:         "Compile typed queries into vendor SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newVendorsCmd(), newRenderCmd())
	return root
}

func newVendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "List the registered vendors and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, v := range typql.Vendors() {
				d := typql.MustDialect(v)
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", v, capabilities(d.Capabilities()))
			}
			return nil
		},
	}
}

func capabilities(c typql.Capabilities) string {
	var out []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{c.NativeLimit, "native-limit"},
		{c.MultiUnitInterval, "multi-unit-interval"},
		{c.QuantifiedSubquery, "quantified-subquery"},
		{c.FunctionRegistry, "function-registry"},
		{c.NumberedParams, "numbered-params"},
		{c.MultiStatement, "multi-statement"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	return strings.Join(out, ",")
}

type renderFlags struct {
	vendor  string
	config  string
	table   string
	columns []string
	limit   int64
	offset  int64
	literal bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a paged SELECT over a table for one vendor",
		Example: `  typql render --vendor oracle --table users \
    --column id:bigint --column "name:varchar(64)" --limit 10 --offset 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "vendor or driver name")
	cmd.Flags().StringVar(&f.config, "config", "", "YAML config naming the vendor")
	cmd.Flags().StringVar(&f.table, "table", "", "table name")
	cmd.Flags().StringArrayVar(&f.columns, "column", nil, "column as name:type, repeatable")
	cmd.Flags().Int64Var(&f.limit, "limit", 0, "maximum rows")
	cmd.Flags().Int64Var(&f.offset, "offset", 0, "rows to skip")
	cmd.Flags().BoolVar(&f.literal, "literal", false, "inline values instead of placeholders")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func runRender(cmd *cobra.Command, f renderFlags) error {
	vendor := f.vendor
	if f.config != "" {
		cfg, err := typql.LoadConfig(f.config)
		if err != nil {
			return err
		}
		if vendor == "" {
			vendor = cfg.Vendor
			if vendor == "" {
				vendor = cfg.Driver
			}
		}
	}
	if vendor == "" {
		return fmt.Errorf("--vendor or --config is required")
	}
	d, err := typql.DialectNamed(vendor)
	if err != nil {
		return err
	}
	if len(f.columns) == 0 {
		return fmt.Errorf("at least one --column is required")
	}

	e := typql.NewEntity("", f.table)
	for _, spec := range f.columns {
		name, decl, ok := strings.Cut(spec, ":")
		if !ok {
			return fmt.Errorf("column %q: want name:type", spec)
		}
		t, err := typql.ParseType(decl)
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		e.Add(name, t)
	}

	q := typql.NewSelect(e)
	q.Limit, q.Offset = f.limit, f.offset
	ctx, err := typql.Compile(d, q, f.literal)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, b := range ctx.Batches() {
		fmt.Fprintln(out, b.SQL)
	}
	if ctx.SkipFirstColumn() {
		fmt.Fprintln(out, "-- first result column is the row number")
	}
	return nil
}
