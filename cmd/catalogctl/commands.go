package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"buildmart-gateway/internal/category"
	"buildmart-gateway/internal/upstream"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type treeOptions struct {
	input     string
	upstream  string
	hierarchy string
	auth      string
	timeout   time.Duration
	flat      bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Inspect category display trees",
		SilenceUsage: true,
	}

	root.AddCommand(newTreeCmd(), newHierarchyCmd())
	return root
}

func newTreeCmd() *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Build the display tree from a category dump or the live upstream",
		Long: `Reads a flat category listing (a JSON array, or an object with "results"
or "categories") and prints the grouped tree the gateway would serve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", `category dump file, "-" for stdin`)
	cmd.Flags().StringVar(&opts.upstream, "upstream", "", "catalog API base URL to fetch from")
	cmd.Flags().StringVar(&opts.hierarchy, "hierarchy", "", "hierarchy YAML file (default built-in)")
	cmd.Flags().StringVar(&opts.auth, "auth", "", "Authorization header sent upstream")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "upstream request timeout")
	cmd.Flags().BoolVar(&opts.flat, "flat", false, "print the flattened tree instead of nested nodes")
	cmd.MarkFlagsMutuallyExclusive("input", "upstream")

	return cmd
}

func newHierarchyCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "hierarchy",
		Short: "Print the effective hierarchy as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := category.LoadHierarchy(path)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(h); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&path, "hierarchy", "", "hierarchy YAML file (default built-in)")
	return cmd
}

func runTree(ctx context.Context, stdin io.Reader, out io.Writer, opts *treeOptions) error {
	h, err := category.LoadHierarchy(opts.hierarchy)
	if err != nil {
		return err
	}

	records, err := loadRecords(ctx, stdin, opts)
	if err != nil {
		return err
	}

	nodes := category.BuildTree(records, h)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if opts.flat {
		return enc.Encode(category.Flatten(nodes))
	}
	return enc.Encode(nodes)
}

func loadRecords(ctx context.Context, stdin io.Reader, opts *treeOptions) ([]category.Record, error) {
	switch {
	case opts.upstream != "":
		client := upstream.NewClient(opts.upstream, opts.timeout)
		return category.NewRepository(client).ListCategories(ctx, nil, opts.auth)
	case opts.input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return category.DecodeList(data)
	case opts.input != "":
		data, err := os.ReadFile(opts.input)
		if err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
		return category.DecodeList(data)
	default:
		return nil, errors.New("one of --input or --upstream is required")
	}
}
