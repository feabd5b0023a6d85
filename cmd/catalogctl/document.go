package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shelfsync/internal/importer"
)

func newCorrectCmd() *cobra.Command {
	var (
		in, out string
		rate    float64
	)
	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Upper-case categories and conditions, optionally convert prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			n, err := importer.Correct(bytes.NewReader(src), &buf, importer.CorrectOptions{PriceRate: rate})
			if err != nil {
				return fmt.Errorf("correct %s: %w", in, err)
			}
			dest := out
			if dest == "" {
				dest = in
			}
			if err := writeOutput(cmd, dest, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Corrected %d books\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "books-database.json", "Catalog document to read")
	cmd.Flags().StringVar(&out, "out", "", "Where to write the result (default: overwrite --in, - for stdout)")
	cmd.Flags().Float64Var(&rate, "price-rate", 0, "Multiply every price by this rate (0 keeps prices)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report books missing a title, author or price",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()
			rep, err := importer.Validate(f)
			if err != nil {
				return fmt.Errorf("validate %s: %w", in, err)
			}
			w := cmd.OutOrStdout()
			for _, is := range rep.Issues {
				fmt.Fprintf(w, "book %d (%q): missing %v\n", is.Index, is.Title, is.Missing)
			}
			fmt.Fprintf(w, "%d books checked, %d with problems\n", rep.Total, len(rep.Issues))
			if !rep.OK() {
				return fmt.Errorf("%d invalid books", len(rep.Issues))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "books-database.json", "Catalog document to check")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		out   string
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a large catalog document from the base book list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			doc := importer.Generate(importer.DefaultBase(), count, rng)

			var buf bytes.Buffer
			if err := importer.WriteGenerated(&buf, doc); err != nil {
				return err
			}
			if err := writeOutput(cmd, out, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d books\n", len(doc.Books))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "books-database.json", "Where to write the document (- for stdout)")
	cmd.Flags().IntVar(&count, "count", 1000, "Number of books to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: time based)")
	return cmd
}

func writeOutput(cmd *cobra.Command, dest string, data []byte) error {
	if dest == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), bytes.NewReader(data))
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
