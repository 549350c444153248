// Package main provides cdacheck, a command line validator for clinical
// documents assembled from HL7 v2 messages.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
	"github.com/drfirst/go-clinicaldoc/internal/report"
	"github.com/drfirst/go-clinicaldoc/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errInvalid signals a document that was assembled but has violations
var errInvalid = errors.New("document has violations")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cdacheck",
		Short:        "Assemble and validate clinical documents",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Log pipeline details to stderr")
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(typesCmd())
	return rootCmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the document built from an HL7 v2 message in JSON form",
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, _ := cmd.Flags().GetString("type")
			file, _ := cmd.Flags().GetString("file")
			asJSON, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			in := cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			msg, err := hl7v2.Decode(in)
			if err != nil {
				return err
			}

			opts, err := service.ParseOptions(func(key string) string {
				v, _ := cmd.Flags().GetString(strings.ReplaceAll(key, "_", "-"))
				return v
			})
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if verbose {
				if logger, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}
			rep, err := service.New(logger).Validate(context.Background(), service.Request{
				DocumentType: docType,
				Message:      msg,
				Options:      opts,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep.Outcome()); err != nil {
					return err
				}
			} else {
				printReport(out, rep)
			}
			if !rep.Valid {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().String("type", "", "Document type, see 'cdacheck types'")
	cmd.Flags().String("file", "-", "Message file, - for stdin")
	cmd.Flags().Bool("json", false, "Print a FHIR OperationOutcome instead of text")
	cmd.Flags().String("version", "", "Document version")
	cmd.Flags().String("from", "", "Earliest date for filtering (views)")
	cmd.Flags().String("to", "", "Latest date for filtering (views)")
	cmd.Flags().String("identifier-root", "", "OID for item identifiers")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported document types",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFAMILY\tCODE\tTITLE")
			for _, t := range service.DocumentTypes() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.Family, t.Code, t.Title)
			}
			return w.Flush()
		},
	}
}

func printReport(w io.Writer, rep *report.Report) {
	status := "VALID"
	if !rep.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "%s %s %s (message %s)\n", status, rep.DocumentType, rep.DocumentID, rep.MessageID)
	for _, v := range rep.Violations {
		fmt.Fprintf(w, "  %-14s %s\n", v.Kind, v)
	}
	for _, s := range rep.Skipped {
		fmt.Fprintf(w, "  skipped        %s\n", s)
	}
}
