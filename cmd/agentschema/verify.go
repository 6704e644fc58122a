package main

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/agentschema/internal/verify"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dir>",
		Short: "Validate written .jsonl samples against their .schema.json files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			cleanup, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			v, err := verify.New(cfg.ValidatorCacheMaxItems)
			if err != nil {
				return err
			}
			results, err := v.VerifyDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if printVerify(cmd.OutOrStdout(), results) > 0 {
				return errVerifyFailed
			}
			return nil
		},
	}
}

// printVerify prints one line per failing schema and returns the failure count.
func printVerify(w io.Writer, results []verify.FileResult) int {
	p := message.NewPrinter(language.English)

	failed := 0
	samples := 0
	for _, r := range results {
		samples += r.Total
		if r.OK() {
			continue
		}
		failed++
		if r.CompileError != "" {
			p.Fprintf(w, "FAIL %s: %s\n", r.SchemaPath, r.CompileError)
			continue
		}
		p.Fprintf(w, "FAIL %s: %d/%d samples valid\n", r.SchemaPath, r.Valid, r.Total)
		for _, f := range r.Failures {
			for _, e := range f.Errors {
				p.Fprintf(w, "  line %d: %s\n", f.Index+1, e)
			}
		}
	}
	p.Fprintf(w, "Verified %d schemas against %d samples, %d failed\n", len(results), samples, failed)
	return failed
}
