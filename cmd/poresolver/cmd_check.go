package main

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/poresolver/project"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the shape of every page object in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			proj, err := project.LoadFrom(ws.cfg.PageObjects(ws.root))
			if err != nil {
				return err
			}

			findings, err := proj.Check(cmd.Context(), ws.parser, ws.cfg.Check.Concurrency)
			if err != nil {
				return err
			}

			failed := 0
			for _, f := range findings {
				if f.Err != nil {
					failed++
					pterm.Error.Printf("%s: %s\n", f.Object.Alias, f.Err)
					continue
				}
				pterm.Success.Printf("%s: %d members\n", f.Object.Alias, len(f.Members))
			}

			if failed > 0 {
				return errors.Newf("%d of %d page objects failed", failed, len(findings))
			}
			pterm.Success.Printf("All %d page objects are valid\n", len(findings))
			return nil
		},
	}

	cmd.Flags().IntP("concurrency", "j", 8, "page objects checked in parallel")
	bindFlag(cmd, "check.concurrency", "concurrency")

	return cmd
}
