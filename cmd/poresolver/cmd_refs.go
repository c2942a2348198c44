package main

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <file>",
		Short: "List the page objects a test file refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}

			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			refs, err := ws.engine.References(cmd.Context(), string(text), ws.root)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				pterm.Info.Printf("No page object references in %s\n", args[0])
				return nil
			}

			data := pterm.TableData{{"Alias", "Binding", "Line", "Module", "File"}}
			for _, r := range refs {
				line := ""
				if r.Line > 0 {
					line = strconv.Itoa(r.Line)
				}
				data = append(data, []string{r.Alias, r.Binding, line, r.ModuleVariable, r.FilePath})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}
