package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/poresolver/completion"
)

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <file> <line:column>",
		Short: "Print the completions offered at a position (1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			text, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}

			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			doc := completion.NewTextDocument(string(text), pos)
			res, err := ws.engine.Complete(cmd.Context(), doc, completion.StaticWorkspace(ws.root))
			if err != nil {
				return err
			}
			if res == nil {
				pterm.Info.Println("Nothing to complete")
				return nil
			}

			pterm.Info.Printf("%s (%s)\n", res.Reference.Alias, res.Reference.FilePath)
			data := pterm.TableData{{"Label", "Kind"}}
			for _, e := range res.Entries {
				data = append(data, []string{e.Label, e.Kind.String()})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}

// parsePosition converts "line:column", both 1-based, to a 0-based position.
func parsePosition(s string) (completion.Position, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return completion.Position{}, errors.Newf("position %q: want line:column", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return completion.Position{}, errors.Newf("position %q: bad line", s)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return completion.Position{}, errors.Newf("position %q: bad column", s)
	}
	return completion.Position{Line: line - 1, Character: col - 1}, nil
}
