package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/poresolver/pageobject"
	"github.com/dhamidi/poresolver/project"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <object>",
		Short: "List the members of a page object, given by alias, base name or path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			ref, err := lookupObject(ws, args[0])
			if err != nil {
				return err
			}

			members, err := ws.engine.Members(cmd.Context(), ref)
			if err != nil {
				return err
			}

			pterm.Info.Printf("%s (%s, %d members)\n", ref.Alias, ref.ModuleVariable, len(members))
			data := pterm.TableData{{"Member", "Kind"}}
			for _, m := range members {
				data = append(data, []string{m.Name, m.Kind.String()})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}

func lookupObject(ws *workspace, arg string) (pageobject.Reference, error) {
	opts := ws.cfg.PageObjects(ws.root)

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		path, err := filepath.Abs(arg)
		if err != nil {
			return pageobject.Reference{}, errors.Wrapf(err, "resolve %s", arg)
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return pageobject.Reference{Name: pageobject.NameOf(base), FilePath: path}, nil
	}

	proj, err := project.LoadFrom(opts)
	if err != nil {
		return pageobject.Reference{}, err
	}
	obj := proj.Object(arg)
	if obj == nil {
		for _, o := range proj.Objects {
			if o.Base == arg {
				obj = o
				break
			}
		}
	}
	if obj == nil {
		return pageobject.Reference{}, errors.Newf("no page object %q in %s", arg, proj.ObjectsDir)
	}
	return pageobject.Reference{Name: obj.Name, FilePath: obj.Path}, nil
}
