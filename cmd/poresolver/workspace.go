package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/poresolver/completion"
	"github.com/dhamidi/poresolver/config"
	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/project"
)

// workspace is what every command needs to resolve page objects.
type workspace struct {
	root   string
	cfg    *config.Config
	parser *jsast.Parser
	engine *completion.Engine
}

// openWorkspace uses --root when given and otherwise searches upwards from
// the working directory.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "get working directory")
		}
		root, err = project.FindRoot(cwd, settings.GetString("objects.dir"))
		if err != nil {
			log.Debugf("%s, using %s", err, cwd)
			root = cwd
		}
	}

	cfg, err := config.Load(settings, root)
	if err != nil {
		return nil, err
	}
	log.Infof("workspace %s", root)

	parser := jsast.NewParser()
	return &workspace{
		root:   root,
		cfg:    cfg,
		parser: parser,
		engine: completion.NewEngine(completion.FSLoader{}, parser, cfg.Engine()),
	}, nil
}
