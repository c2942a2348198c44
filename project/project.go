package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/poresolver/completion"
	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/metrics"
	"github.com/dhamidi/poresolver/pageobject"
)

// ConfigNames are the file names that mark a workspace root besides the
// objects directory itself.
var ConfigNames = []string{".poresolver.yaml", ".poresolver.yml", ".poresolver.toml", ".poresolver.json"}

// Project is a workspace containing a folder of page objects.
type Project struct {
	RootDir    string
	ObjectsDir string
	Objects    []*Object
}

// Object is a single page object file.
type Object struct {
	pageobject.Name
	Path string
}

// Load detects the project containing the current directory.
func Load(opts pageobject.Options) (*Project, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "get working directory")
	}
	root, err := FindRoot(dir, opts.ObjectsDir)
	if err != nil {
		return nil, err
	}
	opts.Root = root
	return LoadFrom(opts)
}

// FindRoot walks up from start to the first directory that has a config file
// or an objects directory.
func FindRoot(start, objectsDir string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", start)
	}

	for {
		for _, name := range ConfigNames {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}
		if info, err := os.Stat(filepath.Join(dir, objectsDir)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.Newf("could not detect project: no %s directory or config file above %s", objectsDir, start)
}

// LoadFrom lists the page objects of the project rooted at opts.Root.
// Composite objects are skipped.
func LoadFrom(opts pageobject.Options) (*Project, error) {
	objectsDir := filepath.Join(opts.Root, opts.ObjectsDir)
	entries, err := os.ReadDir(objectsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read objects directory")
	}

	proj := &Project{
		RootDir:    opts.Root,
		ObjectsDir: objectsDir,
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != opts.Extension {
			continue
		}
		if opts.CompositeMarker != "" && strings.Contains(name, opts.CompositeMarker) {
			continue
		}
		proj.Objects = append(proj.Objects, &Object{
			Name: pageobject.NameOf(strings.TrimSuffix(name, opts.Extension)),
			Path: filepath.Join(objectsDir, name),
		})
	}

	return proj, nil
}

// Object returns the page object with the given alias, or nil if not found.
func (p *Project) Object(alias string) *Object {
	for _, o := range p.Objects {
		if o.Alias == alias {
			return o
		}
	}
	return nil
}

// Finding is the outcome of validating one page object.
type Finding struct {
	Object  *Object
	Members []pageobject.Member
	Err     error
}

// Validate parses a page object file and extracts its members.
func Validate(ctx context.Context, parser *jsast.Parser, obj *Object) Finding {
	f := Finding{Object: obj}
	src, err := completion.FSLoader{}.Load(ctx, obj.Path)
	if err != nil {
		f.Err = err
		metrics.RecordCheck(false)
		return f
	}
	prog, err := parser.Parse(ctx, obj.Path, src)
	if err != nil {
		f.Err = err
		metrics.RecordCheck(false)
		return f
	}
	f.Members, f.Err = pageobject.Extract(prog, obj.ModuleVariable)
	metrics.RecordCheck(f.Err == nil)
	return f
}

// Check validates every page object of the project, at most limit at a time.
// Findings are returned in the order of p.Objects.
func (p *Project) Check(ctx context.Context, parser *jsast.Parser, limit int) ([]Finding, error) {
	findings := make([]Finding, len(p.Objects))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, obj := range p.Objects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			findings[i] = Validate(gctx, parser, obj)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return findings, nil
}
