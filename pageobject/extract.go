package pageobject

import (
	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/poresolver/jsast"
)

var log = commonlog.GetLogger("poresolver.pageobject")

// IdentityField is the one top-level property that is a member itself rather
// than a container of members.
const IdentityField = "name"

type Kind int

const (
	KindField Kind = iota
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

type Member struct {
	Name string
	Kind Kind
}

// Find returns the top-level declaration named module. When the name is
// declared more than once the first declaration wins.
func Find(prog *jsast.Program, module string) (*jsast.Declaration, error) {
	var found *jsast.Declaration
	for _, decl := range prog.Declarations() {
		if decl.Name != module {
			continue
		}
		if found != nil {
			log.Warningf("%s:%d: %s is declared again, using the declaration on line %d",
				prog.Path, decl.Line, module, found.Line)
			continue
		}
		found = decl
	}
	if found == nil {
		return nil, errors.Mark(
			&Error{Path: prog.Path, Pos: jsast.Position{Line: 1}, Msg: "no top-level declaration named " + module},
			ErrModuleNotFound)
	}
	return found, nil
}

// Extract lists the members the page object declared as module exposes, in
// source order: the identity field, then the members of every container.
func Extract(prog *jsast.Program, module string) ([]Member, error) {
	decl, err := Find(prog, module)
	if err != nil {
		return nil, err
	}

	root, ok := decl.Init.(*jsast.Object)
	if !ok {
		pos := decl.Pos()
		if decl.Init != nil {
			pos = decl.Init.Pos()
		}
		return nil, newError(ErrStructuralMismatch, prog.Path, pos,
			"%s is initialized with %s, want an object literal", module, jsast.Describe(decl.Init))
	}

	members := make([]Member, 0, len(root.Properties))
	for _, prop := range root.Properties {
		found, err := containerMembers(prog.Path, prop)
		if err != nil {
			return nil, err
		}
		members = append(members, found...)
	}
	return members, nil
}

func containerMembers(path string, prop jsast.Node) ([]Member, error) {
	switch p := prop.(type) {
	case *jsast.Field:
		if p.Key == IdentityField {
			return []Member{{Name: IdentityField, Kind: KindField}}, nil
		}
		container, ok := p.Value.(*jsast.Object)
		if !ok {
			return nil, newError(ErrStructuralMismatch, path, p.Pos(),
				"property %s holds %s, want an object literal", p.Key, jsast.Describe(p.Value))
		}
		return objectMembers(path, container)
	case *jsast.Method:
		if p.Key == IdentityField {
			return []Member{{Name: IdentityField, Kind: KindField}}, nil
		}
		return nil, newError(ErrStructuralMismatch, path, p.Pos(),
			"property %s is a method, want an object literal", p.Key)
	case *jsast.Other:
		return nil, newError(ErrStructuralMismatch, path, p.Pos(),
			"unsupported %s in page object", jsast.Describe(p))
	default:
		return nil, newError(ErrStructuralMismatch, path, prop.Pos(),
			"unexpected %s in page object", jsast.Describe(prop))
	}
}

func objectMembers(path string, obj *jsast.Object) ([]Member, error) {
	members := make([]Member, 0, len(obj.Properties))
	for _, prop := range obj.Properties {
		switch p := prop.(type) {
		case *jsast.Field:
			kind := KindField
			if _, ok := p.Value.(*jsast.Function); ok {
				kind = KindMethod
			}
			members = append(members, Member{Name: p.Key, Kind: kind})
		case *jsast.Method:
			members = append(members, Member{Name: p.Key, Kind: KindMethod})
		case *jsast.Other:
			return nil, newError(ErrStructuralMismatch, path, p.Pos(),
				"unsupported %s in member container", jsast.Describe(p))
		default:
			return nil, newError(ErrStructuralMismatch, path, prop.Pos(),
				"unexpected %s in member container", jsast.Describe(prop))
		}
	}
	return members, nil
}
