package interpreter

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/parser"
	"github.com/xirelogy/go-nova/internal/token"
)

// ErrNoFilesystem is returned by include when the interpreter has no filesystem.
var ErrNoFilesystem = errors.New("no filesystem configured")

func (in *Interpreter) execInclude(s *ast.IncludeStmt) (Outcome, error) {
	for _, f := range s.Files {
		ref, err := in.eval(f)
		if err != nil {
			return settle(err)
		}
		name := ref.Get()
		if name.Kind != object.KindString {
			return Outcome{}, in.errorf(f.Pos(), "include path must be a string, got %s", object.TypeName(name))
		}
		out, err := in.include(name.Str, f.Pos())
		if err != nil || out.Kind != Normal {
			return out, err
		}
	}
	return Outcome{}, nil
}

// include parses and runs a file in the global scope. Paths are relative to
// the including file and every file runs at most once.
func (in *Interpreter) include(name string, pos token.Position) (Outcome, error) {
	if in.fs == nil {
		return Outcome{}, in.wrapf(pos, ErrNoFilesystem, "cannot include %q", name)
	}
	path := in.resolve(name)
	if in.included[path] {
		in.logger.Debug("include skipped", "path", path)
		return Outcome{}, nil
	}

	data, err := util.ReadFile(in.fs, path)
	if err != nil {
		return Outcome{}, in.wrapf(pos, errors.Wrap(err, "read"), "cannot include %q", name)
	}
	prog, err := parser.Parse(path, string(data))
	if err != nil {
		return Outcome{}, in.wrapf(pos, err, "cannot include %q", name)
	}
	in.included[path] = true
	in.logger.Debug("including file", "path", path, "statements", len(prog.Statements))

	prev := in.env
	in.env = in.globals
	defer func() { in.env = prev }()
	return in.runProgram(prog)
}

func (in *Interpreter) resolve(name string) string {
	if filepath.IsAbs(name) || in.file == "" {
		return filepath.Clean(name)
	}
	return in.fs.Join(filepath.Dir(in.file), name)
}

// MarkIncluded records path as already run so later includes of it are skipped.
func (in *Interpreter) MarkIncluded(path string) {
	in.included[filepath.Clean(path)] = true
}
