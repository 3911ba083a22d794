package interpreter

import (
	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/object"
)

func (in *Interpreter) exec(stmt ast.Statement) (Outcome, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := in.eval(s.Expression)
		return settle(err)

	case *ast.LetStmt:
		ref := object.NewRef(object.None())
		if s.Value != nil {
			val, err := in.eval(s.Value)
			if err != nil {
				return settle(err)
			}
			ref = object.Bind(val)
		}
		in.env.Declare(s.Name, ref)
		return Outcome{}, nil

	case *ast.BlockStmt:
		return in.execBlock(s.Statements, object.NewEnvironment(in.env))

	case *ast.IfStmt:
		cond, err := in.eval(s.Condition)
		if err != nil {
			return settle(err)
		}
		if object.Truthy(cond.Get()) {
			return in.execBlock(s.Conseq.Statements, object.NewEnvironment(in.env))
		}
		if s.Alt != nil {
			return in.exec(s.Alt)
		}
		return Outcome{}, nil

	case *ast.WhileStmt:
		for {
			cond, err := in.eval(s.Condition)
			if err != nil {
				return settle(err)
			}
			if !object.Truthy(cond.Get()) {
				return Outcome{}, nil
			}
			out, err := in.execBlock(s.Body.Statements, object.NewEnvironment(in.env))
			if err != nil || out.Kind != Normal {
				return out, err
			}
		}

	case *ast.FuncDecl:
		fn := &object.DefinedCall{Decl: s, Closure: in.env}
		in.env.Declare(s.Name, object.NewRef(object.FromCallable(fn)))
		return Outcome{}, nil

	case *ast.ReturnStmt:
		val := object.None()
		if s.Value != nil {
			ref, err := in.eval(s.Value)
			if err != nil {
				return settle(err)
			}
			val = ref.Get()
		}
		return Outcome{Kind: Return, Value: val}, nil

	case *ast.ClassDecl:
		return Outcome{}, in.execClass(s)

	case *ast.IncludeStmt:
		return in.execInclude(s)

	case *ast.DeleteStmt:
		if !in.env.Delete(s.Name) {
			return Outcome{}, in.wrapf(s.Pos(), object.ErrUndefined, "cannot delete '%s'", s.Name)
		}
		return Outcome{}, nil

	case *ast.BadStmt:
		return Outcome{}, in.newRuntimeError(s.Pos(), ErrUnparsed.Error(), ErrUnparsed)

	default:
		return Outcome{}, in.errorf(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

// execBlock runs stmts with env as the current scope and restores the
// previous scope afterwards.
func (in *Interpreter) execBlock(stmts []ast.Statement, env *object.Environment) (Outcome, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, stmt := range stmts {
		out, err := in.exec(stmt)
		if err != nil || out.Kind != Normal {
			return out, err
		}
	}
	return Outcome{}, nil
}

func (in *Interpreter) execClass(s *ast.ClassDecl) error {
	var superclass *object.Ref
	if s.Superclass != nil {
		ref, ok := in.env.Lookup(s.Superclass.Name)
		if !ok {
			return in.wrapf(s.Superclass.Pos(), object.ErrUndefined, "unresolved superclass '%s'", s.Superclass.Name)
		}
		if _, isClass := ref.Get().Call.(*object.Class); !isClass {
			return in.errorf(s.Superclass.Pos(), "superclass '%s' must be a class, got %s", s.Superclass.Name, object.TypeName(ref.Get()))
		}
		superclass = ref
	}

	closure := in.env
	if superclass != nil {
		closure = object.NewEnvironment(in.env)
		closure.Declare("super", superclass)
	}

	methods := make(map[string]*object.DefinedCall, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name] = &object.DefinedCall{
			Decl:          m,
			Closure:       closure,
			IsInitializer: m.Name == "init",
		}
	}
	class := &object.Class{ClassName: s.Name, Superclass: superclass, Methods: methods}
	in.env.Declare(s.Name, object.NewRef(object.FromCallable(class)))
	in.logger.Debug("class declared", "name", s.Name, "methods", len(methods), "inherits", superclass != nil)
	return nil
}
