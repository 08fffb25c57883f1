package sema

import "github.com/flamelang/flame/internal/ast"

// cloneFunction deep-copies a generic function's signature and body so
// that checking one instantiation can never mutate the template (spec.md
// §4.4.4, §9 "Generic clones"). Every node under the clone is a fresh
// Go value with its resolution fields at their zero value — the clone
// is checked exactly like an ordinary function, from scratch.
func cloneFunction(fn *ast.Function) *ast.Function {
	args := make([]*ast.Argument, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = &ast.Argument{Tok: a.Tok, Name: a.Name, DeclaredTy: cloneTypeExpr(a.DeclaredTy)}
	}
	return &ast.Function{
		Tok:         fn.Tok,
		Name:        fn.Name,
		Args:        args,
		IsVarArg:    fn.IsVarArg,
		DeclaredRet: cloneTypeExpr(fn.DeclaredRet),
		Body:        cloneBlock(fn.Body),
		MemberOf:    fn.MemberOf,
	}
}

func cloneTypeExpr(t *ast.TypeExpr) *ast.TypeExpr {
	if t == nil {
		return nil
	}
	params := make([]*ast.TypeExpr, len(t.Params))
	for i, p := range t.Params {
		params[i] = cloneTypeExpr(p)
	}
	return &ast.TypeExpr{Tok: t.Tok, Name: t.Name, Params: params}
}

func cloneBlock(b *ast.Block) *ast.Block {
	nb := &ast.Block{Tok: b.Tok}
	for _, s := range b.Stmts {
		nb.Stmts = append(nb.Stmts, cloneStmt(s))
	}
	return nb
}

func cloneStmtMaybe(s ast.Stmt) ast.Stmt {
	if s == nil {
		return nil
	}
	return cloneStmt(s)
}

func cloneExprMaybe(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	return cloneExpr(e)
}

func cloneStmt(s ast.Stmt) ast.Stmt {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return &ast.ExprStmt{Tok: st.Tok, Expr: cloneExpr(st.Expr)}
	case *ast.VarDef:
		return &ast.VarDef{Tok: st.Tok, Name: st.Name, DeclaredTy: cloneTypeExpr(st.DeclaredTy), Init: cloneExprMaybe(st.Init)}
	case *ast.Block:
		return cloneBlock(st)
	case *ast.IfStmt:
		return &ast.IfStmt{Tok: st.Tok, Cond: cloneExpr(st.Cond), Then: cloneBlock(st.Then), Else: cloneStmtMaybe(st.Else)}
	case *ast.WhileStmt:
		return &ast.WhileStmt{Tok: st.Tok, Cond: cloneExpr(st.Cond), Body: cloneBlock(st.Body)}
	case *ast.TryCatchStmt:
		nt := &ast.TryCatchStmt{Tok: st.Tok, Body: cloneBlock(st.Body)}
		for _, cc := range st.Catches {
			nt.Catches = append(nt.Catches, &ast.CatchClause{
				Tok: cc.Tok, Name: cc.Name, DeclaredTy: cloneTypeExpr(cc.DeclaredTy), Body: cloneBlock(cc.Body),
			})
		}
		return nt
	case *ast.ReturnStmt:
		return &ast.ReturnStmt{Tok: st.Tok, Value: cloneExprMaybe(st.Value)}
	case *ast.ThrowStmt:
		return &ast.ThrowStmt{Tok: st.Tok, Value: cloneExpr(st.Value)}
	case *ast.BreakStmt:
		return &ast.BreakStmt{Tok: st.Tok}
	case *ast.ContinueStmt:
		return &ast.ContinueStmt{Tok: st.Tok}
	case *ast.Function:
		// A nested, non-generic helper function declared inside a
		// generic body. Rare, but cloned the same way so the
		// instantiation doesn't end up sharing it with the template.
		return cloneFunction(st)
	case *ast.Class, *ast.Enum:
		// Class/enum declarations nested inside a function body carry
		// no per-instantiation state (no template parameters can
		// reach them independent of the enclosing function's own),
		// so they're shared rather than cloned.
		return st
	default:
		panic("sema: cloneStmt: unhandled statement type")
	}
}

func cloneExpr(e ast.Expr) ast.Expr {
	switch ex := e.(type) {
	case *ast.Identifier:
		return &ast.Identifier{Tok: ex.Tok, Name: ex.Name, ExplicitTemplateArgs: ex.ExplicitTemplateArgs}
	case *ast.ScopeResol:
		return &ast.ScopeResol{Tok: ex.Tok, Left: cloneExpr(ex.Left), Member: ex.Member}
	case *ast.IntLit:
		return &ast.IntLit{Tok: ex.Tok, Value: ex.Value}
	case *ast.FloatLit:
		return &ast.FloatLit{Tok: ex.Tok, Value: ex.Value}
	case *ast.BoolLit:
		return &ast.BoolLit{Tok: ex.Tok, Value: ex.Value}
	case *ast.CharLit:
		return &ast.CharLit{Tok: ex.Tok, Value: ex.Value}
	case *ast.StringLit:
		return &ast.StringLit{Tok: ex.Tok, Value: ex.Value}
	case *ast.NoneLit:
		return &ast.NoneLit{Tok: ex.Tok}
	case *ast.ArrayLit:
		elems := make([]ast.Expr, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = cloneExpr(el)
		}
		return &ast.ArrayLit{Tok: ex.Tok, Elements: elems}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{Tok: ex.Tok, Op: ex.Op, Left: cloneExpr(ex.Left), Right: cloneExpr(ex.Right)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Tok: ex.Tok, Op: ex.Op, Operand: cloneExpr(ex.Operand)}
	case *ast.AssignExpr:
		return &ast.AssignExpr{Tok: ex.Tok, Left: cloneExpr(ex.Left), Right: cloneExpr(ex.Right)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{Tok: ex.Tok, Left: cloneExpr(ex.Left), Index: cloneExpr(ex.Index)}
	case *ast.MemberAccess:
		return &ast.MemberAccess{Tok: ex.Tok, Left: cloneExpr(ex.Left), Name: ex.Name}
	case *ast.CallExpr:
		args := make([]ast.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = cloneExpr(a)
		}
		return &ast.CallExpr{Tok: ex.Tok, Callee: cloneExpr(ex.Callee), Args: args}
	default:
		panic("sema: cloneExpr: unhandled expression type")
	}
}
