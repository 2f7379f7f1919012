// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package astutil

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/kraklabs/mgen/internal/diag"
	"github.com/kraklabs/mgen/internal/types"
)

// Reader parses SourceLang surface text into a SourceModule using
// tree-sitter's Python grammar, reusing only the subset of syntax the
// accepted language defines (spec §3). It replaces the teacher's
// per-language tree-sitter walkers (parser_go.go, parser_typescript.go)
// with a single walker for the one grammar this compiler accepts text in.
type Reader struct {
	parser *sitter.Parser
}

// NewReader builds a Reader with a fresh tree-sitter parser bound to the
// Python grammar.
func NewReader() *Reader {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Reader{parser: p}
}

// Read parses source into a SourceModule. Constructs tree-sitter's
// grammar accepts but the static subset does not (yield, try/except,
// async def, with, multiple inheritance, ...) are recorded as
// diagnostics rather than causing a hard failure, so the validator phase
// can report every violation in one pass instead of stopping at the
// first.
func (r *Reader) Read(filePath, source string) (*SourceModule, []diag.Diagnostic) {
	content := []byte(source)
	tree, err := r.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, []diag.Diagnostic{
			diag.NewError(diag.ECodeSyntax, fmt.Sprintf("parse failed: %v", err), diag.Point(filePath, 1, 1)),
		}
	}
	defer tree.Close()

	mod := NewSourceModule(filePath, source)
	w := &walker{content: content, filePath: filePath}
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		w.topLevel(root.Child(i), mod)
	}
	return mod, w.diags
}

// walker carries the shared state for one file's translation pass.
type walker struct {
	content  []byte
	filePath string
	diags    []diag.Diagnostic
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(w.content[n.StartByte():n.EndByte()])
}

func (w *walker) loc(n *sitter.Node) diag.Location {
	sp, ep := n.StartPoint(), n.EndPoint()
	return diag.Location{
		File:      w.filePath,
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column) + 1,
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column) + 1,
	}
}

func (w *walker) reject(code diag.Code, n *sitter.Node, what string) {
	w.diags = append(w.diags, diag.NewErrorWithDefault(code, what, w.loc(n)))
}

func (w *walker) topLevel(n *sitter.Node, mod *SourceModule) {
	switch n.Type() {
	case "function_definition":
		if fn := w.parseFuncDef(n, false); fn != nil {
			mod.Functions = append(mod.Functions, fn)
		}
	case "class_definition":
		if cd := w.parseClassDef(n); cd != nil {
			mod.Classes = append(mod.Classes, cd)
		}
	case "import_from_statement":
		mod.Imports = append(mod.Imports, w.parseImport(n))
	case "import_statement":
		mod.Imports = append(mod.Imports, w.parseImport(n))
	case "decorated_definition":
		w.topLevelDecorated(n, mod)
	case "expression_statement", "comment", "\n":
		// module docstring or blank line; ignored at top level
	default:
		// anything else at module scope (bare statements) is dropped here
		// without a diagnostic; it never reaches the validator.
	}
}

func (w *walker) topLevelDecorated(n *sitter.Node, mod *SourceModule) {
	def := n.ChildByFieldName("definition")
	if def == nil {
		return
	}
	mods := w.decoratorModifiers(n)
	switch def.Type() {
	case "function_definition":
		fn := w.parseFuncDef(def, false)
		if fn != nil {
			fn.IsStatic = mods.isStatic
			fn.IsClassM = mods.isClassM
			mod.Functions = append(mod.Functions, fn)
		}
	case "class_definition":
		if cd := w.parseClassDef(def); cd != nil {
			mod.Classes = append(mod.Classes, cd)
		}
	}
}

type decoratorMods struct {
	isStatic, isClassM, isDataclass bool
}

// decoratorModifiers inspects a decorated_definition's decorator list,
// recognizing the handful of decorators the subset accepts
// (@staticmethod, @classmethod, @dataclass) and rejecting anything else
// (spec S5).
func (w *walker) decoratorModifiers(n *sitter.Node) decoratorMods {
	var mods decoratorMods
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() != "decorator" {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(w.text(c)), "@")
		switch name {
		case "staticmethod":
			mods.isStatic = true
		case "classmethod":
			mods.isClassM = true
		case "dataclass":
			mods.isDataclass = true
		default:
			w.reject(diag.ECodeUnsupportedDecorator, c, "decorator not supported in the accepted subset")
		}
	}
	return mods
}

func (w *walker) parseImport(n *sitter.Node) *Import {
	imp := &Import{stmtBase: stmtBase{Location: w.loc(n)}}
	if n.Type() == "import_from_statement" {
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			imp.Module = w.text(mod)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "dotted_name" && w.text(c) != imp.Module {
				imp.Names = append(imp.Names, w.text(c))
			}
			if c.Type() == "aliased_import" {
				imp.Names = append(imp.Names, w.text(c))
			}
		}
	} else {
		imp.Module = strings.TrimSpace(strings.TrimPrefix(w.text(n), "import"))
	}
	return imp
}

// parseFuncDef translates a function_definition node into a FuncDef,
// rejecting constructs the validator would reject anyway but recording
// the precise shape at the point of parse since tree-sitter already has
// the node in hand here.
func (w *walker) parseFuncDef(n *sitter.Node, isMethod bool) *FuncDef {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	fn := &FuncDef{
		stmtBase: stmtBase{Location: w.loc(n)},
		Name:     w.text(nameNode),
		IsMethod: isMethod,
	}
	if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		w.reject(diag.ECodeUnsupportedAsync, n, "async def is not supported")
	}

	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		fn.Params = w.parseParams(paramsNode, isMethod)
	}

	if retNode := n.ChildByFieldName("return_type"); retNode != nil {
		fn.ReturnType = w.parseTypeAnnotation(retNode)
		fn.HasReturn = true
	} else if !isMethod {
		w.reject(diag.ECodeMissingReturnAnnot, n, "function missing a return type annotation")
	}

	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = w.parseBlock(body)
	}
	return fn
}

func (w *walker) parseParams(n *sitter.Node, isMethod bool) []Param {
	var params []Param
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "identifier":
			// bare `self`/`cls` receiver with no annotation; accepted only
			// as parameter zero of a method.
			name := w.text(c)
			if i == 1 && isMethod {
				params = append(params, Param{Name: name, Loc: w.loc(c)})
				continue
			}
			w.reject(diag.ECodeMissingParamAnnot, c, "parameter missing a type annotation")
		case "typed_parameter":
			pname := ""
			var ann *sitter.Node
			for j := 0; j < int(c.ChildCount()); j++ {
				gc := c.Child(j)
				if gc.Type() == "identifier" {
					pname = w.text(gc)
				}
				if gc.Type() == "type" {
					ann = gc
				}
			}
			p := Param{Name: pname, Loc: w.loc(c)}
			if ann != nil {
				p.Annotation = w.parseTypeAnnotation(ann)
			} else {
				w.reject(diag.ECodeMissingParamAnnot, c, "parameter missing a type annotation")
			}
			params = append(params, p)
		case "default_parameter", "typed_default_parameter":
			w.reject(diag.ECodeUnsupportedDefaultMut, c, "default parameter values are not supported")
		case "list_splat_pattern", "dictionary_splat_pattern":
			w.reject(diag.ECodeUnsupportedVarargs, c, "*args/**kwargs are not supported")
		}
	}
	return params
}

// parseTypeAnnotation maps a tree-sitter `type` node's text to a
// types.SourceType, recognizing the subset's generic container forms
// (list[T], dict[K,V], set[T], tuple[T, ...]) and bare names (int, str,
// bool, float, None, or a record name).
func (w *walker) parseTypeAnnotation(n *sitter.Node) types.SourceType {
	return parseTypeExpr(strings.TrimSpace(w.text(n)))
}

func parseTypeExpr(s string) types.SourceType {
	s = strings.TrimSpace(s)
	switch s {
	case "int":
		return types.Primitive(types.KindInt)
	case "float":
		return types.Primitive(types.KindFloat)
	case "bool":
		return types.Primitive(types.KindBool)
	case "str":
		return types.Primitive(types.KindStr)
	case "None":
		return types.Primitive(types.KindNone)
	case "list", "List":
		return types.ListOf(types.Unknown)
	case "set", "Set":
		return types.SetOf(types.Unknown)
	case "dict", "Dict":
		return types.DictOf(types.Unknown, types.Unknown)
	case "tuple", "Tuple":
		return types.TupleOf()
	}
	if open := strings.Index(s, "["); open > 0 && strings.HasSuffix(s, "]") {
		base := s[:open]
		inner := s[open+1 : len(s)-1]
		switch base {
		case "list", "List":
			return types.ListOf(parseTypeExpr(inner))
		case "set", "Set":
			return types.SetOf(parseTypeExpr(inner))
		case "dict", "Dict":
			parts := splitTopLevelComma(inner)
			if len(parts) == 2 {
				return types.DictOf(parseTypeExpr(parts[0]), parseTypeExpr(parts[1]))
			}
		case "tuple", "Tuple":
			parts := splitTopLevelComma(inner)
			elems := make([]types.SourceType, len(parts))
			for i, p := range parts {
				elems[i] = parseTypeExpr(p)
			}
			return types.TupleOf(elems...)
		}
	}
	return types.Record(s)
}

func splitTopLevelComma(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}

func (w *walker) parseClassDef(n *sitter.Node) *ClassDef {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	cd := &ClassDef{stmtBase: stmtBase{Location: w.loc(n)}, Name: w.text(nameNode)}

	if super := n.ChildByFieldName("superclasses"); super != nil {
		count := 0
		for i := 0; i < int(super.ChildCount()); i++ {
			if super.Child(i).Type() == "identifier" {
				count++
			}
		}
		if count > 1 {
			w.reject(diag.ECodeUnsupportedInherit, super, "multiple inheritance is not supported")
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return cd
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		c := body.Child(i)
		switch c.Type() {
		case "function_definition":
			if fn := w.parseFuncDef(c, true); fn != nil {
				cd.Methods = append(cd.Methods, fn)
			}
		case "decorated_definition":
			def := c.ChildByFieldName("definition")
			if def != nil && def.Type() == "function_definition" {
				mods := w.decoratorModifiers(c)
				fn := w.parseFuncDef(def, !mods.isStatic)
				if fn != nil {
					fn.IsStatic = mods.isStatic
					fn.IsClassM = mods.isClassM
					cd.Methods = append(cd.Methods, fn)
				}
			}
		case "expression_statement":
			if ann := firstChildOfType(c, "assignment"); ann != nil {
				if f, ok := w.parseFieldAssignment(ann); ok {
					cd.Fields = append(cd.Fields, f)
				}
			}
		}
	}
	return cd
}

func firstChildOfType(n *sitter.Node, t string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == t {
			return n.Child(i)
		}
	}
	return nil
}

// parseFieldAssignment recognizes a dataclass-style `name: Type` class
// body line (surfaced by tree-sitter as an assignment node with no
// right-hand side value).
func (w *walker) parseFieldAssignment(n *sitter.Node) (Field, bool) {
	left := n.ChildByFieldName("left")
	typeNode := n.ChildByFieldName("type")
	if left == nil || typeNode == nil {
		return Field{}, false
	}
	return Field{Name: w.text(left), Annotation: w.parseTypeAnnotation(typeNode)}, true
}

func (w *walker) parseBlock(n *sitter.Node) []Statement {
	var out []Statement
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if s := w.parseStatement(c); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (w *walker) parseStatement(n *sitter.Node) Statement {
	switch n.Type() {
	case "expression_statement":
		return w.parseExprStatement(n)
	case "return_statement":
		ret := &Return{stmtBase: stmtBase{Location: w.loc(n)}}
		if v := n.NamedChild(0); v != nil {
			ret.Value = w.parseExpr(v)
		}
		return ret
	case "if_statement":
		return w.parseIf(n)
	case "while_statement":
		return w.parseWhile(n)
	case "for_statement":
		return w.parseFor(n)
	case "break_statement":
		return &Break{stmtBase{Location: w.loc(n)}}
	case "continue_statement":
		return &Continue{stmtBase{Location: w.loc(n)}}
	case "assert_statement":
		a := &Assert{stmtBase: stmtBase{Location: w.loc(n)}}
		if c := n.NamedChild(0); c != nil {
			a.Cond = w.parseExpr(c)
		}
		if m := n.NamedChild(1); m != nil {
			a.Message = w.parseExpr(m)
		}
		return a
	case "pass_statement", "comment":
		return nil
	case "function_definition":
		return w.parseFuncDef(n, false)
	case "raise_statement":
		w.reject(diag.ECodeUnsupportedException, n, "exceptions are not supported")
		return nil
	case "try_statement":
		w.reject(diag.ECodeUnsupportedException, n, "try/except is not supported")
		return nil
	case "with_statement":
		w.reject(diag.ECodeUnsupportedWith, n, "with-statements are not supported")
		return nil
	case "delete_statement":
		w.reject(diag.ECodeUnsupportedDel, n, "del is not supported")
		return nil
	case "global_statement":
		w.reject(diag.ECodeUnsupportedGlobal, n, "global is not supported")
		return nil
	case "nonlocal_statement":
		w.reject(diag.ECodeUnsupportedNonlocal, n, "nonlocal is not supported")
		return nil
	default:
		return nil
	}
}

func (w *walker) parseExprStatement(n *sitter.Node) Statement {
	inner := n.NamedChild(0)
	if inner == nil {
		return nil
	}
	switch inner.Type() {
	case "assignment":
		return w.parseAssignment(inner)
	case "augmented_assignment":
		return w.parseAugAssign(inner)
	default:
		return &ExprStmt{stmtBase: stmtBase{Location: w.loc(n)}, Expr: w.parseExpr(inner)}
	}
}

func (w *walker) parseAssignment(n *sitter.Node) Statement {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	typeNode := n.ChildByFieldName("type")
	loc := w.loc(n)
	if typeNode != nil {
		var val Expression
		if right != nil {
			val = w.parseExpr(right)
		}
		return &AnnAssign{
			stmtBase:   stmtBase{Location: loc},
			Target:     w.text(left),
			Annotation: w.parseTypeAnnotation(typeNode),
			Value:      val,
		}
	}
	var val Expression
	if right != nil {
		val = w.parseExpr(right)
	}
	return &Assign{stmtBase: stmtBase{Location: loc}, Target: w.parseExpr(left), Value: val}
}

func (w *walker) parseAugAssign(n *sitter.Node) Statement {
	left := n.ChildByFieldName("left")
	op := n.ChildByFieldName("operator")
	right := n.ChildByFieldName("right")
	opText := "+"
	if op != nil {
		opText = strings.TrimSuffix(w.text(op), "=")
	}
	return &AugAssign{
		stmtBase: stmtBase{Location: w.loc(n)},
		Target:   w.parseExpr(left),
		Op:       opText,
		Value:    w.parseExpr(right),
	}
}

func (w *walker) parseIf(n *sitter.Node) Statement {
	ifs := &If{stmtBase: stmtBase{Location: w.loc(n)}}
	if c := n.ChildByFieldName("condition"); c != nil {
		ifs.Cond = w.parseExpr(c)
	}
	if b := n.ChildByFieldName("consequence"); b != nil {
		ifs.Body = w.parseBlock(b)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "elif_clause":
			branch := ElifBranch{}
			if cc := c.ChildByFieldName("condition"); cc != nil {
				branch.Cond = w.parseExpr(cc)
			}
			if bb := c.ChildByFieldName("consequence"); bb != nil {
				branch.Body = w.parseBlock(bb)
			}
			ifs.Elifs = append(ifs.Elifs, branch)
		case "else_clause":
			if bb := c.ChildByFieldName("body"); bb != nil {
				ifs.Else = w.parseBlock(bb)
			}
		}
	}
	return ifs
}

func (w *walker) parseWhile(n *sitter.Node) Statement {
	ws := &While{stmtBase: stmtBase{Location: w.loc(n)}}
	if c := n.ChildByFieldName("condition"); c != nil {
		ws.Cond = w.parseExpr(c)
	}
	if b := n.ChildByFieldName("body"); b != nil {
		ws.Body = w.parseBlock(b)
	}
	return ws
}

func (w *walker) parseFor(n *sitter.Node) Statement {
	fs := &For{stmtBase: stmtBase{Location: w.loc(n)}}
	if t := n.ChildByFieldName("left"); t != nil {
		fs.Target = w.parseExpr(t)
	}
	if it := n.ChildByFieldName("right"); it != nil {
		fs.Iter = w.parseExpr(it)
	}
	if b := n.ChildByFieldName("body"); b != nil {
		fs.Body = w.parseBlock(b)
	}
	return fs
}

// parseExpr translates an expression node. Constructs outside the
// accepted subset (yield, await, starred expressions, comprehensions
// with more than one clause) are rejected via diagnostics; yield, await
// and starred expressions are replaced with a None literal placeholder so
// the walk can continue.
func (w *walker) parseExpr(n *sitter.Node) Expression {
	loc := w.loc(n)
	switch n.Type() {
	case "integer":
		return &Literal{base: base{Location: loc}, Kind: LitInt, Raw: w.text(n)}
	case "float":
		return &Literal{base: base{Location: loc}, Kind: LitFloat, Raw: w.text(n)}
	case "true", "false":
		return &Literal{base: base{Location: loc}, Kind: LitBool, Raw: w.text(n)}
	case "none":
		return &Literal{base: base{Location: loc}, Kind: LitNone, Raw: "None"}
	case "string":
		return w.parseStringOrFString(n)
	case "identifier":
		return &Name{base: base{Location: loc}, Ident: w.text(n)}
	case "binary_operator":
		return &BinOp{
			base:  base{Location: loc},
			Op:    w.text(n.ChildByFieldName("operator")),
			Left:  w.parseExpr(n.ChildByFieldName("left")),
			Right: w.parseExpr(n.ChildByFieldName("right")),
		}
	case "unary_operator":
		return &UnaryOp{
			base:    base{Location: loc},
			Op:      w.text(n.ChildByFieldName("operator")),
			Operand: w.parseExpr(n.ChildByFieldName("argument")),
		}
	case "not_operator":
		return &UnaryOp{base: base{Location: loc}, Op: "not", Operand: w.parseExpr(n.ChildByFieldName("argument"))}
	case "comparison_operator":
		return w.parseComparison(n)
	case "boolean_operator":
		return &BoolOp{
			base:   base{Location: loc},
			Op:     w.text(n.ChildByFieldName("operator")),
			Values: []Expression{w.parseExpr(n.ChildByFieldName("left")), w.parseExpr(n.ChildByFieldName("right"))},
		}
	case "call":
		return w.parseCall(n)
	case "attribute":
		return &Attribute{base: base{Location: loc}, Value: w.parseExpr(n.ChildByFieldName("object")), Attr: w.text(n.ChildByFieldName("attribute"))}
	case "subscript":
		return w.parseSubscript(n)
	case "list":
		return &ListLit{base: base{Location: loc}, Elems: w.parseExprList(n)}
	case "set":
		return &SetLit{base: base{Location: loc}, Elems: w.parseExprList(n)}
	case "tuple":
		return &TupleLit{base: base{Location: loc}, Elems: w.parseExprList(n)}
	case "dictionary":
		return w.parseDict(n)
	case "list_comprehension":
		return w.parseListComp(n)
	case "set_comprehension":
		return w.parseSetComp(n)
	case "dictionary_comprehension":
		return w.parseDictComp(n)
	case "conditional_expression":
		return &Conditional{
			base: base{Location: loc},
			Cond: w.parseExpr(n.ChildByFieldName("condition")),
			Then: w.parseExpr(n.ChildByFieldName("consequence")),
			Else: w.parseExpr(n.ChildByFieldName("alternative")),
		}
	case "lambda":
		return w.parseLambda(n)
	case "parenthesized_expression":
		if c := n.NamedChild(0); c != nil {
			return w.parseExpr(c)
		}
	case "yield":
		w.reject(diag.ECodeUnsupportedYield, n, "yield is not supported")
	case "await":
		w.reject(diag.ECodeUnsupportedAsync, n, "await is not supported")
	case "list_splat", "dictionary_splat":
		w.reject(diag.ECodeUnsupportedVarargs, n, "starred expressions are not supported")
	}
	return &Literal{base: base{Location: loc}, Kind: LitNone, Raw: "None"}
}

func (w *walker) parseStringOrFString(n *sitter.Node) Expression {
	raw := w.text(n)
	loc := w.loc(n)
	hasInterp := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "interpolation" {
			hasInterp = true
			break
		}
	}
	if !hasInterp {
		return &Literal{base: base{Location: loc}, Kind: LitStr, Raw: unquote(raw)}
	}
	f := &FString{base: base{Location: loc}}
	last := n.StartByte()
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "interpolation" {
			f.Literals = append(f.Literals, string(w.content[last:c.StartByte()]))
			if e := c.NamedChild(0); e != nil {
				f.Exprs = append(f.Exprs, w.parseExpr(e))
			}
			last = c.EndByte()
		}
	}
	f.Literals = append(f.Literals, string(w.content[last:n.EndByte()]))
	return f
}

func unquote(raw string) string {
	s := raw
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

func (w *walker) parseComparison(n *sitter.Node) Expression {
	// tree-sitter's python grammar allows chained comparisons; the
	// accepted subset only uses a single operator, so only the first two
	// operands and operator are honored.
	left := n.NamedChild(0)
	op := ""
	for i := 0; i < int(n.ChildCount()) && op == ""; i++ {
		c := n.Child(i)
		switch c.Type() {
		case "==", "!=", "<", "<=", ">", ">=", "in", "not in", "is", "is not":
			op = c.Type()
		}
	}
	right := n.NamedChild(1)
	return &CompareOp{base: base{Location: w.loc(n)}, Op: op, Left: w.parseExpr(left), Right: w.parseExpr(right)}
}

func (w *walker) parseCall(n *sitter.Node) Expression {
	fn := n.ChildByFieldName("function")
	argsNode := n.ChildByFieldName("arguments")
	var args []Expression
	if argsNode != nil {
		for i := 0; i < int(argsNode.NamedChildCount()); i++ {
			a := argsNode.NamedChild(i)
			if a.Type() == "keyword_argument" {
				w.reject(diag.ECodeUnsupportedVarargs, a, "keyword arguments are not supported")
				continue
			}
			args = append(args, w.parseExpr(a))
		}
	}
	if fn != nil && fn.Type() == "attribute" {
		recv := w.parseExpr(fn.ChildByFieldName("object"))
		method := w.text(fn.ChildByFieldName("attribute"))
		return &MethodCall{base: base{Location: w.loc(n)}, Receiver: recv, Method: method, Args: args}
	}
	return &Call{base: base{Location: w.loc(n)}, Func: w.parseExpr(fn), Args: args}
}

func (w *walker) parseSubscript(n *sitter.Node) Expression {
	val := n.ChildByFieldName("value")
	loc := w.loc(n)
	// a lone slice subscript (a[i:j]) surfaces as a "slice" child node.
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "slice" {
			sl := &Slice{base: base{Location: loc}, Value: w.parseExpr(val)}
			if lo := c.ChildByFieldName("start"); lo != nil {
				sl.Lower = w.parseExpr(lo)
			}
			if hi := c.ChildByFieldName("stop"); hi != nil {
				sl.Upper = w.parseExpr(hi)
			}
			if st := c.ChildByFieldName("step"); st != nil {
				sl.Step = w.parseExpr(st)
			}
			return sl
		}
	}
	idx := n.NamedChild(1)
	return &Subscript{base: base{Location: loc}, Value: w.parseExpr(val), Index: w.parseExpr(idx)}
}

func (w *walker) parseExprList(n *sitter.Node) []Expression {
	var out []Expression
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, w.parseExpr(n.NamedChild(i)))
	}
	return out
}

func (w *walker) parseDict(n *sitter.Node) Expression {
	d := &DictLit{base: base{Location: w.loc(n)}}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		d.Entries = append(d.Entries, DictEntry{
			Key:   w.parseExpr(pair.ChildByFieldName("key")),
			Value: w.parseExpr(pair.ChildByFieldName("value")),
		})
	}
	return d
}

func (w *walker) parseClause(n *sitter.Node) Comprehension {
	var c Comprehension
	fors, ifs := 0, 0
	for i := 0; i < int(n.ChildCount()); i++ {
		cc := n.Child(i)
		switch cc.Type() {
		case "for_in_clause":
			fors++
			if t := cc.ChildByFieldName("left"); t != nil {
				c.Target = w.parseExpr(t)
			}
			if it := cc.ChildByFieldName("right"); it != nil {
				c.Iter = w.parseExpr(it)
			}
		case "if_clause":
			ifs++
			if cond := cc.NamedChild(0); cond != nil {
				c.Filter = w.parseExpr(cond)
			}
		}
	}
	if fors > 1 || ifs > 1 {
		w.reject(diag.ECodeUnsupportedGenerator, n, "comprehensions with more than one for or if clause are not supported")
	}
	return c
}

func (w *walker) parseListComp(n *sitter.Node) Expression {
	return &ListComp{base: base{Location: w.loc(n)}, Elem: w.parseExpr(n.ChildByFieldName("body")), Clause: w.parseClause(n)}
}

func (w *walker) parseSetComp(n *sitter.Node) Expression {
	return &SetComp{base: base{Location: w.loc(n)}, Elem: w.parseExpr(n.ChildByFieldName("body")), Clause: w.parseClause(n)}
}

func (w *walker) parseDictComp(n *sitter.Node) Expression {
	body := n.ChildByFieldName("body")
	dc := &DictComp{base: base{Location: w.loc(n)}, Clause: w.parseClause(n)}
	if body != nil && body.Type() == "pair" {
		dc.Key = w.parseExpr(body.ChildByFieldName("key"))
		dc.Value = w.parseExpr(body.ChildByFieldName("value"))
	}
	return dc
}

func (w *walker) parseLambda(n *sitter.Node) Expression {
	params := n.ChildByFieldName("parameters")
	param := ""
	if params != nil && params.NamedChildCount() > 0 {
		param = w.text(params.NamedChild(0))
	}
	body := n.ChildByFieldName("body")
	return &Lambda{base: base{Location: w.loc(n)}, Param: param, Body: w.parseExpr(body)}
}
