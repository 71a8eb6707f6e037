package frontend

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/simplec/cflow/pkg/cfg"
)

// cBuilder walks one parsed translation unit and feeds construction events
// to the current function's graph. Fragment discipline mirrors the token
// stream the renderer expects: a 4-space indent fragment per statement,
// each token leaf with one trailing space, bare control keywords, and a
// final "\n" fragment.
type cBuilder struct {
	src  []byte
	prog *cfg.Program
	g    *cfg.Graph
}

// ParseFile reads a simple-C file and builds its program.
func ParseFile(path string) (*cfg.Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return Parse(content, path)
}

// Parse builds a program from source text. The source name is only echoed
// in the program header.
func Parse(content []byte, name string) (*cfg.Program, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	tree := parser.Parse(nil, content)
	defer tree.Close()

	b := &cBuilder{src: content, prog: cfg.NewProgram(name)}

	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "function_definition":
			b.buildFunction(child)
		case "comment":
		default:
			// File-scope declarations are a plain pass-through list.
			b.prog.Globals.Lines = append(b.prog.Globals.Lines, "    ")
			b.leaves(child, func(text string) {
				b.prog.Globals.Lines = append(b.prog.Globals.Lines, text+" ")
			})
			b.prog.Globals.Lines = append(b.prog.Globals.Lines, "\n")
		}
	}

	return b.prog, nil
}

// ListFunctions returns the functions defined in a source file.
func ListFunctions(path string) ([]FunctionInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	tree := parser.Parse(nil, content)
	defer tree.Close()

	b := &cBuilder{src: content}

	var funcs []FunctionInfo
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil || child.Type() != "function_definition" {
			continue
		}
		decl := functionDeclarator(child.ChildByFieldName("declarator"))
		if decl == nil {
			continue
		}
		nameNode := decl.ChildByFieldName("declarator")
		if nameNode == nil {
			continue
		}
		var ret, params []string
		b.leaves(child.ChildByFieldName("type"), func(t string) { ret = append(ret, t) })
		b.paramLeaves(decl.ChildByFieldName("parameters"), func(t string) { params = append(params, t) })
		funcs = append(funcs, FunctionInfo{
			Name:    nameNode.Content(content),
			RetType: strings.Join(ret, " "),
			Params:  strings.Join(params, " "),
		})
	}
	return funcs, nil
}

// functionDeclarator unwraps pointer declarators down to the
// function_declarator carrying the name and parameter list.
func functionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		if n.Type() == "function_declarator" {
			return n
		}
		n = n.ChildByFieldName("declarator")
	}
	return nil
}

func (b *cBuilder) buildFunction(node *sitter.Node) {
	decl := functionDeclarator(node.ChildByFieldName("declarator"))
	if decl == nil {
		return
	}
	nameNode := decl.ChildByFieldName("declarator")
	if nameNode == nil {
		return
	}

	b.g = cfg.New(nameNode.Content(b.src))
	b.prog.AddFunc(b.g)

	b.leaves(node.ChildByFieldName("type"), func(text string) {
		b.g.RetType = append(b.g.RetType, text+" ")
	})
	b.paramLeaves(decl.ChildByFieldName("parameters"), func(text string) {
		b.g.Args = append(b.g.Args, text+" ")
	})

	b.visitStmt(node.ChildByFieldName("body"))
	b.g = nil
}

// visitStmt dispatches one statement. The construct set is closed:
// sequence, if, while, for, return; everything else is a plain line.
func (b *cBuilder) visitStmt(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "compound_statement":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "{", "}", "comment":
			default:
				b.visitStmt(child)
			}
		}

	case "if_statement":
		b.visitIf(node)

	case "while_statement":
		b.visitWhile(node)

	case "for_statement":
		b.visitFor(node)

	case "return_statement":
		b.emitLine(node)
		b.g.SealToExit()

	case "comment":

	default:
		b.emitLine(node)
	}
}

// visitIf builds both arms of a branch. The condition text lands in the
// pre-branch block; the anonymous join spliced by OpenBranchScope becomes
// the block statements resume into after CloseScope.
func (b *cBuilder) visitIf(node *sitter.Node) {
	b.g.AppendLine("    ")
	b.g.AppendLine("if")
	b.emitTokens(node.ChildByFieldName("condition"))

	if !b.g.OpenBranchScope() {
		return
	}

	b.g.ResetToScopeStart()
	branch := b.g.Current()

	b.g.Advance()
	b.g.SetThen(branch, b.g.Current())
	b.visitStmt(node.ChildByFieldName("consequence"))

	b.g.ResetToScopeStart()
	b.g.Advance()
	b.g.SetElse(branch, b.g.Current())
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		b.visitStmt(elseBody(alt))
	}

	b.g.CloseScope()
}

func (b *cBuilder) visitWhile(node *sitter.Node) {
	if !b.g.OpenLoopScope() {
		return
	}
	b.g.AppendLine("    ")
	b.g.AppendLine("while")
	b.emitTokens(node.ChildByFieldName("condition"))

	b.g.Advance()
	b.visitStmt(node.ChildByFieldName("body"))

	if !b.g.CloseScope() {
		return
	}
	header := b.g.Current()
	b.g.Advance()
	b.g.SetLoopExit(header, b.g.Current())
}

// visitFor lowers a for into while shape: the init statement precedes the
// header, the update lives in an anonymous segment between the body and
// the back edge, and both scopes close before the loop exit is recorded.
func (b *cBuilder) visitFor(node *sitter.Node) {
	b.g.AppendLine("    ")
	b.emitTokens(node.ChildByFieldName("initializer"))
	b.g.AppendLine("; ")
	b.g.AppendLine("\n")

	if !b.g.OpenLoopScope() {
		return
	}
	b.g.AppendLine("    ")
	b.g.AppendLine("for")
	b.g.AppendLine("( ")
	b.g.AppendLine("; ")
	b.emitTokens(node.ChildByFieldName("condition"))
	b.g.AppendLine("; ")
	b.g.AppendLine(") ")

	b.g.Advance()
	if !b.g.OpenBranchScope() {
		return
	}
	b.g.AppendLine("    ")
	b.emitTokens(node.ChildByFieldName("update"))
	b.g.AppendLine("; ")
	b.g.AppendLine("\n")

	b.g.ResetToScopeStart()
	b.visitStmt(node.ChildByFieldName("body"))

	if !b.g.CloseScope() {
		return
	}
	if !b.g.CloseScope() {
		return
	}
	header := b.g.Current()
	b.g.Advance()
	b.g.SetLoopExit(header, b.g.Current())
}

// emitLine emits a whole statement as one line: indent, token fragments,
// newline.
func (b *cBuilder) emitLine(node *sitter.Node) {
	b.g.AppendLine("    ")
	b.emitTokens(node)
	b.g.AppendLine("\n")
}

func (b *cBuilder) emitTokens(node *sitter.Node) {
	b.leaves(node, func(text string) {
		b.g.AppendLine(text + " ")
	})
}

// leaves walks the concrete syntax tree under node and yields each token
// leaf's text, skipping comments.
func (b *cBuilder) leaves(node *sitter.Node, fn func(text string)) {
	if node == nil || node.Type() == "comment" {
		return
	}
	if node.ChildCount() == 0 {
		fn(node.Content(b.src))
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		b.leaves(node.Child(i), fn)
	}
}

// paramLeaves yields parameter list tokens without the surrounding parens,
// matching the signature token lists in the entry stanza.
func (b *cBuilder) paramLeaves(node *sitter.Node, fn func(text string)) {
	b.leaves(node, func(text string) {
		if text == "(" || text == ")" {
			return
		}
		fn(text)
	})
}

// elseBody returns the statement under an else clause.
func elseBody(alt *sitter.Node) *sitter.Node {
	if alt.Type() != "else_clause" {
		return alt
	}
	return alt.NamedChild(0)
}
