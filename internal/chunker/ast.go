package chunker

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// classMember groups the AST nodes that matter for the parent–child split:
// the property declarations and the method definitions (constructor
// included), in declaration order. Use partitionMethods to split the
// constructor out of methods.
type classMember struct {
	properties []*sitter.Node
	methods    []*sitter.Node
}

// topLevelImports returns every import_statement that is a direct child of
// the program root, in source order — the file's "raw import block"
// (spec §4.2).
func topLevelImports(root *sitter.Node) []*sitter.Node {
	var imports []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "import_statement" {
			imports = append(imports, child)
		}
	}
	return imports
}

// topLevelClasses returns every top-level class declaration, unwrapping a
// leading export/export-default statement (spec §4.2: "every top-level
// class declaration").
func topLevelClasses(root *sitter.Node) []*sitter.Node {
	var classes []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "class_declaration", "abstract_class_declaration":
			classes = append(classes, child)
		case "export_statement":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				if inner.Type() == "class_declaration" || inner.Type() == "abstract_class_declaration" {
					classes = append(classes, inner)
				}
			}
		}
	}
	return classes
}

// decoratorsOf returns the decorator nodes that are leading named children
// of node (class_declaration, method_definition, or public_field_definition
// all place repeated decorators as their first named children in the
// TypeScript grammar).
func decoratorsOf(node *sitter.Node) []*sitter.Node {
	var decorators []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, child)
		}
	}
	return decorators
}

// decoratorNames extracts the bare identifier name from each decorator
// (e.g. "@Injectable()" -> "Injectable").
func decoratorNames(decorators []*sitter.Node, source []byte) []string {
	names := make([]string, 0, len(decorators))
	for _, d := range decorators {
		text := d.Content(source)
		text = strings.TrimPrefix(text, "@")
		if idx := strings.IndexAny(text, "(. \t\n"); idx >= 0 {
			text = text[:idx]
		}
		names = append(names, text)
	}
	return names
}

// classNameOf returns the class's identifier text, or "" if unavailable.
func classNameOf(classNode *sitter.Node, source []byte) string {
	nameNode := classNode.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return nameNode.Content(source)
}

// membersOf partitions a class's body into properties and method
// definitions (constructor included), in declaration order;
// partitionMethods then splits the first constructor out of the methods.
func membersOf(classNode *sitter.Node) classMember {
	var m classMember
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return m
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "public_field_definition", "field_definition":
			m.properties = append(m.properties, member)
		case "method_definition":
			m.methods = append(m.methods, member)
		}
	}
	return m
}

// partitionMethods splits methods into the first constructor (if any) and
// the remaining methods, using source text to identify "constructor" by
// name since sitter.Node.Content requires the source bytes.
func partitionMethods(methods []*sitter.Node, source []byte) (constructor *sitter.Node, rest []*sitter.Node) {
	for _, method := range methods {
		nameNode := method.ChildByFieldName("name")
		if constructor == nil && nameNode != nil && nameNode.Content(source) == "constructor" {
			constructor = method
			continue
		}
		rest = append(rest, method)
	}
	return constructor, rest
}

// methodNameOf returns a method's name, or "" if unavailable.
func methodNameOf(methodNode *sitter.Node, source []byte) string {
	nameNode := methodNode.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return nameNode.Content(source)
}

// methodSignature renders "name(params): returnType;" for the skeleton,
// excluding the method body (spec §4.2 "Skeleton generation").
func methodSignature(methodNode *sitter.Node, source []byte) string {
	name := methodNameOf(methodNode, source)

	params := ""
	if p := methodNode.ChildByFieldName("parameters"); p != nil {
		params = p.Content(source)
	} else {
		params = "()"
	}

	returnType := ""
	if rt := methodNode.ChildByFieldName("return_type"); rt != nil {
		returnType = strings.TrimSpace(strings.TrimPrefix(rt.Content(source), ":"))
	} else {
		returnType = "void"
	}

	return name + params + ": " + returnType + ";"
}

// importSource returns the stripped (quote-free) module specifier of an
// import_statement node, or "" if it has no source field.
func importSource(importNode *sitter.Node, source []byte) string {
	src := importNode.ChildByFieldName("source")
	if src == nil {
		return ""
	}
	text := src.Content(source)
	return strings.Trim(text, `"'`)
}
