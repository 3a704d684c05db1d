// Package config loads declarative stack definition files written in HCL
// and assembles them into a construct tree. Attribute expressions are
// analyzed statically rather than evaluated: a traversal like
// iam_role.runner.arn becomes a deferred token against that resource's
// output, and template strings become lazily-composed values, so nothing
// is concatenated before resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/stacksynth/stacksynth/construct"
	"github.com/stacksynth/stacksynth/diags"
)

// Parser wraps an hclparse.Parser so loaded files are cached and their
// source is available for diagnostic rendering.
type Parser struct {
	p *hclparse.Parser
}

// NewParser returns a new stack definition parser.
func NewParser() *Parser {
	return &Parser{p: hclparse.NewParser()}
}

// Sources exposes the parsed source files keyed by filename, for
// diagnostic printers that want to show source snippets.
func (p *Parser) Sources() map[string]*hcl.File {
	return p.p.Files()
}

var stackFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "stack"},
		{Type: "resource", LabelNames: []string{"type", "name"}},
		{Type: "workflow", LabelNames: []string{"name"}},
	},
}

var stackBlockSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "required_version"},
	},
}

// LoadStackDir loads every .hcl file in dir (sorted by name) into one
// construct tree.
func (p *Parser) LoadStackDir(dir string) (*construct.Tree, diags.Diagnostics) {
	var d diags.Diagnostics
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, d.Append(diags.Sourceless(diags.Error,
			"Failed to read stack directory",
			fmt.Sprintf("The directory %q could not be read: %s.", dir, err)))
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".hcl") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, d.Append(diags.Sourceless(diags.Error,
			"No stack definition files",
			fmt.Sprintf("The directory %q contains no .hcl files.", dir)))
	}
	return p.loadFiles(paths)
}

// LoadStackFile loads a single stack definition file.
func (p *Parser) LoadStackFile(path string) (*construct.Tree, diags.Diagnostics) {
	return p.loadFiles([]string{path})
}

func (p *Parser) loadFiles(paths []string) (*construct.Tree, diags.Diagnostics) {
	var d diags.Diagnostics

	type resourceBlock struct {
		typ, name string
		body      *hclsyntax.Body
		defRange  hcl.Range
	}
	type workflowBlock struct {
		name     string
		body     *hclsyntax.Body
		defRange hcl.Range
	}

	var resources []resourceBlock
	var workflows []workflowBlock
	stackSeen := false

	for _, path := range paths {
		file, parseDiags := p.p.ParseHCLFile(path)
		d = d.Append(parseDiags)
		if file == nil {
			continue
		}
		content, contentDiags := file.Body.Content(stackFileSchema)
		d = d.Append(contentDiags)

		for _, block := range content.Blocks {
			switch block.Type {
			case "stack":
				if stackSeen {
					d = d.Append(&hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Duplicate stack block",
						Detail:   "A stack definition may contain only one stack block.",
						Subject:  &block.DefRange,
					})
					continue
				}
				stackSeen = true
				d = d.Append(decodeStackBlock(block))
			case "resource":
				body, ok := block.Body.(*hclsyntax.Body)
				if !ok {
					d = d.Append(&hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Unsupported syntax",
						Detail:   "Stack definitions must use HCL native syntax.",
						Subject:  &block.DefRange,
					})
					continue
				}
				resources = append(resources, resourceBlock{
					typ:      block.Labels[0],
					name:     block.Labels[1],
					body:     body,
					defRange: block.DefRange,
				})
			case "workflow":
				body, ok := block.Body.(*hclsyntax.Body)
				if !ok {
					d = d.Append(&hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Unsupported syntax",
						Detail:   "Stack definitions must use HCL native syntax.",
						Subject:  &block.DefRange,
					})
					continue
				}
				workflows = append(workflows, workflowBlock{
					name:     block.Labels[0],
					body:     body,
					defRange: block.DefRange,
				})
			}
		}
	}
	if d.HasErrors() {
		return nil, d
	}

	// First pass: declare every resource so forward references resolve.
	tree := construct.NewTree()
	l := &loader{tree: tree, nodes: make(map[string]*construct.Node)}
	for _, rb := range resources {
		addr := rb.typ + "." + rb.name
		node, err := tree.AddResource(rb.typ, addr)
		if err != nil {
			d = d.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate resource",
				Detail:   fmt.Sprintf("A resource %q was already declared.", addr),
				Subject:  &rb.defRange,
			})
			continue
		}
		l.nodes[addr] = node
	}
	if d.HasErrors() {
		return nil, d
	}

	// Second pass: decode inputs and workflow documents.
	for _, rb := range resources {
		node := l.nodes[rb.typ+"."+rb.name]
		obj, bodyDiags := l.decodeBody(rb.body)
		d = d.Append(bodyDiags)
		if bodyDiags.HasErrors() {
			continue
		}
		for _, key := range obj.Keys() {
			if err := node.SetInput(key, obj.Get(key)); err != nil {
				d = d.Append(diags.Sourceless(diags.Error,
					"Invalid resource input", err.Error()))
			}
		}
	}
	for _, wb := range workflows {
		root, bodyDiags := l.decodeBody(wb.body)
		d = d.Append(bodyDiags)
		if bodyDiags.HasErrors() {
			continue
		}
		if _, err := tree.AddDoc(wb.name, root); err != nil {
			d = d.Append(diags.Sourceless(diags.Error,
				"Invalid workflow document", err.Error()))
		}
	}

	if d.HasErrors() {
		return nil, d
	}
	return tree, d
}

// loader carries the shared state of one load: the tree being built and
// the declared nodes by address.
type loader struct {
	tree  *construct.Tree
	nodes map[string]*construct.Node
}
