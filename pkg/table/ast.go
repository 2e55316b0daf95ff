package table

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ToAST converts t to the Shape AST: an ArrayDataNode of rows, each an
// ArrayDataNode of LiteralNode fields. Rows are padded to the column count.
func ToAST(t *Table) *ast.ArrayDataNode {
	records := make([]ast.SchemaNode, t.Rows())
	for r := range records {
		row := t.Row(r)
		fields := make([]ast.SchemaNode, len(row))
		for i, f := range row {
			fields[i] = ast.NewLiteralNode(f, ast.ZeroPosition())
		}
		records[r] = ast.NewArrayDataNode(fields, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition())
}

// FromAST builds a table from the shape produced by ToAST. Literal values
// that are not strings are formatted with %v.
func FromAST(node ast.SchemaNode) (*Table, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	t := &Table{}
	for i, elem := range arrayNode.Elements() {
		recordNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("record %d: expected *ast.ArrayDataNode, got %T", i, elem)
		}
		fields := make([]string, 0, len(recordNode.Elements()))
		for j, fieldNode := range recordNode.Elements() {
			literalNode, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("record %d field %d: expected *ast.LiteralNode, got %T", i, j, fieldNode)
			}
			switch v := literalNode.Value().(type) {
			case string:
				fields = append(fields, v)
			case nil:
				fields = append(fields, "")
			default:
				fields = append(fields, fmt.Sprint(v))
			}
		}
		t.Append(fields)
	}
	return t, nil
}

// ToAST converts the document table. See ToAST.
func (d *Document) ToAST() *ast.ArrayDataNode {
	return ToAST(d.Table)
}
