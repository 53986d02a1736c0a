package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types of the formula language.
const (
	// Literals
	NodeDecimal NodeType = "decimal" // 123.45
	NodeMoney   NodeType = "money"   // 10.12EUR
	NodeInteger NodeType = "integer" // 42
	NodeBoolean NodeType = "boolean" // true/false
	NodeString  NodeType = "string"  // "text"

	NodeIdentifier  NodeType = "identifier"  // policy.premium
	NodeBinary      NodeType = "binary"      // +, -, *, /, =, <>, <, >, <=, >=
	NodeUnary       NodeType = "unary"       // +, -
	NodeFunction    NodeType = "function"    // NAME(arg; arg)
	NodeParenthesis NodeType = "parenthesis" // ( expr )
)

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type     NodeType
	Value    string // Literal text, identifier, operator symbol or function name
	Position int

	// Relations
	LHS       *ASTNode   // Left operand (binary), operand (unary), inner expression (parenthesis)
	RHS       *ASTNode   // Right operand (binary)
	Arguments []*ASTNode // Function arguments
}

// NewASTNode creates a new AST node of the specified type.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
