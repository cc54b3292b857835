package tree

// Property represents a property of a [Node]. It is a key-value-pair, where
// the value is either a single value or a list of values.
// A single-value property is printed as `key=value` and a multi-value
// property as `key=(value1, value2, ...)`.
type Property struct {
	Key          string
	Values       []any
	IsMultiValue bool
}

// NewProperty creates a new Property. The multi parameter determines if the
// property is printed as a list.
func NewProperty(key string, multi bool, values ...any) Property {
	return Property{
		Key:          key,
		Values:       values,
		IsMultiValue: multi,
	}
}

// Node is one line of a printed plan. Plans of any kind (logical or physical)
// are converted into a Node hierarchy before printing.
type Node struct {
	// Name is the display name of the node, usually its kind.
	Name string
	// Properties contains the key-value properties shown next to the name.
	Properties []Property
	// Children are the inputs of the node.
	Children []*Node
	// Comments are printed one level deeper than children and are used for
	// tree-style attributes such as expressions.
	Comments []*Node
}

// NewNode creates a new node with the given name and properties.
func NewNode(name string, properties ...Property) *Node {
	return &Node{
		Name:       name,
		Properties: properties,
	}
}

// AddChild appends child to the children of n and returns child.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// AddComment creates a new comment node and attaches it to n.
func (n *Node) AddComment(name string, properties ...Property) *Node {
	node := NewNode(name, properties...)
	n.Comments = append(n.Comments, node)
	return node
}

// String returns the single line representation of n: its name followed by
// its properties.
func (n *Node) String() string {
	return formatLine(n)
}
