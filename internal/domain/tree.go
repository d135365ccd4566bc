package domain

// TreeNode is a node of the display tree built from an ontology. A tag with
// several parents appears once under each of them.
type TreeNode struct {
	Name        string
	Kind        NodeKind
	EnglishName string
	Type        string
	Synonyms    []string
	Children    []*TreeNode
	IsExpanded  bool
	Parent      *TreeNode
}

// BuildTree returns the display tree rooted at the root category, with
// the root expanded
func (o *Ontology) BuildTree() *TreeNode {
	root := o.buildNode(o.root, nil, map[string]bool{})
	root.IsExpanded = true
	return root
}

func (o *Ontology) buildNode(name string, parent *TreeNode, onPath map[string]bool) *TreeNode {
	t := o.tags[name]
	node := &TreeNode{
		Name:        name,
		Kind:        KindOf(name),
		EnglishName: t.EnglishName,
		Type:        t.Type,
		Synonyms:    cloneNames(t.Synonyms),
		Parent:      parent,
	}
	onPath[name] = true
	for _, child := range t.Children {
		if _, ok := o.tags[child]; !ok || onPath[child] {
			continue
		}
		node.Children = append(node.Children, o.buildNode(child, node, onPath))
	}
	delete(onPath, name)
	return node
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// Path returns the names from the root down to this node
func (n *TreeNode) Path() []string {
	var path []string
	for cur := n; cur != nil; cur = cur.Parent {
		path = append([]string{cur.Name}, path...)
	}
	return path
}

// Find returns the first node named name in depth-first order, or nil
func (n *TreeNode) Find(name string) *TreeNode {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// ExpandAll expands the node and every node below it
func (n *TreeNode) ExpandAll() {
	n.IsExpanded = true
	for _, child := range n.Children {
		child.ExpandAll()
	}
}
