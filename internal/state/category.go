package state

import (
	"errors"
	"sync"
)

// RootCategoryID is the id of the synthetic "All Categories" node.
const RootCategoryID = 0

// ErrDuplicateCategory is returned when adding a category whose id exists.
var ErrDuplicateCategory = errors.New("category already exists")

// categoryNode is a single category in the tree. Nodes reference their
// parent and children by id; the tree owns every node in one registry.
type categoryNode struct {
	id       int64
	name     string
	parentID int64
	children []int64
	products map[int64]struct{}
}

// CategoryTreeView is the serializable form of a category subtree.
type CategoryTreeView struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Children     []*CategoryTreeView `json:"children"`
	ProductCount int                 `json:"product_count"`
}

// CategoryTree indexes product categories as a forest under a synthetic
// root node. Each node carries the set of products directly assigned to
// it; the root additionally mirrors every active product so it serves as
// the "browse everything" view. Reads are frequent and writes are rare,
// so access is guarded by a read-write lock.
type CategoryTree struct {
	mu    sync.RWMutex
	nodes map[int64]*categoryNode
}

// NewCategoryTree creates a tree containing only the root node.
func NewCategoryTree() *CategoryTree {
	root := &categoryNode{
		id:       RootCategoryID,
		name:     "All Categories",
		products: make(map[int64]struct{}),
	}
	return &CategoryTree{
		nodes: map[int64]*categoryNode{RootCategoryID: root},
	}
}

// AddCategory attaches a new category under parentID, falling back to the
// root when the parent is unknown. Returns ErrDuplicateCategory if the id
// is already taken.
func (t *CategoryTree) AddCategory(id int64, name string, parentID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.nodes[id]; ok {
		return ErrDuplicateCategory
	}

	parent, ok := t.nodes[parentID]
	if !ok {
		parent = t.nodes[RootCategoryID]
	}

	t.nodes[id] = &categoryNode{
		id:       id,
		name:     name,
		parentID: parent.id,
		products: make(map[int64]struct{}),
	}
	parent.children = append(parent.children, id)
	return nil
}

// HasCategory reports whether the category id is known to the tree.
func (t *CategoryTree) HasCategory(id int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.nodes[id]
	return ok
}

// AddProduct records the product under categoryID and, regardless of which
// category owns it, under the root so the root always reflects the full
// active catalog. Adding an already-present product is a no-op.
func (t *CategoryTree) AddProduct(categoryID, productID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if node, ok := t.nodes[categoryID]; ok {
		node.products[productID] = struct{}{}
	}
	t.nodes[RootCategoryID].products[productID] = struct{}{}
}

// RemoveProduct drops the product from every category, including the root.
// Used when a product is deleted or moved to another category.
func (t *CategoryTree) RemoveProduct(productID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, node := range t.nodes {
		delete(node.products, productID)
	}
}

// ProductsIn returns the union of product ids owned by the category and
// all of its descendants, without duplicates. Unknown ids yield an empty
// result.
func (t *CategoryTree) ProductsIn(categoryID int64) []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[categoryID]
	if !ok {
		return nil
	}

	seen := make(map[int64]struct{})
	var ids []int64

	stack := []*categoryNode{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for id := range n.products {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		for _, childID := range n.children {
			if child, ok := t.nodes[childID]; ok {
				stack = append(stack, child)
			}
		}
	}
	return ids
}

// Tree returns the serializable category tree rooted at "All Categories".
func (t *CategoryTree) Tree() *CategoryTreeView {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view(t.nodes[RootCategoryID])
}

// view builds the serializable form of node. Caller must hold t.mu.
func (t *CategoryTree) view(node *categoryNode) *CategoryTreeView {
	v := &CategoryTreeView{
		ID:           node.id,
		Name:         node.name,
		Children:     []*CategoryTreeView{},
		ProductCount: len(node.products),
	}
	for _, childID := range node.children {
		if child, ok := t.nodes[childID]; ok {
			v.Children = append(v.Children, t.view(child))
		}
	}
	return v
}
