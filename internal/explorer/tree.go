package explorer

import "strings"

// Leaf is a file entry in the tree.
type Leaf struct {
	Name string
	Link string
}

// Node is a folder. Subfolders and files are kept apart and both preserve
// first-seen order.
type Node struct {
	Key     string // path segment as written in the files table
	Name    string // display name
	Folders []*Node
	Files   []Leaf

	index map[string]*Node
}

func newNode(key, name string) *Node {
	return &Node{Key: key, Name: name, index: make(map[string]*Node)}
}

// Folder returns the direct subfolder with the given path segment.
func (n *Node) Folder(key string) (*Node, bool) {
	child, ok := n.index[key]
	return child, ok
}

// Lookup follows path segments from n.
func (n *Node) Lookup(path []string) (*Node, bool) {
	cur := n
	for _, seg := range path {
		next, ok := cur.Folder(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Count returns the number of files under n.
func (n *Node) Count() int {
	total := len(n.Files)
	for _, f := range n.Folders {
		total += f.Count()
	}
	return total
}

func (n *Node) child(key string, name func(string) string) *Node {
	if c, ok := n.index[key]; ok {
		return c
	}
	c := newNode(key, name(key))
	n.index[key] = c
	n.Folders = append(n.Folders, c)
	return c
}

// Tree is a subject's folder hierarchy plus its files in table order.
type Tree struct {
	Root  *Node
	Files []Leaf
}

// Build folds records into a tree. Blank path segments are dropped.
// folderName maps a path segment to its display name; nil keeps segments as
// written. A record without a display
// name is shown by its link.
func Build(records []Record, folderName func(string) string) *Tree {
	if folderName == nil {
		folderName = func(s string) string { return s }
	}

	t := &Tree{Root: newNode("", "")}
	for _, r := range records {
		cur := t.Root
		for _, seg := range r.Path {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			cur = cur.child(seg, folderName)
		}

		leaf := Leaf{Name: r.DisplayName, Link: r.Link}
		if leaf.Name == "" {
			leaf.Name = r.Link
		}
		cur.Files = append(cur.Files, leaf)
		t.Files = append(t.Files, leaf)
	}
	return t
}

// Empty reports whether the tree has no files.
func (t *Tree) Empty() bool {
	return len(t.Files) == 0
}

// Neighbors returns the files before and after link in the linear list.
// ok is false when link is not in the tree.
func (t *Tree) Neighbors(link string) (prev, next *Leaf, ok bool) {
	for i := range t.Files {
		if t.Files[i].Link != link {
			continue
		}
		if i > 0 {
			prev = &t.Files[i-1]
		}
		if i+1 < len(t.Files) {
			next = &t.Files[i+1]
		}
		return prev, next, true
	}
	return nil, nil, false
}

// Contains reports whether link is one of the tree's files.
func (t *Tree) Contains(link string) bool {
	_, _, ok := t.Neighbors(link)
	return ok
}
