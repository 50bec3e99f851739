package workspace

// Item is one opened file or folder.
type Item struct {
	ID          string  `json:"id"`
	ParentID    string  `json:"parent_id,omitempty"`
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	IsDirectory bool    `json:"is_directory"`
	IsNote      bool    `json:"is_note"`
	Children    []*Item `json:"children"`
}

// clone returns a deep copy of the item and its children.
func (it *Item) clone() *Item {
	cp := *it
	if it.Children != nil {
		cp.Children = make([]*Item, len(it.Children))
		for i, child := range it.Children {
			cp.Children[i] = child.clone()
		}
	}
	return &cp
}

// walk calls fn for the item and every descendant, parents first.
func (it *Item) walk(fn func(*Item)) {
	fn(it)
	for _, child := range it.Children {
		child.walk(fn)
	}
}
