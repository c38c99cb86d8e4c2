package domain

// Catalogue is a free-text label grouping books (a shelf), many-to-many
// with books. Names are matched exactly, case-sensitive: "Programming" and
// "programming" are distinct catalogues. A catalogue only exists while at
// least one book links to it; orphans are pruned immediately.
type Catalogue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
