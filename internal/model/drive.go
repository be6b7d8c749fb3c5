package model

// Folder is a node of the hierarchical document store. The store owns node
// lifecycle; this service only reads structure and mutates editor grants.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type File struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Owner string `json:"owner,omitempty"` // email of the owning identity
}
