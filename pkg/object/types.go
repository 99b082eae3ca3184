package object

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

func (t ObjectType) valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir  = "40000"
	TreeModeFile = "100644"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Mode determines the kind:
// TreeModeDir entries reference a tree, TreeModeFile entries a blob.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry references a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == TreeModeDir
}

// Kind returns the object type the entry references.
func (e TreeEntry) Kind() ObjectType {
	if e.IsDir() {
		return TypeTree
	}
	return TypeBlob
}

// Tree holds the entries of one directory level, sorted by Name.
type Tree struct {
	Entries []TreeEntry
}

// Commit points to a root tree with history metadata. The first parent is
// the mainline parent followed by history traversal.
//
// An empty Committer is written as Author, so it is not canonical: parsing
// the result yields Committer == Author. Build commits with Committer set
// when the value must survive a round trip unchanged.
type Commit struct {
	TreeHash  Hash
	Parents   []Hash
	Author    string
	Committer string
	Timestamp int64
	Message   string
}
