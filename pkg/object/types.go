package object

// ObjectType is the type tag found in an object header.
type ObjectType string

const (
	TypeBlob ObjectType = "blob"
	TypeTree ObjectType = "tree"

	// Commits and tags exist in the store but are not decoded here.
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// ModeDir marks a tree entry that references another tree. It is the
	// only mode that changes an entry's kind.
	ModeDir        uint32 = 0o40000
	ModeFile       uint32 = 0o100644
	ModeExecutable uint32 = 0o100755
	ModeSymlink    uint32 = 0o120000
	ModeGitlink    uint32 = 0o160000
)

// Object is a decoded store object: either a *Blob or a *Tree.
type Object interface {
	Type() ObjectType
	isObject()
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

func (*Blob) Type() ObjectType { return TypeBlob }
func (*Blob) isObject()        {}

// Tree holds the entries of a directory listing in on-disk order.
type Tree struct {
	Entries []Entry
}

func (*Tree) Type() ObjectType { return TypeTree }
func (*Tree) isObject()        {}

// EntryKind says what a tree entry points at.
type EntryKind uint8

const (
	KindFlat EntryKind = iota
	KindDirectory
)

func (k EntryKind) String() string {
	if k == KindDirectory {
		return string(TypeTree)
	}
	return string(TypeBlob)
}

// KindForMode classifies a tree entry mode.
func KindForMode(mode uint32) EntryKind {
	if mode == ModeDir {
		return KindDirectory
	}
	return KindFlat
}

// Entry is one record of a tree object.
type Entry struct {
	Mode uint32
	Kind EntryKind
	Name string
	ID   ID
}

// IsDir reports whether the entry references a tree.
func (e Entry) IsDir() bool { return e.Kind == KindDirectory }

// Header is the parsed "type size\0" prefix of a decompressed object.
type Header struct {
	Type ObjectType
	Size int // declared body size
	Len  int // bytes occupied by the header itself
}
