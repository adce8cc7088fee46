package object

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/odvcencio/gitcat/pkg/logutil"
	"go.uber.org/zap"
)

// maxHeaderLen bounds how much of an object ReadHeader inflates. The longest
// valid header is "blob " plus a 19-digit size and the NUL.
const maxHeaderLen = 64

// Store reads zlib-compressed loose objects laid out with a 2-character
// fan-out directory: objects/ab/cdef0123...
type Store struct {
	root   string
	logger *zap.Logger
	verify bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for debug tracing of reads.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVerify makes every read check the SHA-1 of the decompressed object
// against the requested identifier.
func WithVerify(verify bool) StoreOption {
	return func(s *Store) {
		s.verify = verify
	}
}

// NewStore creates a Store rooted at the given directory, normally the
// repository's .git directory.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory the store was opened at.
func (s *Store) Root() string { return s.root }

// ObjectPath returns the filesystem path for a given identifier.
func (s *Store) ObjectPath(id ID) string {
	h := id.String()
	return filepath.Join(s.root, "objects", h[:2], h[2:])
}

// Has reports whether the store contains a loose object with the given id.
func (s *Store) Has(id ID) bool {
	_, err := os.Stat(s.ObjectPath(id))
	return err == nil
}

// ReadRaw returns the fully inflated bytes of an object, header included.
func (s *Store) ReadRaw(id ID) (_ []byte, retErr error) {
	defer logutil.DeferWithError(s.logger, "object read raw", &retErr, zap.Stringer("id", id))()

	f, err := s.open(id)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("object read %s: zlib reader: %w", id, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("object read %s: decompress: %w", id, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("object read %s: close zlib stream: %w", id, err)
	}

	if s.verify {
		if actual := HashRaw(raw); actual != id {
			return nil, fmt.Errorf("object read %s: %w (computed %s)", id, ErrHashMismatch, actual)
		}
	}
	return raw, nil
}

// ReadHeader inflates only the beginning of an object and parses its header.
func (s *Store) ReadHeader(id ID) (Header, error) {
	f, err := s.open(id)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return Header{}, fmt.Errorf("object header %s: zlib reader: %w", id, err)
	}
	defer zr.Close()

	prefix, err := io.ReadAll(io.LimitReader(zr, maxHeaderLen))
	if err != nil {
		return Header{}, fmt.Errorf("object header %s: decompress: %w", id, err)
	}
	hdr, err := ParseHeader(NewCursor(prefix))
	if err != nil {
		return Header{}, fmt.Errorf("object header %s: %w", id, err)
	}
	return hdr, nil
}

// Read retrieves and decodes an object.
func (s *Store) Read(id ID) (Object, error) {
	raw, err := s.ReadRaw(id)
	if err != nil {
		return nil, err
	}
	obj, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	s.logger.Debug("object decoded", zap.Stringer("id", id), zap.String("type", string(obj.Type())))
	return obj, nil
}

// ReadBlob reads an object and requires it to be a blob.
func (s *Store) ReadBlob(id ID) (*Blob, error) {
	obj, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Blob)
	if !ok {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", id, ErrTypeMismatch, obj.Type(), TypeBlob)
	}
	return b, nil
}

// ReadTree reads an object and requires it to be a tree.
func (s *Store) ReadTree(id ID) (*Tree, error) {
	obj, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	tr, ok := obj.(*Tree)
	if !ok {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", id, ErrTypeMismatch, obj.Type(), TypeTree)
	}
	return tr, nil
}

// ListLoose returns the ids of all loose objects, sorted.
func (s *Store) ListLoose() ([]ID, error) {
	defer logutil.Defer(s.logger, "object list loose")()

	objectsDir := filepath.Join(s.root, "objects")
	fanoutDirs, err := os.ReadDir(objectsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read objects dir: %w", err)
	}

	ids := make([]ID, 0)
	for _, fanoutDir := range fanoutDirs {
		if !fanoutDir.IsDir() {
			continue
		}
		prefix := fanoutDir.Name()
		if !isHexComponent(prefix, 2) {
			continue
		}

		objectEntries, err := os.ReadDir(filepath.Join(objectsDir, prefix))
		if err != nil {
			return nil, fmt.Errorf("read objects fanout %s: %w", prefix, err)
		}
		for _, objectEntry := range objectEntries {
			if objectEntry.IsDir() {
				continue
			}
			suffix := objectEntry.Name()
			if !isHexComponent(suffix, HexSize-2) {
				continue
			}
			id, err := FromHex(prefix + suffix)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids, nil
}

func (s *Store) open(id ID) (*os.File, error) {
	f, err := os.Open(s.ObjectPath(id))
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		if s.hasPacks() {
			return nil, fmt.Errorf("object %s: %w: %w", id, ErrObjectNotFound, ErrPackedObjectsUnsupported)
		}
		return nil, fmt.Errorf("object %s: %w", id, ErrObjectNotFound)
	}
	return nil, fmt.Errorf("object read %s: %w", id, err)
}

// hasPacks reports whether objects/pack holds any pack files, in which case a
// missing loose object may simply be packed.
func (s *Store) hasPacks() bool {
	entries, err := os.ReadDir(filepath.Join(s.root, "objects", "pack"))
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pack") {
			return true
		}
	}
	return false
}

func isHexComponent(s string, expectedLen int) bool {
	if len(s) != expectedLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
