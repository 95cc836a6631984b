// Package manifest reads split manifests: JSON objects mapping a class key to
// the list of file ids belonging to that class.
//
// Key order is significant (it fixes record indices), so manifests are
// decoded token by token instead of into a map.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when no manifest exists for (dataset, split, order).
	ErrNotFound = errors.New("manifest not found")
	// ErrMalformed is returned when a manifest is not an object of id arrays.
	ErrMalformed = errors.New("malformed manifest")
)

// FileID is one entry of a class's file id list, kept in its textual form.
type FileID struct {
	Value string
	IsInt bool
}

func (f FileID) String() string { return f.Value }

// Entry is one (class key, file ids) pair.
type Entry struct {
	Key     string
	FileIDs []FileID
}

// Ref names one manifest in a splits tree.
type Ref struct {
	Dataset string
	Split   string
	Order   int
}

// Path returns the manifest path relative to the splits root.
func (r Ref) Path() string {
	return filepath.Join(r.Dataset, fmt.Sprintf("%s_o%d.json", r.Split, r.Order))
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s_o%d", r.Dataset, r.Split, r.Order)
}

var refName = regexp.MustCompile(`^(.+)_o(\d+)\.json$`)

// Load reads and parses the manifest for ref from fs.
func Load(fs afero.Fs, ref Ref) ([]Entry, error) {
	if !validName(ref.Dataset) || !validName(ref.Split) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	p := ref.Path()
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return nil, fmt.Errorf("cannot read manifest %s: %w", p, err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", p, err)
	}
	return entries, nil
}

// Parse decodes a manifest body, preserving key order and id order.
func Parse(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	seen := make(map[string]bool)
	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: class key must be a string, got %v", ErrMalformed, tok)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate class key %q", ErrMalformed, key)
		}
		seen[key] = true

		ids, err := parseFileIDs(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformed, key, err)
		}
		entries = append(entries, Entry{Key: key, FileIDs: ids})
	}
	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	} else if d, ok := tok.(json.Delim); !ok || d != '}' {
		return nil, fmt.Errorf("%w: unterminated object", ErrMalformed)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// parseFileIDs reads one array of file ids from dec.
func parseFileIDs(dec *json.Decoder) ([]FileID, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("file ids must be an array")
	}
	ids := []FileID{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, err := parseFileID(tok)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if tok, err := dec.Token(); err != nil {
		return nil, err
	} else if d, ok := tok.(json.Delim); !ok || d != ']' {
		return nil, fmt.Errorf("unterminated file id array")
	}
	return ids, nil
}

// parseFileID accepts a string or an integer of any size. Integers keep
// their decimal text so ids beyond int64 survive unchanged.
func parseFileID(tok any) (FileID, error) {
	switch v := tok.(type) {
	case string:
		return FileID{Value: v}, nil
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return FileID{}, fmt.Errorf("file id %s is not an integer", v)
		}
		return FileID{Value: n.String(), IsInt: true}, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return FileID{}, fmt.Errorf("file id %v is not an integer", v)
		}
		return FileID{Value: strconv.FormatFloat(v, 'f', -1, 64), IsInt: true}, nil
	default:
		return FileID{}, fmt.Errorf("file id %v must be an integer or a string", tok)
	}
}

// List returns the manifests available for dataset, sorted by split then order.
// A missing dataset directory yields an empty list.
func List(fs afero.Fs, dataset string) ([]Ref, error) {
	if !validName(dataset) {
		return nil, nil
	}
	infos, err := afero.ReadDir(fs, dataset)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot list manifests for %s: %w", dataset, err)
	}
	var out []Ref
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		m := refName.FindStringSubmatch(fi.Name())
		if m == nil {
			continue
		}
		order, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, Ref{Dataset: dataset, Split: m[1], Order: order})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Split == out[j].Split {
			return out[i].Order < out[j].Order
		}
		return out[i].Split < out[j].Split
	})
	return out, nil
}

// validName rejects names that would escape the dataset directory.
func validName(s string) bool {
	return s != "" && !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}
