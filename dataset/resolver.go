package dataset

import (
	"errors"
	"fmt"

	"github.com/ooddb/ooddb/internal/manifest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Split is a resolved (dataset, split, order): parallel image paths and
// labels in manifest order, plus the class id → natural name dictionary.
type Split struct {
	Paths      []string
	Labels     []int
	ClassNames map[int]string
}

// Len returns the number of records.
func (s *Split) Len() int { return len(s.Paths) }

// NumClasses returns the number of distinct class ids.
func (s *Split) NumClasses() int { return len(s.ClassNames) }

// Resolver turns split manifests into Splits.
type Resolver struct {
	manifests afero.Fs
	logger    zerolog.Logger
}

// NewResolver returns a resolver reading manifests laid out as
// <dataset>/<split>_o<order>.json on manifests. Mismatching duplicate
// class names are reported on logger; nil selects the global logger.
func NewResolver(manifests afero.Fs, logger *zerolog.Logger) *Resolver {
	r := &Resolver{manifests: manifests, logger: log.Logger}
	if logger != nil {
		r.logger = *logger
	}
	return r
}

// Resolve reads the manifest of (kind, split, order) and builds its records.
func (r *Resolver) Resolve(kind Kind, split string, order int) (*Split, error) {
	rule, err := kind.Rule(split)
	if err != nil {
		return nil, err
	}

	ref := manifest.Ref{Dataset: kind.String(), Split: split, Order: order}
	entries, err := manifest.Load(r.manifests, ref)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			return nil, fmt.Errorf("%w %s_o%d for dataset %s", ErrUnknownSplit, split, order, kind)
		}
		return nil, err
	}

	n := 0
	for _, e := range entries {
		n += len(e.FileIDs)
	}
	out := &Split{
		Paths:      make([]string, 0, n),
		Labels:     make([]int, 0, n),
		ClassNames: make(map[int]string),
	}

	// firstNames holds the first name seen per class id, including classes
	// without files, which get a dictionary entry only once they have labels.
	firstNames := make(map[int]string)
	for _, e := range entries {
		key, err := ParseClassKey(e.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}

		name := kind.NaturalName(key.Name)
		kept, ok := firstNames[key.ID]
		if !ok {
			firstNames[key.ID] = name
			kept = name
		} else if kept != name {
			r.logger.Warn().
				Int("class_id", key.ID).
				Str("dataset", kind.String()).
				Str("split", split).
				Int("order", order).
				Str("kept", kept).
				Str("found", name).
				Msg("duplicate class_id with a different name")
		}
		if len(e.FileIDs) > 0 {
			out.ClassNames[key.ID] = kept
		}

		for _, id := range e.FileIDs {
			p, err := rule.RelPath(key, id)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ref, err)
			}
			out.Paths = append(out.Paths, p)
			out.Labels = append(out.Labels, key.ID)
		}
	}
	return out, nil
}
