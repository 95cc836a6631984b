// Package dataset resolves OOD-benchmark splits into image records and
// serves them through an indexed, read-only Dataset.
//
//	ds, err := dataset.New(dataset.DTD, "train", 0)
//	if err != nil { ... }
//	for i := 0; i < ds.Len(); i++ {
//		img, label, err := ds.Get(i)
//		...
//	}
//
// Split manifests are read from the splits tree (~/.ooddb/splits by default)
// and dataset roots from ~/.ooddb/config.json, unless overridden by options.
package dataset

import (
	"fmt"
	"image"
	"maps"
	"path/filepath"

	"github.com/ooddb/ooddb/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Transform converts a decoded image into the item returned by Get.
type Transform func(img image.Image) (any, error)

// RootProvider supplies the default root directory of a dataset.
// The returned path may start with "~".
type RootProvider interface {
	DefaultRoot(dataset string) (string, error)
}

// Dataset is the indexed view over a resolved split. Nothing is mutated after
// New returns, so Get may be called from several goroutines.
type Dataset struct {
	kind      Kind
	split     string
	order     int
	rootDir   string
	fs        afero.Fs
	transform Transform

	paths      []string
	labels     []int
	classNames map[int]string
}

type options struct {
	rootDir   string
	transform Transform
	roots     RootProvider
	manifests afero.Fs
	fs        afero.Fs
	logger    *zerolog.Logger
}

// Option configures New.
type Option func(*options)

// WithRootDir uses dir instead of the configured root. A leading "~" is expanded.
func WithRootDir(dir string) Option { return func(o *options) { o.rootDir = dir } }

// WithTransform applies t to every image returned by Get.
func WithTransform(t Transform) Option { return func(o *options) { o.transform = t } }

// WithRootProvider replaces the ~/.ooddb/config.json lookup.
func WithRootProvider(p RootProvider) Option { return func(o *options) { o.roots = p } }

// WithManifests reads split manifests from fs instead of the splits directory.
func WithManifests(fs afero.Fs) Option { return func(o *options) { o.manifests = fs } }

// WithFs reads the dataset root and images from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option { return func(o *options) { o.fs = fs } }

// WithLogger receives resolution warnings.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = &l } }

// New resolves (kind, split, order) and checks that the dataset root exists.
func New(kind Kind, split string, order int, opts ...Option) (*Dataset, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.manifests == nil {
		dir, err := config.SplitsDir()
		if err != nil {
			return nil, err
		}
		o.manifests = afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
	}

	s, err := NewResolver(o.manifests, o.logger).Resolve(kind, split, order)
	if err != nil {
		return nil, err
	}

	root, err := resolveRoot(kind, o)
	if err != nil {
		return nil, err
	}
	if ok, err := afero.DirExists(o.fs, root); err != nil {
		return nil, fmt.Errorf("cannot stat root dir %s: %w", root, err)
	} else if !ok {
		return nil, fmt.Errorf("%w: %s for dataset %s", ErrRootDirMissing, root, kind)
	}

	return &Dataset{
		kind:       kind,
		split:      split,
		order:      order,
		rootDir:    root,
		fs:         o.fs,
		transform:  o.transform,
		paths:      s.Paths,
		labels:     s.Labels,
		classNames: s.ClassNames,
	}, nil
}

func resolveRoot(kind Kind, o options) (string, error) {
	dir := o.rootDir
	if dir == "" {
		roots := o.roots
		if roots == nil {
			store, err := config.DefaultStore()
			if err != nil {
				return "", err
			}
			roots = store
		}
		var err error
		if dir, err = roots.DefaultRoot(kind.String()); err != nil {
			return "", err
		}
	}
	return config.ExpandPath(dir)
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.paths) }

// Get loads record i and returns the (possibly transformed) image with its
// label. Negative indices are rejected like any other out-of-range index.
func (d *Dataset) Get(i int) (any, int, error) {
	if err := d.check(i); err != nil {
		return nil, 0, err
	}
	img, err := LoadImage(d.fs, filepath.Join(d.rootDir, d.paths[i]))
	if err != nil {
		return nil, 0, err
	}
	if d.transform == nil {
		return img, d.labels[i], nil
	}
	item, err := d.transform(img)
	if err != nil {
		return nil, 0, fmt.Errorf("transform %s: %w", d.paths[i], err)
	}
	return item, d.labels[i], nil
}

// Path returns the image path of record i relative to RootDir.
func (d *Dataset) Path(i int) (string, error) {
	if err := d.check(i); err != nil {
		return "", err
	}
	return d.paths[i], nil
}

// Label returns the label of record i without loading the image.
func (d *Dataset) Label(i int) (int, error) {
	if err := d.check(i); err != nil {
		return 0, err
	}
	return d.labels[i], nil
}

// ClassNames returns a copy of the class id → natural name dictionary.
func (d *Dataset) ClassNames() map[int]string { return maps.Clone(d.classNames) }

// ClassName returns the natural name of class id.
func (d *Dataset) ClassName(id int) (string, bool) {
	n, ok := d.classNames[id]
	return n, ok
}

func (d *Dataset) Kind() Kind      { return d.kind }
func (d *Dataset) Split() string   { return d.split }
func (d *Dataset) Order() int      { return d.order }
func (d *Dataset) RootDir() string { return d.rootDir }

func (d *Dataset) check(i int) error {
	if i < 0 || i >= len(d.paths) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(d.paths))
	}
	return nil
}
