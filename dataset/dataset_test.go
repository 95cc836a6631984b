package dataset

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type fakeRoots map[string]string

func (f fakeRoots) DefaultRoot(dataset string) (string, error) {
	r, ok := f[dataset]
	if !ok {
		return "", fmt.Errorf("no root for %s: %w", dataset, ErrMissingEntry)
	}
	return r, nil
}

// writePNG writes a w×h image filled with c to path, creating parent dirs.
func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// setupQuickdraw builds a domainnet quickdraw split with two images on disk.
func setupQuickdraw(t *testing.T) (root string, manifests afero.Fs) {
	t.Helper()
	root = t.TempDir()
	manifests = afero.NewMemMapFs()
	writeManifest(t, manifests, "domainnet", "quickdraw_test_o0", `{"3;airplane,tr1;quickdraw": [5, 9], "8;zebra,z1;quickdraw": [1]}`)
	writePNG(t, filepath.Join(root, "quickdraw", "airplane", "5.png"), 4, 3, color.NRGBA{R: 200, A: 255})
	writePNG(t, filepath.Join(root, "quickdraw", "airplane", "9.png"), 2, 2, color.NRGBA{G: 100, A: 128})
	// 1.png is deliberately corrupt.
	if err := os.MkdirAll(filepath.Join(root, "quickdraw", "zebra"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "quickdraw", "zebra", "1.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, manifests
}

func TestDataset_Get(t *testing.T) {
	root, manifests := setupQuickdraw(t)
	ds, err := New(DomainNet, "quickdraw_test", 0, WithRootDir(root), WithManifests(manifests))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("Len=%d want 3", ds.Len())
	}

	item, label, err := ds.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if label != 3 {
		t.Fatalf("label=%d want 3", label)
	}
	img, ok := item.(*image.NRGBA)
	if !ok {
		t.Fatalf("item is %T, want *image.NRGBA", item)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if c := img.NRGBAAt(0, 0); c.R != 200 || c.A != 255 {
		t.Fatalf("unexpected pixel %v", c)
	}

	// Alpha is dropped, colour kept.
	item, _, err = ds.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if c := item.(*image.NRGBA).NRGBAAt(1, 1); c.G != 100 || c.A != 255 {
		t.Fatalf("expected opaque pixel with G=100, got %v", c)
	}

	names := ds.ClassNames()
	if names[3] != "airplane" || names[8] != "zebra" {
		t.Fatalf("unexpected class names: %v", names)
	}
	names[3] = "mutated"
	if n, _ := ds.ClassName(3); n != "airplane" {
		t.Fatalf("ClassNames must return a copy")
	}
}

func TestDataset_IndexRange(t *testing.T) {
	root, manifests := setupQuickdraw(t)
	ds, err := New(DomainNet, "quickdraw_test", 0, WithRootDir(root), WithManifests(manifests))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, i := range []int{ds.Len(), -1, 100} {
		if _, _, err := ds.Get(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Get(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
		if _, err := ds.Path(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Path(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
		if _, err := ds.Label(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Label(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestDataset_CorruptAndMissingImage(t *testing.T) {
	root, manifests := setupQuickdraw(t)
	ds, err := New(DomainNet, "quickdraw_test", 0, WithRootDir(root), WithManifests(manifests))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := ds.Get(2); !errors.Is(err, ErrImage) {
		t.Fatalf("corrupt image: expected ErrImage, got %v", err)
	}

	if err := os.Remove(filepath.Join(root, "quickdraw", "airplane", "9.png")); err != nil {
		t.Fatal(err)
	}
	_, _, err = ds.Get(1)
	if !errors.Is(err, ErrImage) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing image: expected ErrImage wrapping ErrNotExist, got %v", err)
	}
}

func TestDataset_Transform(t *testing.T) {
	root, manifests := setupQuickdraw(t)
	size := func(img image.Image) (any, error) {
		return img.Bounds().Size(), nil
	}
	ds, err := New(DomainNet, "quickdraw_test", 0, WithRootDir(root), WithManifests(manifests), WithTransform(size))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	item, label, err := ds.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item != (image.Point{X: 4, Y: 3}) || label != 3 {
		t.Fatalf("unexpected item %v label %d", item, label)
	}

	boom := errors.New("boom")
	ds, err = New(DomainNet, "quickdraw_test", 0, WithRootDir(root), WithManifests(manifests),
		WithTransform(func(image.Image) (any, error) { return nil, boom }))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ds.Get(0); !errors.Is(err, boom) {
		t.Fatalf("expected transform error, got %v", err)
	}
}

func TestDataset_RootFromProvider(t *testing.T) {
	root, manifests := setupQuickdraw(t)
	ds, err := New(DomainNet, "quickdraw_test", 0,
		WithManifests(manifests),
		WithRootProvider(fakeRoots{"domainnet": root}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ds.RootDir() != root {
		t.Fatalf("RootDir=%s want %s", ds.RootDir(), root)
	}

	_, err = New(DomainNet, "quickdraw_test", 0, WithManifests(manifests), WithRootProvider(fakeRoots{}))
	if !errors.Is(err, ErrMissingEntry) {
		t.Fatalf("expected ErrMissingEntry, got %v", err)
	}
}

func TestDataset_RootExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, "data", "DTD"), 0o755); err != nil {
		t.Fatal(err)
	}
	manifests := afero.NewMemMapFs()
	writeManifest(t, manifests, "dtd", "train_o0", `{"0;banded": [1]}`)

	ds, err := New(DTD, "train", 0, WithManifests(manifests), WithRootDir("~/data/DTD"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ds.RootDir() != filepath.Join(home, "data", "DTD") {
		t.Fatalf("unexpected root %s", ds.RootDir())
	}
	if p, _ := ds.Path(0); p != filepath.FromSlash("images/banded/banded_0001.jpg") {
		t.Fatalf("unexpected path %s", p)
	}
}

func TestDataset_MissingRootFailsEagerly(t *testing.T) {
	manifests := afero.NewMemMapFs()
	writeManifest(t, manifests, "dtd", "train_o0", `{"0;banded": [1]}`)

	_, err := New(DTD, "train", 0, WithManifests(manifests), WithRootDir(filepath.Join(t.TempDir(), "nope")))
	if !errors.Is(err, ErrRootDirMissing) {
		t.Fatalf("expected ErrRootDirMissing, got %v", err)
	}

	// A regular file is not a root directory either.
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(DTD, "train", 0, WithManifests(manifests), WithRootDir(f)); !errors.Is(err, ErrRootDirMissing) {
		t.Fatalf("expected ErrRootDirMissing for a file, got %v", err)
	}
}

func TestDataset_UnknownSplit(t *testing.T) {
	_, err := New(SUN, "val", 0, WithManifests(afero.NewMemMapFs()), WithRootDir(t.TempDir()))
	if !errors.Is(err, ErrUnknownSplit) {
		t.Fatalf("expected ErrUnknownSplit, got %v", err)
	}
}

func TestDataset_MemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	manifests := afero.NewMemMapFs()
	writeManifest(t, manifests, "stanford_cars", "test_o2", `{"4;Audi_S4": [12]}`)

	f, err := fs.Create(filepath.Join("/cars", "cars_test", "00012.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	logs := zerolog.Nop()
	ds, err := New(StanfordCars, "test", 2, WithFs(fs), WithManifests(manifests), WithRootDir("/cars"), WithLogger(logs))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	item, label, err := ds.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if label != 4 {
		t.Fatalf("label=%d", label)
	}
	if _, ok := item.(*image.NRGBA); !ok {
		t.Fatalf("gray source must be converted, got %T", item)
	}
	if ds.Kind() != StanfordCars || ds.Split() != "test" || ds.Order() != 2 {
		t.Fatalf("unexpected identity %s/%s/%d", ds.Kind(), ds.Split(), ds.Order())
	}
}

func TestDataset_ConcurrentGet(t *testing.T) {
	root, manifests := setupQuickdraw(t)
	ds, err := New(DomainNet, "quickdraw_test", 0, WithRootDir(root), WithManifests(manifests))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2; i++ {
				if _, _, err := ds.Get(i); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Get: %v", err)
	}
}
