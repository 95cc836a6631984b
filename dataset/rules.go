package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ooddb/ooddb/internal/manifest"
)

// FileID is one file id of a class, in its textual form. IsInt marks ids
// written as JSON integers.
type FileID = manifest.FileID

// Rule maps a class key and one of its file ids to the path components of
// the image, relative to the dataset root.
type Rule func(key ClassKey, id FileID) ([]string, error)

// Rule returns the filename rule of k. split is only used by stanford_cars,
// whose images live under cars_<split>/.
func (k Kind) Rule(split string) (Rule, error) {
	switch k {
	case DomainNet:
		return domainNetRule, nil
	case DTD:
		return dtdRule, nil
	case PatternNet:
		return patternNetRule, nil
	case StanfordCars:
		dir := "cars_" + split
		return func(_ ClassKey, id FileID) ([]string, error) {
			return []string{dir, pad(id.Value, 5) + ".jpg"}, nil
		}, nil
	case SUN:
		return sunRule, nil
	}
	return nil, fmt.Errorf("%w: unknown dataset %s", ErrInvalidArgument, k)
}

// RelPath applies r and joins the components into one relative path.
func (r Rule) RelPath(key ClassKey, id FileID) (string, error) {
	parts, err := r(key, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(parts...), nil
}

func domainNetRule(key ClassKey, id FileID) ([]string, error) {
	if !key.HasDomain || key.Domain == "" {
		return nil, fmt.Errorf("%w: domainnet class %q has no domain", ErrMalformedKey, key.Name)
	}
	base, sub, ok := strings.Cut(key.Name, ",")
	if key.Domain == "quickdraw" {
		return []string{key.Domain, base, id.Value + ".png"}, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: domainnet class %q is not <base>,<subclass>", ErrMalformedKey, key.Name)
	}
	// Only the first comma-separated subclass field is used.
	sub, _, _ = strings.Cut(sub, ",")
	return []string{key.Domain, base, fmt.Sprintf("%s_%s_%s.jpg", key.Domain, sub, pad(id.Value, 6))}, nil
}

func dtdRule(key ClassKey, id FileID) ([]string, error) {
	return []string{"images", key.Name, fmt.Sprintf("%s_%s.jpg", key.Name, pad(id.Value, 4))}, nil
}

func patternNetRule(key ClassKey, id FileID) ([]string, error) {
	compact := strings.ReplaceAll(key.Name, "_", "")
	if key.Name == "wastewater_treatment_plant" {
		compact = "wastewaterplant"
	}
	return []string{"images", key.Name, compact + pad(id.Value, 3) + ".jpg"}, nil
}

func sunRule(key ClassKey, id FileID) ([]string, error) {
	if key.Name == "" {
		return nil, fmt.Errorf("%w: empty sun class name", ErrMalformedKey)
	}
	first := string([]rune(key.Name)[:1])
	return []string{first, key.Name, "sun_" + id.Value + ".jpg"}, nil
}

// pad left-pads s with zeros to width; longer values are returned unchanged.
func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return strings.Repeat("0", width-n) + s
	}
	return s
}
