package dataset

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported benchmark datasets.
type Kind int

const (
	DomainNet Kind = iota
	DTD
	PatternNet
	StanfordCars
	SUN
)

var kindNames = [...]string{
	DomainNet:    "domainnet",
	DTD:          "dtd",
	PatternNet:   "patternnet",
	StanfordCars: "stanford_cars",
	SUN:          "sun",
}

// Kinds returns every supported dataset.
func Kinds() []Kind {
	return []Kind{DomainNet, DTD, PatternNet, StanfordCars, SUN}
}

// ParseKind maps a dataset identifier such as "stanford_cars" to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown dataset %q (want one of %s)", ErrInvalidArgument, s, strings.Join(kindNames[:], ", "))
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kindNames) }

// String returns the dataset identifier used in manifest paths and config keys.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// DomainNetDomains lists the visual domains of DomainNet.
var DomainNetDomains = []string{"clipart", "infograph", "painting", "quickdraw", "real", "sketch"}

// KnownSplits lists the split names published for k. The manifest tree is
// still the authority on what can be resolved.
func (k Kind) KnownSplits() []string {
	if k != DomainNet {
		return []string{"train", "test"}
	}
	out := make([]string, 0, 3*len(DomainNetDomains))
	for _, d := range DomainNetDomains {
		out = append(out, d+"_train", d+"_test", "no_"+d+"_train")
	}
	return out
}
