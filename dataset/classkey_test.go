package dataset

import (
	"errors"
	"testing"
)

func TestParseClassKey(t *testing.T) {
	k, err := ParseClassKey("12;banded")
	if err != nil {
		t.Fatalf("ParseClassKey: %v", err)
	}
	if k.ID != 12 || k.Name != "banded" || k.HasDomain {
		t.Fatalf("unexpected key: %+v", k)
	}

	k, err = ParseClassKey("3;airplane,tr1;sketch")
	if err != nil {
		t.Fatalf("ParseClassKey: %v", err)
	}
	if k.ID != 3 || k.Name != "airplane,tr1" || !k.HasDomain || k.Domain != "sketch" {
		t.Fatalf("unexpected key: %+v", k)
	}
}

func TestParseClassKey_Malformed(t *testing.T) {
	for _, s := range []string{"", "12", "1;a;b;c", "x;banded", ";banded"} {
		_, err := ParseClassKey(s)
		if !errors.Is(err, ErrMalformedKey) {
			t.Fatalf("ParseClassKey(%q): expected ErrMalformedKey, got %v", s, err)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("ParseClassKey(%q): ErrMalformedKey must be an ErrInvalidArgument", s)
		}
	}
}

func TestNaturalName(t *testing.T) {
	cases := []struct {
		kind Kind
		raw  string
		want string
	}{
		{SUN, "a/airport", "airport a"},
		{SUN, "b/bakery/shop", "shop bakery b"},
		{SUN, "a/amusement_park", "amusement park a"},
		{DomainNet, "airplane,tr1", "airplane"},
		{DomainNet, "hot_air_balloon,x", "hot air balloon"},
		{DTD, "banded", "banded"},
		{PatternNet, "wastewater_treatment_plant", "wastewater treatment plant"},
		{StanfordCars, "AM_General_Hummer", "AM General Hummer"},
	}
	for _, c := range cases {
		if got := c.kind.NaturalName(c.raw); got != c.want {
			t.Fatalf("%s.NaturalName(%q)=%q want %q", c.kind, c.raw, got, c.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if got != k {
			t.Fatalf("ParseKind(%q)=%v", k, got)
		}
	}
	if _, err := ParseKind("imagenet"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestKnownSplits(t *testing.T) {
	if got := DTD.KnownSplits(); len(got) != 2 || got[0] != "train" || got[1] != "test" {
		t.Fatalf("unexpected dtd splits: %v", got)
	}
	got := DomainNet.KnownSplits()
	if len(got) != 18 {
		t.Fatalf("expected 18 domainnet splits, got %d", len(got))
	}
	if got[0] != "clipart_train" || got[2] != "no_clipart_train" {
		t.Fatalf("unexpected domainnet splits: %v", got[:3])
	}
}
