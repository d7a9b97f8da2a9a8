package examples

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestNames(t *testing.T) {
	want := []string{"arp", "drone", "ring", "tremolo"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestEveryPatchBuilds(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			mixer, err := cfg.Build()
			if err != nil {
				t.Fatal(err)
			}
			for i := uint64(0); i < 48000; i++ {
				if v := mixer.Next(i); v < -1 || v > 1 {
					t.Fatalf("tick %d: %v out of range", i, v)
				}
			}
		})
	}
}

func TestLookupIsFresh(t *testing.T) {
	a, err := Lookup("arp")
	if err != nil {
		t.Fatal(err)
	}
	a.Groups[0].Source.Frequency = 1

	b, err := Lookup("arp")
	if err != nil {
		t.Fatal(err)
	}
	if b.Groups[0].Source.Frequency != 220 {
		t.Fatalf("lookup returned a shared patch: %v", b)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("kazoo"); !errors.Is(err, ErrUnknownPatch) {
		t.Fatalf("got %v, want ErrUnknownPatch", err)
	}
}
