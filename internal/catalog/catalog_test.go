package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func testCatalog() *Catalog {
	return New([]JobMapping{
		{JobTitle: "Data Scientist", RequiredSkills: []string{"Python", "Statistics"}},
		{JobTitle: "Web Developer", RequiredSkills: []string{"HTML", "CSS", "JavaScript"}},
		{JobTitle: "Senior Web Developer", RequiredSkills: []string{"React"}},
		{JobTitle: "   ", RequiredSkills: []string{"Nothing"}},
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Data Scientist", "data scientist"},
		{"  Data \t  SCIENTIST\n", "data scientist"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFindJob(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name      string
		goal      string
		wantTitle string
		wantOK    bool
	}{
		{"exact", "Data Scientist", "Data Scientist", true},
		{"case and whitespace", "  data   SCIENTIST ", "Data Scientist", true},
		{"spaces removed", "DataScientist", "Data Scientist", true},
		{"goal inside title", "scientist", "Data Scientist", true},
		{"title inside goal", "aspiring data scientist at a startup", "Data Scientist", true},
		{"exact beats earlier substring", "senior web developer", "Senior Web Developer", true},
		{"first substring in catalog order", "developer", "Web Developer", true},
		{"no match", "Astronaut", "", false},
		{"blank goal", "   ", "", false},
		{"empty goal", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := c.FindJob(tc.goal)
			if ok != tc.wantOK {
				t.Fatalf("FindJob(%q) ok = %v, want %v", tc.goal, ok, tc.wantOK)
			}
			if got.JobTitle != tc.wantTitle {
				t.Errorf("FindJob(%q) = %q, want %q", tc.goal, got.JobTitle, tc.wantTitle)
			}
		})
	}
}

func TestFindJob_NilCatalog(t *testing.T) {
	var c *Catalog
	if _, ok := c.FindJob("anything"); ok {
		t.Error("nil catalog should never match")
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`{"jobSkillsMapping":[{"jobTitle":"X","requiredSkills":["a","b"]}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 1 || c.Jobs()[0].RequiredSkills[1] != "b" {
		t.Errorf("jobs = %+v", c.Jobs())
	}

	empty, err := Parse([]byte(`{"jobSkillsMapping":[]}`))
	if err != nil {
		t.Fatalf("Parse empty list: %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("Len = %d, want 0", empty.Len())
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{`{`, `{}`, `{"jobs":[]}`, `[]`} {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%s) err = %v, want ErrMalformed", in, err)
		}
	}
}

func TestEmbeddedCatalogParses(t *testing.T) {
	c, err := NewLoader("").Load(context.Background())
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}
	if _, ok := c.FindJob("data scientist"); !ok {
		t.Error("embedded catalog has no Data Scientist entry")
	}
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"jobSkillsMapping":[{"jobTitle":"Chef","requiredSkills":["Cooking"]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	raw, err := NewLoader(path).Raw(context.Background())
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	c, err := Parse(raw)
	if err != nil || c.Jobs()[0].JobTitle != "Chef" {
		t.Errorf("round trip: %+v, %v", c, err)
	}

	if _, err := NewLoader(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoader_CachesSuccess(t *testing.T) {
	var reads atomic.Int32
	l := NewLoaderFunc(func() ([]byte, error) {
		reads.Add(1)
		return []byte(`{"jobSkillsMapping":[]}`), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Load(context.Background()); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	wg.Wait()
	l.Load(context.Background())

	if n := reads.Load(); n != 1 {
		t.Errorf("catalog read %d times, want 1", n)
	}
}

func TestLoader_DoesNotCacheFailure(t *testing.T) {
	var calls int
	l := NewLoaderFunc(func() ([]byte, error) {
		calls++
		if calls == 1 {
			return []byte(`not json`), nil
		}
		return []byte(`{"jobSkillsMapping":[{"jobTitle":"A","requiredSkills":[]}]}`), nil
	})

	if _, err := l.Load(context.Background()); !errors.Is(err, ErrMalformed) {
		t.Fatalf("first Load err = %v, want ErrMalformed", err)
	}
	c, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestLoader_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	l := NewLoaderFunc(func() ([]byte, error) {
		<-block
		return []byte(`{"jobSkillsMapping":[]}`), nil
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
