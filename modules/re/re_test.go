package remod

import "testing"

func TestSearch(t *testing.T) {
	v, err := reSearch([]any{"[0-9]+", "build 123 done"})
	if err != nil {
		t.Fatal(err)
	}
	if v != "123" {
		t.Errorf("got %v", v)
	}

	v, err = reSearch([]any{"xyz", "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("miss should return nil, got %v", v)
	}
}

func TestMatchAnchorsAtStart(t *testing.T) {
	v, err := reMatch([]any{"[a-z]+", "abc123"})
	if err != nil {
		t.Fatal(err)
	}
	if v != "abc" {
		t.Errorf("got %v", v)
	}

	v, err = reMatch([]any{"[0-9]+", "abc123"})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("match must anchor at the start, got %v", v)
	}
}

func TestFullmatch(t *testing.T) {
	v, err := reFullmatch([]any{"[0-9]+", "123"})
	if err != nil {
		t.Fatal(err)
	}
	if v != "123" {
		t.Errorf("got %v", v)
	}

	v, err = reFullmatch([]any{"[0-9]+", "123x"})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Errorf("partial match accepted: %v", v)
	}
}

func TestFindall(t *testing.T) {
	v, err := reFindall([]any{"[0-9]+", "a1 b22 c333"})
	if err != nil {
		t.Fatal(err)
	}
	got := v.([]any)
	want := []string{"1", "22", "333"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v", i, got[i])
		}
	}
}

func TestSubAndSplit(t *testing.T) {
	v, err := reSub([]any{"[0-9]+", "N", "v1.2.3"})
	if err != nil {
		t.Fatal(err)
	}
	if v != "vN.N.N" {
		t.Errorf("sub = %v", v)
	}

	v, err = reSplit([]any{",\\s*", "a, b,c"})
	if err != nil {
		t.Fatal(err)
	}
	parts := v.([]any)
	if len(parts) != 3 || parts[0] != "a" || parts[1] != "b" || parts[2] != "c" {
		t.Errorf("split = %v", parts)
	}
}

func TestEscape(t *testing.T) {
	v, err := reEscape([]any{"a.b*c"})
	if err != nil {
		t.Fatal(err)
	}
	if v != `a\.b\*c` {
		t.Errorf("escape = %v", v)
	}
}

func TestInvalidPattern(t *testing.T) {
	if _, err := reSearch([]any{"[", "x"}); err == nil {
		t.Error("invalid pattern accepted")
	}
}
