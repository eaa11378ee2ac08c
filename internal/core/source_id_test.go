package core

import "testing"

func TestParseSourceIDRoundTrip(t *testing.T) {
	cases := []string{
		"registry+https://pkgs.example.com/index",
		"git+https://example.com/repo.git",
		"git+https://example.com/repo.git#abc123",
		"path+/home/user/project",
	}
	for _, raw := range cases {
		id, err := ParseSourceID(raw)
		if err != nil {
			t.Fatalf("ParseSourceID(%q): %v", raw, err)
		}
		if got := id.String(); got != raw {
			t.Fatalf("round trip %q: got %q", raw, got)
		}
	}
}

func TestParseSourceIDPrecise(t *testing.T) {
	id, err := ParseSourceID("git+https://example.com/repo.git#deadbeef")
	if err != nil {
		t.Fatalf("ParseSourceID: %v", err)
	}
	if id.URL != "https://example.com/repo.git" {
		t.Fatalf("URL = %q", id.URL)
	}
	if id.Precise != "deadbeef" {
		t.Fatalf("Precise = %q", id.Precise)
	}
}

func TestParseSourceIDInvalid(t *testing.T) {
	for _, raw := range []string{"", "registry", "ftp+example.com", "git+", "git+#abc"} {
		if _, err := ParseSourceID(raw); err == nil {
			t.Fatalf("ParseSourceID(%q): expected error", raw)
		}
	}
}

func TestSourceIDEqualIgnoresPrecise(t *testing.T) {
	a := SourceID{Kind: KindGit, URL: "https://example.com/repo.git", Precise: "aaa"}
	b := SourceID{Kind: KindGit, URL: "https://example.com/repo.git", Precise: "bbb"}
	if !a.Equal(b) {
		t.Fatal("sources differing only in Precise must compare equal")
	}
	c := SourceID{Kind: KindRegistry, URL: "https://example.com/repo.git"}
	if a.Equal(c) {
		t.Fatal("sources with different kinds must not compare equal")
	}
}
