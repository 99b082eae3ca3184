package repo

import "testing"

func TestIgnoreChecker(t *testing.T) {
	ic := &IgnoreChecker{patterns: []ignorePattern{{pattern: DirName}, {pattern: ".git"}}}
	ic.patterns = append(ic.patterns, parseIgnore([]byte(`# comment
*.log
!keep.log
build/
docs/*.md
**/tmp

`))...)

	tests := []struct {
		path string
		want bool
	}{
		{".twig/HEAD", true},
		{".git/config", true},
		{"a.log", true},
		{"dir/a.log", true},
		{"keep.log", false},
		{"build/out.bin", true},
		{"build", false}, // a file, not a directory
		{"src/build/x", true},
		{"docs/a.md", true},
		{"x/docs/a.md", false},
		{"tmp/f", true},
		{"a/b/tmp/f", true},
		{"main.go", false},
	}
	for _, tt := range tests {
		if got := ic.IsIgnored(tt.path); got != tt.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseLine_SkipsBlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# note", "/"} {
		if p := parseLine(line); p != nil {
			t.Errorf("parseLine(%q) = %+v, want nil", line, p)
		}
	}
	p := parseLine("/vendor/")
	if p == nil || p.pattern != "vendor" || !p.dirOnly || p.hasSlash {
		t.Errorf("parseLine(/vendor/) = %+v", p)
	}
}

func TestRepoIgnore_ReadsFile(t *testing.T) {
	r := newTestRepo(t)
	if r.Ignore().IsIgnored("x.tmp") {
		t.Fatal("x.tmp ignored without .twigignore")
	}
	writeFile(t, r, ".twigignore", "*.tmp\n")
	if !r.Ignore().IsIgnored("x.tmp") {
		t.Error("x.tmp not ignored after writing .twigignore")
	}
}
