package repo

import (
	"bufio"
	"bytes"
	"path"
	"regexp"
	"strings"
)

const ignoreFile = ".twigignore"

// IgnoreChecker decides whether a working-tree path is excluded from
// staging and status.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	hasSlash bool // match against the full path instead of the base name
	regex    *regexp.Regexp
}

// Ignore returns the checker for the working tree. .twig and .git are
// always ignored; patterns from .twigignore at the root are applied after
// them.
func (r *Repo) Ignore() *IgnoreChecker {
	ic := &IgnoreChecker{
		patterns: []ignorePattern{
			{pattern: DirName},
			{pattern: ".git"},
		},
	}
	data, err := r.Work.ReadFile(ignoreFile)
	if err != nil {
		return ic
	}
	ic.patterns = append(ic.patterns, parseIgnore(data)...)
	return ic
}

func parseIgnore(data []byte) []ignorePattern {
	var out []ignorePattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if p := parseLine(scanner.Text()); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// parseLine returns nil for blank lines and comments.
func parseLine(line string) *ignorePattern {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return nil
	}
	p.hasSlash = strings.Contains(line, "/")
	p.pattern = line
	if strings.Contains(line, "**") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p
}

// IsIgnored reports whether the file at name, or any directory above it,
// is ignored.
func (ic *IgnoreChecker) IsIgnored(name string) bool {
	return ic.ignored(name, false)
}

func (ic *IgnoreChecker) ignored(name string, isDir bool) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' && ic.evaluate(name[:i], true) {
			return true
		}
	}
	return ic.evaluate(name, isDir)
}

// evaluate applies patterns to a single path; the last match wins.
func (ic *IgnoreChecker) evaluate(name string, isDir bool) bool {
	ignored := false
	for i := range ic.patterns {
		p := &ic.patterns[i]
		if p.dirOnly && !isDir {
			continue
		}
		if p.matches(name) {
			ignored = !p.negated
		}
	}
	return ignored
}

// skipFunc adapts the checker to fsys.WalkFiles. Ancestors were already
// checked by the walk, so only the entry itself is evaluated.
func (ic *IgnoreChecker) skipFunc() func(name string, isDir bool) bool {
	return func(name string, isDir bool) bool {
		return ic.evaluate(name, isDir)
	}
}

func (p *ignorePattern) matches(name string) bool {
	if p.hasSlash {
		return p.match(name)
	}
	return p.match(path.Base(name))
}

func (p *ignorePattern) match(target string) bool {
	if p.regex != nil {
		return p.regex.MatchString(target)
	}
	matched, _ := path.Match(p.pattern, target)
	return matched
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			if i+2 < len(pattern) && pattern[i+2] == '/' {
				// zero or more leading path segments
				b.WriteString("(?:.*/)?")
				i += 2
			} else {
				b.WriteString(".*")
				i++
			}
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
				b.WriteByte('\\')
			}
			b.WriteByte(ch)
		}
	}
	b.WriteString("$")
	return b.String()
}
