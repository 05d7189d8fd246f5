package bundle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// BaseName and Extension make up the bundle naming scheme.
const (
	BaseName  = "strings"
	Extension = ".properties"
)

var fileNamePattern = regexp.MustCompile(`^strings(?:_([a-z]{2})(?:_([A-Z]{2}))?)?\.properties$`)

// Locale is the language/country variant encoded in a bundle file name.
// The zero value is the base variant.
type Locale struct {
	Language string
	Country  string
}

// IsBase reports whether l is the unscoped default variant.
func (l Locale) IsBase() bool { return l.Language == "" }

func (l Locale) String() string {
	switch {
	case l.Language == "":
		return "base"
	case l.Country == "":
		return l.Language
	default:
		return l.Language + "_" + l.Country
	}
}

// FileRef identifies one resource file of a package.
type FileRef struct {
	Package string
	Locale  Locale
	Path    string
}

// ParseFileName reports whether name follows the bundle naming scheme and
// returns the locale it encodes.
func ParseFileName(name string) (Locale, bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return Locale{}, false
	}
	return Locale{Language: m[1], Country: m[2]}, true
}

// SplitPackage splits a dot- or slash-separated package identifier into its
// segments.
func SplitPackage(pkg string) ([]string, error) {
	if strings.TrimSpace(pkg) == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrInvalidPackage)
	}
	segments := strings.FieldsFunc(pkg, func(r rune) bool { return r == '.' || r == '/' })
	if strings.Count(pkg, ".")+strings.Count(pkg, "/")+1 != len(segments) {
		return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPackage, pkg)
	}
	for _, s := range segments {
		if strings.ContainsAny(s, `\`) || strings.TrimSpace(s) != s {
			return nil, fmt.Errorf("%w: %q has an invalid segment %q", ErrInvalidPackage, pkg, s)
		}
	}
	return segments, nil
}

// PackagePath maps a package identifier onto a relative, OS-specific path.
func PackagePath(pkg string) (string, error) {
	segments, err := SplitPackage(pkg)
	if err != nil {
		return "", err
	}
	return filepath.Join(segments...), nil
}
