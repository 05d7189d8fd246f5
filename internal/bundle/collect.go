package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/magiconair/properties"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/simonhull/firebird-suite/wren/internal/logger"
)

// DefaultCharset is used when no charset is configured.
const DefaultCharset = "UTF-8"

var (
	utf8BOM     = []byte("\xef\xbb\xbf")
	linePattern = regexp.MustCompile(`(?s)^properties: Line (\d+): (.*)$`)
)

// Collector reads the bundle files of a package. It holds no per-package
// state, so one Collector may serve concurrent Collect calls.
type Collector struct {
	charset string
	enc     encoding.Encoding
	log     logger.Logger
}

// NewCollector creates a collector decoding resource files from the named
// IANA charset (e.g. "UTF-8", "ISO-8859-1", "windows-1252").
func NewCollector(charset string, log logger.Logger) (*Collector, error) {
	if charset == "" {
		charset = DefaultCharset
	}
	enc, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewSilent()
	}
	return &Collector{charset: charset, enc: enc, log: log}, nil
}

// LookupCharset resolves an IANA charset name.
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// Discover lists the bundle files of pkg under baseDir, sorted by file name.
func Discover(baseDir, pkg string) ([]FileRef, error) {
	rel, err := PackagePath(pkg)
	if err != nil {
		return nil, &DiscoveryError{Package: pkg, Err: err}
	}
	dir := filepath.Join(baseDir, rel)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &DiscoveryError{Package: pkg, Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Package: pkg, Dir: dir, Err: ErrNotDirectory}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Package: pkg, Dir: dir, Err: err}
	}

	refs := make([]FileRef, 0, len(entries))
	for _, entry := range entries {
		locale, ok := ParseFileName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}
		refs = append(refs, FileRef{Package: pkg, Locale: locale, Path: path})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

// isRegularFile follows symlinks the way the host file system does.
func isRegularFile(entry fs.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Collect unions the keys of every bundle file of pkg, across all locales.
// An existing directory without bundle files yields an empty set.
func (c *Collector) Collect(baseDir, pkg string) (KeySet, error) {
	refs, err := Discover(baseDir, pkg)
	if err != nil {
		return nil, err
	}

	log := c.log.WithFields(logger.F("package", pkg))
	keys := make(KeySet)
	for _, ref := range refs {
		fileKeys, err := c.ReadKeys(ref.Path)
		if err != nil {
			return nil, err
		}
		keys.Add(fileKeys...)
		log.Debug("read bundle file",
			logger.F("file", ref.Path),
			logger.F("locale", ref.Locale),
			logger.F("keys", len(fileKeys)))
	}

	log.Debug("collected keys", logger.F("files", len(refs)), logger.F("keys", keys.Len()))
	return keys, nil
}

// ReadKeys parses one properties file and returns its keys in file order.
func (c *Collector) ReadKeys(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	text, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &ParseError{File: path, Err: fmt.Errorf("decoding %s: %w", c.charset, err)}
	}
	text = bytes.TrimPrefix(text, utf8BOM)

	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(text)
	if err != nil {
		return nil, parseFailure(path, err)
	}
	return props.Keys(), nil
}

// parseFailure lifts the line number the properties parser embeds in its
// message into the ParseError, so it is printed once.
func parseFailure(path string, err error) *ParseError {
	m := linePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &ParseError{File: path, Err: err}
	}
	n, _ := strconv.Atoi(m[1])
	return &ParseError{File: path, Line: n, Err: errors.New(m[2])}
}
