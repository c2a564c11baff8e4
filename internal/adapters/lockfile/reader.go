// Package lockfile extracts package coordinates from dependency lockfiles.
//
// Two formats are understood: Bundler's Gemfile.lock, whose specs become
// pkg:gem coordinates, and plain lists holding one coordinate per line.
package lockfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/zerr"
)

// GemfileLockName is the file name Bundler writes.
const GemfileLockName = "Gemfile.lock"

// StdinPath makes Read consume standard input.
const StdinPath = "-"

// Bundler indents top-level specs by four spaces and their requirements by six.
const (
	specIndent       = "    "
	dependencyIndent = "      "
)

// Reader implements ports.CoordinateSource.
type Reader struct {
	stdin io.Reader
}

// NewReader creates a Reader that uses stdin for StdinPath.
func NewReader(stdin io.Reader) *Reader {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &Reader{stdin: stdin}
}

// Read returns the unique coordinates listed in the file at path, in file order.
func (r *Reader) Read(path string) ([]domain.Coordinate, error) {
	data, err := r.readAll(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrLockfileReadFailed, err), "path", path)
	}

	var coords []domain.Coordinate
	if isGemfileLock(path, data) {
		coords, err = parseGemfileLock(data)
	} else {
		coords, err = parseList(data)
	}
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if len(coords) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoCoordinates, "nothing to audit"), "path", path)
	}
	return coords, nil
}

func (r *Reader) readAll(path string) ([]byte, error) {
	if path == StdinPath {
		return io.ReadAll(r.stdin)
	}
	// #nosec G304 -- the path is chosen by the user on the command line
	return os.ReadFile(path)
}

func isGemfileLock(path string, data []byte) bool {
	if filepath.Base(path) == GemfileLockName {
		return true
	}
	first, _, _ := bytes.Cut(bytes.TrimLeft(data, "\r\n\t "), []byte("\n"))
	switch strings.TrimSpace(string(first)) {
	case "GEM", "GIT", "PATH":
		return true
	}
	return false
}

// parseGemfileLock collects the name and version of every top-level spec in
// the GEM, GIT and PATH sections. Requirement lines below a spec are skipped.
func parseGemfileLock(data []byte) ([]domain.Coordinate, error) {
	var (
		coords  []domain.Coordinate
		seen    = make(map[domain.Coordinate]struct{})
		inSpecs bool
		lineNo  int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case line == "":
			inSpecs = false
		case !strings.HasPrefix(line, " "):
			inSpecs = false
		case strings.TrimSpace(line) == "specs:":
			inSpecs = true
		case !inSpecs, strings.HasPrefix(line, dependencyIndent):
		case strings.HasPrefix(line, specIndent):
			coord, err := parseSpec(strings.TrimSpace(line))
			if err != nil {
				return nil, zerr.With(err, "line", lineNo)
			}
			if _, dup := seen[coord]; !dup {
				seen[coord] = struct{}{}
				coords = append(coords, coord)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(domain.ErrLockfileReadFailed, err)
	}

	return coords, nil
}

// parseSpec turns "rack (2.2.3)" into pkg:gem/rack@2.2.3. A platform suffix
// such as "-x86_64-linux" is dropped.
func parseSpec(spec string) (domain.Coordinate, error) {
	name, rest, ok := strings.Cut(spec, " (")
	version, found := strings.CutSuffix(rest, ")")
	if !ok || !found || name == "" || version == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrLockfileParseFailed, "malformed gem spec"), "spec", spec)
	}

	version, _, _ = strings.Cut(version, "-")
	return domain.Coordinate(fmt.Sprintf("pkg:gem/%s@%s", name, version)), nil
}

// parseList reads one coordinate per line. Blank lines and lines starting
// with '#' are ignored.
func parseList(data []byte) ([]domain.Coordinate, error) {
	var (
		coords []domain.Coordinate
		seen   = make(map[domain.Coordinate]struct{})
		lineNo int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.HasPrefix(line, "pkg:") || strings.ContainsAny(line, " \t") {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrLockfileParseFailed, "not a package URL"), "line", lineNo),
				"text", line,
			)
		}

		coord := domain.Coordinate(line)
		if _, dup := seen[coord]; !dup {
			seen[coord] = struct{}{}
			coords = append(coords, coord)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(domain.ErrLockfileReadFailed, err)
	}

	return coords, nil
}
