package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

var ErrMalformedEntry = errors.New("malformed maze entry")

// ParseError reports the line of a maze file that could not be parsed
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads "col,row=tileType" entries. Blank lines and lines starting with
// '#' or '!' are skipped. A later entry for the same coordinate replaces the
// earlier one. Unknown tile codes are kept and behave as floor.
func Parse(r io.Reader) (*TileMap, error) {
	m := &TileMap{tiles: make(map[Coord]TileType)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		coord, tile, err := parseEntry(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		if !tile.Known() {
			log.Printf("Warning: maze line %d: unknown tile type %d treated as floor", lineNo, int(tile))
		}
		m.set(coord, tile)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read maze: %w", err)
	}

	return m, nil
}

func parseEntry(line string) (Coord, TileType, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return Coord{}, 0, fmt.Errorf("%w: missing '='", ErrMalformedEntry)
	}

	colStr, rowStr, ok := strings.Cut(key, ",")
	if !ok {
		return Coord{}, 0, fmt.Errorf("%w: key must be col,row", ErrMalformedEntry)
	}

	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return Coord{}, 0, fmt.Errorf("%w: column: %v", ErrMalformedEntry, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return Coord{}, 0, fmt.Errorf("%w: row: %v", ErrMalformedEntry, err)
	}
	if col < 0 || row < 0 {
		return Coord{}, 0, fmt.Errorf("%w: negative coordinate", ErrMalformedEntry)
	}

	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return Coord{}, 0, fmt.Errorf("%w: tile type: %v", ErrMalformedEntry, err)
	}
	return Coord{Col: col, Row: row}, TileType(code), nil
}

// ParseString parses maze entries held in memory
func ParseString(s string) (*TileMap, error) {
	return Parse(strings.NewReader(s))
}

// Load reads a maze file from disk
func Load(path string) (*TileMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open maze file: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse maze file %s: %w", path, err)
	}
	return m, nil
}

// LoadLenient never fails: errors are logged and an empty map is returned.
// Callers reject the empty map when they need a playable maze.
func LoadLenient(path string) *TileMap {
	m, err := Load(path)
	if err != nil {
		log.Printf("Warning: maze %s could not be loaded: %v", path, err)
		return NewTileMap(nil)
	}
	return m
}
