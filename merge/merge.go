// Package merge implements data pack merging logic,
// equivalent to grit's DataPack.RePack.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/minios-linux/repak/pak"
)

// DuplicateKeyError is returned when a resource id appears in more than
// one input pack.
type DuplicateKeyError struct {
	IDs []uint16
}

func (e *DuplicateKeyError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.Itoa(int(id))
	}
	return "duplicate resource ids: " + strings.Join(ids, ", ")
}

// EncodingError is returned when two input packs carry different text
// encodings.
type EncodingError struct {
	Have, Got pak.Encoding
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("inconsistent encodings %s vs %s", e.Have, e.Got)
}

// Packs combines the resources of several packs into one.
//   - A resource id may appear in only one input.
//   - Binary packs adopt the encoding of the next text pack; two text
//     packs must agree on their encoding.
//   - With a non-nil whitelist only listed ids are kept; the dropped ids
//     are returned in ascending order.
func Packs(packs []*pak.DataPack, whitelist map[uint16]bool) (*pak.DataPack, []uint16, error) {
	result := pak.New(pak.Binary)
	var removed []uint16

	for _, dp := range packs {
		var dups []uint16
		for id := range dp.Resources {
			if _, ok := result.Resources[id]; ok {
				dups = append(dups, id)
			}
		}
		if len(dups) > 0 {
			sortIDs(dups)
			return nil, nil, &DuplicateKeyError{IDs: dups}
		}

		switch {
		case result.Encoding == pak.Binary:
			result.Encoding = dp.Encoding
		case dp.Encoding != pak.Binary && dp.Encoding != result.Encoding:
			return nil, nil, &EncodingError{Have: result.Encoding, Got: dp.Encoding}
		}

		for id, data := range dp.Resources {
			if whitelist != nil && !whitelist[id] {
				removed = append(removed, id)
				continue
			}
			result.Resources[id] = data
		}
	}

	sortIDs(removed)
	return result, removed, nil
}

func sortIDs(ids []uint16) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// ErrEmptyWhitelist is returned for a whitelist file without any id.
var ErrEmptyWhitelist = errors.New("whitelist lists no resource ids")

// ReadWhitelist reads a file listing one decimal resource id per line.
// Blank lines are ignored. A file without any id is an error.
func ReadWhitelist(path string) (map[uint16]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading whitelist: %w", err)
	}
	defer f.Close()

	ids := make(map[uint16]bool)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseUint(line, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid resource id %q", path, lineNo, line)
		}
		ids[uint16(id)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading whitelist %s: %w", path, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyWhitelist)
	}
	return ids, nil
}
