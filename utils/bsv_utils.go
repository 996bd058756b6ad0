package utils

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadBSV reads a bar separated file. Empty lines and lines starting with
// "#" or "//" are skipped, duplicated lines are returned once.
func ReadBSV(bsvPath string) ([][]string, error) {
	f, err := os.Open(bsvPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", bsvPath)
	}
	defer f.Close()

	var result [][]string
	hashes := make(map[uint64]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		columns := strings.Split(line, "|")

		hash := HashStrings(columns...)
		if hashes[hash] {
			continue
		}
		hashes[hash] = true
		result = append(result, columns)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", bsvPath)
	}
	return result, nil
}
