package database

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseEdgeList reads a whitespace-separated "source target" edge list
// (SNAP style, # starts a comment) into an adjacency map. The node count is
// the highest id seen plus one unless the caller overrides it later.
func ParseEdgeList(filePath string) (GraphMeta, map[uint32][]uint32, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return GraphMeta{}, nil, err
	}
	defer file.Close()

	adjacency := make(map[uint32][]uint32)
	var maxID uint64
	var numEdges uint64

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return GraphMeta{}, nil, fmt.Errorf("line %v: expected \"source target\", got %q", lineNum, line)
		}
		src, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return GraphMeta{}, nil, fmt.Errorf("line %v: bad source id: %v", lineNum, err)
		}
		dst, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return GraphMeta{}, nil, fmt.Errorf("line %v: bad target id: %v", lineNum, err)
		}

		adjacency[uint32(src)] = append(adjacency[uint32(src)], uint32(dst))
		numEdges++
		if src > maxID {
			maxID = src
		}
		if dst > maxID {
			maxID = dst
		}
	}
	if err := scanner.Err(); err != nil {
		return GraphMeta{}, nil, err
	}
	if numEdges == 0 && len(adjacency) == 0 {
		return GraphMeta{}, nil, fmt.Errorf("%v: no edges found", filePath)
	}

	return GraphMeta{NumNodes: maxID + 1, NumEdges: numEdges}, adjacency, nil
}
