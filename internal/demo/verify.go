package demo

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
)

// Verification describes the content of the shared file.
type Verification struct {
	Path string `json:"path"`
	// Lines is the number of lines in the file.
	Lines int `json:"lines"`
	// Workers maps each worker index found to its number of lines.
	Workers map[int]int `json:"workers"`
	// Malformed counts lines that do not start with a worker/line header.
	Malformed int `json:"malformed"`
	// Writer is the only worker found, or -1.
	Writer int `json:"writer"`
	// Intact is true when the file is exactly one worker's complete payload.
	Intact bool `json:"intact"`
}

// WorkerIndexes returns the worker indexes found, sorted.
func (v Verification) WorkerIndexes() []int {
	indexes := make([]int, 0, len(v.Workers))
	for i := range v.Workers {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// Verify reads the shared file and checks it against the payload of size lines.
func Verify(path string, lines int) (Verification, error) {
	v := Verification{Path: path, Workers: make(map[int]int), Writer: -1}

	data, err := os.ReadFile(path) //#nosec G304 -- user-selected demo file
	if err != nil {
		return v, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		v.Lines++
		var worker, line int
		if n, _ := fmt.Sscanf(scanner.Text(), "worker=%d line=%d", &worker, &line); n != 2 {
			v.Malformed++
			continue
		}
		v.Workers[worker]++
	}
	if err := scanner.Err(); err != nil {
		return v, err
	}

	if len(v.Workers) == 1 {
		for w := range v.Workers {
			v.Writer = w
		}
		v.Intact = v.Malformed == 0 && bytes.Equal(data, Payload(v.Writer, lines))
	}
	return v, nil
}
