// Package swc reads SWC morphology files into the skeleton model. SWC is a
// whitespace-delimited text format, one sample per line:
//
//	index type x y z radius parent
//
// with type 1 = soma, 2 = axon, 3 = basal dendrite, 4 = apical dendrite.
// Lines starting with '#' are comments.
package swc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/morphokit/morphokit/internal/morphology"
	"gonum.org/v1/gonum/spatial/r3"
)

// SWC structure type codes
const (
	typeSoma           = 1
	typeAxon           = 2
	typeBasalDendrite  = 3
	typeApicalDendrite = 4
)

type record struct {
	id     int
	typ    int
	point  r3.Vec
	radius float64
	parent int
}

// ReadFile parses the SWC file at path into a Morphology. The morphology's
// label is the file's base name without extension.
func ReadFile(path string) (*morphology.Morphology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SWC file: %w", err)
	}
	defer f.Close()

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := Read(f, label)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses SWC data into a Morphology with the given label.
func Read(r io.Reader, label string) (*morphology.Morphology, error) {
	records, err := parseRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no samples in SWC data")
	}

	byID := make(map[int]*record, len(records))
	for i := range records {
		rec := &records[i]
		if _, dup := byID[rec.id]; dup {
			return nil, fmt.Errorf("duplicate sample index %d", rec.id)
		}
		byID[rec.id] = rec
	}

	children := make(map[int][]int)
	for i := range records {
		rec := &records[i]
		if rec.parent < 0 {
			continue
		}
		if _, ok := byID[rec.parent]; !ok {
			return nil, fmt.Errorf("sample %d references missing parent %d", rec.id, rec.parent)
		}
		children[rec.parent] = append(children[rec.parent], rec.id)
	}
	// Sort child lists so section numbering is deterministic
	for id := range children {
		sort.Ints(children[id])
	}

	m := &morphology.Morphology{Label: label}

	// Soma: centroid and mean radius over all type-1 samples
	somaCount := 0
	for i := range records {
		rec := &records[i]
		if rec.typ != typeSoma {
			continue
		}
		m.Soma.Centroid = r3.Add(m.Soma.Centroid, rec.point)
		m.Soma.MeanRadius += rec.radius
		somaCount++
	}
	if somaCount > 0 {
		m.Soma.Centroid = r3.Scale(1.0/float64(somaCount), m.Soma.Centroid)
		m.Soma.MeanRadius /= float64(somaCount)
	}

	// A neurite root is a non-soma sample whose parent is absent or a soma
	// sample.
	basalCount := 0
	axonCount := 0
	for i := range records {
		rec := &records[i]
		if rec.typ == typeSoma {
			continue
		}
		isRoot := rec.parent < 0
		if !isRoot {
			if parent, ok := byID[rec.parent]; ok && parent.typ == typeSoma {
				isRoot = true
			}
		}
		if !isRoot {
			continue
		}

		var arbor *morphology.Arbor
		switch rec.typ {
		case typeApicalDendrite:
			if m.ApicalDendrite != nil {
				return nil, fmt.Errorf("sample %d: more than one apical dendrite tree", rec.id)
			}
			arbor = morphology.NewArbor("apical-dendrite", morphology.TypeApicalDendrite)
			m.ApicalDendrite = arbor
		case typeAxon:
			arbor = morphology.NewArbor(fmt.Sprintf("axon-%d", axonCount), morphology.TypeAxon)
			m.Axons = append(m.Axons, arbor)
			axonCount++
		default:
			// Basal dendrites, plus any custom type codes
			arbor = morphology.NewArbor(fmt.Sprintf("basal-dendrite-%d", basalCount), morphology.TypeBasalDendrite)
			m.BasalDendrites = append(m.BasalDendrites, arbor)
			basalCount++
		}

		buildSection(arbor, morphology.NoParent, rec.id, nil, byID, children)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// buildSection follows an unbranched chain of samples from startID into one
// section, then recurses into each child branch. Child sections repeat the
// branching sample as their first sample so segments stay contiguous.
func buildSection(arbor *morphology.Arbor, parentSection, startID int, branchSample *morphology.Sample, byID map[int]*record, children map[int][]int) {
	var samples []morphology.Sample
	if branchSample != nil {
		samples = append(samples, *branchSample)
	}

	current := startID
	for {
		rec := byID[current]
		samples = append(samples, morphology.Sample{Point: rec.point, Radius: rec.radius})

		kids := children[current]
		if len(kids) == 1 {
			current = kids[0]
			continue
		}

		index := arbor.AddSection(parentSection, samples)
		last := samples[len(samples)-1]
		for _, kid := range kids {
			buildSection(arbor, index, kid, &last, byID, children)
		}
		return
	}
}

func parseRecords(r io.Reader) ([]record, error) {
	var records []record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 7 {
			return nil, fmt.Errorf("line %d: expected 7 fields, got %d", lineNo, len(fields))
		}

		var rec record
		var err error
		if rec.id, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: bad sample index %q", lineNo, fields[0])
		}
		if rec.typ, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: bad type code %q", lineNo, fields[1])
		}
		if rec.point.X, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad x coordinate %q", lineNo, fields[2])
		}
		if rec.point.Y, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad y coordinate %q", lineNo, fields[3])
		}
		if rec.point.Z, err = strconv.ParseFloat(fields[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad z coordinate %q", lineNo, fields[4])
		}
		if rec.radius, err = strconv.ParseFloat(fields[5], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad radius %q", lineNo, fields[5])
		}
		if rec.radius < 0 {
			return nil, fmt.Errorf("line %d: negative radius %v", lineNo, rec.radius)
		}
		if rec.parent, err = strconv.Atoi(fields[6]); err != nil {
			return nil, fmt.Errorf("line %d: bad parent index %q", lineNo, fields[6])
		}

		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading SWC data: %w", err)
	}

	return records, nil
}
