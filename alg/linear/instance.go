package linear

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	COL_DELIM = " "
	FTR_DELIM = ":"
)

// Instance is one training example. Indices are ascending and 1-based;
// Values is nil for binary vectors.
type Instance struct {
	Label   int
	Indices []int
	Values  []float64
}

func (i *Instance) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(i.Label))
	for j, idx := range i.Indices {
		b.WriteString(COL_DELIM)
		b.WriteString(strconv.Itoa(idx))
		if i.Values != nil {
			b.WriteString(FTR_DELIM)
			b.WriteString(strconv.FormatFloat(i.Values[j], 'g', -1, 64))
		}
	}
	return b.String()
}

// ParseInstance decodes "label idx idx ..." or "label idx:value ...".
func ParseInstance(line string) (*Instance, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty instance")
	}
	label, err := strconv.Atoi(fields[0])
	if err != nil || label < 0 {
		return nil, fmt.Errorf("bad label %q", fields[0])
	}
	inst := &Instance{Label: label, Indices: make([]int, len(fields)-1)}
	for j, field := range fields[1:] {
		idxStr := field
		if sep := strings.Index(field, FTR_DELIM); sep >= 0 {
			if inst.Values == nil {
				if j > 0 {
					return nil, fmt.Errorf("mixed binary and valued features")
				}
				inst.Values = make([]float64, len(fields)-1)
			}
			idxStr = field[:sep]
			if inst.Values[j], err = strconv.ParseFloat(field[sep+1:], 64); err != nil {
				return nil, fmt.Errorf("bad value %q", field)
			}
		} else if inst.Values != nil {
			return nil, fmt.Errorf("mixed binary and valued features")
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 1 {
			return nil, fmt.Errorf("bad index %q", field)
		}
		if j > 0 && idx <= inst.Indices[j-1] {
			return nil, fmt.Errorf("indices not ascending at %q", field)
		}
		inst.Indices[j] = idx
	}
	return inst, nil
}

// Problem is a read-only set of instances.
type Problem struct {
	Instances []*Instance
	// Features is the dimension D, max index + 1
	Features int
	// Labels is the number of model rows, max label + 1 unless raised
	Labels int
}

func (p *Problem) Add(inst *Instance) {
	p.Instances = append(p.Instances, inst)
	if n := len(inst.Indices); n > 0 && inst.Indices[n-1]+1 > p.Features {
		p.Features = inst.Indices[n-1] + 1
	}
	if inst.Label+1 > p.Labels {
		p.Labels = inst.Label + 1
	}
}

func (p *Problem) Valued() bool {
	for _, inst := range p.Instances {
		if inst.Values != nil {
			return true
		}
	}
	return false
}

func ReadInstances(r io.Reader) (*Problem, error) {
	p := &Problem{Features: 1}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		inst, err := ParseInstance(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		p.Add(inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// InstanceWriter writes instances one per line.
type InstanceWriter struct {
	w *bufio.Writer
	N int
}

func NewInstanceWriter(w io.Writer) *InstanceWriter {
	return &InstanceWriter{w: bufio.NewWriter(w)}
}

func (w *InstanceWriter) Emit(label int, features []int) error {
	return w.Write(&Instance{Label: label, Indices: features})
}

func (w *InstanceWriter) Write(inst *Instance) error {
	w.N++
	if _, err := w.w.WriteString(inst.String()); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *InstanceWriter) Flush() error {
	return w.w.Flush()
}

// Collector keeps emitted instances in memory.
type Collector struct {
	Problem
}

func (c *Collector) Emit(label int, features []int) error {
	c.Add(&Instance{Label: label, Indices: append([]int(nil), features...)})
	return nil
}
