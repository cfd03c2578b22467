package util

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// EnumSet is an insertion-ordered string alphabet with dense 0-based ids.
type EnumSet struct {
	mu     sync.RWMutex
	Enum   map[string]int
	Index  []string
	Frozen bool
}

func (e *EnumSet) RebuildIndex() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Index = make([]string, len(e.Enum))
	for k, v := range e.Enum {
		e.Index[v] = k
	}
}

func (e *EnumSet) Add(value string) (int, bool) {
	if e.Frozen {
		panic("Cannot add value to frozen enum set")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	enum, exists := e.Enum[value]
	if exists {
		return enum, false
	}
	enum = len(e.Index)
	e.Enum[value] = enum
	e.Index = append(e.Index, value)
	return enum, true
}

func (e *EnumSet) IndexOf(value string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enum, exists := e.Enum[value]
	return enum, exists
}

func (e *EnumSet) ValueOf(index int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || len(e.Index) <= index {
		panic("Unknown index requested: " + fmt.Sprintf("%v of %v", index, len(e.Index)))
	}
	return e.Index[index]
}

func (e *EnumSet) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Index)
}

// Write dumps the set as a count line followed by one value per line.
func (e *EnumSet) Write(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, err := fmt.Fprintln(w, len(e.Index)); err != nil {
		return err
	}
	for _, v := range e.Index {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadEnumSet reads a set written by Write; the result is frozen.
func ReadEnumSet(r *bufio.Reader) (*EnumSet, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	e := NewEnumSet(n)
	for i := 0; i < n; i++ {
		line, err := ReadLine(r)
		if err != nil {
			return nil, fmt.Errorf("enum set entry %d of %d: %w", i+1, n, err)
		}
		e.Add(line)
	}
	e.Frozen = true
	return e, nil
}

// ReadLine returns the next line without its terminator.
// A final line without a newline is returned with a nil error.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func ReadCount(r *bufio.Reader) (int, error) {
	line, err := ReadLine(r)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("bad count line %q: %w", line, err)
	}
	return n, nil
}

func NewEnumSet(capacity int) *EnumSet {
	e := &EnumSet{
		sync.RWMutex{},
		make(map[string]int, capacity),
		make([]string, 0, capacity),
		false,
	}
	return e
}
