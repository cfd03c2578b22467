// Package conf reads plain list files: one value per line, '#' starts a
// comment line, blank lines are ignored.
package conf

import (
	"bufio"
	"io"
	"os"
	"strings"
)

type Conf struct {
	Values []string
}

// Contains reports whether value is listed.
func (c *Conf) Contains(value string) bool {
	for _, v := range c.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Set returns the values as a lookup set.
func (c *Conf) Set() map[string]bool {
	set := make(map[string]bool, len(c.Values))
	for _, v := range c.Values {
		set[v] = true
	}
	return set
}

func Read(reader io.Reader) (*Conf, error) {
	scanner := bufio.NewScanner(reader)
	retval := make([]string, 0, 16)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > 0 && line[0] != '#' {
			retval = append(retval, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Conf{retval}, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}
