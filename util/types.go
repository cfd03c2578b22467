package util

import "io"

// Persist is implemented by the text-serialized model components.
type Persist interface {
	Read(reader io.Reader) error
	Write(writer io.Writer) error
}
