// FILE: pidcat/src/internal/source/stdin.go
package source

import (
	"os"

	"github.com/lixenwraith/log"
)

// NewStdinSource reads redirected log output from standard input.
func NewStdinSource(bufferSize int, logger *log.Logger) *ReaderSource {
	return NewReaderSource("stdin", os.Stdin, bufferSize, logger)
}
