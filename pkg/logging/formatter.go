package logging

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const sourceField = "x_file_source"

// SourceFormatter replaces the full caller path with "file.go:line"
// and hands the entry to Underlying.
type SourceFormatter struct {
	Underlying logrus.Formatter
}

func (f *SourceFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Data[sourceField] = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	return f.Underlying.Format(entry)
}
