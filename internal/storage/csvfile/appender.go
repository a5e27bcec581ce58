package csvfile

import (
	"encoding/csv"
	"os"
)

// appender writes whole rows to the end of one file. Callers serialise access.
type appender struct {
	f *os.File
	w *csv.Writer
}

func openAppender(path string, header []string) (*appender, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	a := &appender{f: f, w: csv.NewWriter(f)}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := a.append(header); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return a, nil
}

// append writes and flushes one row so no partial record is left buffered
func (a *appender) append(row []string) error {
	if err := a.w.Write(row); err != nil {
		return err
	}
	a.w.Flush()
	return a.w.Error()
}

func (a *appender) close() error {
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		_ = a.f.Close()
		return err
	}
	return a.f.Close()
}
