package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FilesystemOutput writes each instrumented http exchange into its own
// file under a directory, named by message id. Only the newest `keep`
// files are left on disk.
type FilesystemOutput struct {
	directory string
	keep      int

	lock    *sync.Mutex
	written *[]string
}

// NewFilesystemOutput clears out `dir` and recreates it, keep <= 0 keeps
// every file.
func NewFilesystemOutput(dir string, keep int) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{
		directory: dir,
		keep:      keep,
		lock:      &sync.Mutex{},
		written:   &[]string{},
	}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.directory, id+".txt")
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
		return
	}
	if o.keep <= 0 {
		return
	}

	o.lock.Lock()
	defer o.lock.Unlock()

	*o.written = append(*o.written, path)
	for len(*o.written) > o.keep {
		oldest := (*o.written)[0]
		*o.written = (*o.written)[1:]
		err := os.Remove(oldest)
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove old message info file", "path", oldest, "err", err)
		}
	}
}
