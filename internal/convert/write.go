package convert

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/xid"
)

// writeAtomic streams write's output into a hidden temporary file next to
// dst and renames it over dst on success. The temporary file is removed on
// every failure path.
func writeAtomic(dst string, write func(w io.Writer) error) (err error) {
	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+xid.New().String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
