package filesystem

import (
	"io"
	"os"

	"github.com/arthur-debert/outsider/pkg/types"
)

// CopyFile copies src over dst, creating or truncating dst and giving it the
// permission bits of src. Parent directories of dst are not created; callers
// that want that check errors.Is(err, fs.ErrNotExist) and retry.
func CopyFile(fsys types.FS, src, dst string) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// Exists reports whether name can be stat'ed
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
