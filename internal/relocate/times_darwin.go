//go:build darwin

package relocate

import (
	"time"

	"golang.org/x/sys/unix"
)

func amtimes(st *unix.Stat_t) (atime, mtime time.Time) {
	return time.Unix(st.Atimespec.Unix()), time.Unix(st.Mtimespec.Unix())
}
