//go:build linux

package relocate

import (
	"time"

	"golang.org/x/sys/unix"
)

func amtimes(st *unix.Stat_t) (atime, mtime time.Time) {
	return time.Unix(st.Atim.Unix()), time.Unix(st.Mtim.Unix())
}
