//go:build linux

package staging

import (
	"time"

	"golang.org/x/sys/unix"
)

type ownerStat struct {
	uid   int
	ctime time.Time
	isDir bool
}

func statOwner(path string) (*ownerStat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, err
	}
	return &ownerStat{
		uid:   int(st.Uid),
		ctime: time.Unix(st.Ctim.Unix()),
		isDir: st.Mode&unix.S_IFMT == unix.S_IFDIR,
	}, nil
}

func currentUID() int { return unix.Getuid() }
