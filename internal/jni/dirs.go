package jni

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// maxRootLinks bounds symlink resolution of the walk root.
const maxRootLinks = 40

// ListAllSubdirectories returns root followed by every directory beneath it,
// at any depth, in walk order. Files are excluded. A symlinked root is
// followed; symlinks to directories below it are listed but not descended
// into. Unreadable entries are skipped, so a missing root yields just [root].
func ListAllSubdirectories(fsys afero.Fs, root string) []string {
	paths := []string{root}
	target := resolveRoot(fsys, root)
	_ = afero.Walk(fsys, target, func(p string, info os.FileInfo, err error) error {
		if err != nil || info == nil || p == target {
			return nil
		}
		if info.IsDir() {
			paths = append(paths, rebase(target, root, p))
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if st, serr := fsys.Stat(p); serr == nil && st.IsDir() {
				paths = append(paths, rebase(target, root, p))
			}
		}
		return nil
	})
	return paths
}

// resolveRoot follows root while it is a symlink. Filesystems without
// symlink support, and broken or looping links, return root unchanged.
func resolveRoot(fsys afero.Fs, root string) string {
	ls, ok := fsys.(afero.Lstater)
	if !ok {
		return root
	}
	lr, ok := fsys.(afero.LinkReader)
	if !ok {
		return root
	}
	cur := root
	for i := 0; i < maxRootLinks; i++ {
		info, lstatCalled, err := ls.LstatIfPossible(cur)
		if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return cur
		}
		dest, err := lr.ReadlinkIfPossible(cur)
		if err != nil {
			return root
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(cur), dest)
		}
		cur = dest
	}
	return root
}

func rebase(from, to, p string) string {
	if from == to {
		return p
	}
	rel, err := filepath.Rel(from, p)
	if err != nil {
		return p
	}
	return filepath.Join(to, rel)
}
