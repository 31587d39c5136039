// Package fileutil implements the copy and move post-actions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrSameFile is returned when a copy would overwrite its own source.
var ErrSameFile = errors.New("source and destination are the same file")

// CopyFile streams src to dst, preserving the permission bits and the
// modification time of src. dst is replaced if it exists.
func CopyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%w: %s", ErrSameFile, src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}

// CopyInto copies src into dir under its own base name and returns the
// destination path.
func CopyInto(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if err := CopyFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// MoveInto moves src into dir under its own base name. It fails if the
// destination already exists. Across filesystems the file is copied and the
// source removed.
func MoveInto(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if dstInfo, err := os.Stat(dst); err == nil {
		if os.SameFile(srcInfo, dstInfo) {
			return "", fmt.Errorf("%w: %s", ErrSameFile, src)
		}
		return "", fmt.Errorf("destination path '%s' already exists", dst)
	}

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	} else if !isCrossDevice(err) {
		return "", err
	}

	if err := CopyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("copied to %s but failed to remove source: %w", dst, err)
	}
	return dst, nil
}
