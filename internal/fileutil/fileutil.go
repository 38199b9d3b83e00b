// Package fileutil holds the file copy primitives used when audio payloads are
// duplicated into the training tree.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// CopyPreserving copies src to dst and carries over the permission bits and
// modification time of src. dst is created or truncated.
func CopyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := copyStream(src, dst, info.Mode().Perm()); err != nil {
		return err
	}
	return preserveMetadata(dst, info)
}

// destinationWriter wraps the destination of CopyVerified. Tests replace it to
// simulate corruption between the copy and the disk.
var destinationWriter = func(w io.Writer) io.Writer { return w }

// CopyVerified behaves like CopyPreserving, then re-reads dst from disk and
// compares its size and SHA-256 digest against the source. dst is removed on
// mismatch.
func CopyVerified(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	if _, err := io.Copy(destinationWriter(out), io.TeeReader(in, srcHasher)); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	size, digest, err := hashFile(dst)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if size != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, destination %d bytes", info.Size(), size)
	}
	if !bytes.Equal(srcHasher.Sum(nil), digest) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: destination differs from source")
	}
	return preserveMetadata(dst, info)
}

func hashFile(path string) (int64, []byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer file.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		return 0, nil, err
	}
	return size, hasher.Sum(nil), nil
}

func copyStream(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func preserveMetadata(dst string, info os.FileInfo) error {
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	mtime := info.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}
