package secrets

import (
	"crypto/rand"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// Extension is the reserved suffix of encrypted files and folders.
	Extension = ".lockd"

	// MarkerDir is the hidden directory that identifies a workspace folder.
	MarkerDir = ".lockd"
)

// FolderOptions configures EncryptFolder.
type FolderOptions struct {
	// Ignore holds doublestar patterns, relative to the source folder and in
	// slash form, of entries that are not encrypted.
	Ignore []string

	// Rand is the nonce source. Defaults to crypto/rand.
	Rand io.Reader
}

// EncryptedPath returns the default destination for encrypting path.
func EncryptedPath(path string) string {
	return path + Extension
}

// DecryptedPath returns the default destination for decrypting path.
func DecryptedPath(path string) string {
	name := filepath.Base(path)
	if strings.HasSuffix(name, Extension) && len(name) > len(Extension) {
		return strings.TrimSuffix(path, Extension)
	}
	return path + ".decrypted"
}

// EncryptFile reads src, encrypts it, and writes the envelope to dst.
func EncryptFile(key Key, src, dst string) error {
	return encryptFile(rand.Reader, key, src, dst)
}

func encryptFile(random io.Reader, key Key, src, dst string) error {
	plaintext, err := os.ReadFile(src)
	if err != nil {
		return lerrors.NewPathError("read", src, err)
	}

	envelope, err := EncryptWithRand(random, key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", src, err)
	}

	if err := os.WriteFile(dst, envelope, 0600); err != nil {
		return lerrors.NewPathError("write", dst, err)
	}
	return nil
}

// DecryptFile reads the envelope at src and writes its plaintext to dst.
// dst is not touched if decryption fails.
func DecryptFile(key Key, src, dst string) error {
	plaintext, err := ReadEnvelope(key, src)
	if err != nil {
		return err
	}

	// #nosec G306 -- We want the decrypted file to be editable by the user
	if err := os.WriteFile(dst, plaintext, 0644); err != nil {
		return lerrors.NewPathError("write", dst, err)
	}
	return nil
}

// ReadEnvelope reads and decrypts the file at path.
func ReadEnvelope(key Key, path string) ([]byte, error) {
	envelope, err := os.ReadFile(path)
	if err != nil {
		return nil, lerrors.NewPathError("read", path, err)
	}

	plaintext, err := Decrypt(key, envelope)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", path, err)
	}
	return plaintext, nil
}

// WriteEnvelope encrypts plaintext and writes it to path, creating parent directories.
func WriteEnvelope(key Key, path string, plaintext []byte) error {
	return WriteEnvelopeWithRand(rand.Reader, key, path, plaintext)
}

// WriteEnvelopeWithRand is WriteEnvelope with an explicit nonce source.
func WriteEnvelopeWithRand(random io.Reader, key Key, path string, plaintext []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return lerrors.NewPathError("mkdir", filepath.Dir(path), err)
	}

	envelope, err := EncryptWithRand(random, key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", path, err)
	}

	if err := os.WriteFile(path, envelope, 0600); err != nil {
		return lerrors.NewPathError("write", path, err)
	}
	return nil
}

// EncryptFolder mirrors src into dst, replacing every regular file with its
// envelope named <file>.lockd. Existing files in dst are overwritten. The
// walk stops at the first failure.
func EncryptFolder(key Key, src, dst string, opts FolderOptions) ([]string, error) {
	random := opts.Rand
	if random == nil {
		random = rand.Reader
	}
	return walkFolder(src, dst, func(rel string, d fs.DirEntry) (string, bool, error) {
		if d.IsDir() && d.Name() == MarkerDir {
			return "", true, nil
		}
		skip, err := ignored(opts.Ignore, rel)
		if err != nil || skip {
			return "", skip, err
		}
		if d.IsDir() {
			return rel, false, nil
		}
		return rel + Extension, false, nil
	}, func(from, to string) error {
		return encryptFile(random, key, from, to)
	})
}

// DecryptFolder mirrors src into dst, replacing every envelope with its
// plaintext and stripping the .lockd suffix from file names.
func DecryptFolder(key Key, src, dst string) ([]string, error) {
	return walkFolder(src, dst, func(rel string, d fs.DirEntry) (string, bool, error) {
		if d.IsDir() {
			return rel, false, nil
		}
		return strings.TrimSuffix(rel, Extension), false, nil
	}, func(from, to string) error {
		return DecryptFile(key, from, to)
	})
}

// mapFunc returns the destination path (relative) for a source entry, or skip.
type mapFunc func(rel string, d fs.DirEntry) (string, bool, error)

func walkFolder(src, dst string, mapPath mapFunc, transform func(from, to string) error) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, lerrors.NewPathError("stat", src, err)
	}
	if !info.IsDir() {
		return nil, lerrors.NewPathError("walk", src, lerrors.ErrNotDirectory)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, lerrors.NewPathError("mkdir", dst, err)
	}

	var written []string
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return lerrors.NewPathError("walk", path, err)
		}
		if path == src {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return lerrors.NewPathError("walk", path, err)
		}

		target, skip, err := mapPath(filepath.ToSlash(rel), d)
		if err != nil {
			return err
		}
		if skip {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		out := filepath.Join(dst, filepath.FromSlash(target))

		if d.IsDir() {
			if err := os.MkdirAll(out, 0755); err != nil {
				return lerrors.NewPathError("mkdir", out, err)
			}
			return nil
		}

		// Skip irregular files such as sockets, pipes, devices, etc
		if !d.Type().IsRegular() {
			return nil
		}

		if err := transform(path, out); err != nil {
			return err
		}
		written = append(written, out)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return written, nil
}

func ignored(patterns []string, rel string) (bool, error) {
	for _, pattern := range patterns {
		match, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}
