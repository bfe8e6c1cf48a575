package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/vault"
)

// AddFilesOptions configures the add workflow for file items.
type AddFilesOptions struct {
	// Owner is the provider creating the items.
	Owner string

	// Patterns selects the files to encrypt, using doublestar globs
	// relative to Root ("docs/**/*.pdf").
	Patterns []string

	// Root is the directory patterns are resolved against. Defaults to
	// the working directory.
	Root string

	Backend server.Backend
}

// AddedFile records one uploaded file item.
type AddedFile struct {
	ItemID string
	Path   string
}

// AddFilesResult contains the outcome of an add-files operation.
type AddFilesResult struct {
	Files []AddedFile
}

// AddFiles encrypts each matched file under its own fresh content key and
// uploads the records. Files always get a fresh IV; there is no in-place
// edit path for binary items.
func AddFiles(ctx context.Context, opts AddFilesOptions) (*AddFilesResult, error) {
	root := opts.Root
	if root == "" {
		var err error
		if root, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}

	paths, err := resolvePatterns(root, opts.Patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, verrors.ErrNoFilesFound
	}

	ownerPub, err := opts.Backend.FetchPublicKey(ctx, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("fetching owner public key: %w", err)
	}

	result := &AddFilesResult{}
	for _, path := range paths {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		file, err := vault.EncryptFileForOwner(buf, ownerPub)
		if err != nil {
			return nil, err
		}

		rec := server.ItemRecord{
			ID:              uuid.New().String(),
			Owner:           opts.Owner,
			Name:            filepath.Base(path),
			Kind:            server.KindFile,
			FileBody:        file.Payload.Ciphertext,
			FileName:        filepath.Base(path),
			EncryptedAESKey: file.WrappedKey,
			IV:              file.Payload.IV,
		}
		if err := opts.Backend.PutItem(ctx, rec); err != nil {
			return nil, fmt.Errorf("storing %s: %w", path, err)
		}

		result.Files = append(result.Files, AddedFile{ItemID: rec.ID, Path: path})
	}

	return result, nil
}

func resolvePatterns(root string, patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs := filepath.Join(root, m)
			info, err := os.Stat(abs)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[abs] {
				seen[abs] = true
				paths = append(paths, abs)
			}
		}
	}
	return paths, nil
}
