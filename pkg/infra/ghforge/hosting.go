package ghforge

import (
	"context"
	"encoding/base64"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// PublishTree replaces the hosting branch with the directory contents:
// blobs are uploaded, assembled into a fresh root tree (no base tree, so
// removed files disappear), committed without a parent and the branch ref
// is force-moved onto the commit. The branch therefore always holds a
// single commit describing the current site.
func (x *Client) PublishTree(ctx context.Context, owner, repo string, branch types.BranchName, dir, message string) error {
	client, err := x.githubClient(ctx, owner)
	if err != nil {
		return err
	}

	entries, err := x.uploadBlobs(ctx, client, owner, repo, dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return goerr.Wrap(types.ErrArtifactMissing, "bundle directory is empty", goerr.V("dir", dir))
	}

	tree, _, err := client.Git.CreateTree(ctx, owner, repo, "", entries)
	if err != nil {
		return goerr.Wrap(err, "failed to create site tree", goerr.V("dir", dir))
	}

	commit, _, err := client.Git.CreateCommit(ctx, owner, repo, &github.Commit{
		Message: github.String(message),
		Tree:    tree,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create site commit")
	}

	ref := &github.Reference{
		Ref: github.String("refs/heads/" + string(branch)),
		Object: &github.GitObject{
			SHA: commit.SHA,
		},
	}
	if _, _, err := client.Git.CreateRef(ctx, owner, repo, ref); err != nil {
		if !isAlreadyExists(err) {
			return goerr.Wrap(err, "failed to create hosting branch", goerr.V("branch", branch))
		}
		if _, _, err := client.Git.UpdateRef(ctx, owner, repo, ref, true); err != nil {
			return goerr.Wrap(err, "failed to move hosting branch", goerr.V("branch", branch))
		}
	}

	logging.From(ctx).Info("published site tree",
		slog.String("branch", string(branch)),
		slog.Int("files", len(entries)),
		slog.String("commit", commit.GetSHA()),
	)

	return nil
}

func (x *Client) uploadBlobs(ctx context.Context, client *github.Client, owner, repo, dir string) ([]*github.TreeEntry, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk bundle directory", goerr.V("dir", dir))
	}
	sort.Strings(paths)

	entries := make([]*github.TreeEntry, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read bundle file", goerr.V("path", path))
		}

		blob, _, err := client.Git.CreateBlob(ctx, owner, repo, &github.Blob{
			Content:  github.String(base64.StdEncoding.EncodeToString(raw)),
			Encoding: github.String("base64"),
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create blob", goerr.V("path", path))
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to relativize bundle path", goerr.V("path", path))
		}

		entries = append(entries, &github.TreeEntry{
			Path: github.String(filepath.ToSlash(rel)),
			Mode: github.String("100644"),
			Type: github.String("blob"),
			SHA:  blob.SHA,
		})
	}

	return entries, nil
}
