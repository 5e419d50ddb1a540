package memory

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/interfaces"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/repository"
)

var (
	_ interfaces.Forge   = (*Store)(nil)
	_ interfaces.Hosting = (*Store)(nil)
)

// SetBranchHead seeds the head commit of a branch. Test helper; a remote
// forge owns this state in production.
func (x *Store) SetBranchHead(owner, repo string, branch types.BranchName, commit types.CommitSHA) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.repo(owner, repo).heads[branch] = commit
}

// SetArchiveURL seeds the URL returned by GetArchiveURL. Test helper.
func (x *Store) SetArchiveURL(u *url.URL) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.archiveURL = u
}

func (x *Store) GetBranchHead(ctx context.Context, owner, repo string, branch types.BranchName) (types.CommitSHA, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return "", goerr.Wrap(repository.ErrNotFound, "unknown repository",
			goerr.V("owner", owner), goerr.V("repo", repo))
	}
	head, ok := data.heads[branch]
	if !ok {
		return "", goerr.Wrap(repository.ErrNotFound, "unknown branch",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("branch", branch))
	}
	return head, nil
}

func (x *Store) GetArchiveURL(ctx context.Context, owner, repo string, commit types.CommitSHA) (*url.URL, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.archiveURL == nil {
		return nil, goerr.Wrap(repository.ErrNotFound, "no archive configured")
	}
	return x.archiveURL, nil
}

// ForceMoveTag overwrites the tag pointer. Moving to the commit the tag
// already points at succeeds without any state change, which makes the
// operation safe to repeat from concurrent platform jobs.
func (x *Store) ForceMoveTag(ctx context.Context, owner, repo string, tag types.TagName, commit types.CommitSHA) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.repo(owner, repo).tags[tag] = commit
	return nil
}

// Tag returns the current pointer of a tag. Test helper.
func (x *Store) Tag(owner, repo string, tag types.TagName) (types.CommitSHA, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return "", false
	}
	commit, ok := data.tags[tag]
	return commit, ok
}

func (x *Store) EnsureRelease(ctx context.Context, owner, repo string, release *model.Release) (int64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	data := x.repo(owner, repo)
	if rel, ok := data.releases[release.Tag]; ok {
		return rel.id, nil
	}

	rel := &releaseData{
		id:          x.nextID,
		title:       release.Title,
		body:        release.Body,
		assets:      make(map[string][]byte),
		assetWrites: make(map[string]int),
	}
	x.nextID++
	data.releases[release.Tag] = rel
	return rel.id, nil
}

func (x *Store) ReplaceAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return goerr.Wrap(types.ErrArtifactMissing, "failed to read artifact",
			goerr.V("path", path), goerr.V("name", name))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	rel := x.findRelease(owner, repo, releaseID)
	if rel == nil {
		return goerr.Wrap(repository.ErrNotFound, "unknown release",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("release_id", releaseID))
	}

	if prev, ok := rel.assets[name]; ok && bytes.Equal(prev, raw) {
		// Identical bytes: keep the stored asset as is.
		return nil
	}
	rel.assets[name] = raw
	rel.assetWrites[name]++
	return nil
}

func (x *Store) findRelease(owner, repo string, releaseID int64) *releaseData {
	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return nil
	}
	for _, rel := range data.releases {
		if rel.id == releaseID {
			return rel
		}
	}
	return nil
}

// Asset returns the stored bytes of a release asset. Test helper.
func (x *Store) Asset(owner, repo string, tag types.TagName, name string) ([]byte, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return nil, false
	}
	rel, ok := data.releases[tag]
	if !ok {
		return nil, false
	}
	raw, ok := rel.assets[name]
	return raw, ok
}

// AssetNames lists the asset slots of a release in sorted order. Test helper.
func (x *Store) AssetNames(owner, repo string, tag types.TagName) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return nil
	}
	rel, ok := data.releases[tag]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(rel.assets))
	for name := range rel.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssetWrites returns how many times an asset slot was actually
// rewritten. Test helper.
func (x *Store) AssetWrites(owner, repo string, tag types.TagName, name string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return 0
	}
	rel, ok := data.releases[tag]
	if !ok {
		return 0
	}
	return rel.assetWrites[name]
}

// PublishTree replaces the hosting branch contents with the directory tree.
func (x *Store) PublishTree(ctx context.Context, owner, repo string, branch types.BranchName, dir, message string) error {
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		raw, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = raw
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to collect site tree", goerr.V("dir", dir))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.repo(owner, repo).sites[branch] = files
	return nil
}

// Site returns the published file tree of a hosting branch. Test helper.
func (x *Store) Site(owner, repo string, branch types.BranchName) map[string][]byte {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data, ok := x.repos[repoKey(owner, repo)]
	if !ok {
		return nil
	}
	site, ok := data.sites[branch]
	if !ok {
		return nil
	}
	out := make(map[string][]byte, len(site))
	for k, v := range site {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// SitePaths lists published paths, sorted. Test helper.
func (x *Store) SitePaths(owner, repo string, branch types.BranchName) []string {
	site := x.Site(owner, repo, branch)
	paths := make([]string, 0, len(site))
	for p := range site {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
