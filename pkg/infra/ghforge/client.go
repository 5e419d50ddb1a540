package ghforge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/interfaces"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
	"github.com/mizuki-lab/nocturne/pkg/utils/safe"
)

// Client talks to GitHub as a GitHub App installation. It covers both the
// release surface (tags, releases, assets) and the static hosting surface
// (branch tree publishing).
type Client struct {
	appID types.GitHubAppID
	pem   types.GitHubAppPrivateKey

	mu       sync.Mutex
	installs map[string]types.GitHubAppInstallID
}

var (
	_ interfaces.Forge   = (*Client)(nil)
	_ interfaces.Hosting = (*Client)(nil)
)

func New(appID types.GitHubAppID, pem types.GitHubAppPrivateKey) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	return &Client{
		appID:    appID,
		pem:      pem,
		installs: make(map[string]types.GitHubAppInstallID),
	}, nil
}

func (x *Client) buildAppClient() (*github.Client, error) {
	tr := http.DefaultTransport
	itr, err := ghinstallation.NewAppsTransport(tr, int64(x.appID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create app transport")
	}
	return github.NewClient(&http.Client{Transport: itr}), nil
}

func (x *Client) buildInstallClient(installID types.GitHubAppInstallID) (*github.Client, error) {
	tr := http.DefaultTransport
	itr, err := ghinstallation.New(tr, int64(x.appID), int64(installID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create installation transport")
	}
	return github.NewClient(&http.Client{Transport: itr}), nil
}

// githubClient resolves the app installation for the owner and returns an
// authenticated client. Installation IDs are cached per owner.
func (x *Client) githubClient(ctx context.Context, owner string) (*github.Client, error) {
	x.mu.Lock()
	installID, ok := x.installs[owner]
	x.mu.Unlock()

	if !ok {
		id, err := x.findInstallation(ctx, owner)
		if err != nil {
			return nil, err
		}
		installID = id

		x.mu.Lock()
		x.installs[owner] = installID
		x.mu.Unlock()
	}

	return x.buildInstallClient(installID)
}

func (x *Client) findInstallation(ctx context.Context, owner string) (types.GitHubAppInstallID, error) {
	client, err := x.buildAppClient()
	if err != nil {
		return 0, err
	}

	installation, resp, orgErr := client.Apps.FindOrganizationInstallation(ctx, owner)
	if orgErr == nil && installation != nil {
		return types.GitHubAppInstallID(installation.GetID()), nil
	}

	if resp != nil && resp.StatusCode == http.StatusNotFound {
		installation, _, userErr := client.Apps.FindUserInstallation(ctx, owner)
		if userErr != nil {
			return 0, goerr.Wrap(userErr, "failed to find user installation for owner",
				goerr.V("owner", owner))
		}
		if installation != nil {
			return types.GitHubAppInstallID(installation.GetID()), nil
		}
	}

	if orgErr != nil {
		return 0, goerr.Wrap(orgErr, "failed to find organization installation for owner",
			goerr.V("owner", owner))
	}

	return 0, goerr.Wrap(types.ErrInvalidGitHubData, "installation not found for owner",
		goerr.V("owner", owner))
}

func (x *Client) GetBranchHead(ctx context.Context, owner, repo string, branch types.BranchName) (types.CommitSHA, error) {
	client, err := x.githubClient(ctx, owner)
	if err != nil {
		return "", err
	}

	ref, _, err := client.Git.GetRef(ctx, owner, repo, "heads/"+string(branch))
	if err != nil {
		return "", goerr.Wrap(err, "failed to get branch head",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("branch", branch))
	}
	if ref.GetObject().GetSHA() == "" {
		return "", goerr.Wrap(types.ErrInvalidGitHubData, "branch ref has no commit",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("branch", branch))
	}

	return types.CommitSHA(ref.GetObject().GetSHA()), nil
}

func (x *Client) GetArchiveURL(ctx context.Context, owner, repo string, commit types.CommitSHA) (*url.URL, error) {
	client, err := x.githubClient(ctx, owner)
	if err != nil {
		return nil, err
	}

	opt := &github.RepositoryContentGetOptions{
		Ref: string(commit),
	}

	// https://docs.github.com/en/rest/repos/contents#get-archive-link
	archiveURL, r, err := client.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball, opt, false)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get archive link")
	}
	if r.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(r.Body)
		return nil, goerr.New("failed to get archive link",
			goerr.V("status", r.StatusCode), goerr.V("body", string(body)))
	}

	return archiveURL, nil
}

// ForceMoveTag points refs/tags/<tag> at the commit. The update is a single
// atomic ref replace on the remote; repeating it with the same commit is
// harmless, so concurrent platform jobs of one cycle can all call it.
func (x *Client) ForceMoveTag(ctx context.Context, owner, repo string, tag types.TagName, commit types.CommitSHA) error {
	client, err := x.githubClient(ctx, owner)
	if err != nil {
		return err
	}

	ref := &github.Reference{
		Ref: github.String("refs/tags/" + string(tag)),
		Object: &github.GitObject{
			SHA: github.String(string(commit)),
		},
	}

	if _, _, err := client.Git.CreateRef(ctx, owner, repo, ref); err != nil {
		if !isAlreadyExists(err) {
			return goerr.Wrap(err, "failed to create tag ref",
				goerr.V("tag", tag), goerr.V("commit", commit))
		}

		if _, _, err := client.Git.UpdateRef(ctx, owner, repo, ref, true); err != nil {
			return goerr.Wrap(err, "failed to force-move tag ref",
				goerr.V("tag", tag), goerr.V("commit", commit))
		}
	}

	logging.From(ctx).Info("moved tag",
		slog.String("tag", string(tag)),
		slog.String("commit", string(commit)),
	)

	return nil
}

func isAlreadyExists(err error) bool {
	if errResp, ok := err.(*github.ErrorResponse); ok {
		return errResp.Response != nil && errResp.Response.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

func isNotFound(err error) bool {
	if errResp, ok := err.(*github.ErrorResponse); ok {
		return errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func (x *Client) EnsureRelease(ctx context.Context, owner, repo string, release *model.Release) (int64, error) {
	client, err := x.githubClient(ctx, owner)
	if err != nil {
		return 0, err
	}

	existing, _, err := client.Repositories.GetReleaseByTag(ctx, owner, repo, string(release.Tag))
	if err == nil {
		return existing.GetID(), nil
	}
	if !isNotFound(err) {
		return 0, goerr.Wrap(err, "failed to get release by tag", goerr.V("tag", release.Tag))
	}

	created, _, err := client.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName: github.String(string(release.Tag)),
		Name:    github.String(release.Title),
		Body:    github.String(release.Body),
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create release", goerr.V("tag", release.Tag))
	}

	return created.GetID(), nil
}

func (x *Client) ReplaceAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) error {
	if _, err := os.Stat(path); err != nil {
		return goerr.Wrap(types.ErrArtifactMissing, "artifact file is not at the expected path",
			goerr.V("name", name), goerr.V("path", path))
	}

	client, err := x.githubClient(ctx, owner)
	if err != nil {
		return err
	}

	// Drop a previous asset of the same name first; other slots stay.
	opts := &github.ListOptions{PerPage: 100}
	for {
		assets, resp, err := client.Repositories.ListReleaseAssets(ctx, owner, repo, releaseID, opts)
		if err != nil {
			return goerr.Wrap(err, "failed to list release assets", goerr.V("release_id", releaseID))
		}
		for _, asset := range assets {
			if asset.GetName() != name {
				continue
			}
			if _, err := client.Repositories.DeleteReleaseAsset(ctx, owner, repo, asset.GetID()); err != nil {
				return goerr.Wrap(err, "failed to delete stale release asset",
					goerr.V("name", name), goerr.V("asset_id", asset.GetID()))
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	fd, err := os.Open(filepath.Clean(path))
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", path))
	}
	defer safe.Close(fd)

	if _, _, err := client.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, &github.UploadOptions{
		Name: name,
	}, fd); err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.V("name", name), goerr.V("release_id", releaseID))
	}

	logging.From(ctx).Info("replaced release asset",
		slog.String("name", name),
		slog.Int64("release_id", releaseID),
	)

	return nil
}
