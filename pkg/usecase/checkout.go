package usecase

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/safe"
)

// checkout materializes the source tree of the commit inside dstDir. The
// forge hands out a zipball URL whose entries are nested under a single
// top-level directory; that directory is stripped during extraction.
func (x *UseCase) checkout(ctx context.Context, commit types.CommitSHA, dstDir string) error {
	archiveURL, err := x.clients.Forge().GetArchiveURL(ctx, x.pipeline.Owner, x.pipeline.Repo, commit)
	if err != nil {
		return err
	}

	tmpZip, err := os.CreateTemp("", fmt.Sprintf("nocturne_src.%s.*.zip", commit))
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file for source archive")
	}
	defer safe.Remove(tmpZip.Name())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL.String(), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create archive request", goerr.V("url", archiveURL))
	}
	resp, err := x.clients.HTTPClient().Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to download source archive", goerr.V("url", archiveURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return goerr.Wrap(types.ErrInvalidGitHubData, "failed to download source archive",
			goerr.V("url", archiveURL),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	if _, err := io.Copy(tmpZip, resp.Body); err != nil {
		return goerr.Wrap(err, "failed to write source archive", goerr.V("url", archiveURL))
	}
	if err := tmpZip.Close(); err != nil {
		return goerr.Wrap(err, "failed to close source archive")
	}

	return extractArchive(tmpZip.Name(), dstDir)
}

func extractArchive(src, dst string) error {
	archive, err := zip.OpenReader(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open source archive", goerr.V("file", src))
	}
	defer safe.Close(archive)

	for _, f := range archive.File {
		if err := extractEntry(f, dst); err != nil {
			return err
		}
	}

	return nil
}

func extractEntry(f *zip.File, dst string) error {
	if f.FileInfo().IsDir() {
		return nil
	}

	target := strippedEntryPath(f.Name)
	if target == "" {
		return nil
	}
	if strings.Contains(target, "..") {
		return goerr.Wrap(types.ErrInvalidGitHubData, "illegal path in source archive", goerr.V("path", f.Name))
	}

	path := filepath.Join(dst, filepath.FromSlash(target))
	if !strings.HasPrefix(path, filepath.Clean(dst)+string(os.PathSeparator)) {
		return goerr.Wrap(types.ErrInvalidGitHubData, "illegal path in source archive", goerr.V("path", f.Name))
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("path", path))
	}

	// #nosec G304: path is confined to dst above
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return goerr.Wrap(err, "failed to open extracted file", goerr.V("path", path))
	}
	defer safe.Close(out)

	rc, err := f.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open archive entry", goerr.V("path", f.Name))
	}
	defer safe.Close(rc)

	// #nosec G110: source archives come from the configured forge
	if _, err := io.Copy(out, rc); err != nil {
		return goerr.Wrap(err, "failed to copy archive entry", goerr.V("path", f.Name))
	}

	return nil
}

// strippedEntryPath removes the archive's single top-level directory from
// an entry name, returning "" for entries that have nothing below it.
func strippedEntryPath(name string) string {
	normalized := strings.TrimLeft(strings.ReplaceAll(name, "\\", "/"), "/")
	if normalized == "" {
		return ""
	}

	parts := strings.Split(normalized, "/")
	if len(parts) <= 1 {
		return ""
	}

	var kept []string
	for _, part := range parts[1:] {
		if part == "" || part == "." {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}
