package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/mizuki-lab/nocturne/pkg/domain/mock"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/infra"
	"github.com/mizuki-lab/nocturne/pkg/repository/memory"
	"github.com/mizuki-lab/nocturne/pkg/usecase"
)

var (
	commit1 = types.CommitSHA(strings.Repeat("1", 40))
	commit2 = types.CommitSHA(strings.Repeat("2", 40))
)

// fakeToolchain interprets pseudo-commands instead of invoking real
// compilers: "emit <path> <content>" creates a file, "emit-dir <dir>
// <name> <content>" creates a bundle file, "ok" succeeds, "fail <msg>"
// fails. It records every argv it ran.
type fakeToolchain struct {
	ran [][]string
}

func (x *fakeToolchain) Run(ctx context.Context, dir string, argv []string) error {
	x.ran = append(x.ran, argv)
	switch argv[0] {
	case "ok":
		return nil
	case "fail":
		return goerr.New("simulated step failure", goerr.V("argv", argv))
	case "emit":
		path := filepath.Join(dir, argv[1])
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(argv[2]), 0600)
	case "emit-dir":
		path := filepath.Join(dir, argv[1])
		if err := os.MkdirAll(path, 0700); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(path, argv[2]), []byte(argv[3]), 0600)
	default:
		return goerr.New("unknown fake command", goerr.V("argv", argv))
	}
}

// serveArchive exposes a zipball of the given files (nested under a
// top-level directory like a forge archive) on a local HTTP server.
func serveArchive(t *testing.T, files map[string]string) *url.URL {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w := gt.R1(zw.Create("game-src-tree/" + name)).NoError(t)
		gt.R1(w.Write([]byte(body))).NoError(t)
	}
	gt.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)

	return gt.R1(url.Parse(srv.URL + "/archive.zip")).NoError(t)
}

func testPipeline() *model.Pipeline {
	return &model.Pipeline{
		Owner:         "stardust",
		Repo:          "game",
		Trunk:         "main",
		Tag:           "nightly",
		ReleaseTitle:  "Nightly Release",
		ReleaseBody:   "Rolling build of the latest trunk commit.",
		HostingBranch: "gh-pages",
		Targets: []model.TargetSpec{
			{
				Platform: types.PlatformLinux,
				Build:    []model.Step{{"emit", "target/release/game", "linux-bin-{commit}"}},
				Test:     []model.Step{{"ok"}},
				Strip:        []model.Step{{"ok"}},
				ArtifactPath: "target/release/game",
				AssetName:    "game-linux",
			},
			{
				Platform: types.PlatformWindows,
				Build:    []model.Step{{"emit", "target/release/game.exe", "windows-bin-{commit}"}},
				Test:     []model.Step{{"ok"}},
				Strip:        []model.Step{{"ok"}},
				ArtifactPath: "target/release/game.exe",
				AssetName:    "game-windows.exe",
			},
			{
				Platform:     types.PlatformWeb,
				Build:        []model.Step{{"emit-dir", "dist", "index.html", "site-{commit}"}},
				ArtifactPath: "dist",
				Web:          true,
				PublicPath:   "/game/",
			},
		},
	}
}

func setup(t *testing.T, store *memory.Store, tc *fakeToolchain) *usecase.UseCase {
	t.Helper()

	store.SetBranchHead("stardust", "game", "main", commit1)
	store.SetArchiveURL(serveArchive(t, map[string]string{
		"Cargo.toml":  "[package]\nname = \"game\"\n",
		"src/main.rs": "fn main() {}\n",
	}))

	clients := infra.New(
		infra.WithForge(store),
		infra.WithHosting(store),
		infra.WithToolchain(tc),
	)
	return usecase.New(clients, testPipeline())
}

func pushTrigger(commit types.CommitSHA) *model.Trigger {
	return &model.Trigger{
		Kind:      types.TriggerPush,
		Owner:     "stardust",
		Repo:      "game",
		Branch:    "main",
		CommitSHA: commit,
	}
}

func TestRunPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("push to trunk publishes all targets", func(t *testing.T) {
		store := memory.New()
		uc := setup(t, store, &fakeToolchain{})

		report := gt.R1(uc.RunPipeline(ctx, pushTrigger(commit1))).NoError(t)
		gt.V(t, report.Succeeded()).Equal(3)
		gt.V(t, report.Failed()).Equal(0)
		gt.V(t, report.CommitSHA).Equal(commit1)

		tag, ok := store.Tag("stardust", "game", "nightly")
		gt.True(t, ok)
		gt.V(t, tag).Equal(commit1)

		gt.V(t, store.AssetNames("stardust", "game", "nightly")).
			Equal([]string{"game-linux", "game-windows.exe"})

		raw, ok := store.Asset("stardust", "game", "nightly", "game-linux")
		gt.True(t, ok)
		gt.V(t, string(raw)).Equal("linux-bin-" + string(commit1))

		site := store.Site("stardust", "game", "gh-pages")
		gt.V(t, string(site["index.html"])).Equal("site-" + string(commit1))
	})

	t.Run("failed tests keep the platform slot stale", func(t *testing.T) {
		store := memory.New()
		uc := setup(t, store, &fakeToolchain{})

		gt.R1(uc.RunPipeline(ctx, pushTrigger(commit1))).NoError(t)

		// Second cycle: the windows test suite breaks.
		pipeline := testPipeline()
		pipeline.Targets[1].Test = []model.Step{{"fail", "unit tests"}}
		uc2 := usecase.New(infra.New(
			infra.WithForge(store),
			infra.WithHosting(store),
			infra.WithToolchain(&fakeToolchain{}),
		), pipeline)

		report, err := uc2.RunPipeline(ctx, pushTrigger(commit2))
		gt.Error(t, err)
		gt.V(t, report.Succeeded()).Equal(2)
		gt.V(t, report.Failed()).Equal(1)

		// Linux slot advanced to the new commit.
		raw, _ := store.Asset("stardust", "game", "nightly", "game-linux")
		gt.V(t, string(raw)).Equal("linux-bin-" + string(commit2))

		// Windows slot still holds the previous cycle's artifact.
		raw, _ = store.Asset("stardust", "game", "nightly", "game-windows.exe")
		gt.V(t, string(raw)).Equal("windows-bin-" + string(commit1))

		// The tag already moved: one platform succeeded against commit2.
		tag, _ := store.Tag("stardust", "game", "nightly")
		gt.V(t, tag).Equal(commit2)
	})

	t.Run("missing declared artifact fails the job", func(t *testing.T) {
		store := memory.New()
		pipeline := testPipeline()
		pipeline.Targets = pipeline.Targets[:1]
		pipeline.Targets[0].Build = []model.Step{{"ok"}}

		store.SetBranchHead("stardust", "game", "main", commit1)
		store.SetArchiveURL(serveArchive(t, map[string]string{"src/main.rs": "fn main() {}\n"}))
		uc := usecase.New(infra.New(
			infra.WithForge(store),
			infra.WithHosting(store),
			infra.WithToolchain(&fakeToolchain{}),
		), pipeline)

		report, err := uc.RunPipeline(ctx, pushTrigger(commit1))
		gt.Error(t, err)
		gt.V(t, report.Failed()).Equal(1)

		// Nothing was published and the tag did not move.
		gt.V(t, len(store.AssetNames("stardust", "game", "nightly"))).Equal(0)
		_, ok := store.Tag("stardust", "game", "nightly")
		gt.V(t, ok).Equal(false)
	})

	t.Run("schedule run rebuilds head but leaves the site alone", func(t *testing.T) {
		store := memory.New()
		uc := setup(t, store, &fakeToolchain{})

		report := gt.R1(uc.RunPipeline(ctx, &model.Trigger{
			Kind:   types.TriggerSchedule,
			Owner:  "stardust",
			Repo:   "game",
			Branch: "main",
		})).NoError(t)

		// Head was resolved from the branch pointer.
		gt.V(t, report.CommitSHA).Equal(commit1)
		gt.V(t, report.Succeeded()).Equal(3)

		// Native artifacts republished, hosting surface untouched.
		gt.V(t, store.AssetNames("stardust", "game", "nightly")).
			Equal([]string{"game-linux", "game-windows.exe"})
		gt.V(t, store.Site("stardust", "game", "gh-pages")).Equal(nil)
	})

	t.Run("republishing identical bytes is a no-op", func(t *testing.T) {
		store := memory.New()
		uc := setup(t, store, &fakeToolchain{})

		gt.R1(uc.RunPipeline(ctx, pushTrigger(commit1))).NoError(t)
		gt.R1(uc.RunPipeline(ctx, pushTrigger(commit1))).NoError(t)

		gt.V(t, store.AssetWrites("stardust", "game", "nightly", "game-linux")).Equal(1)
	})

	t.Run("trigger for another repository is rejected", func(t *testing.T) {
		store := memory.New()
		uc := setup(t, store, &fakeToolchain{})

		trigger := pushTrigger(commit1)
		trigger.Repo = "other-game"
		_, err := uc.RunPipeline(ctx, trigger)
		gt.Error(t, err)
	})

	t.Run("push trigger for a non-trunk branch is rejected", func(t *testing.T) {
		store := memory.New()
		uc := setup(t, store, &fakeToolchain{})

		trigger := pushTrigger(commit1)
		trigger.Branch = "feature/new-hud"
		_, err := uc.RunPipeline(ctx, trigger)
		gt.Error(t, err)
	})

	t.Run("run report is recorded", func(t *testing.T) {
		store := memory.New()
		recorder := &mock.RunRecorderMock{
			InsertFunc: func(ctx context.Context, report *model.RunReport) error {
				return nil
			},
		}

		store.SetBranchHead("stardust", "game", "main", commit1)
		store.SetArchiveURL(serveArchive(t, map[string]string{"src/main.rs": ""}))
		uc := usecase.New(infra.New(
			infra.WithForge(store),
			infra.WithHosting(store),
			infra.WithToolchain(&fakeToolchain{}),
			infra.WithRunRecorder(recorder),
		), testPipeline())

		gt.R1(uc.RunPipeline(ctx, pushTrigger(commit1))).NoError(t)

		calls := recorder.InsertCalls()
		gt.V(t, len(calls)).Equal(1)
		gt.V(t, len(calls[0].Report.Jobs)).Equal(3)
	})
}

// flakyForge fails the first N tag moves before delegating to the store.
type flakyForge struct {
	*memory.Store
	failures int
}

func (x *flakyForge) ForceMoveTag(ctx context.Context, owner, repo string, tag types.TagName, commit types.CommitSHA) error {
	if x.failures > 0 {
		x.failures--
		return goerr.New("transient remote error")
	}
	return x.Store.ForceMoveTag(ctx, owner, repo, tag, commit)
}

func TestEnsureNightlyTag(t *testing.T) {
	ctx := context.Background()
	restore := usecase.SetTagMoveBackoffForTest(time.Millisecond)
	defer restore()

	t.Run("transient failures are retried", func(t *testing.T) {
		store := memory.New()
		forge := &flakyForge{Store: store, failures: 2}
		uc := usecase.New(infra.New(infra.WithForge(forge)), testPipeline())

		gt.NoError(t, uc.EnsureNightlyTag(ctx, commit1))

		tag, ok := store.Tag("stardust", "game", "nightly")
		gt.True(t, ok)
		gt.V(t, tag).Equal(commit1)
	})

	t.Run("persistent failure surfaces after bounded retries", func(t *testing.T) {
		forge := &flakyForge{Store: memory.New(), failures: 10}
		uc := usecase.New(infra.New(infra.WithForge(forge)), testPipeline())

		gt.Error(t, uc.EnsureNightlyTag(ctx, commit1))
		gt.V(t, forge.failures).Equal(7)
	})
}
