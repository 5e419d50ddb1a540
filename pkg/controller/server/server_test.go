package server_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/gt"
	"github.com/mizuki-lab/nocturne/pkg/controller/server"
	"github.com/mizuki-lab/nocturne/pkg/domain/mock"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/infra"
	"github.com/mizuki-lab/nocturne/pkg/usecase"
)

func TestServerConfiguration(t *testing.T) {
	t.Run("server accepts GitHub secret configuration", func(t *testing.T) {
		clients := infra.New()
		uc := usecase.New(clients, &model.Pipeline{})
		expectedSecret := types.GitHubAppSecret("test-secret-12345")

		// Create server with secret - actual usage is tested in webhook tests
		srv := server.New(uc, server.WithGitHubSecret(expectedSecret))

		// Test that server can handle requests (compile-time check)
		_ = srv.Mux()
	})
}

func TestRouterSmokeTests(t *testing.T) {
	t.Run("GET /health returns 200", func(t *testing.T) {
		clients := infra.New()
		uc := usecase.New(clients, &model.Pipeline{})
		srv := server.New(uc)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Body.String()).Equal("ok")
	})

	t.Run("POST /webhook/github/app without signature fails", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			RunPipelineFunc: func(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
				return &model.RunReport{}, nil
			},
		}
		srv := server.New(mockUC, server.WithGitHubSecret(types.GitHubAppSecret("test-secret")))

		body := []byte(`{"action":"push"}`)
		req := httptest.NewRequest(http.MethodPost, "/webhook/github/app", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-GitHub-Event", "push")
		rec := httptest.NewRecorder()

		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.V(t, len(mockUC.RunPipelineCalls())).Equal(0)
	})
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func postSignedEvent(t *testing.T, srv *server.Server, secret, eventType string, event any) *httptest.ResponseRecorder {
	t.Helper()

	body := gt.R1(json.Marshal(event)).NoError(t)
	req := httptest.NewRequest(http.MethodPost, "/webhook/github/app", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-Hub-Signature-256", signBody(secret, body))
	rec := httptest.NewRecorder()

	srv.Mux().ServeHTTP(rec, req)
	return rec
}

func TestGitHubAppWebhook(t *testing.T) {
	const secret = "test-webhook-secret"

	pushEvent := func(ref, branch string) *github.PushEvent {
		return &github.PushEvent{
			Ref: github.String(ref),
			HeadCommit: &github.HeadCommit{
				ID: github.String("0123456789abcdef0123456789abcdef01234567"),
			},
			Repo: &github.PushEventRepository{
				Name:          github.String("game"),
				Owner:         &github.User{Login: github.String("stardust")},
				DefaultBranch: github.String(branch),
			},
			Installation: &github.Installation{ID: github.Int64(42)},
		}
	}

	t.Run("push to default branch starts a background run", func(t *testing.T) {
		triggerCh := make(chan *model.Trigger, 1)
		mockUC := &mock.UseCaseMock{
			RunPipelineFunc: func(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
				triggerCh <- trigger
				return &model.RunReport{}, nil
			},
		}
		srv := server.New(mockUC, server.WithGitHubSecret(secret))

		rec := postSignedEvent(t, srv, secret, "push", pushEvent("refs/heads/main", "main"))
		gt.V(t, rec.Code).Equal(http.StatusAccepted)

		select {
		case trigger := <-triggerCh:
			gt.V(t, trigger.Kind).Equal(types.TriggerPush)
			gt.V(t, trigger.Owner).Equal("stardust")
			gt.V(t, trigger.Repo).Equal("game")
			gt.V(t, trigger.Branch).Equal(types.BranchName("main"))
			gt.V(t, trigger.InstallID).Equal(types.GitHubAppInstallID(42))
		case <-time.After(3 * time.Second):
			t.Fatal("pipeline run was not started")
		}
	})

	t.Run("push to feature branch is ignored", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			RunPipelineFunc: func(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
				return &model.RunReport{}, nil
			},
		}
		srv := server.New(mockUC, server.WithGitHubSecret(secret))

		rec := postSignedEvent(t, srv, secret, "push", pushEvent("refs/heads/feature/new-hud", "main"))
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, len(mockUC.RunPipelineCalls())).Equal(0)
	})

	t.Run("tag push is ignored", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			RunPipelineFunc: func(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
				return &model.RunReport{}, nil
			},
		}
		srv := server.New(mockUC, server.WithGitHubSecret(secret))

		rec := postSignedEvent(t, srv, secret, "push", pushEvent("refs/tags/nightly", "main"))
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, len(mockUC.RunPipelineCalls())).Equal(0)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			RunPipelineFunc: func(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
				return &model.RunReport{}, nil
			},
		}
		srv := server.New(mockUC, server.WithGitHubSecret(secret))

		rec := postSignedEvent(t, srv, "wrong-secret", "push", pushEvent("refs/heads/main", "main"))
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.V(t, len(mockUC.RunPipelineCalls())).Equal(0)
	})
}
