package infra

import (
	"net/http"

	"github.com/mizuki-lab/nocturne/pkg/domain/interfaces"
	"github.com/mizuki-lab/nocturne/pkg/infra/toolchain"
)

type Clients struct {
	forge      interfaces.Forge
	hosting    interfaces.Hosting
	recorder   interfaces.RunRecorder
	httpClient HTTPClient
	toolchain  toolchain.Client
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		httpClient: http.DefaultClient,
		toolchain:  toolchain.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) Forge() interfaces.Forge {
	return x.forge
}
func (x *Clients) Hosting() interfaces.Hosting {
	return x.hosting
}
func (x *Clients) RunRecorder() interfaces.RunRecorder {
	return x.recorder
}
func (x *Clients) HTTPClient() HTTPClient {
	return x.httpClient
}
func (x *Clients) Toolchain() toolchain.Client {
	return x.toolchain
}

func WithForge(client interfaces.Forge) Option {
	return func(x *Clients) {
		x.forge = client
	}
}

func WithHosting(client interfaces.Hosting) Option {
	return func(x *Clients) {
		x.hosting = client
	}
}

func WithRunRecorder(client interfaces.RunRecorder) Option {
	return func(x *Clients) {
		x.recorder = client
	}
}

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}

func WithToolchain(client toolchain.Client) Option {
	return func(x *Clients) {
		x.toolchain = client
	}
}
