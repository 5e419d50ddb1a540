// Package memory provides an in-process Forge and Hosting implementation.
// It backs the pipeline tests and lets the release invariants (tag
// convergence, per-slot asset replacement) be verified without a remote.
package memory

import (
	"net/url"
	"sync"

	"github.com/mizuki-lab/nocturne/pkg/domain/types"
)

type releaseData struct {
	id     int64
	title  string
	body   string
	assets map[string][]byte

	// assetWrites counts actual byte replacements per asset name, so
	// tests can tell a republish of identical bytes from an overwrite.
	assetWrites map[string]int
}

type repoData struct {
	heads    map[types.BranchName]types.CommitSHA
	tags     map[types.TagName]types.CommitSHA
	releases map[types.TagName]*releaseData
	sites    map[types.BranchName]map[string][]byte
}

// Store is an in-memory release store. The zero value is not usable; use New.
type Store struct {
	mu         sync.RWMutex
	repos      map[string]*repoData
	nextID     int64
	archiveURL *url.URL
}

func New() *Store {
	return &Store{
		repos:  make(map[string]*repoData),
		nextID: 1,
	}
}

func repoKey(owner, repo string) string {
	return owner + "/" + repo
}

func (x *Store) repo(owner, repo string) *repoData {
	key := repoKey(owner, repo)
	if _, ok := x.repos[key]; !ok {
		x.repos[key] = &repoData{
			heads:    make(map[types.BranchName]types.CommitSHA),
			tags:     make(map[types.TagName]types.CommitSHA),
			releases: make(map[types.TagName]*releaseData),
			sites:    make(map[types.BranchName]map[string][]byte),
		}
	}
	return x.repos[key]
}
