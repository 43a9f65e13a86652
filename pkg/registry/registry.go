/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/distribution/reference"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/cudalis/cudalis/pkg/defaults"
	"github.com/cudalis/cudalis/pkg/version"
)

// fallbackTags pins a known-good devel tag per CUDA family, used when the
// registry cannot be reached so plan and build stay usable offline.
var fallbackTags = map[string]string{
	"10.2": "10.2-devel-ubuntu18.04",
	"11.0": "11.0.3-devel-ubuntu20.04",
	"11.6": "11.6.2-devel-ubuntu20.04",
	"11.7": "11.7.1-devel-ubuntu22.04",
	"11.8": "11.8.0-devel-ubuntu22.04",
	"12.1": "12.1.1-devel-ubuntu22.04",
	"12.4": "12.4.1-devel-ubuntu22.04",
}

// TagLister lists repository tags. Satisfied by oras registry/remote
// Repository; tests substitute a fixed list.
type TagLister interface {
	Tags(ctx context.Context, last string, fn func(tags []string) error) error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTagLister overrides how repository tags are listed.
func WithTagLister(l TagLister) Option {
	return func(r *Resolver) {
		r.lister = l
	}
}

// Resolver completes partially specified base image references against a
// registry. A plan pins the CUDA family ("11.0"); the resolver finds the
// newest matching devel tag ("11.0.3-devel-ubuntu20.04").
type Resolver struct {
	repository string
	lister     TagLister
}

// New creates a Resolver for the given repository reference
// (e.g. "docker.io/nvidia/cuda").
func New(repository string, opts ...Option) (*Resolver, error) {
	if _, err := reference.ParseNormalizedNamed(repository); err != nil {
		return nil, fmt.Errorf("invalid repository reference %q: %w", repository, err)
	}

	r := &Resolver{repository: repository}
	for _, opt := range opts {
		opt(r)
	}

	if r.lister == nil {
		repo, err := remote.NewRepository(repository)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
		}
		repo.Client = newAuthClient()
		r.lister = repo
	}
	return r, nil
}

// ResolveBaseImage returns a full image reference for the given CUDA
// version, picking the greatest tag matching "<major.minor>*-<flavor>*".
// Falls back to a pinned tag when the registry is unreachable.
func (r *Resolver) ResolveBaseImage(ctx context.Context, cuda version.Version, flavor string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.RegistryTagListTimeout)
	defer cancel()

	family := cuda.MajorMinor()

	tag, err := r.latestTag(ctx, family, flavor)
	if err != nil {
		fallback, ok := fallbackTags[family]
		if !ok {
			return "", fmt.Errorf("failed to list tags for %s and no fallback for CUDA %s: %w",
				r.repository, family, err)
		}
		slog.Warn("registry unreachable, using pinned base image tag",
			"repository", r.repository, "tag", fallback, "error", err)
		tag = fallback
	}

	ref := fmt.Sprintf("%s:%s", r.repository, tag)
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return "", fmt.Errorf("resolved invalid image reference %q: %w", ref, err)
	}
	return ref, nil
}

// latestTag lists the repository tags and returns the greatest one matching
// the CUDA family and flavor.
func (r *Resolver) latestTag(ctx context.Context, family, flavor string) (string, error) {
	var best string
	var bestVer version.Version

	err := r.lister.Tags(ctx, "", func(tags []string) error {
		for _, tag := range tags {
			if !strings.HasPrefix(tag, family) || !strings.Contains(tag, flavor) {
				continue
			}
			v, ok := tagVersion(tag)
			if !ok {
				continue
			}
			// Prefer the newest CUDA patch release; among equal versions
			// the lexicographically greatest tag wins, which favors the
			// newest Ubuntu base.
			switch v.CompareStrict(bestVer) {
			case 1:
				best, bestVer = tag, v
			case 0:
				if tag > best {
					best = tag
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no tag matching %s*-%s* in %s", family, flavor, r.repository)
	}

	slog.Debug("resolved base image tag", "repository", r.repository, "tag", best)
	return best, nil
}

// tagVersion parses the version prefix of a tag like
// "11.0.3-devel-ubuntu20.04".
func tagVersion(tag string) (version.Version, bool) {
	prefix, _, _ := strings.Cut(tag, "-")
	v, err := version.Parse(prefix)
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}

// newAuthClient builds an HTTP client backed by the local Docker credential
// store, so private mirrors of the base images work out of the box.
func newAuthClient() *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	return &auth.Client{
		Client:     &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
