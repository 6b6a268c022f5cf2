package uploadkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/uploadkit/pkg/filetype"
	"github.com/dmitrymomot/uploadkit/pkg/fingerprint"
	"github.com/dmitrymomot/uploadkit/pkg/imagetransform"
	"github.com/dmitrymomot/uploadkit/pkg/storage"
	"github.com/dmitrymomot/uploadkit/pkg/svgsanitize"
	"github.com/dmitrymomot/uploadkit/pkg/urlcache"
)

// Pipeline ingests uploaded bytes and produces deduplicated artifacts.
// It is safe for concurrent use; every request owns its byte buffers
// exclusively, and the only shared state is the Repository, which
// enforces hash uniqueness.
type Pipeline struct {
	settings    Settings
	repo        Repository
	store       storage.Storage
	transformer *imagetransform.Transformer
	urlCache    urlcache.Cache
	log         *slog.Logger
}

// New creates a Pipeline around an immutable Settings snapshot.
func New(settings Settings, repo Repository, store storage.Storage, opts ...Option) *Pipeline {
	p := &Pipeline{
		settings: settings,
		repo:     repo,
		store:    store,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.transformer = imagetransform.New(imagetransform.Config{
		QuantizeLossless:      settings.QuantizeLossless,
		JpegQuality:           settings.JpegQuality,
		JpegMinSavingsPercent: settings.JpegMinSavingsPercent,
		JpegMinSavedBytes:     settings.JpegMinSavedBytes,
	}, p.log)
	return p
}

// CreateFor runs the full ingestion pipeline for one upload and returns
// the resulting artifact plus the ownership link created for
// principalID. Dedup hits return the existing artifact untouched with a
// fresh link. Validation failures abort before any transformation or
// storage I/O; storage failures abort before any metadata is committed.
func (p *Pipeline) CreateFor(ctx context.Context, data []byte, filename string, principalID uuid.UUID, opts UploadOptions) (*Artifact, *OwnershipLink, error) {
	res := filetype.Resolve(data, filename)

	if err := filetype.Validate(data, res.Extension, filetype.ValidateConfig{
		AllowedExtensions: p.settings.AuthorizedExtensions,
		MaxSize:           p.settings.MaxFileSize,
		BypassAllowList:   p.settings.AdminBypassAllowList && (opts.ForSiteSetting || opts.ForTheme),
	}); err != nil {
		return nil, nil, validationErr(err)
	}

	// Early probe on raw bytes. A hit means identical bytes are already
	// at rest, so the stored artifact's definitive fingerprint matches.
	rawFP := fingerprint.Compute(data)
	if existing, link, err := p.dedup(ctx, rawFP, principalID); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return existing, link, nil
	}

	final := data
	ext := res.Extension
	name := res.Filename
	var width, height int

	switch {
	case res.IsSVG():
		clean, err := svgsanitize.Sanitize(data)
		if err != nil {
			return nil, nil, validationErr(err)
		}
		final = clean

	// Routed by resolved extension, not sniffed MIME: a non-coercible
	// image format hiding under a generic extension is stored as-is.
	case isImageExtension(ext):
		out, err := p.transformer.Transform(imagetransform.Request{
			Data:          data,
			Extension:     ext,
			Pasted:        opts.Pasted,
			ForceOptimize: opts.ForceOptimize,
			CropTo:        p.settings.CropTargets[opts.Type],
		})
		if err != nil {
			return nil, nil, validationErr(err)
		}
		final = out.Data
		width, height = out.Width, out.Height
		if out.Extension != ext {
			ext = out.Extension
			name = filetype.ReplaceExtension(name, ext)
		}
	}

	// Definitive fingerprint over the bytes that will actually be
	// stored; transformation changes content.
	finalFP := rawFP
	if !bytes.Equal(final, data) {
		finalFP = fingerprint.Compute(final)
		if existing, link, err := p.dedup(ctx, finalFP, principalID); err != nil {
			return nil, nil, err
		} else if existing != nil {
			return existing, link, nil
		}
	}

	secure := classifySecure(p.settings, opts, res.IsImage())

	key := storage.ContentKey(finalFP.Hash, ext)
	put, err := p.store.Put(ctx, key, final,
		storage.WithContentType(contentTypeFor(ext)),
		storage.WithSecure(secure),
	)
	if err != nil {
		return nil, nil, storageErr(err)
	}

	artifact := &Artifact{
		ID:        uuid.New(),
		Hash:      finalFP.Hash,
		Size:      finalFP.Size,
		Extension: ext,
		Filename:  name,
		Width:     width,
		Height:    height,
		URL:       put.URL,
		ETag:      put.ETag,
		Secure:    secure,
		OwnerID:   principalID,
		CreatedAt: time.Now(),
	}

	if err := p.repo.Insert(ctx, artifact); err != nil {
		if errors.Is(err, ErrDuplicateHash) {
			// Lost the creation race. The winner stored identical bytes
			// under the same content-addressed key; fall back to
			// lookup-and-link.
			winner, err := p.repo.FindByHash(ctx, finalFP.Hash, finalFP.Size)
			if err != nil {
				return nil, nil, fmt.Errorf("uploadkit: re-read after duplicate insert: %w", err)
			}
			link, err := p.repo.LinkOwnership(ctx, principalID, winner.ID)
			if err != nil {
				return nil, nil, fmt.Errorf("uploadkit: link ownership: %w", err)
			}
			return winner, link, nil
		}
		return nil, nil, fmt.Errorf("uploadkit: insert artifact: %w", err)
	}

	link, err := p.repo.LinkOwnership(ctx, principalID, artifact.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("uploadkit: link ownership: %w", err)
	}

	return artifact, link, nil
}

// URLFor returns the access URL for an artifact: a time-limited signed
// URL for secure artifacts on backends that support signing, the
// canonical URL otherwise. Signed URLs are cached when a cache is
// configured.
func (p *Pipeline) URLFor(ctx context.Context, a *Artifact) (string, error) {
	key := storage.ContentKey(a.Hash, a.Extension)

	if !a.Secure {
		return p.store.URL(ctx, key)
	}

	if p.urlCache == nil {
		return p.store.URL(ctx, key, storage.WithSigned())
	}

	return urlcache.GetOrSign(ctx, p.urlCache, key, storage.DefaultURLExpiry,
		func(ctx context.Context) (string, error) {
			return p.store.URL(ctx, key, storage.WithSigned())
		})
}

// dedup looks up an existing artifact by fingerprint. On a hit it
// creates the ownership link and returns the existing artifact; on a
// miss it returns nil.
func (p *Pipeline) dedup(ctx context.Context, fp fingerprint.Fingerprint, principalID uuid.UUID) (*Artifact, *OwnershipLink, error) {
	existing, err := p.repo.FindByHash(ctx, fp.Hash, fp.Size)
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("uploadkit: dedup lookup: %w", err)
	}

	link, err := p.repo.LinkOwnership(ctx, principalID, existing.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("uploadkit: link ownership: %w", err)
	}
	return existing, link, nil
}

// imageExtensions routes content claiming an image extension through
// the transformer even when sniffing failed, so undecodable bytes under
// an image extension fail validation instead of landing in storage.
var imageExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {},
	"webp": {}, "bmp": {}, "tiff": {},
}

func isImageExtension(ext string) bool {
	_, ok := imageExtensions[ext]
	return ok
}

func contentTypeFor(ext string) string {
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
