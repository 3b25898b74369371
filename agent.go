package main

import (
	"context"
	"log"
	"net/http"

	"stashplexagent/caching"
	"stashplexagent/config"
	"stashplexagent/images"
	"stashplexagent/plexserver"
	"stashplexagent/provider"
	"stashplexagent/stash"
	"stashplexagent/translator"
)

// StashPlexAgent wires the Stash client, the translator, the result cache,
// the image service and the poster uploader behind the provider addon.
type StashPlexAgent struct {
	addon     *provider.Addon
	stash     *stash.Client
	cache     *caching.Cache
	translate translator.Translator
	images    *images.Service
	uploader  *plexserver.Uploader // nil when upload is disabled
	debug     bool
}

// NewStashPlexAgent builds the agent from the resolved configuration
func NewStashPlexAgent(cfg *config.Config) *StashPlexAgent {
	stashClient := stash.NewClient(cfg.StashHost, cfg.StashAPIKey, cfg.Debug)
	imageService := images.NewService(stashClient)

	var uploader *plexserver.Uploader
	if cfg.UploadEnabled() {
		pms := plexserver.NewClient(cfg.PlexURL, cfg.PlexToken)
		uploader = plexserver.NewUploader(pms, imageService)
		log.Printf("✅ Plex poster upload enabled → %s", cfg.PlexURL)
	}

	a := &StashPlexAgent{
		addon: provider.NewAddon(provider.DefaultProvider()),
		stash: stashClient,
		cache: caching.New(cfg.CacheTTL),
		translate: translator.Translator{
			AgentBaseURL: cfg.AgentBaseURL,
			StashHost:    cfg.StashHost,
			PosterMode:   cfg.PosterMode,
		},
		images:   imageService,
		uploader: uploader,
		debug:    cfg.Debug,
	}

	a.addon.SetMatchHandler(a.handleMatches)
	a.addon.SetMetadataHandler(a.handleMetadata)
	a.addon.SetImageHandler(a.handleImage)

	return a
}

// lookup queries Stash for a filter clause and translates the result,
// reading through the cache. Returns nil on any miss or failure; callers
// surface that as the empty envelope.
func (a *StashPlexAgent) lookup(ctx context.Context, filterClause string) *provider.MediaContainerResponse {
	if filterClause == "" {
		return nil
	}

	fingerprint := "filter:" + filterClause
	if cached, ok := a.cache.Get(fingerprint); ok {
		if a.debug {
			log.Printf("Cache hit for %s", fingerprint)
		}
		return cached
	}

	scenes, err := a.stash.FindScenes(ctx, filterClause)
	if err != nil {
		log.Printf("❌ Failed to query Stash: %v", err)
		return nil
	}

	result := a.translate.Container(scenes)
	if result == nil {
		if a.debug {
			log.Printf("No scenes found for filter: %s", filterClause)
		}
		return nil
	}

	a.cache.Set(fingerprint, result)
	return result
}

// handleMatches resolves a filename match request from Plex
func (a *StashPlexAgent) handleMatches(ctx context.Context, req provider.MatchRequest) *provider.MediaContainerResponse {
	if req.Filename == "" {
		return nil
	}

	result := a.lookup(ctx, stash.FilenameFilter(req.Filename))
	if result == nil {
		return nil
	}

	exclude := req.ExcludedElements()
	if len(exclude) == 0 {
		return result
	}

	// Strip on copies so the cached container stays intact
	items := make([]provider.Metadata, len(result.MediaContainer.Metadata))
	copy(items, result.MediaContainer.Metadata)
	for i := range items {
		for _, element := range exclude {
			items[i].Strip(element)
		}
	}

	stripped := *result
	stripped.MediaContainer.Metadata = items
	return &stripped
}

// handleMetadata resolves a single-item lookup and, when upload is enabled,
// enqueues a detached poster upload for the matched scene.
func (a *StashPlexAgent) handleMetadata(ctx context.Context, ratingKey string) *provider.MediaContainerResponse {
	log.Printf("Fetching metadata for ratingKey: %s", ratingKey)

	result := a.lookup(ctx, stash.IDFilter(ratingKey))
	if result == nil {
		return nil
	}

	if a.uploader != nil {
		if sceneID, ok := stash.SceneIDFromRatingKey(ratingKey); ok {
			items := result.MediaContainer.Metadata
			if len(items) > 0 && items[0].Title != "" {
				a.uploader.Enqueue(plexserver.UploadJob{
					SceneID: sceneID,
					Title:   items[0].Title,
				})
			}
		}
	}

	return result
}

// handleImage serves the artwork routes
func (a *StashPlexAgent) handleImage(w http.ResponseWriter, r *http.Request, req provider.ImageRequest) {
	switch req.Resource {
	case "screenshot":
		a.images.Proxy(w, r, images.ScreenshotPath(req.ID))
	case "performer":
		a.images.Proxy(w, r, images.PerformerImagePath(req.ID))
	case "group":
		a.images.Proxy(w, r, images.GroupFrontPath(req.ID))
	case "poster":
		a.images.ServePoster(w, r, req.ID)
	}
}
