package plexserver

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// PMS is the slice of the Plex Media Server API the uploader needs
type PMS interface {
	MovieSectionKeys(ctx context.Context) ([]string, error)
	FindItem(ctx context.Context, sectionKeys []string, title, guid string) (string, bool)
	UploadPoster(ctx context.Context, ratingKey string, poster []byte) error
}

// PosterRenderer produces the poster bytes for a scene, or nil on failure
type PosterRenderer interface {
	RenderPoster(ctx context.Context, sceneID string) []byte
}

// UploadJob asks the uploader to push a scene's poster into PMS
type UploadJob struct {
	SceneID string
	Title   string
}

// Uploader pushes rendered posters directly into PMS once it has ingested
// the corresponding item, bypassing images.plex.tv which cannot reach
// private LAN addresses. Jobs are fire-and-forget: the request that
// triggered one never waits on it.
type Uploader struct {
	queue    chan UploadJob
	pms      PMS
	renderer PosterRenderer

	// ingestDelay and searchAttempts bound the wait for PMS to finish
	// ingesting a newly added item
	ingestDelay    time.Duration
	searchAttempts int

	mu       sync.Mutex
	uploaded map[string]bool

	stopChan    chan struct{}
	workersDone sync.WaitGroup
}

// NewUploader creates an uploader and starts its worker
func NewUploader(pms PMS, renderer PosterRenderer) *Uploader {
	u := &Uploader{
		queue:          make(chan UploadJob, 50),
		pms:            pms,
		renderer:       renderer,
		ingestDelay:    5 * time.Second,
		searchAttempts: 8,
		uploaded:       make(map[string]bool),
		stopChan:       make(chan struct{}),
	}

	u.workersDone.Add(1)
	go u.worker()

	return u
}

// Enqueue submits a job without blocking the caller. A full queue drops the
// job with a warning; the next metadata fetch for the scene retries.
func (u *Uploader) Enqueue(job UploadJob) {
	select {
	case u.queue <- job:
		log.Printf("📋 Queued poster upload for scene %s", job.SceneID)
	default:
		log.Printf("⚠️ Upload queue full, dropping poster upload for scene %s", job.SceneID)
	}
}

// Uploaded reports whether this process already pushed a poster for the scene
func (u *Uploader) Uploaded(sceneID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uploaded[sceneID]
}

func (u *Uploader) markUploaded(sceneID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploaded[sceneID] = true
}

// StopAndWait stops accepting jobs and waits for in-flight ones to reach a
// terminal state.
func (u *Uploader) StopAndWait() {
	close(u.stopChan)
	close(u.queue)
	u.workersDone.Wait()
	log.Println("✅ Poster uploader stopped")
}

func (u *Uploader) worker() {
	defer u.workersDone.Done()

	for {
		select {
		case job, ok := <-u.queue:
			if !ok {
				return
			}
			u.process(job)
		case <-u.stopChan:
			return
		}
	}
}

// process runs one job to a terminal state. All failures end the job
// silently apart from a log line; there is no job-level retry.
func (u *Uploader) process(job UploadJob) {
	if u.Uploaded(job.SceneID) {
		return
	}

	ctx := context.Background()
	guid := fmt.Sprintf("plex://movie/stash-video-%s", job.SceneID)

	sectionKeys, err := u.pms.MovieSectionKeys(ctx)
	if err != nil || len(sectionKeys) == 0 {
		log.Printf("❌ No movie library sections found in PMS (scene %s): %v", job.SceneID, err)
		return
	}

	// Try immediately: the item already exists when Plex is refreshing
	pmsKey, found := u.pms.FindItem(ctx, sectionKeys, job.Title, guid)
	if found {
		log.Printf("✅ PMS item found immediately for scene %s (refresh)", job.SceneID)
	} else {
		// New item: wait for PMS to finish ingesting, then retry
		log.Printf("⏳ PMS item not found yet for scene %s, waiting for PMS to ingest...", job.SceneID)
		time.Sleep(u.ingestDelay)
		for attempt := 0; attempt < u.searchAttempts; attempt++ {
			pmsKey, found = u.pms.FindItem(ctx, sectionKeys, job.Title, guid)
			if found {
				break
			}
			if attempt < u.searchAttempts-1 {
				log.Printf("⏳ PMS item not found (attempt %d/%d), retrying in %v...",
					attempt+1, u.searchAttempts, u.ingestDelay)
				time.Sleep(u.ingestDelay)
			}
		}
	}

	if !found {
		log.Printf("❌ PMS item not found for scene %s (GUID: %s)", job.SceneID, guid)
		return
	}

	poster := u.renderer.RenderPoster(ctx, job.SceneID)
	if poster == nil {
		return
	}

	if err := u.pms.UploadPoster(ctx, pmsKey, poster); err != nil {
		log.Printf("❌ Failed to upload poster to PMS for scene %s: %v", job.SceneID, err)
		return
	}

	log.Printf("✅ Uploaded poster to PMS for scene %s (PMS key: %s)", job.SceneID, pmsKey)
	u.markUploaded(job.SceneID)
}
