package service

import (
	"context"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FeedService serves the public post feed. The first page is served through
// the cache under a single key with a short TTL; deeper pages always hit the
// store. The timeline of followed authors is never cached so a reader sees a
// just-published post immediately.
type FeedService struct {
	postRepo  repository.PostRepository
	feedCache *cache.Cache
	ttl       time.Duration
}

func NewFeedService(postRepo repository.PostRepository, feedCache *cache.Cache, ttl time.Duration) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		feedCache: feedCache,
		ttl:       ttl,
	}
}

// ListFeed returns one page of the global feed, newest first. Only the first
// page goes through the cache; it is the hot path and the only one worth the
// staleness tradeoff.
func (s *FeedService) ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if offset != 0 || !s.feedCache.Enabled() {
		return s.postRepo.List(ctx, limit, offset)
	}

	var posts []*models.Post
	hit := true
	err := s.feedCache.GetOrBuild(ctx, cache.FeedKey, &posts, s.ttl, func() error {
		hit = false
		built, err := s.postRepo.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		posts = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hit {
		observability.FeedCacheLookups.WithLabelValues("hit").Inc()
	} else {
		observability.FeedCacheLookups.WithLabelValues("miss").Inc()
	}
	return posts, nil
}

// ListTimeline returns one page of posts by authors the user follows. Always
// a live query: follows and fresh posts are visible on the very next read.
func (s *FeedService) ListTimeline(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListFollowed(ctx, userID, limit, offset)
}
