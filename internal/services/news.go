// ABOUTME: News resource service: public and admin listings, CRUD, attachments
// ABOUTME: Admin and public listings cache independently; writes stale both

package services

import (
	"context"
	"fmt"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
)

// NewsService covers the news endpoints including attachment upload.
type NewsService struct {
	client *api.Client
	cache  *cache.Cache
	mut    *cache.Coordinator
}

func NewNews(client *api.Client, c *cache.Cache, mut *cache.Coordinator) *NewsService {
	return &NewsService{client: client, cache: c, mut: mut}
}

// CreateNewsRequest creates or updates an article.
type CreateNewsRequest struct {
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
}

func (s *NewsService) fetchPage(p ListParams) cache.Fetcher {
	return func(ctx context.Context) (any, error) {
		resp, err := s.client.Do(ctx, "GET", "/api/v1/news"+p.pathSuffix(), nil)
		if err != nil {
			return nil, err
		}
		page := &NewsPage{}
		if err := resp.Decode(&page.Items); err != nil {
			return nil, err
		}
		if len(resp.Pagination) > 0 {
			if err := resp.DecodePagination(&page.Pagination); err != nil {
				return nil, err
			}
		}
		return page, nil
	}
}

// List reads the public news listing. Result data is *NewsPage.
func (s *NewsService) List(ctx context.Context, p ListParams, opts cache.Options) (cache.Result, error) {
	key := cache.Key{Class: ClassNews, Params: p.query()}
	return s.cache.Read(ctx, key, s.fetchPage(p), opts)
}

// AdminList reads the news listing for the admin panel, cached apart from
// the public listing. Result data is *NewsPage.
func (s *NewsService) AdminList(ctx context.Context, p ListParams, opts cache.Options) (cache.Result, error) {
	key := cache.Key{Class: ClassAdminNews, Params: p.query()}
	return s.cache.Read(ctx, key, s.fetchPage(p), opts)
}

// Get reads one article. Result data is *News.
func (s *NewsService) Get(ctx context.Context, id int) (cache.Result, error) {
	key := cache.Key{Class: ClassNewsItem, Params: fmt.Sprintf("id=%d", id)}
	path := idPath("/api/v1/news", id)
	return s.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		n := &News{}
		if err := s.client.Get(ctx, path, n); err != nil {
			return nil, err
		}
		return n, nil
	}, cache.Options{})
}

// newsBlastRadius: the admin listing and the public listing are independent
// cached views over the same collection, so every write stales both, plus
// the article detail.
var newsBlastRadius = []string{ClassAdminNews, ClassNews, ClassNewsItem}

// Create publishes an article.
func (s *NewsService) Create(ctx context.Context, req CreateNewsRequest) (*News, error) {
	n := &News{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "news.create",
		Invalidates: newsBlastRadius,
		Message:     "News article created",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Post(ctx, "/api/v1/news", req, n); err != nil {
				return nil, err
			}
			return n, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*News), nil
}

// Update replaces an article's fields.
func (s *NewsService) Update(ctx context.Context, id int, req CreateNewsRequest) (*News, error) {
	n := &News{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "news.update",
		Invalidates: newsBlastRadius,
		Message:     "News article updated",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Put(ctx, idPath("/api/v1/news", id), req, n); err != nil {
				return nil, err
			}
			return n, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*News), nil
}

// Delete removes an article.
func (s *NewsService) Delete(ctx context.Context, id int) error {
	_, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "news.delete",
		Invalidates: newsBlastRadius,
		Message:     "News article deleted",
		Op: func(ctx context.Context) (any, error) {
			return nil, s.client.Delete(ctx, idPath("/api/v1/news", id), nil)
		},
	})
	return err
}

// UploadAttachments sends files for an article as a multipart form and
// returns the stored attachment names.
func (s *NewsService) UploadAttachments(ctx context.Context, id int, files map[string][]byte) ([]string, error) {
	var names []string
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "news.upload",
		Invalidates: newsBlastRadius,
		Message:     "Attachments uploaded",
		Op: func(ctx context.Context) (any, error) {
			resp, err := s.client.Upload(ctx, idPath("/api/v1/news/uploads", id), "files", files)
			if err != nil {
				return nil, err
			}
			if err := resp.Decode(&names); err != nil {
				return nil, err
			}
			return names, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.([]string), nil
}
