package service

import (
	"context"
	"time"

	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/repository"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

const publishedChaptersKey = "published_chapters"

// ChapterGroup 一个科目下已发布的章节；SubjectID 为 nil 表示不属于任何科目
type ChapterGroup struct {
	SubjectID    *uint
	DisplayOrder int
	Chapters     []model.Chapter
}

// ChapterCatalog 按科目优先级排好序的已发布章节
type ChapterCatalog struct {
	Groups []ChapterGroup
	All    []model.Chapter
}

type catalogEntry struct {
	catalog  *ChapterCatalog
	loadedAt time.Time
}

// CatalogCache 缓存只读目录数据，并合并同一时刻的并发加载
type CatalogCache struct {
	Repo  *repository.CatalogRepository
	cache *lru.Cache
	group singleflight.Group
	now   func() time.Time
}

func NewCatalogCache(repo *repository.CatalogRepository, size int) *CatalogCache {
	if size <= 0 {
		size = 16
	}
	cache, _ := lru.New(size)
	return &CatalogCache{Repo: repo, cache: cache, now: time.Now}
}

// PublishedChapters 返回目录；ttl <= 0 时不使用缓存
func (c *CatalogCache) PublishedChapters(ctx context.Context, ttl time.Duration) (*ChapterCatalog, error) {
	if ttl > 0 {
		if v, ok := c.cache.Get(publishedChaptersKey); ok {
			entry := v.(catalogEntry)
			if c.now().Sub(entry.loadedAt) < ttl {
				return entry.catalog, nil
			}
		}
	}

	v, err, _ := c.group.Do(publishedChaptersKey, func() (interface{}, error) {
		catalog, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(publishedChaptersKey, catalogEntry{catalog: catalog, loadedAt: c.now()})
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ChapterCatalog), nil
}

// Invalidate 目录被管理端修改后调用
func (c *CatalogCache) Invalidate() {
	c.cache.Purge()
}

func (c *CatalogCache) load(ctx context.Context) (*ChapterCatalog, error) {
	subjects, err := c.Repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	chapters, err := c.Repo.ListPublishedChapters(ctx)
	if err != nil {
		return nil, err
	}

	bySubject := make(map[uint][]model.Chapter)
	for _, ch := range chapters {
		if ch.SubjectID != nil {
			bySubject[*ch.SubjectID] = append(bySubject[*ch.SubjectID], ch)
		}
	}

	catalog := &ChapterCatalog{All: chapters}
	// subjects 已按 display_order 升序
	for _, subj := range subjects {
		chs := bySubject[subj.ID]
		if len(chs) == 0 {
			continue
		}
		id := subj.ID
		catalog.Groups = append(catalog.Groups, ChapterGroup{
			SubjectID:    &id,
			DisplayOrder: subj.DisplayOrder,
			Chapters:     chs,
		})
	}
	return catalog, nil
}
