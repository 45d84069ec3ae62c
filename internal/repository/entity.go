package repository

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/user/cinelens/internal/model"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 解析缓存的最大条数，MovieLens 全量数据中人名约两万条
const entityCacheSize = 4096

// EntityRepository 实体解析仓库（类型/导演/演员的按名 get-or-create）
// 同名解析在同一次运行内和跨运行都收敛到同一条记录
type EntityRepository struct {
	db    *gorm.DB
	group singleflight.Group

	genreCache    *lru.Cache[string, *model.Genre]
	directorCache *lru.Cache[string, *model.Director]
	actorCache    *lru.Cache[string, *model.Actor]
}

// NewEntityRepository 创建实体解析仓库
func NewEntityRepository(db *gorm.DB) *EntityRepository {
	genreCache, _ := lru.New[string, *model.Genre](entityCacheSize)
	directorCache, _ := lru.New[string, *model.Director](entityCacheSize)
	actorCache, _ := lru.New[string, *model.Actor](entityCacheSize)

	return &EntityRepository{
		db:            db,
		genreCache:    genreCache,
		directorCache: directorCache,
		actorCache:    actorCache,
	}
}

// ResolveGenre 按名字解析类型，不存在则创建
func (r *EntityRepository) ResolveGenre(name string) (*model.Genre, error) {
	if genre, ok := r.genreCache.Get(name); ok {
		return genre, nil
	}

	// singleflight 合并同名并发解析，避免重复的条件插入
	val, err, _ := r.group.Do("genre:"+name, func() (interface{}, error) {
		return resolveByName(r.db, name, func() *model.Genre {
			return &model.Genre{Name: name}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("解析类型 %q 失败: %w", name, err)
	}

	genre := val.(*model.Genre)
	r.genreCache.Add(name, genre)
	return genre, nil
}

// ResolveDirector 按名字解析导演，不存在则创建
// 已存在的记录不回填 bio，实体一经创建即不可变
func (r *EntityRepository) ResolveDirector(name, bio string) (*model.Director, error) {
	if director, ok := r.directorCache.Get(name); ok {
		return director, nil
	}

	val, err, _ := r.group.Do("director:"+name, func() (interface{}, error) {
		return resolveByName(r.db, name, func() *model.Director {
			return &model.Director{Name: name, Bio: bio}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("解析导演 %q 失败: %w", name, err)
	}

	director := val.(*model.Director)
	r.directorCache.Add(name, director)
	return director, nil
}

// ResolveActor 按名字解析演员，不存在则创建
func (r *EntityRepository) ResolveActor(name, bio string, personID *int, profileURL string) (*model.Actor, error) {
	if actor, ok := r.actorCache.Get(name); ok {
		return actor, nil
	}

	val, err, _ := r.group.Do("actor:"+name, func() (interface{}, error) {
		return resolveByName(r.db, name, func() *model.Actor {
			return &model.Actor{
				Name:            name,
				Bio:             bio,
				TMDBPersonID:    personID,
				ProfileImageURL: profileURL,
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("解析演员 %q 失败: %w", name, err)
	}

	actor := val.(*model.Actor)
	r.actorCache.Add(name, actor)
	return actor, nil
}

// resolveByName 按名字查找实体，不存在则条件插入
// 用 ON CONFLICT DO NOTHING 保证两个写入者并发解析同名时收敛到同一行
func resolveByName[T any](db *gorm.DB, name string, create func() *T) (*T, error) {
	var existing T
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entity := create()
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(entity)
	if result.Error != nil {
		return nil, result.Error
	}

	// 冲突时插入被跳过，读回已有记录
	if result.RowsAffected == 0 {
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	return entity, nil
}
