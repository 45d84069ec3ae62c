package repository

import (
	"github.com/user/cinelens/internal/model"
)

// Catalog 聚合实体解析与电影写入，提供给 service 层的统一写入口
type Catalog struct {
	entity *EntityRepository
	movie  *MovieRepository
}

// NewCatalog 创建目录写入口
func NewCatalog(repos *Repositories) *Catalog {
	return &Catalog{
		entity: repos.Entity,
		movie:  repos.Movie,
	}
}

func (c *Catalog) ResolveGenre(name string) (*model.Genre, error) {
	return c.entity.ResolveGenre(name)
}

func (c *Catalog) ResolveDirector(name, bio string) (*model.Director, error) {
	return c.entity.ResolveDirector(name, bio)
}

func (c *Catalog) ResolveActor(name, bio string, personID *int, profileURL string) (*model.Actor, error) {
	return c.entity.ResolveActor(name, bio, personID, profileURL)
}

func (c *Catalog) UpsertMovie(input *model.MovieUpsert) (*model.Movie, error) {
	return c.movie.UpsertByMLID(input)
}
