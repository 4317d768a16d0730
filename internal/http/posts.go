package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contentmigrate/internal/database"
)

type PostsController struct {
	posts PostReader
}

func NewPostsController(posts PostReader) *PostsController {
	return &PostsController{posts: posts}
}

// ListPosts handles GET /api/posts
func (pc *PostsController) ListPosts(c *gin.Context) {
	limit, offset := parsePagination(c, 20, 100)

	posts, total, err := pc.posts.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list posts")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(posts, total, limit, offset))
}

// GetPost handles GET /api/posts/:slug
func (pc *PostsController) GetPost(c *gin.Context) {
	post, err := pc.posts.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "post")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get post")
		return
	}

	c.JSON(http.StatusOK, post)
}
