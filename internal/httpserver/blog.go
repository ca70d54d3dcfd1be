package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	blogsvc "storefront/internal/service/blog"
)

type blogHandler struct {
	svc BlogService
}

func (h *blogHandler) listCategories(c *gin.Context) {
	cats, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *blogHandler) createCategory(c *gin.Context) {
	var in blogsvc.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *blogHandler) listTags(c *gin.Context) {
	tags, err := h.svc.ListTags(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *blogHandler) createTag(c *gin.Context) {
	var in blogsvc.TagInput
	if !bindJSON(c, &in) {
		return
	}
	tag, err := h.svc.CreateTag(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *blogHandler) listPosts(c *gin.Context) {
	params := newQueryParams(c)
	f := domain.ContentFilter{
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Limit:        params.int("limit", blogsvc.DefaultLimit),
		Offset:       params.int("offset", 0),
	}
	includeDrafts := params.bool("includeDrafts")
	if err := params.err(); err != nil {
		writeError(c, err)
		return
	}
	f.IncludeDrafts = includeDrafts && isAdmin(c)

	page, err := h.svc.ListPosts(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *blogHandler) getPost(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("ref"), isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *blogHandler) createPost(c *gin.Context) {
	var in blogsvc.PostInput
	if !bindJSON(c, &in) {
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), claimsFrom(c).UserID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *blogHandler) updatePost(c *gin.Context) {
	var in blogsvc.PostUpdate
	if !bindJSON(c, &in) {
		return
	}
	post, err := h.svc.UpdatePost(c.Request.Context(), c.Param("ref"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *blogHandler) deletePost(c *gin.Context) {
	if err := h.svc.DeletePost(c.Request.Context(), c.Param("ref")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
