package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperr "github.com/tcdw/cms/internal/errors"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/repository"
	"github.com/tcdw/cms/internal/service"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPostsQuery represents the post listing query string. Echo coerces the
// numeric parameters; Normalize applies defaults afterwards.
type ListPostsQuery struct {
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Status    string `query:"status" validate:"omitempty,oneof=draft published"`
	Category  uint   `query:"category"`
	Author    uint   `query:"author"`
	Search    string `query:"search"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=id title created_at updated_at"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Normalize applies the documented defaults for omitted parameters.
func (q *ListPostsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

// Filter converts the query into a repository filter.
func (q *ListPostsQuery) Filter() repository.PostFilter {
	return repository.PostFilter{
		Status:     q.Status,
		AuthorID:   q.Author,
		CategoryID: q.Category,
		Search:     q.Search,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	}
}

// CreatePostRequest represents a post creation request.
type CreatePostRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"required,slug,max=255"`
	Content       string `json:"content" validate:"required"`
	ContentType   string `json:"contentType" validate:"omitempty,oneof=markdown html"`
	Excerpt       string `json:"excerpt" validate:"omitempty,max=500"`
	Status        string `json:"status" validate:"omitempty,oneof=draft published"`
	FeaturedImage string `json:"featuredImage" validate:"omitempty,url,max=500"`
	CategoryIDs   []uint `json:"categoryIds"`
}

// UpdatePostRequest represents a partial post update. Absent fields stay
// untouched; a present categoryIds replaces the associations wholesale.
type UpdatePostRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Slug          *string `json:"slug" validate:"omitempty,slug,max=255"`
	Content       *string `json:"content" validate:"omitempty,min=1"`
	ContentType   *string `json:"contentType" validate:"omitempty,oneof=markdown html"`
	Excerpt       *string `json:"excerpt" validate:"omitempty,max=500"`
	Status        *string `json:"status" validate:"omitempty,oneof=draft published"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,url,max=500"`
	CategoryIDs   *[]uint `json:"categoryIds"`
}

// ListPosts godoc
// @Summary List posts with filters and pagination
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status" Enums(draft, published)
// @Param category query int false "Filter by category id"
// @Param author query int false "Filter by author id"
// @Param search query string false "Free-text search over title and content"
// @Param sortBy query string false "Sort column" Enums(id, title, created_at, updated_at)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} ListResponse
// @Failure 400 {object} Response
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	var q ListPostsQuery
	if err := c.Bind(&q); err != nil {
		return apperr.Validation("invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	q.Normalize()

	posts, total, err := h.postService.List(c.Request().Context(), q.Filter())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ListResponse{
		Success:    true,
		Data:       posts,
		Pagination: NewPagination(q.Page, q.Limit, total),
	})
}

// GetPost godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} Response{data=model.Post}
// @Failure 404 {object} Response
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: post})
}

// CreatePost godoc
// @Summary Create a post owned by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} Response{data=model.Post}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 409 {object} Response
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ContentType == "" {
		req.ContentType = string(model.ContentTypeMarkdown)
	}
	if req.Status == "" {
		req.Status = string(model.PostStatusDraft)
	}

	post, err := h.postService.Create(c.Request().Context(), claims, service.CreatePostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		ContentType:   model.ContentType(req.ContentType),
		Excerpt:       req.Excerpt,
		Status:        model.PostStatus(req.Status),
		FeaturedImage: req.FeaturedImage,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "post created successfully",
		Data:    post,
	})
}

// UpdatePost godoc
// @Summary Update a post (owner or admin)
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Fields to update"
// @Success 200 {object} Response{data=model.Post}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /posts/{id} [patch]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.UpdatePostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		CategoryIDs:   req.CategoryIDs,
	}
	if req.ContentType != nil {
		ct := model.ContentType(*req.ContentType)
		in.ContentType = &ct
	}
	if req.Status != nil {
		st := model.PostStatus(*req.Status)
		in.Status = &st
	}

	post, err := h.postService.Update(c.Request().Context(), claims, id, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "post updated successfully",
		Data:    post,
	})
}

// DeletePost godoc
// @Summary Delete a post (owner or admin)
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), claims, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "post deleted successfully",
	})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("id must be a positive integer")
	}
	return uint(id), nil
}
