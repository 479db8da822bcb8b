package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/postboard/internal/model"
)

// Repository is what the handlers need from storage.
type Repository interface {
	List() []model.Post
	GetByID(id model.ID) (model.Post, error)
	Create(in model.PostInput) (model.Post, error)
	Merge(id model.ID, u model.PostUpdate) (model.Post, error)
	Replace(id model.ID, in model.PostInput) (model.Post, error)
	Delete(id model.ID) error
}

type postHandler struct {
	repo         Repository
	defaultImage string
}

func (h *postHandler) register(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PATCH("/:id", h.patch)
	g.PUT("/:id", h.put)
	g.DELETE("/:id", h.delete)
}

func (h *postHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.repo.List())
}

func (h *postHandler) get(c *gin.Context) {
	post, err := h.repo.GetByID(model.ID(c.Param("id")))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) create(c *gin.Context) {
	var in model.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		sendError(c, badRequest(err))
		return
	}
	if in.Image == "" {
		in.Image = h.defaultImage
	}
	post, err := h.repo.Create(in)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// patch merges only the fields present in the body.
func (h *postHandler) patch(c *gin.Context) {
	var u model.PostUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		sendError(c, badRequest(err))
		return
	}
	post, err := h.repo.Merge(model.ID(c.Param("id")), u)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) put(c *gin.Context) {
	var in model.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		sendError(c, badRequest(err))
		return
	}
	post, err := h.repo.Replace(model.ID(c.Param("id")), in)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) delete(c *gin.Context) {
	if err := h.repo.Delete(model.ID(c.Param("id"))); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
