package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/database/genres"
	"github.com/storyarc/storyarc/internal/entities"
)

type GenresController struct {
	store   GenreStore
	auditor Auditor
}

func NewGenresController(store GenreStore, auditor Auditor) *GenresController {
	return &GenresController{store: store, auditor: auditorOrNoop(auditor)}
}

type genreRequest struct {
	Name string `json:"name"`
}

// bindGenreName reads {"name": ...} and answers 400 when it is blank.
func bindGenreName(c *gin.Context) (string, bool) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "genre name is required")
		return "", false
	}
	return name, true
}

// ListGenres handles GET /api/genres
func (gc *GenresController) ListGenres(c *gin.Context) {
	page, limit, ok := parsePagination(c, genres.DefaultLimit, genres.MaxLimit)
	if !ok {
		return
	}

	list, total, err := gc.store.List(page, limit)
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"genres":       list,
		"total_genres": total,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
	})
}

// CreateGenre handles POST /api/genres
func (gc *GenresController) CreateGenre(c *gin.Context) {
	name, ok := bindGenreName(c)
	if !ok {
		return
	}

	genre, err := gc.store.Create(name)
	if err != nil {
		if errors.Is(err, genres.ErrGenreExists) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create genre")
		return
	}

	respondCreated(c, gin.H{"message": "Genre created", "id": genre.ID})
}

// RenameGenre handles PUT /api/genres/:id
func (gc *GenresController) RenameGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	name, ok := bindGenreName(c)
	if !ok {
		return
	}

	genre, err := gc.store.Rename(id, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "genre")
		return
	case errors.Is(err, genres.ErrGenreExists):
		respondBadRequest(c, err.Error())
		return
	}
	gc.auditor.LogAction(auditActor(c), entities.AuditEventGenre, "genre_rename", "genre", id,
		"Renamed genre "+audit.FormatID(id)+" to "+name, nil, err)
	if err != nil {
		respondInternalError(c, err, "rename genre")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Genre updated successfully", "genre": genre})
}

// DeleteGenre handles DELETE /api/genres/:id
func (gc *GenresController) DeleteGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := gc.store.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "genre")
		return
	}
	gc.auditor.LogAction(auditActor(c), entities.AuditEventGenre, "genre_delete", "genre", id,
		"Deleted genre "+audit.FormatID(id), nil, err)
	if err != nil {
		respondInternalError(c, err, "delete genre")
		return
	}

	respondSuccess(c, "Genre deleted successfully")
}
