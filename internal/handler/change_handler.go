package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/service"
)

type rejectRequest struct {
	Reason string `json:"reason"`
}

// SubmitCreateChange 接收新文章的投稿草稿
func (a *API) SubmitCreateChange(c *gin.Context) {
	authorID, ok := sessionUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	var draft db.ChangeDraft
	if !bindJSON(c, &draft, "invalid draft payload") {
		return
	}

	change, err := a.changes.SubmitCreate(authorID, draft)
	if err != nil {
		if errors.Is(err, service.ErrDraftInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to submit change")
		return
	}

	c.JSON(http.StatusCreated, change)
}

// SubmitUpdateChange 接收针对既有文章的修改草稿
func (a *API) SubmitUpdateChange(c *gin.Context) {
	authorID, ok := sessionUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	articleID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var draft db.ChangeDraft
	if !bindJSON(c, &draft, "invalid draft payload") {
		return
	}

	change, err := a.changes.SubmitUpdate(authorID, articleID, draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDraftInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrArticleNotFound):
			respondError(c, http.StatusNotFound, "article not found")
		case errors.Is(err, service.ErrArticleArchived):
			respondError(c, http.StatusConflict, "article is archived")
		default:
			respondError(c, http.StatusInternalServerError, "failed to submit change")
		}
		return
	}

	c.JSON(http.StatusCreated, change)
}

// ListChanges 返回变更列表，支持按状态、类型过滤
func (a *API) ListChanges(c *gin.Context) {
	filter := service.ChangeFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}

	changes, err := a.changes.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list changes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

// GetChange 返回单条变更
func (a *API) GetChange(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	change, err := a.changes.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrChangeNotFound) {
			respondError(c, http.StatusNotFound, "change not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load change")
		return
	}

	c.JSON(http.StatusOK, change)
}

// ApproveChange 审批通过一条变更并应用到文章
func (a *API) ApproveChange(c *gin.Context) {
	reviewerID, ok := sessionUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.changes.Approve(id, reviewerID)
	if err != nil {
		respondChangeResolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"change":  result.Change,
		"article": result.Article,
	})
}

// RejectChange 驳回一条变更，不触碰文章
func (a *API) RejectChange(c *gin.Context) {
	reviewerID, ok := sessionUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req rejectRequest
	if !bindJSON(c, &req, "invalid reject payload") {
		return
	}

	change, err := a.changes.Reject(id, reviewerID, req.Reason)
	if err != nil {
		respondChangeResolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, change)
}

func respondChangeResolutionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChangeNotFound):
		respondError(c, http.StatusNotFound, "change not found")
	case errors.Is(err, service.ErrChangeResolved):
		respondError(c, http.StatusConflict, "change already resolved")
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "target article not found")
	case errors.Is(err, service.ErrArticleArchived):
		respondError(c, http.StatusConflict, "article is archived")
	case errors.Is(err, service.ErrReviewerForbidden):
		respondError(c, http.StatusForbidden, "reviewer role required")
	default:
		respondError(c, http.StatusInternalServerError, "failed to resolve change")
	}
}
