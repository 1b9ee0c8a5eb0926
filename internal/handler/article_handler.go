package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/newsdesk/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ListArticles 返回文章列表，支持状态、栏目与关键字过滤
func (a *API) ListArticles(c *gin.Context) {
	filter := service.ArticleFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
	}

	if raw := c.Query("published"); raw != "" {
		published := raw == "true" || raw == "1"
		filter.Published = &published
	}
	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.CategoryID = uint(id)
		}
	}
	if raw := c.Query("page"); raw != "" {
		filter.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("per_page"); raw != "" {
		filter.PerPage, _ = strconv.Atoi(raw)
	}

	result, err := a.articles.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list articles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":    result.Articles,
		"total":       result.Total,
		"published":   result.PublishedCount,
		"archived":    result.ArchivedCount,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"per_page":    result.PerPage,
	})
}

// GetArticle 返回单篇文章
func (a *API) GetArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	article, err := a.articles.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}

	c.JSON(http.StatusOK, article)
}

// GetArticleHTML 将文章正文渲染为净化后的 HTML
func (a *API) GetArticleHTML(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	article, err := a.articles.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(article.Body), &buf); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    article.ID,
		"title": article.Title,
		"html":  sanitizer.Sanitize(buf.String()),
	})
}
