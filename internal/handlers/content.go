package handlers

import (
	"errors"
	"strings"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/models"
)

var errMissingFields = errors.New("Missing required fields")

// The five content tables all share the same CRUD shape; only ordering,
// required fields and blob cleanup differ. Router wiring decides which
// operations are admin-gated.

var aboutItems = resource[models.AboutItem]{
	name:         "About item",
	orderBy:      `"order" ASC, created_at DESC`,
	visibleWhere: "is_active = true",
	required: func(a *models.AboutItem) error {
		if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Description) == "" ||
			strings.TrimSpace(a.Content) == "" || a.ImageUrl == "" {
			return errMissingFields
		}
		return nil
	},
	fields: map[string]string{
		"title":       "title",
		"description": "description",
		"content":     "content",
		"imageUrl":    "image_url",
		"order":       "order",
		"isActive":    "is_active",
	},
	blobURL: func(a *models.AboutItem) string { return a.ImageUrl },
}

var aboutVideos = resource[models.AboutVideo]{
	name:    "Video",
	orderBy: "created_at DESC",
	required: func(v *models.AboutVideo) error {
		if v.Url == "" {
			return errors.New("Video URL is required")
		}
		return nil
	},
	fields: map[string]string{
		"url":      "url",
		"size":     "size",
		"mimeType": "mime_type",
	},
	blobURL: func(v *models.AboutVideo) string { return v.Url },
	onCreate: func(v *models.AboutVideo, claims *auth.Claims) {
		if claims != nil {
			v.UserID = &claims.UserID
		}
	},
}

var views = resource[models.View]{
	name:    "View",
	orderBy: `"order" ASC`,
	required: func(v *models.View) error {
		if strings.TrimSpace(v.Title) == "" || strings.TrimSpace(v.Desc) == "" || v.Background == "" {
			return errMissingFields
		}
		return nil
	},
	fields: map[string]string{
		"title":      "title",
		"desc":       "desc",
		"background": "background",
		"order":      "order",
		"isActive":   "is_active",
	},
	blobURL: func(v *models.View) string { return v.Background },
}

var information = resource[models.Information]{
	name:    "Information",
	orderBy: "created_at DESC",
	required: func(i *models.Information) error {
		if strings.TrimSpace(i.Title) == "" || strings.TrimSpace(i.Content) == "" {
			return errMissingFields
		}
		return nil
	},
	fields: map[string]string{
		"title":   "title",
		"content": "content",
		"url":     "url",
		"type":    "type",
	},
}

var comments = resource[models.Comment]{
	name:    "Comment",
	orderBy: "created_at DESC",
	required: func(c *models.Comment) error {
		c.Name = strings.TrimSpace(c.Name)
		c.Content = strings.TrimSpace(c.Content)
		if c.Name == "" || c.Content == "" {
			return errors.New("Name and content are required")
		}
		return nil
	},
}

// Route-facing names for the generic handlers.
var (
	ListAboutItems  = aboutItems.list
	GetAboutItem    = aboutItems.get
	CreateAboutItem = aboutItems.create
	UpdateAboutItem = aboutItems.update
	DeleteAboutItem = aboutItems.delete

	ListAboutVideos  = aboutVideos.list
	CreateAboutVideo = aboutVideos.create
	UpdateAboutVideo = aboutVideos.update
	DeleteAboutVideo = aboutVideos.delete

	ListViews  = views.list
	CreateView = views.create
	UpdateView = views.update
	DeleteView = views.delete

	ListInformation   = information.list
	CreateInformation = information.create
	UpdateInformation = information.update
	DeleteInformation = information.delete

	ListComments  = comments.list
	CreateComment = comments.create
	DeleteComment = comments.delete
)
