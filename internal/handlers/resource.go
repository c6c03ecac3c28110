package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/db"
	mw "github.com/hopebridge/intake/internal/middleware"
	svc "github.com/hopebridge/intake/internal/services"
)

// resource is the generic CRUD handler set shared by the content tables.
// Each instance is parameterized by its ordering rule, required-field check,
// updatable columns and optional blob cleanup, which is all that ever
// differed between the per-resource route files.
type resource[T any] struct {
	// human name used in messages, e.g. "About item"
	name string
	// list ordering, e.g. `"order" ASC, created_at DESC`
	orderBy string
	// optional WHERE applied to public list/get (e.g. active-only)
	visibleWhere string
	// create validation; returns the message for a 400
	required func(*T) error
	// json key -> column whitelist for updates
	fields map[string]string
	// optional: blob URL to best-effort delete together with the row
	blobURL func(*T) string
	// optional: stamp session data onto new records
	onCreate func(*T, *auth.Claims)
}

// GET list: returns all rows, or a page when ?page/?limit are given.
func (rs resource[T]) list(w http.ResponseWriter, r *http.Request) {
	q := db.Conn().Model(new(T))
	if rs.visibleWhere != "" {
		q = q.Where(rs.visibleWhere)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		zap.L().Error("count failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", queryInt(r, "pageSize", 0))
	if page > 0 && limit <= 0 {
		limit = 10
	}
	if limit > 0 {
		if page <= 0 {
			page = 1
		}
		q = q.Offset((page - 1) * limit).Limit(limit)
	}

	var items []T
	if err := q.Order(rs.orderBy).Find(&items).Error; err != nil {
		zap.L().Error("list failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := map[string]any{"items": items, "total": total}
	if limit > 0 {
		data["pagination"] = map[string]any{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		}
	}
	respond(w, http.StatusOK, data)
}

// GET by id, honoring the visibility filter.
func (rs resource[T]) get(w http.ResponseWriter, r *http.Request) {
	q := db.Conn()
	if rs.visibleWhere != "" {
		q = q.Where(rs.visibleWhere)
	}
	var item T
	if err := q.First(&item, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, rs.name+" not found")
			return
		}
		zap.L().Error("get failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, item)
}

func (rs resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decode(r, &item); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rs.required != nil {
		if err := rs.required(&item); err != nil {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if rs.onCreate != nil {
		rs.onCreate(&item, mw.SessionFrom(r.Context()))
	}
	if err := db.Conn().Create(&item).Error; err != nil {
		zap.L().Error("create failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusCreated, "Created successfully", item)
}

// PUT/PATCH by id: partial update over the whitelisted columns.
func (rs resource[T]) update(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := db.Conn().First(&item, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, rs.name+" not found")
			return
		}
		zap.L().Error("get failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var body map[string]any
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cols := map[string]any{}
	for key, col := range rs.fields {
		if v, ok := body[key]; ok {
			cols[col] = v
		}
	}
	if len(cols) > 0 {
		if err := db.Conn().Model(&item).Updates(cols).Error; err != nil {
			zap.L().Error("update failed", zap.String("resource", rs.name), zap.Error(err))
			fail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	respondMsg(w, http.StatusOK, "Updated successfully", item)
}

// DELETE by id. An associated blob is removed best-effort: losing the blob is
// logged, the row delete still happens.
func (rs resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := db.Conn().First(&item, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, rs.name+" not found")
			return
		}
		zap.L().Error("get failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if rs.blobURL != nil {
		svc.DeleteBlob(rs.blobURL(&item))
	}
	if err := db.Conn().Delete(&item).Error; err != nil {
		zap.L().Error("delete failed", zap.String("resource", rs.name), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, rs.name+" deleted", nil)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
