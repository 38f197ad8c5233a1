package category

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"buildmart-gateway/internal/logger"
	"buildmart-gateway/internal/upstream"

	"go.uber.org/zap"
)

const categoriesPath = "/api/categories/"

// Upstream is the slice of the catalog client the repository needs.
type Upstream interface {
	Do(ctx context.Context, req upstream.Request) (*upstream.Response, error)
}

type Repository interface {
	ListCategories(ctx context.Context, query url.Values, auth string) ([]Record, error)
	GetCategory(ctx context.Context, id string, auth string) (*Passthrough, error)
	CreateCategory(ctx context.Context, body Payload, auth string) (*Passthrough, error)
	UpdateCategory(ctx context.Context, id string, body Payload, auth string) (*Passthrough, error)
	DeleteCategory(ctx context.Context, id string, auth string) (*Passthrough, error)
}

type repository struct {
	client Upstream
	now    func() time.Time
}

func NewRepository(client Upstream) Repository {
	return &repository{client: client, now: time.Now}
}

func (r *repository) ListCategories(
	ctx context.Context,
	query url.Values,
	auth string,
) ([]Record, error) {

	// ---------- CACHE BUSTING ----------
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("t", strconv.FormatInt(r.now().UnixMilli(), 10))

	log := logger.FromCtx(ctx).With(zap.String("query", q.Encode()))
	log.Info("ListCategories started")

	resp, err := r.client.Do(ctx, upstream.Request{
		Method:        http.MethodGet,
		Path:          categoriesPath,
		Query:         q,
		Authorization: auth,
	})
	if err != nil {
		log.Error("ListCategories upstream call failed", zap.Error(err))
		return nil, err
	}

	records, err := DecodeList(resp.Body)
	if err != nil {
		log.Error("ListCategories decode failed", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}

	log.Info("ListCategories success", zap.Int("count", len(records)))
	return records, nil
}

func (r *repository) GetCategory(ctx context.Context, id string, auth string) (*Passthrough, error) {
	if id == "" {
		return nil, ErrCategoryIDRequired
	}

	return r.relay(ctx, "GetCategory", upstream.Request{
		Method:        http.MethodGet,
		Path:          detailPath(id),
		Authorization: auth,
	})
}

func (r *repository) CreateCategory(ctx context.Context, body Payload, auth string) (*Passthrough, error) {
	return r.relay(ctx, "CreateCategory", upstream.Request{
		Method:        http.MethodPost,
		Path:          categoriesPath,
		Body:          body.Body,
		ContentType:   body.ContentType,
		Authorization: auth,
	})
}

func (r *repository) UpdateCategory(ctx context.Context, id string, body Payload, auth string) (*Passthrough, error) {
	if id == "" {
		return nil, ErrCategoryIDRequired
	}

	return r.relay(ctx, "UpdateCategory", upstream.Request{
		Method:        http.MethodPatch,
		Path:          detailPath(id),
		Body:          body.Body,
		ContentType:   body.ContentType,
		Authorization: auth,
	})
}

func (r *repository) DeleteCategory(ctx context.Context, id string, auth string) (*Passthrough, error) {
	if id == "" {
		return nil, ErrCategoryIDRequired
	}

	return r.relay(ctx, "DeleteCategory", upstream.Request{
		Method:        http.MethodDelete,
		Path:          detailPath(id),
		Authorization: auth,
	})
}

func (r *repository) relay(ctx context.Context, op string, req upstream.Request) (*Passthrough, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", op),
		zap.String("path", req.Path),
	)
	log.Info(op + " started")

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		log.Error(op+" upstream call failed", zap.Error(err))
		return nil, err
	}

	log.Info(op+" success", zap.Int("status", resp.Status))
	return &Passthrough{Status: resp.Status, Body: upstream.ParseBody(resp.Body)}, nil
}

func detailPath(id string) string {
	return categoriesPath + url.PathEscape(id) + "/"
}
