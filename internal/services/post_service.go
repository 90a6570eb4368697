package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isdelr/social-feed-be/internal/apperr"
	"github.com/isdelr/social-feed-be/internal/auth"
	"github.com/isdelr/social-feed-be/internal/models"
	"github.com/isdelr/social-feed-be/internal/validate"
)

// feedPageSize is the fixed number of posts per feed page.
const feedPageSize = 2

// ImageRemover deletes a stored image by its public path. Removal is
// best-effort and never fails the calling operation.
type ImageRemover interface {
	Remove(publicPath string)
}

// PostServiceProvider defines the interface for post resolver operations.
type PostServiceProvider interface {
	Create(ctx context.Context, title, content, imageURL string) (models.PostView, error)
	Feed(ctx context.Context, currentPage int) (models.PostsPage, error)
	Get(ctx context.Context, postID string) (models.PostView, error)
	Update(ctx context.Context, postID, title, content string, imageURL *string) (models.PostView, error)
	Delete(ctx context.Context, postID string) (bool, error)
	ByCreator(ctx context.Context, creatorID string) ([]models.PostView, error)
}

// PostService provides business logic for posts and the feed.
type PostService struct {
	db     *sql.DB
	images ImageRemover
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, images ImageRemover) *PostService {
	return &PostService{db: db, images: images}
}

// Create stores a new post owned by the authenticated caller.
func (s *PostService) Create(ctx context.Context, title, content, imageURL string) (models.PostView, error) {
	userID, ok := auth.Identity(ctx)
	if !ok {
		return models.PostView{}, apperr.Unauthenticated("not authenticated")
	}

	if fieldErrs := validate.PostInput(title, content); len(fieldErrs) > 0 {
		return models.PostView{}, apperr.Invalid("invalid input", fieldErrs)
	}

	creator, err := s.creator(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The token outlived the account.
			return models.PostView{}, apperr.Unauthenticated("user is not registered")
		}
		return models.PostView{}, err
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatorID: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO posts(id, title, content, image_url, creator_id, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		post.ID, post.Title, post.Content, post.ImageURL, post.CreatorID, formatTime(now), formatTime(now))
	if err != nil {
		return models.PostView{}, fmt.Errorf("failed to create post: %w", err)
	}

	return models.PostView{Post: post, Creator: creator}, nil
}

// Feed returns one page of the feed, newest first, together with the
// total post count. An empty page, including page one of an empty
// database, is a valid result rather than an error.
func (s *PostService) Feed(ctx context.Context, currentPage int) (models.PostsPage, error) {
	if _, ok := auth.Identity(ctx); !ok {
		return models.PostsPage{}, apperr.Unauthenticated("not authenticated")
	}
	if currentPage < 1 {
		currentPage = 1
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return models.PostsPage{}, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		selectPostView+" ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?",
		feedPageSize, (currentPage-1)*feedPageSize)
	if err != nil {
		return models.PostsPage{}, fmt.Errorf("failed to query feed: %w", err)
	}
	defer rows.Close()

	posts, err := scanPostViews(rows)
	if err != nil {
		return models.PostsPage{}, err
	}
	return models.PostsPage{Posts: posts, TotalItems: total}, nil
}

// Get returns a single post with its creator expanded.
func (s *PostService) Get(ctx context.Context, postID string) (models.PostView, error) {
	if _, ok := auth.Identity(ctx); !ok {
		return models.PostView{}, apperr.Unauthenticated("not authenticated")
	}
	post, err := s.byID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PostView{}, apperr.NotFound("post not found")
		}
		return models.PostView{}, err
	}
	return post, nil
}

// Update rewrites a post's title and content, and its image path when
// one is provided (a nil imageURL means "keep the current image").
// Only the creator may update a post; existence is checked before
// ownership so a missing post reports NotFound, not an ownership error.
func (s *PostService) Update(ctx context.Context, postID, title, content string, imageURL *string) (models.PostView, error) {
	userID, ok := auth.Identity(ctx)
	if !ok {
		return models.PostView{}, apperr.Unauthenticated("not authenticated")
	}

	if fieldErrs := validate.PostInput(title, content); len(fieldErrs) > 0 {
		return models.PostView{}, apperr.Invalid("invalid input", fieldErrs)
	}

	post, err := s.byID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PostView{}, apperr.NotFound("post not found")
		}
		return models.PostView{}, err
	}
	if post.Creator.ID != userID {
		return models.PostView{}, apperr.Unauthenticated("not authorized")
	}

	post.Title = title
	post.Content = content
	if imageURL != nil {
		post.ImageURL = *imageURL
	}
	post.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, content = ?, image_url = ?, updated_at = ? WHERE id = ?",
		post.Title, post.Content, post.ImageURL, formatTime(post.UpdatedAt), post.ID)
	if err != nil {
		return models.PostView{}, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// Delete removes a post and its stored image. Only the creator may
// delete a post. The image removal is best-effort: a missing file never
// aborts the logical deletion, and leftovers are reclaimed by the
// image sweeper.
func (s *PostService) Delete(ctx context.Context, postID string) (bool, error) {
	userID, ok := auth.Identity(ctx)
	if !ok {
		return false, apperr.Unauthenticated("not authenticated")
	}

	post, err := s.byID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, apperr.NotFound("post not found")
		}
		return false, err
	}
	if post.Creator.ID != userID {
		return false, apperr.Forbidden("not authorized")
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", post.ID); err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}

	if post.ImageURL != "" {
		s.images.Remove(post.ImageURL)
	}
	return true, nil
}

// ByCreator returns a user's posts in creation order. Backs the posts
// field of the User type.
func (s *PostService) ByCreator(ctx context.Context, creatorID string) ([]models.PostView, error) {
	rows, err := s.db.QueryContext(ctx,
		selectPostView+" WHERE p.creator_id = ? ORDER BY p.created_at ASC, p.id ASC", creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by creator: %w", err)
	}
	defer rows.Close()
	return scanPostViews(rows)
}

// ReferencedImagePaths lists every image path some post still points at.
// Feeds the orphaned-image sweeper.
func (s *PostService) ReferencedImagePaths() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT image_url FROM posts WHERE image_url <> ''")
	if err != nil {
		return nil, fmt.Errorf("failed to query referenced images: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (s *PostService) creator(ctx context.Context, userID string) (models.PublicUser, error) {
	var u models.PublicUser
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, status FROM users WHERE id = ?", userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Status)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u, nil
}

const selectPostView = `
	SELECT p.id, p.title, p.content, p.image_url, p.created_at, p.updated_at,
	       u.id, u.name, u.email, u.status
	FROM posts p
	JOIN users u ON u.id = p.creator_id`

func (s *PostService) byID(ctx context.Context, postID string) (models.PostView, error) {
	row := s.db.QueryRowContext(ctx, selectPostView+" WHERE p.id = ?", postID)

	var post models.PostView
	var createdAt, updatedAt string
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.ImageURL, &createdAt, &updatedAt,
		&post.Creator.ID, &post.Creator.Name, &post.Creator.Email, &post.Creator.Status)
	if err != nil {
		return models.PostView{}, err
	}
	post.CreatorID = post.Creator.ID
	post.CreatedAt = parseTime(createdAt)
	post.UpdatedAt = parseTime(updatedAt)
	return post, nil
}

func scanPostViews(rows *sql.Rows) ([]models.PostView, error) {
	posts := []models.PostView{}
	for rows.Next() {
		var post models.PostView
		var createdAt, updatedAt string
		err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.ImageURL, &createdAt, &updatedAt,
			&post.Creator.ID, &post.Creator.Name, &post.Creator.Email, &post.Creator.Status)
		if err != nil {
			return nil, err
		}
		post.CreatorID = post.Creator.ID
		post.CreatedAt = parseTime(createdAt)
		post.UpdatedAt = parseTime(updatedAt)
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
