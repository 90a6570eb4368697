package services_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/isdelr/social-feed-be/internal/auth"
	"github.com/isdelr/social-feed-be/internal/services"
)

type fakeRemover struct {
	removed []string
}

func (f *fakeRemover) Remove(publicPath string) {
	f.removed = append(f.removed, publicPath)
}

func newPostService(t *testing.T) (*services.PostService, *fakeRemover) {
	t.Helper()
	db := newTestDB(t)
	seedUser(t, db, "user-a", "Ada", "a@x.com")
	seedUser(t, db, "user-b", "Bob", "b@x.com")
	remover := &fakeRemover{}
	return services.NewPostService(db, remover), remover
}

func asUser(id string) context.Context {
	return auth.WithIdentity(context.Background(), id)
}

func TestCreatePostSetsCreator(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := asUser("user-a")

	post, err := svc.Create(ctx, "Hello world", "First post!", "images/pic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Creator.ID != "user-a" {
		t.Errorf("creator = %q, want user-a", post.Creator.ID)
	}
	if post.ID == "" {
		t.Error("post id not assigned")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.Before(post.CreatedAt) {
		t.Errorf("timestamps not monotonic: created %v, updated %v", post.CreatedAt, post.UpdatedAt)
	}

	// The creator's post collection picks up the new post.
	owned, err := svc.ByCreator(ctx, "user-a")
	if err != nil {
		t.Fatalf("ByCreator: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != post.ID {
		t.Errorf("owned posts = %v, want just %s", owned, post.ID)
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Create(context.Background(), "Hello world", "First post!", "")
	wantCode(t, err, http.StatusUnauthorized)
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Create(asUser("user-a"), "Hey", "Hi", "")
	wantCode(t, err, http.StatusUnprocessableEntity)
}

func TestCreatePostForDeletedAccount(t *testing.T) {
	svc, _ := newPostService(t)
	// A valid token whose account no longer exists.
	_, err := svc.Create(asUser("gone"), "Hello world", "First post!", "")
	wantCode(t, err, http.StatusUnauthorized)
}

func TestFeedPagination(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := asUser("user-a")

	var created []string
	for i := 1; i <= 5; i++ {
		post, err := svc.Create(ctx, fmt.Sprintf("Post number %d", i), "Some content here", "")
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		created = append(created, post.ID)
		time.Sleep(time.Millisecond)
	}

	page1, err := svc.Feed(ctx, 1)
	if err != nil {
		t.Fatalf("Feed(1): %v", err)
	}
	page2, err := svc.Feed(ctx, 2)
	if err != nil {
		t.Fatalf("Feed(2): %v", err)
	}
	page3, err := svc.Feed(ctx, 3)
	if err != nil {
		t.Fatalf("Feed(3): %v", err)
	}

	if page1.TotalItems != 5 || page2.TotalItems != 5 {
		t.Errorf("totalItems = %d/%d, want 5", page1.TotalItems, page2.TotalItems)
	}
	if len(page1.Posts) != 2 || len(page2.Posts) != 2 || len(page3.Posts) != 1 {
		t.Fatalf("page sizes = %d/%d/%d, want 2/2/1", len(page1.Posts), len(page2.Posts), len(page3.Posts))
	}

	// Newest first, pages disjoint, union covers the set in sort order.
	wantOrder := []string{created[4], created[3], created[2], created[1], created[0]}
	got := []string{page1.Posts[0].ID, page1.Posts[1].ID, page2.Posts[0].ID, page2.Posts[1].ID, page3.Posts[0].ID}
	for i := range wantOrder {
		if got[i] != wantOrder[i] {
			t.Fatalf("feed order[%d] = %s, want %s", i, got[i], wantOrder[i])
		}
	}

	// Out-of-range pages are empty but valid.
	page9, err := svc.Feed(ctx, 9)
	if err != nil {
		t.Fatalf("Feed(9): %v", err)
	}
	if len(page9.Posts) != 0 || page9.TotalItems != 5 {
		t.Errorf("Feed(9) = %d posts, total %d; want 0 posts, total 5", len(page9.Posts), page9.TotalItems)
	}
}

func TestFeedEmptyDatabase(t *testing.T) {
	svc, _ := newPostService(t)

	page, err := svc.Feed(asUser("user-a"), 1)
	if err != nil {
		t.Fatalf("Feed on empty database: %v", err)
	}
	if page.TotalItems != 0 {
		t.Errorf("totalItems = %d, want 0", page.TotalItems)
	}
	if page.Posts == nil || len(page.Posts) != 0 {
		t.Errorf("posts = %#v, want empty non-nil slice", page.Posts)
	}
}

func TestFeedRequiresAuth(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Feed(context.Background(), 1)
	wantCode(t, err, http.StatusUnauthorized)
}

func TestFeedDefaultsToFirstPage(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := asUser("user-a")
	if _, err := svc.Create(ctx, "Hello world", "First post!", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := svc.Feed(ctx, 0)
	if err != nil {
		t.Fatalf("Feed(0): %v", err)
	}
	if len(page.Posts) != 1 {
		t.Errorf("Feed(0) returned %d posts, want 1", len(page.Posts))
	}
}

func TestGetPostNotFound(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Get(asUser("user-a"), "missing")
	wantCode(t, err, http.StatusNotFound)
}

func TestUpdatePost(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := asUser("user-a")

	post, err := svc.Create(ctx, "Hello world", "First post!", "images/original")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Without an imageUrl the current image is kept.
	updated, err := svc.Update(ctx, post.ID, "Hello again", "Edited post!", nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Hello again" || updated.Content != "Edited post!" {
		t.Errorf("updated = (%q, %q)", updated.Title, updated.Content)
	}
	if updated.ImageURL != "images/original" {
		t.Errorf("imageUrl = %q, want unchanged", updated.ImageURL)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("updatedAt moved backwards")
	}

	// An explicit imageUrl replaces it, including an explicit clear.
	empty := ""
	cleared, err := svc.Update(ctx, post.ID, "Hello again", "Edited post!", &empty)
	if err != nil {
		t.Fatalf("Update with cleared image: %v", err)
	}
	if cleared.ImageURL != "" {
		t.Errorf("imageUrl = %q, want cleared", cleared.ImageURL)
	}
}

func TestUpdatePostMissing(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Update(asUser("user-a"), "missing", "Hello world", "First post!", nil)
	wantCode(t, err, http.StatusNotFound)
}

func TestUpdatePostNotOwner(t *testing.T) {
	svc, _ := newPostService(t)

	post, err := svc.Create(asUser("user-a"), "Hello world", "First post!", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = svc.Update(asUser("user-b"), post.ID, "Hijacked title", "Hijacked body", nil)
	wantCode(t, err, http.StatusUnauthorized)
}

func TestDeletePost(t *testing.T) {
	svc, remover := newPostService(t)
	ctx := asUser("user-a")

	post, err := svc.Create(ctx, "Hello world", "First post!", "images/pic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := svc.Delete(ctx, post.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v)", ok, err)
	}

	if len(remover.removed) != 1 || remover.removed[0] != "images/pic" {
		t.Errorf("removed images = %v, want [images/pic]", remover.removed)
	}

	_, err = svc.Get(ctx, post.ID)
	wantCode(t, err, http.StatusNotFound)

	owned, err := svc.ByCreator(ctx, "user-a")
	if err != nil {
		t.Fatalf("ByCreator: %v", err)
	}
	if len(owned) != 0 {
		t.Errorf("creator still owns %d posts after delete", len(owned))
	}
}

func TestDeletePostNotOwner(t *testing.T) {
	svc, remover := newPostService(t)

	post, err := svc.Create(asUser("user-a"), "Hello world", "First post!", "images/pic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Delete(asUser("user-b"), post.ID)
	wantCode(t, err, http.StatusForbidden)

	if len(remover.removed) != 0 {
		t.Errorf("image removed despite rejected delete: %v", remover.removed)
	}
	if _, err := svc.Get(asUser("user-a"), post.ID); err != nil {
		t.Errorf("post gone despite rejected delete: %v", err)
	}
}

func TestDeletePostMissing(t *testing.T) {
	svc, _ := newPostService(t)
	_, err := svc.Delete(asUser("user-a"), "missing")
	wantCode(t, err, http.StatusNotFound)
}

func TestReferencedImagePaths(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := asUser("user-a")

	if _, err := svc.Create(ctx, "Hello world", "First post!", "images/one"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "Hello again", "Another post", "images/one"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "No image here", "Text only post", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	paths, err := svc.ReferencedImagePaths()
	if err != nil {
		t.Fatalf("ReferencedImagePaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "images/one" {
		t.Errorf("paths = %v, want [images/one]", paths)
	}
}
