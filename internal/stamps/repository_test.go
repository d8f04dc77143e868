package stamps_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/internal/stamps"
	"github.com/JaimeStill/philatopia/pkg/lifecycle"
	"github.com/JaimeStill/philatopia/pkg/pagination"
	"github.com/JaimeStill/philatopia/pkg/storage"
)

var (
	ownerID   = uuid.MustParse("6b1c1f0e-4a51-4c1e-9d0b-2f6a0c6b9e11")
	otherID   = uuid.MustParse("0f7e8d2c-9b3a-4d5e-8f1a-7c6b5a4d3e21")
	stampID   = uuid.MustParse("c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f")
	createdAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 32)...)
	gifData = append([]byte("GIF89a"), bytes.Repeat([]byte{2}, 32)...)
)

var columns = []string{"id", "owner", "name", "description", "year_issued", "country", "image", "created_at"}

const (
	countSQL  = `SELECT COUNT(*) FROM public.stamps s WHERE s.owner = $1`
	findSQL   = `FROM public.stamps s WHERE s.id = $1`
	insertSQL = `INSERT INTO public.stamps`
	updateSQL = `UPDATE public.stamps`
	deleteSQL = `DELETE FROM public.stamps WHERE id = $1`
	lockSQL   = `SELECT pg_advisory_xact_lock(hashtext($1))`
	refsSQL   = `FROM public.stamps WHERE image = $1`
)

type recorder struct {
	ops map[string][]error
}

func (r *recorder) RecordMutation(op string, err error) {
	if r.ops == nil {
		r.ops = make(map[string][]error)
	}
	r.ops[op] = append(r.ops[op], err)
}

type fixture struct {
	sys    stamps.System
	mock   sqlmock.Sqlmock
	images images.System
	store  storage.System
	rec    *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.DiscardHandler)

	store, err := storage.NewFilesystem(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewFilesystem() error = %v", err)
	}
	if err := store.Start(lifecycle.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	imgs := images.New(db, store, storage.NamingContent, "/uploads", logger, nil)
	rec := &recorder{}
	sys := stamps.New(db, imgs, logger, pagination.Config{PageSize: 8}, rec)

	return &fixture{sys: sys, mock: mock, images: imgs, store: store, rec: rec}
}

func (f *fixture) verify(t *testing.T) {
	t.Helper()
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func (f *fixture) exists(t *testing.T, path string) bool {
	t.Helper()
	key, ok := f.images.Key(path)
	if !ok {
		t.Fatalf("Key(%q) not ok", path)
	}
	found, err := f.store.Validate(context.Background(), key)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return found
}

func (f *fixture) expectFind(image string) {
	f.mock.ExpectQuery(regexp.QuoteMeta(findSQL)).
		WithArgs(stampID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(stampID.String(), ownerID.String(), "Penny Black", "First adhesive stamp", 1840, "UK", image, createdAt))
}

func (f *fixture) expectLock(path string) {
	f.mock.ExpectExec(regexp.QuoteMeta(lockSQL)).WithArgs(path).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

// expectRefs expects one Release of path finding n references.
func (f *fixture) expectRefs(path string, n int) {
	f.mock.ExpectBegin()
	f.expectLock(path)
	f.mock.ExpectQuery(regexp.QuoteMeta(refsSQL)).WithArgs(path).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	f.mock.ExpectCommit()
}

func contentPath(data []byte, ext string) string {
	sum := sha256.Sum256(data)
	return "/uploads/" + hex.EncodeToString(sum[:]) + ext
}

func upload(t *testing.T, name string, data []byte) *images.Upload {
	t.Helper()
	up, err := images.NewUpload(name, data, 0)
	if err != nil {
		t.Fatalf("NewUpload() error = %v", err)
	}
	return up
}

func TestListByOwner_NoOwner(t *testing.T) {
	f := newFixture(t)

	for _, owner := range []string{"", "not-a-uuid"} {
		listing, err := f.sys.ListByOwner(context.Background(), owner, 1)
		if err != nil {
			t.Fatalf("ListByOwner(%q) error = %v", owner, err)
		}
		if listing.Stamps == nil || len(listing.Stamps) != 0 || listing.TotalPages != 0 {
			t.Errorf("ListByOwner(%q) = %+v, want empty listing", owner, listing)
		}
	}

	f.verify(t)
}

func TestListByOwner_Page(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))

	rows := sqlmock.NewRows(columns)
	for i := range 8 {
		rows.AddRow(uuid.NewString(), ownerID.String(), "Stamp", "", 1900+i, "UK", "", createdAt)
	}
	f.mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.owner = $1 ORDER BY s.created_at ASC, s.id ASC LIMIT 8 OFFSET 8`)).
		WithArgs(ownerID).
		WillReturnRows(rows)

	listing, err := f.sys.ListByOwner(context.Background(), ownerID.String(), 2)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}

	if len(listing.Stamps) != 8 {
		t.Errorf("len(Stamps) = %d, want 8", len(listing.Stamps))
	}
	if listing.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", listing.TotalPages)
	}
	if listing.Stamps[0].Owner != ownerID {
		t.Errorf("Owner = %s, want %s", listing.Stamps[0].Owner, ownerID)
	}

	f.verify(t)
}

func TestListByOwner_PageBeyondEnd(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		wantPages int
	}{
		{"past last page", 20, 4, 3},
		{"no records", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
				WithArgs(ownerID).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.total))

			listing, err := f.sys.ListByOwner(context.Background(), ownerID.String(), tt.page)
			if err != nil {
				t.Fatalf("ListByOwner() error = %v", err)
			}
			if len(listing.Stamps) != 0 || listing.TotalPages != tt.wantPages {
				t.Errorf("ListByOwner() = %d stamps / %d pages, want 0 / %d",
					len(listing.Stamps), listing.TotalPages, tt.wantPages)
			}

			f.verify(t)
		})
	}
}

func TestListByOwner_QueryError(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
		WillReturnError(errors.New("connection refused"))

	if _, err := f.sys.ListByOwner(context.Background(), ownerID.String(), 1); err == nil {
		t.Fatal("ListByOwner() error = nil, want error")
	}

	f.verify(t)
}

func TestCreate_MissingImage(t *testing.T) {
	f := newFixture(t)

	_, err := f.sys.Create(context.Background(), stamps.CreateCommand{
		Name:       "Penny Black",
		YearIssued: 1840,
		Owner:      ownerID,
	})
	if !errors.Is(err, images.ErrMissingImage) {
		t.Fatalf("Create() error = %v, want ErrMissingImage", err)
	}

	if errs := f.rec.ops["create"]; len(errs) != 1 || errs[0] == nil {
		t.Errorf("recorded create = %v, want one failure", errs)
	}

	f.verify(t)
}

func TestCreate_Validation(t *testing.T) {
	long := string(bytes.Repeat([]byte("a"), stamps.MaxDescriptionLength+1))

	tests := []struct {
		name    string
		ctx     context.Context
		cmd     stamps.CreateCommand
		wantErr error
	}{
		{
			name:    "empty name",
			ctx:     context.Background(),
			cmd:     stamps.CreateCommand{Name: " ", Owner: ownerID},
			wantErr: stamps.ErrInvalidName,
		},
		{
			name:    "description too long",
			ctx:     context.Background(),
			cmd:     stamps.CreateCommand{Name: "Penny Black", Description: long, Owner: ownerID},
			wantErr: stamps.ErrDescriptionTooLong,
		},
		{
			name:    "no owner",
			ctx:     context.Background(),
			cmd:     stamps.CreateCommand{Name: "Penny Black"},
			wantErr: stamps.ErrMissingOwner,
		},
		{
			name:    "owner differs from session",
			ctx:     auth.WithUser(context.Background(), otherID.String()),
			cmd:     stamps.CreateCommand{Name: "Penny Black", Owner: ownerID},
			wantErr: stamps.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.cmd.Image = upload(t, "penny.png", pngData)

			if _, err := f.sys.Create(tt.ctx, tt.cmd); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}

			f.verify(t)
		})
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	path := contentPath(pngData, ".png")
	ctx := auth.WithUser(context.Background(), ownerID.String())

	f.mock.ExpectBegin()
	f.expectLock(path)
	f.mock.ExpectQuery(insertSQL).
		WithArgs(sqlmock.AnyArg(), ownerID, "Penny Black", "", 1932, "UK", path).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(stampID.String(), ownerID.String(), "Penny Black", "", 1932, "UK", path, createdAt))
	f.mock.ExpectCommit()

	st, err := f.sys.Create(ctx, stamps.CreateCommand{
		Name:       "Penny Black",
		YearIssued: 1932,
		Country:    "UK",
		Image:      upload(t, "penny.png", pngData),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if st.ID != stampID || st.Image != path || st.YearIssued != 1932 {
		t.Errorf("Create() = %+v", st)
	}
	if !f.exists(t, path) {
		t.Error("image blob missing after create")
	}

	f.verify(t)
}

func TestCreate_InsertFailureReleasesImage(t *testing.T) {
	f := newFixture(t)
	path := contentPath(pngData, ".png")

	f.mock.ExpectBegin()
	f.expectLock(path)
	f.mock.ExpectQuery(insertSQL).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	f.mock.ExpectRollback()
	f.expectRefs(path, 0)

	_, err := f.sys.Create(context.Background(), stamps.CreateCommand{
		Name:       "Penny Black",
		YearIssued: 1840,
		Owner:      ownerID,
		Image:      upload(t, "penny.png", pngData),
	})
	if !errors.Is(err, stamps.ErrInvalidOwner) {
		t.Fatalf("Create() error = %v, want ErrInvalidOwner", err)
	}

	if f.exists(t, path) {
		t.Error("image blob kept after failed insert")
	}

	f.verify(t)
}

func TestUpdate_KeepsImageWithoutUpload(t *testing.T) {
	f := newFixture(t)
	image := "/uploads/original.png"

	f.expectFind(image)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(updateSQL).
		WithArgs("Penny Black", "Renamed", 1841, "UK", image, stampID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(stampID.String(), ownerID.String(), "Penny Black", "Renamed", 1841, "UK", image, createdAt))
	f.mock.ExpectCommit()

	desc := "Renamed"
	year := stamps.FlexInt(1841)
	st, err := f.sys.Update(context.Background(), stampID, stamps.UpdateCommand{
		Description: &desc,
		YearIssued:  &year,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if st.Image != image {
		t.Errorf("Image = %q, want %q", st.Image, image)
	}

	f.verify(t)
}

func TestUpdate_ReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	oldPath := "/uploads/old.gif"
	if err := f.store.Store(ctx, "old.gif", gifData); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	newPath := contentPath(pngData, ".png")

	f.expectFind(oldPath)
	f.mock.ExpectBegin()
	f.expectLock(newPath)
	f.mock.ExpectQuery(updateSQL).
		WithArgs("Penny Black", "First adhesive stamp", 1840, "UK", newPath, stampID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(stampID.String(), ownerID.String(), "Penny Black", "First adhesive stamp", 1840, "UK", newPath, createdAt))
	f.mock.ExpectCommit()
	f.expectRefs(oldPath, 0)

	st, err := f.sys.Update(ctx, stampID, stamps.UpdateCommand{
		Upload: upload(t, "new.png", pngData),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if st.Image != newPath {
		t.Errorf("Image = %q, want %q", st.Image, newPath)
	}
	if !f.exists(t, newPath) {
		t.Error("new blob missing")
	}
	if f.exists(t, oldPath) {
		t.Error("replaced blob still stored")
	}

	f.verify(t)
}

func TestUpdate_ClaimsExistingImagePath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	oldPath := "/uploads/old.gif"
	newPath := "/uploads/shared.png"
	if err := f.store.Store(ctx, "shared.png", pngData); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	f.expectFind(oldPath)
	f.mock.ExpectBegin()
	f.expectLock(newPath)
	f.mock.ExpectQuery(updateSQL).
		WithArgs("Penny Black", "First adhesive stamp", 1840, "UK", newPath, stampID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(stampID.String(), ownerID.String(), "Penny Black", "First adhesive stamp", 1840, "UK", newPath, createdAt))
	f.mock.ExpectCommit()
	f.expectRefs(oldPath, 0)

	st, err := f.sys.Update(ctx, stampID, stamps.UpdateCommand{Image: &newPath})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if st.Image != newPath {
		t.Errorf("Image = %q, want %q", st.Image, newPath)
	}

	f.verify(t)
}

func TestUpdate_RejectsReleasedImagePath(t *testing.T) {
	f := newFixture(t)

	released := "/uploads/released.png"

	f.expectFind("/uploads/a.png")
	f.mock.ExpectBegin()
	f.expectLock(released)
	f.mock.ExpectRollback()

	_, err := f.sys.Update(context.Background(), stampID, stamps.UpdateCommand{Image: &released})
	if !errors.Is(err, stamps.ErrInvalidImagePath) {
		t.Fatalf("Update() error = %v, want ErrInvalidImagePath", err)
	}

	f.verify(t)
}

func TestUpdate_Forbidden(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithUser(context.Background(), otherID.String())

	f.expectFind("")

	name := "Stolen"
	if _, err := f.sys.Update(ctx, stampID, stamps.UpdateCommand{Name: &name}); !errors.Is(err, stamps.ErrForbidden) {
		t.Fatalf("Update() error = %v, want ErrForbidden", err)
	}

	f.verify(t)
}

func TestUpdate_RejectsForeignImagePath(t *testing.T) {
	f := newFixture(t)

	f.expectFind("/uploads/a.png")

	path := "https://elsewhere.example/b.png"
	if _, err := f.sys.Update(context.Background(), stampID, stamps.UpdateCommand{Image: &path}); !errors.Is(err, stamps.ErrInvalidImagePath) {
		t.Fatalf("Update() error = %v, want ErrInvalidImagePath", err)
	}

	f.verify(t)
}

func TestDelete_Missing(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(regexp.QuoteMeta(findSQL)).
		WithArgs(stampID).
		WillReturnError(sql.ErrNoRows)

	if err := f.sys.Delete(context.Background(), stampID); !errors.Is(err, stamps.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}

	f.verify(t)
}

func TestDelete_ReleasesImage(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithUser(context.Background(), ownerID.String())

	path := "/uploads/penny.png"
	if err := f.store.Store(ctx, "penny.png", pngData); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	f.expectFind(path)
	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(stampID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.expectRefs(path, 0)

	if err := f.sys.Delete(ctx, stampID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if f.exists(t, path) {
		t.Error("blob kept after delete")
	}
	if errs := f.rec.ops["delete"]; len(errs) != 1 || errs[0] != nil {
		t.Errorf("recorded delete = %v, want one success", errs)
	}

	f.verify(t)
}

func TestDelete_SharedImageKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	path := "/uploads/shared.png"
	if err := f.store.Store(ctx, "shared.png", pngData); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	f.expectFind(path)
	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(stampID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.expectRefs(path, 1)

	if err := f.sys.Delete(ctx, stampID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if !f.exists(t, path) {
		t.Error("shared blob deleted while still referenced")
	}

	f.verify(t)
}
