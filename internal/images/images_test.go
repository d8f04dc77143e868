package images_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/pkg/lifecycle"
	"github.com/JaimeStill/philatopia/pkg/storage"
)

// pngData is a PNG signature followed by padding; enough for sniffing.
var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type recorder struct {
	ops []string
}

func (r *recorder) RecordBlob(op string, err error) {
	r.ops = append(r.ops, op)
}

const (
	lockSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`
	refsSQL = `FROM public.stamps WHERE image = $1`
)

type fixture struct {
	sys   images.System
	store storage.System
	db    *sql.DB
	mock  sqlmock.Sqlmock
	rec   *recorder
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

	rec := &recorder{}
	return &fixture{
		sys:   images.New(db, store, storage.NamingContent, "/uploads", logger, rec),
		store: store,
		db:    db,
		mock:  mock,
		rec:   rec,
	}
}

func (f *fixture) verify(t *testing.T) {
	t.Helper()
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func (f *fixture) expectLock(path string) {
	f.mock.ExpectExec(regexp.QuoteMeta(lockSQL)).WithArgs(path).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func (f *fixture) expectRelease(path string, refs int) {
	f.mock.ExpectBegin()
	f.expectLock(path)
	f.mock.ExpectQuery(regexp.QuoteMeta(refsSQL)).WithArgs(path).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(refs))
	f.mock.ExpectCommit()
}

func (f *fixture) exists(t *testing.T, path string) bool {
	t.Helper()
	key, ok := f.sys.Key(path)
	if !ok {
		t.Fatalf("Key(%q) not ok", path)
	}
	found, err := f.store.Validate(context.Background(), key)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return found
}

// save stores up inside its own committed transaction.
func (f *fixture) save(t *testing.T, up *images.Upload) string {
	t.Helper()
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta(lockSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectCommit()

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() error = %v", err)
	}
	path, err := f.sys.Save(ctx, tx, up)
	if err != nil {
		tx.Rollback()
		t.Fatalf("Save() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	return path
}

func TestNewUpload(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		max     int64
		wantErr error
	}{
		{"png", pngData, 1024, nil},
		{"empty", nil, 1024, images.ErrMissingImage},
		{"text", []byte("hello, world"), 1024, images.ErrInvalidImage},
		{"too large", pngData, 8, images.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, err := images.NewUpload("stamp.png", tt.data, tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewUpload() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && up.ContentType != "image/png" {
				t.Errorf("ContentType = %q, want image/png", up.ContentType)
			}
		})
	}
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("name", "Penny Black")
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		fw.Write(data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/stamps", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm() error = %v", err)
	}
	return req
}

func TestFromForm(t *testing.T) {
	req := multipartRequest(t, "image", "penny.png", pngData)
	up, err := images.FromForm(req, "image", 1<<20)
	if err != nil {
		t.Fatalf("FromForm() error = %v", err)
	}
	if up.Filename != "penny.png" || !bytes.Equal(up.Data, pngData) {
		t.Errorf("FromForm() = %+v", up)
	}

	req = multipartRequest(t, "", "", nil)
	if _, err := images.FromForm(req, "image", 1<<20); !errors.Is(err, images.ErrMissingImage) {
		t.Errorf("FromForm(missing) error = %v, want ErrMissingImage", err)
	}
	if up, err := images.OptionalFromForm(req, "image", 1<<20); err != nil || up != nil {
		t.Errorf("OptionalFromForm(missing) = %v, %v, want nil, nil", up, err)
	}
}

func TestSystem_SaveAndKey(t *testing.T) {
	f := newFixture(t)

	up, _ := images.NewUpload("Penny.PNG", pngData, 0)
	path := f.save(t, up)

	if !regexp.MustCompile(`^/uploads/[0-9a-f]{64}\.png$`).MatchString(path) {
		t.Errorf("Save() path = %q", path)
	}
	if !f.exists(t, path) {
		t.Error("blob not stored")
	}

	if again := f.save(t, up); again != path {
		t.Errorf("identical upload path = %q, want %q", again, path)
	}

	if len(f.rec.ops) != 2 || f.rec.ops[0] != "store" {
		t.Errorf("recorded ops = %v", f.rec.ops)
	}

	if _, ok := f.sys.Key("https://elsewhere/x.png"); ok {
		t.Error("Key() accepted foreign path")
	}

	f.verify(t)
}

func TestSystem_SaveLocksBeforeStoring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	up, _ := images.NewUpload("penny.png", pngData, 0)

	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta(lockSQL)).WillReturnError(errors.New("lock timeout"))
	f.mock.ExpectRollback()

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() error = %v", err)
	}
	if _, err := f.sys.Save(ctx, tx, up); err == nil {
		t.Fatal("Save() error = nil, want lock failure")
	}
	tx.Rollback()

	if len(f.rec.ops) != 0 {
		t.Errorf("blob written without the path lock: ops = %v", f.rec.ops)
	}

	f.verify(t)
}

func TestSystem_Claim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	up, _ := images.NewUpload("penny.png", pngData, 0)
	path := f.save(t, up)

	f.mock.ExpectBegin()
	f.expectLock(path)
	f.expectLock("/uploads/missing.png")
	f.mock.ExpectRollback()

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() error = %v", err)
	}
	defer tx.Rollback()

	if err := f.sys.Claim(ctx, tx, path); err != nil {
		t.Errorf("Claim(stored) error = %v", err)
	}
	if err := f.sys.Claim(ctx, tx, "/uploads/missing.png"); !errors.Is(err, images.ErrNotFound) {
		t.Errorf("Claim(missing) error = %v, want ErrNotFound", err)
	}
	if err := f.sys.Claim(ctx, tx, "https://elsewhere/x.png"); !errors.Is(err, images.ErrNotFound) {
		t.Errorf("Claim(foreign) error = %v, want ErrNotFound", err)
	}
}

func TestSystem_Release(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	up, _ := images.NewUpload("penny.png", pngData, 0)
	path := f.save(t, up)

	f.expectRelease(path, 1)
	if err := f.sys.Release(ctx, path); err != nil {
		t.Fatalf("Release(referenced) error = %v", err)
	}
	if !f.exists(t, path) {
		t.Fatal("referenced blob was deleted")
	}

	f.expectRelease(path, 0)
	if err := f.sys.Release(ctx, path); err != nil {
		t.Fatalf("Release(unreferenced) error = %v", err)
	}
	if f.exists(t, path) {
		t.Error("unreferenced blob was kept")
	}

	if err := f.sys.Release(ctx, ""); err != nil {
		t.Errorf("Release(\"\") error = %v", err)
	}

	f.verify(t)
}

func TestSystem_ReleaseThenSaveRestoresBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	up, _ := images.NewUpload("penny.png", pngData, 0)
	path := f.save(t, up)

	f.expectRelease(path, 0)
	if err := f.sys.Release(ctx, path); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if again := f.save(t, up); again != path {
		t.Fatalf("Save() path = %q, want %q", again, path)
	}
	if !f.exists(t, path) {
		t.Error("blob missing after a save that followed a release")
	}

	f.verify(t)
}

func TestHandler_Serve(t *testing.T) {
	f := newFixture(t)

	up, _ := images.NewUpload("penny.png", pngData, 0)
	path := f.save(t, up)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /uploads/{key...}", f.sys.Handler().Serve)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), pngData) {
		t.Error("body does not match stored blob")
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
}
