package document

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSvc(t *testing.T) (IDocumentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentService(db), mock
}

func TestCreateDocument(t *testing.T) {
	svc, mock := newMockSvc(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(sqlmock.AnyArg(), "Notes", []byte{}, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	dto, err := svc.CreateDocument(context.Background(), "Notes", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "Notes", dto.Title)
	assert.Equal(t, "user-1", dto.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocumentNotFound(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, created_by")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_by", "created_at", "updated_at"}))

	_, err := svc.GetDocument(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveContentReplacesExistingDocument(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM documents WHERE id = $1")).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET content = $2, updated_at = now() WHERE id = $1")).
		WithArgs("doc-1", []byte(`{"ops":[]}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.SaveContent(context.Background(), "doc-1", []byte(`{"ops":[]}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveContentUnknownIDLeavesStoreUntouched(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM documents WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.SaveContent(context.Background(), "ghost", []byte("delta"))
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDocuments(t *testing.T) {
	svc, mock := newMockSvc(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "created_by", "created_at", "updated_at"}).
		AddRow("doc-1", "A", "user-1", now, now).
		AddRow("doc-2", "B", "user-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, created_by")).
		WithArgs("user-1", 10, 0).
		WillReturnRows(rows)

	out, err := svc.ListDocuments(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "doc-1", out[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
