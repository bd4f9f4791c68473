package document

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

type DocumentDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   []byte    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at" example:"2025-07-27T16:05:05Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-07-27T16:05:05Z"`
}

var (
	ErrDocumentNotFound = errors.New("document not found")
)

// IDocumentService is the durable-store boundary: the sync engine only ever
// calls SaveContent and treats content as an opaque payload.
type IDocumentService interface {
	CreateDocument(ctx context.Context, title, createdBy string) (*DocumentDTO, error)
	GetDocument(ctx context.Context, id string) (*DocumentDTO, error)
	ListDocuments(ctx context.Context, createdBy string, limit, offset int) ([]DocumentDTO, error)
	SaveContent(ctx context.Context, id string, delta []byte) error
}

type documentService struct {
	db *sql.DB
}

func NewDocumentService(db *sql.DB) IDocumentService {
	return &documentService{db: db}
}

func (svc *documentService) CreateDocument(ctx context.Context, title, createdBy string) (*DocumentDTO, error) {
	dto := &DocumentDTO{
		ID:        ulid.Make().String(),
		Title:     title,
		Content:   []byte{},
		CreatedBy: createdBy,
	}

	const q = `
	  INSERT INTO documents (id, title, content, created_by)
	       VALUES ($1, $2, $3, $4)
	    RETURNING created_at, updated_at`
	err := svc.db.QueryRowContext(ctx, q,
		dto.ID, dto.Title, dto.Content, dto.CreatedBy,
	).Scan(&dto.CreatedAt, &dto.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (svc *documentService) GetDocument(ctx context.Context, id string) (*DocumentDTO, error) {
	const q = `SELECT id, title, content, created_by, created_at, updated_at
	             FROM documents WHERE id = $1`
	row := svc.db.QueryRowContext(ctx, q, id)
	dto := &DocumentDTO{}
	if err := row.Scan(&dto.ID, &dto.Title, &dto.Content,
		&dto.CreatedBy, &dto.CreatedAt, &dto.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return dto, nil
}

func (svc *documentService) ListDocuments(ctx context.Context, createdBy string,
	limit, offset int) ([]DocumentDTO, error) {

	if limit == 0 {
		limit = 10
	}
	const q = `SELECT id, title, created_by, created_at, updated_at
	             FROM documents
	            WHERE created_by = $1
	         ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := svc.db.QueryContext(ctx, q, createdBy, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]DocumentDTO, 0, limit)
	for rows.Next() {
		var d DocumentDTO
		if err := rows.Scan(&d.ID, &d.Title, &d.CreatedBy,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SaveContent replaces the stored content of an existing document with the
// given delta. Saving to an unknown id returns ErrDocumentNotFound and leaves
// the store untouched.
func (svc *documentService) SaveContent(ctx context.Context, id string, delta []byte) error {
	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var found string
	err = tx.QueryRowContext(ctx, `SELECT id FROM documents WHERE id = $1`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}

	const upd = `UPDATE documents SET content = $2, updated_at = now() WHERE id = $1`
	if _, err = tx.ExecContext(ctx, upd, id, delta); err != nil {
		return err
	}
	return tx.Commit()
}
