package records

import (
	"context"
	"sort"

	"github.com/cvfolio/cvfolio/pkg/document"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

const DocumentsCollection = "documents"

// DocumentRepository implements document.Repository over the "documents" collection.
type DocumentRepository struct {
	store *recordstore.Store
}

func NewDocumentRepository(store *recordstore.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(ctx context.Context, d document.Document) (document.Document, error) {
	rec, err := recordstore.Encode(d)
	if err != nil {
		return document.Document{}, err
	}
	delete(rec, "id")
	stored, err := r.store.Add(ctx, DocumentsCollection, rec)
	if err != nil {
		return document.Document{}, err
	}
	return decodeDocument(stored)
}

func (r *DocumentRepository) Get(ctx context.Context, id int) (document.Document, error) {
	rec, err := r.store.FindByID(ctx, DocumentsCollection, id)
	if err != nil {
		return document.Document{}, err
	}
	return decodeDocument(rec)
}

// List returns documents newest first.
func (r *DocumentRepository) List(ctx context.Context) ([]document.Document, error) {
	all, err := r.store.FindAll(ctx, DocumentsCollection)
	if err != nil {
		return nil, err
	}
	docs, err := recordstore.DecodeAll[document.Document](all)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID > docs[j].ID })
	return docs, nil
}

func (r *DocumentRepository) Latest(ctx context.Context) (document.Document, error) {
	docs, err := r.List(ctx)
	if err != nil {
		return document.Document{}, err
	}
	if len(docs) == 0 {
		return document.Document{}, document.ErrNotFound
	}
	return docs[0], nil
}

func (r *DocumentRepository) SetProfile(ctx context.Context, id int, p document.ProfileRecord) error {
	rec, err := r.store.Update(ctx, DocumentsCollection, id, recordstore.Record{"profile": p})
	if err != nil {
		return err
	}
	if rec == nil {
		return document.ErrNotFound
	}
	return nil
}

func decodeDocument(rec recordstore.Record) (document.Document, error) {
	if rec == nil {
		return document.Document{}, document.ErrNotFound
	}
	var d document.Document
	if err := recordstore.Decode(rec, &d); err != nil {
		return document.Document{}, err
	}
	return d, nil
}
