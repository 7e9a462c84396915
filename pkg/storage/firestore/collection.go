package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
)

type ToFirestoreFunc[T any] func(*T) map[string]interface{}
type FromFirestoreFunc[T any] func(map[string]interface{}) *T

type Collection[T any] struct {
	Ref           *firestore.CollectionRef
	ToFirestore   ToFirestoreFunc[T]
	FromFirestore FromFirestoreFunc[T]
}

func (c *Collection[T]) Doc(id string) *DocumentRef[T] {
	return &DocumentRef[T]{
		Ref:           c.Ref.Doc(id),
		ToFirestore:   c.ToFirestore,
		FromFirestore: c.FromFirestore,
	}
}

// Where narrows the collection to documents matching a single filter.
func (c *Collection[T]) Where(path, op string, value interface{}) *Query[T] {
	return &Query[T]{
		Query:         c.Ref.Where(path, op, value),
		FromFirestore: c.FromFirestore,
	}
}

// All selects every document of the collection.
func (c *Collection[T]) All() *Query[T] {
	return &Query[T]{
		Query:         c.Ref.Query,
		FromFirestore: c.FromFirestore,
	}
}

type DocumentRef[T any] struct {
	Ref           *firestore.DocumentRef
	ToFirestore   ToFirestoreFunc[T]
	FromFirestore FromFirestoreFunc[T]
}

func (d *DocumentRef[T]) ID() string {
	return d.Ref.ID
}

func (d *DocumentRef[T]) Get(ctx context.Context) (*T, error) {
	snap, err := d.Ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	return d.FromFirestore(snap.Data()), nil
}

func (d *DocumentRef[T]) Set(ctx context.Context, data *T) error {
	m := d.ToFirestore(data)
	_, err := d.Ref.Set(ctx, m, firestore.MergeAll)
	return err
}

// Update merges a partial map. Keys are the stored snake_case field names;
// the converter is not applied.
func (d *DocumentRef[T]) Update(ctx context.Context, updates map[string]interface{}) error {
	_, err := d.Ref.Set(ctx, updates, firestore.MergeAll)
	return err
}

// Document pairs a decoded document with its ID.
type Document[T any] struct {
	ID   string
	Data *T
}

type Query[T any] struct {
	Query         firestore.Query
	FromFirestore FromFirestoreFunc[T]
}

func (q *Query[T]) GetAll(ctx context.Context) ([]Document[T], error) {
	snaps, err := q.Query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document[T], 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document[T]{ID: snap.Ref.ID, Data: q.FromFirestore(snap.Data())})
	}
	return docs, nil
}
