package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

const collectionBooks = "books"

// BookRepository implements ports.BookRepository using MongoDB.
type BookRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks), now: time.Now}
}

type bookDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ISBN        string             `bson:"isbn"`
	Title       string             `bson:"title"`
	Publisher   string             `bson:"publisher"`
	Author      string             `bson:"author"`
	Image       string             `bson:"image,omitempty"`
	Language    string             `bson:"language,omitempty"`
	Category    string             `bson:"category,omitempty"`
	SearchTag   string             `bson:"search_tag,omitempty"`
	Pages       string             `bson:"no_page,omitempty"`
	Edition     string             `bson:"edition,omitempty"`
	Stock       int                `bson:"stock"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	Seller      string             `bson:"seller"`
	Deleted     bool               `bson:"is_del"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func toBookDoc(b *domain.Book) bookDoc {
	return bookDoc{
		ISBN:        b.ISBN,
		Title:       b.Title,
		Publisher:   b.Publisher,
		Author:      b.Author,
		Image:       b.Image,
		Language:    b.Language,
		Category:    b.Category,
		SearchTag:   b.SearchTag,
		Pages:       b.Pages,
		Edition:     b.Edition,
		Stock:       b.Stock,
		Description: b.Description,
		Price:       b.Price,
		Seller:      b.Seller,
		Deleted:     b.Deleted,
		CreatedAt:   b.CreatedAt.Unix(),
		UpdatedAt:   b.UpdatedAt.Unix(),
	}
}

func (d bookDoc) toDomain() *domain.Book {
	return &domain.Book{
		ID:          d.ID.Hex(),
		ISBN:        d.ISBN,
		Title:       d.Title,
		Publisher:   d.Publisher,
		Author:      d.Author,
		Image:       d.Image,
		Language:    d.Language,
		Category:    d.Category,
		SearchTag:   d.SearchTag,
		Pages:       d.Pages,
		Edition:     d.Edition,
		Stock:       d.Stock,
		Description: d.Description,
		Price:       d.Price,
		Seller:      d.Seller,
		Deleted:     d.Deleted,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

// liveFilter matches a single non-deleted book owned by seller.
func liveFilter(id primitive.ObjectID, seller string) bson.M {
	return bson.M{"_id": id, "seller": seller, "is_del": false}
}

// listFilter translates a ports.BookFilter. Soft-deleted books never match.
func listFilter(f ports.BookFilter) bson.M {
	filter := bson.M{"is_del": false}
	if f.Seller != "" {
		filter["seller"] = f.Seller
	}
	return filter
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toBookDoc(b)
	doc.ID = primitive.NewObjectID()
	doc.Deleted = false

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces a live book. The seller recorded on b scopes the write.
func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toBookDoc(b)
	doc.ID = oid

	res, err := r.col.ReplaceOne(ctx, liveFilter(oid, b.Seller), doc)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) SoftDelete(ctx context.Context, id, seller string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_del": true, "updated_at": r.now().UTC().Unix()}}
	res, err := r.col.UpdateOne(ctx, liveFilter(oid, seller), update)
	if err != nil {
		return fmt.Errorf("soft delete book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// IncrementStock applies $inc in a single round trip. The filter also requires
// stock >= -delta so concurrent decrements can never push stock below zero.
func (r *BookRepository) IncrementStock(ctx context.Context, id, seller string, delta int) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := liveFilter(oid, seller)
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": r.now().UTC().Unix()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !isNoDocuments(err) {
		return nil, fmt.Errorf("increment stock: %w", err)
	}

	// Nothing matched: either the book is gone or the stock guard failed.
	n, cerr := r.col.CountDocuments(ctx, liveFilter(oid, seller))
	if cerr != nil {
		return nil, fmt.Errorf("increment stock: %w", cerr)
	}
	if n == 0 {
		return nil, domain.ErrBookNotFound
	}
	return nil, domain.NewValidationError("stock", "stock cannot go below zero")
}

func (r *BookRepository) List(ctx context.Context, f ports.BookFilter) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	books := make([]*domain.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toDomain())
	}
	return books, nil
}

func (r *BookRepository) Count(ctx context.Context, f ports.BookFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, listFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates indexes on the books collection.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "is_del", Value: 1}}},
		{Keys: bson.D{{Key: "is_del", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
