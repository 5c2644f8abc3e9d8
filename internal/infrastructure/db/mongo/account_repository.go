package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

const collectionAccounts = "users"

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(collectionAccounts)}
}

type storeDoc struct {
	OutletName          string  `bson:"outletname,omitempty"`
	Pin                 string  `bson:"pin,omitempty"`
	LegalEntity         string  `bson:"legal_entity,omitempty"`
	Owner               string  `bson:"owner,omitempty"`
	CardNumber          string  `bson:"cc_number,omitempty"`
	ContactName         string  `bson:"contact_name,omitempty"`
	OutletAddress       string  `bson:"outlet_add,omitempty"`
	GST                 string  `bson:"gst,omitempty"`
	DeliveryRadius      string  `bson:"delevery_radius,omitempty"`
	BillingAmountAnyDel float64 `bson:"billing_amount_anydel,omitempty"`
	MinAmount           float64 `bson:"min_amount,omitempty"`
	RegisteredAddress   string  `bson:"reg_add,omitempty"`
}

type accountDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	Phone          string             `bson:"phone"`
	PasswordHash   string             `bson:"password_hash"`
	Zip            string             `bson:"zip,omitempty"`
	ProfilePicture string             `bson:"profile_picture,omitempty"`
	Role           string             `bson:"role"`
	Store          storeDoc           `bson:"store"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	s := a.Store
	return accountDoc{
		Name:           a.Name,
		Email:          a.Email,
		Phone:          a.Phone,
		PasswordHash:   a.PasswordHash,
		Zip:            a.Zip,
		ProfilePicture: a.ProfilePicture,
		Role:           a.Role.String(),
		Store: storeDoc{
			OutletName:          s.OutletName,
			Pin:                 s.Pin,
			LegalEntity:         s.LegalEntity,
			Owner:               s.Owner,
			CardNumber:          s.CardNumber,
			ContactName:         s.ContactName,
			OutletAddress:       s.OutletAddress,
			GST:                 s.GST,
			DeliveryRadius:      s.DeliveryRadius,
			BillingAmountAnyDel: s.BillingAmountAnyDel,
			MinAmount:           s.MinAmount,
			RegisteredAddress:   s.RegisteredAddress,
		},
		CreatedAt: a.CreatedAt.Unix(),
		UpdatedAt: a.UpdatedAt.Unix(),
	}
}

func (d accountDoc) toDomain() (*domain.Account, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", d.ID.Hex(), err)
	}
	s := d.Store
	return &domain.Account{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		PasswordHash:   d.PasswordHash,
		Zip:            d.Zip,
		ProfilePicture: d.ProfilePicture,
		Role:           role,
		Store: domain.StoreInfo{
			OutletName:          s.OutletName,
			Pin:                 s.Pin,
			LegalEntity:         s.LegalEntity,
			Owner:               s.Owner,
			CardNumber:          s.CardNumber,
			ContactName:         s.ContactName,
			OutletAddress:       s.OutletAddress,
			GST:                 s.GST,
			DeliveryRadius:      s.DeliveryRadius,
			BillingAmountAnyDel: s.BillingAmountAnyDel,
			MinAmount:           s.MinAmount,
			RegisteredAddress:   s.RegisteredAddress,
		},
		CreatedAt: unixToTime(d.CreatedAt),
		UpdatedAt: unixToTime(d.UpdatedAt),
	}, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAccountDoc(account)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain()
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	oid, err := primitive.ObjectIDFromHex(account.ID)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAccountDoc(account)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
