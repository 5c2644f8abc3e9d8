package domain

import (
	"strings"
	"time"
)

// Book is a catalog entry owned by exactly one seller.
type Book struct {
	ID          string    `json:"id"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Author      string    `json:"author"`
	Image       string    `json:"image,omitempty"`
	Language    string    `json:"language,omitempty"`
	Category    string    `json:"category,omitempty"`
	SearchTag   string    `json:"search_tag,omitempty"`
	Pages       string    `json:"no_page,omitempty"`
	Edition     string    `json:"edition,omitempty"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Seller      string    `json:"seller"`
	Deleted     bool      `json:"is_del"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether accountID is the recorded seller of the book.
func (b *Book) OwnedBy(accountID string) bool {
	return accountID != "" && b.Seller == accountID
}

// BookPatch is a partial book update. Nil fields keep the stored value.
type BookPatch struct {
	ISBN        *string
	Title       *string
	Publisher   *string
	Author      *string
	Language    *string
	Category    *string
	SearchTag   *string
	Pages       *string
	Edition     *string
	Stock       *int
	Description *string
	Price       *float64
}

// Validate rejects fields that are present but would break a required attribute.
func (p BookPatch) Validate() error {
	verr := &ValidationError{}
	for field, v := range map[string]*string{
		"isbn":      p.ISBN,
		"title":     p.Title,
		"publisher": p.Publisher,
		"author":    p.Author,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			verr.Add(field, field+" cannot be empty")
		}
	}
	if p.Price != nil && *p.Price <= 0 {
		verr.Add("price", "price must be greater than 0")
	}
	if p.Stock != nil && *p.Stock < 0 {
		verr.Add("stock", "stock cannot be negative")
	}
	return verr.OrNil()
}

// Apply merges the patch into b.
func (p BookPatch) Apply(b *Book) {
	setString(&b.ISBN, p.ISBN)
	setString(&b.Title, p.Title)
	setString(&b.Publisher, p.Publisher)
	setString(&b.Author, p.Author)
	setString(&b.Language, p.Language)
	setString(&b.Category, p.Category)
	setString(&b.SearchTag, p.SearchTag)
	setString(&b.Pages, p.Pages)
	setString(&b.Edition, p.Edition)
	if p.Stock != nil {
		b.Stock = *p.Stock
	}
	setString(&b.Description, p.Description)
	if p.Price != nil {
		b.Price = *p.Price
	}
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p == BookPatch{}
}
