package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/api/metrics"
	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// BookHandler serves the /book endpoints.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

var bookKeys = []string{
	"isbn", "title", "publisher", "author", "language", "category",
	"search_tag", "no_page", "edition", "stock", "description", "price",
}

// AddBook lists a new book for the calling seller.
//
// @Summary      Add a book
// @Tags         book
// @Accept       json,multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        book_image  formData  file  false  "Cover image"
// @Success      201  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /book/addbook [post]
func (h *BookHandler) AddBook(c echo.Context) error {
	seller, err := requesterID(c)
	if err != nil {
		return err
	}
	fields, err := readFields(c, bookKeys...)
	if err != nil {
		return err
	}

	verr := &domain.ValidationError{}
	in := ports.CreateBookInput{
		ISBN:        fields.text("isbn"),
		Title:       fields.text("title"),
		Publisher:   fields.text("publisher"),
		Author:      fields.text("author"),
		Language:    fields.text("language"),
		Category:    fields.text("category"),
		SearchTag:   fields.text("search_tag"),
		Pages:       fields.text("no_page"),
		Edition:     fields.text("edition"),
		Description: fields.text("description"),
	}
	if stock := fields.integer("stock", verr); stock != nil {
		in.Stock = *stock
	}
	if price := fields.number("price", verr); price != nil {
		in.Price = *price
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	img, closeImg, err := readImage(c, "book_image")
	if err != nil {
		return err
	}
	defer closeImg()

	book, err := h.service.Create(c.Request().Context(), seller, in, img)
	if err != nil {
		countUpload(img, err)
		return err
	}
	countUpload(img, nil)
	metrics.BookMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, "book added", book)
}

// EditBook applies a partial update to a book the caller owns.
//
// @Summary      Edit a book
// @Tags         book
// @Accept       json,multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true   "Book ID"
// @Param        book_image  formData  file    false  "Replacement cover image"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /book/editbook/{id} [put]
func (h *BookHandler) EditBook(c echo.Context) error {
	seller, err := requesterID(c)
	if err != nil {
		return err
	}
	fields, err := readFields(c, bookKeys...)
	if err != nil {
		return err
	}

	verr := &domain.ValidationError{}
	patch := domain.BookPatch{
		ISBN:        fields.str("isbn"),
		Title:       fields.str("title"),
		Publisher:   fields.str("publisher"),
		Author:      fields.str("author"),
		Language:    fields.str("language"),
		Category:    fields.str("category"),
		SearchTag:   fields.str("search_tag"),
		Pages:       fields.str("no_page"),
		Edition:     fields.str("edition"),
		Stock:       fields.integer("stock", verr),
		Description: fields.str("description"),
		Price:       fields.number("price", verr),
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	img, closeImg, err := readImage(c, "book_image")
	if err != nil {
		return err
	}
	defer closeImg()

	book, err := h.service.Edit(c.Request().Context(), seller, c.Param("id"), patch, img)
	if err != nil {
		countDenied(err)
		countUpload(img, err)
		return err
	}
	countUpload(img, nil)
	metrics.BookMutationsTotal.WithLabelValues("edit").Inc()
	return respond(c, http.StatusOK, "book updated", book)
}

// DeleteBook soft-deletes a book the caller owns.
//
// @Summary      Delete a book
// @Tags         book
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Book ID"
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /book/deletebook/{id} [delete]
func (h *BookHandler) DeleteBook(c echo.Context) error {
	seller, err := requesterID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), seller, c.Param("id")); err != nil {
		countDenied(err)
		return err
	}
	metrics.BookMutationsTotal.WithLabelValues("delete").Inc()
	return respond(c, http.StatusOK, "book deleted", nil)
}

// AddStock adjusts the stock of a book the caller owns by a non-zero delta.
//
// @Summary      Add stock
// @Tags         book
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Book ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /book/addstock/{id} [put]
func (h *BookHandler) AddStock(c echo.Context) error {
	seller, err := requesterID(c)
	if err != nil {
		return err
	}
	fields, err := readFields(c, "stock")
	if err != nil {
		return err
	}

	verr := &domain.ValidationError{}
	delta := fields.integer("stock", verr)
	if err := verr.OrNil(); err != nil {
		return err
	}
	if delta == nil {
		return domain.NewValidationError("stock", "stock is required")
	}

	book, err := h.service.AddStock(c.Request().Context(), seller, c.Param("id"), *delta)
	if err != nil {
		countDenied(err)
		return err
	}
	metrics.BookMutationsTotal.WithLabelValues("add_stock").Inc()
	return respond(c, http.StatusOK, "stock updated", book)
}

// MyBooks lists the caller's live books.
//
// @Summary      List own books
// @Tags         book
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]any
// @Router       /book/mybooks [get]
func (h *BookHandler) MyBooks(c echo.Context) error {
	seller, err := requesterID(c)
	if err != nil {
		return err
	}
	books, err := h.service.ListBySeller(c.Request().Context(), seller)
	if err != nil {
		return err
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return respond(c, http.StatusOK, "books", books)
}

// AllBooks lists every live book in the catalog.
//
// @Summary      List all books
// @Tags         book
// @Produce      json
// @Success      200  {object}  bookListResponse
// @Router       /book/books [get]
func (h *BookHandler) AllBooks(c echo.Context) error {
	list, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookListResponse{
		Success:    true,
		Message:    "books",
		TotalBooks: list.Total,
		Data:       list.Books,
	})
}

func countDenied(err error) {
	if errors.Is(err, domain.ErrForbidden) {
		metrics.AccessDeniedTotal.WithLabelValues("ownership").Inc()
	}
}

func countUpload(img *domain.ImageUpload, err error) {
	if img == nil {
		return
	}
	switch {
	case err == nil:
		metrics.ImageUploadsTotal.WithLabelValues("book_image", "ok").Inc()
	case errors.Is(err, domain.ErrUploadRejected):
		metrics.ImageUploadsTotal.WithLabelValues("book_image", "rejected").Inc()
	}
}
